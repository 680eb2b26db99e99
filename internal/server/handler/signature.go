package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// signaturePrefix is the algorithm tag GitHub prepends to the hex digest in
// the X-Hub-Signature-256 header.
const signaturePrefix = "sha256="

// VerifySignature checks an inbound webhook payload against its signature
// header. It fails closed: a missing header, a header without the algorithm
// tag, or anything unexpected yields false rather than an error.
//
// The HMAC-SHA256 is computed over the exact raw bytes received, never a
// re-serialized payload, since serialization is not byte-stable. Encoded
// lengths are compared first (a length mismatch leaks nothing beyond what is
// already public), then the contents are compared in constant time.
func VerifySignature(body []byte, headerSignature, secret string) bool {
	if headerSignature == "" || !strings.HasPrefix(headerSignature, signaturePrefix) {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := signaturePrefix + hex.EncodeToString(mac.Sum(nil))

	if len(expected) != len(headerSignature) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(headerSignature)) == 1
}
