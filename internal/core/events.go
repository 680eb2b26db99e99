// Package core defines the essential interfaces and data structures that form
// the backbone of the application. These components are designed to be
// abstract, allowing for flexible and decoupled implementations of the
// application's logic.
package core

import (
	"encoding/json"
	"fmt"
)

// EventKind identifies one of the webhook event types this service recognizes.
type EventKind string

const (
	EventPROpened        EventKind = "pull_request.opened"
	EventPRSynchronize   EventKind = "pull_request.synchronize"
	EventPRReopened      EventKind = "pull_request.reopened"
	EventReviewSubmitted EventKind = "pull_request_review.submitted"
)

// IsPullRequest reports whether the kind is one of the three pull-request
// kinds that are routed to the review pipeline. Review-submitted events are
// recognized but deliberately not acted upon.
func (k EventKind) IsPullRequest() bool {
	switch k {
	case EventPROpened, EventPRSynchronize, EventPRReopened:
		return true
	}
	return false
}

// WebhookEvent is the simplified, internal view of a GitHub webhook event.
// It is created once per request by ClassifyPayload and never mutated.
type WebhookEvent struct {
	Kind           EventKind
	RepoOwner      string
	RepoName       string
	InstallationID int64

	PRNumber int
	PRTitle  string
	PRBody   string
	HeadSHA  string

	RawPayload []byte
}

// RepoFullName returns "owner/name" for logging.
func (e *WebhookEvent) RepoFullName() string {
	return e.RepoOwner + "/" + e.RepoName
}

// webhookPayload mirrors the subset of the GitHub webhook JSON the classifier
// needs. Everything else in the payload is ignored.
type webhookPayload struct {
	Action       string `json:"action"`
	Installation *struct {
		ID int64 `json:"id"`
	} `json:"installation"`
	Repository *struct {
		Name  string `json:"name"`
		Owner *struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
	PullRequest *struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Body   string `json:"body"`
		Head   *struct {
			SHA string `json:"sha"`
		} `json:"head"`
	} `json:"pull_request"`
	// A pointer so that "review": null reads as absent, not present.
	Review *struct {
		State string `json:"state"`
	} `json:"review"`
}

// ClassifyPayload maps a raw webhook payload onto the closed set of event
// kinds. It acts as an anti-corruption layer: the payload is checked for the
// fields every downstream stage depends on before anything else runs.
//
// It fails with *MissingFieldError when installation or repository information
// is absent, and with *UnsupportedEventError for any payload outside the
// recognized set.
func ClassifyPayload(raw []byte) (*WebhookEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parsing webhook payload: %w", err)
	}

	if p.Installation == nil || p.Installation.ID <= 0 {
		return nil, &MissingFieldError{Field: "installation ID"}
	}
	if p.Repository == nil || p.Repository.Name == "" ||
		p.Repository.Owner == nil || p.Repository.Owner.Login == "" {
		return nil, &MissingFieldError{Field: "repository information"}
	}

	event := &WebhookEvent{
		RepoOwner:      p.Repository.Owner.Login,
		RepoName:       p.Repository.Name,
		InstallationID: p.Installation.ID,
		RawPayload:     raw,
	}
	if p.PullRequest != nil {
		event.PRNumber = p.PullRequest.Number
		event.PRTitle = p.PullRequest.Title
		event.PRBody = p.PullRequest.Body
		if p.PullRequest.Head != nil {
			event.HeadSHA = p.PullRequest.Head.SHA
		}
	}

	switch {
	case p.PullRequest != nil && (p.Action == "opened" || p.Action == "synchronize" || p.Action == "reopened"):
		event.Kind = EventKind("pull_request." + p.Action)
		return event, nil
	case p.Review != nil && p.Action == "submitted":
		event.Kind = EventReviewSubmitted
		return event, nil
	default:
		action := p.Action
		if action == "" {
			action = "unknown"
		}
		return nil, &UnsupportedEventError{Action: action}
	}
}
