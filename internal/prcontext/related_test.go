package prcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscoverRelatedJavaScript(t *testing.T) {
	content := `import React from 'react'
import { useState } from 'react'
const db = require('./db')

export function loadUser(id) {}
export default class UserPage {}
`
	related := DiscoverRelated("src/user.js", content)

	assert.Equal(t, []string{"react", "./db"}, related.Imports)
	assert.Contains(t, related.Exports, "loadUser")
	assert.Contains(t, related.Exports, "default")
	assert.Equal(t, []string{
		"src/user.test.js",
		"src/user.spec.js",
		"src/__tests__/user.js",
	}, related.TestPaths)
}

func TestDiscoverRelatedModuleExports(t *testing.T) {
	content := `module.exports.helper = () => {}
module.exports = main
`
	related := DiscoverRelated("lib/util.js", content)

	assert.Contains(t, related.Exports, "helper")
	assert.Contains(t, related.Exports, "default")
}

func TestDiscoverRelatedGo(t *testing.T) {
	content := `package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

import "fmt"
`
	related := DiscoverRelated("internal/server/router.go", content)

	assert.Equal(t, []string{"net/http", "github.com/go-chi/chi/v5", "fmt"}, related.Imports)
	assert.Equal(t, []string{"internal/server/router_test.go"}, related.TestPaths)
}

func TestDiscoverRelatedPython(t *testing.T) {
	content := `import os
from collections import defaultdict
import os
`
	related := DiscoverRelated("app/worker.py", content)

	assert.Equal(t, []string{"os", "collections"}, related.Imports)
	assert.Equal(t, []string{"app/test_worker.py"}, related.TestPaths)
}

func TestDiscoverRelatedToleratesAnything(t *testing.T) {
	for _, content := range []string{"", "not source at all )))", "import"} {
		related := DiscoverRelated("src/x.js", content)
		assert.NotNil(t, related.TestPaths)
	}

	// Unknown language: no scanning, no candidates.
	related := DiscoverRelated("notes.txt", "import something")
	assert.Empty(t, related.Imports)
	assert.Empty(t, related.TestPaths)
}

func TestCandidateTestPathsSkipTestFiles(t *testing.T) {
	assert.Nil(t, candidateTestPaths("src/user.test.js"))
	assert.Nil(t, candidateTestPaths("src/user.spec.ts"))
	assert.Nil(t, candidateTestPaths("internal/core/events_test.go"))
	assert.Nil(t, candidateTestPaths("app/test_worker.py"))
	assert.Nil(t, candidateTestPaths("no-extension"))
}
