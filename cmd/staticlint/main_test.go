package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzers(t *testing.T) {
	names := make(map[string]bool)
	for _, a := range analyzers() {
		assert.False(t, names[a.Name], "duplicate analyzer %s", a.Name)
		names[a.Name] = true
	}

	for _, want := range []string{"noexit", "bodyclose", "shadow", "SA1000", "S1000", "U1000"} {
		assert.True(t, names[want], want)
	}
}
