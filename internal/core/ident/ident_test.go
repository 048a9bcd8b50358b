package ident

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	re := regexp.MustCompile(`^SD_[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for range 100 {
		id := New(PrefixSeed)
		assert.Regexp(t, re, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 90)
}
