package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRoute(t *testing.T) {
	tests := []struct {
		name         string
		route        string
		origin       string
		destination  string
		hasSeparator bool
	}{
		{"complete route", "OGL-KAI", "OGL", "KAI", true},
		{"incomplete route", "OGL-", "OGL", "", true},
		{"single token", "OGL", "OGL", "", false},
		{"empty", "", "", "", false},
		{"missing origin", "-KAI", "", "KAI", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origin, destination, hasSeparator := SplitRoute(tt.route)
			assert.Equal(t, tt.origin, origin)
			assert.Equal(t, tt.destination, destination)
			assert.Equal(t, tt.hasSeparator, hasSeparator)
		})
	}
}

func TestReverseRoute(t *testing.T) {
	assert.Equal(t, "KAI-OGL", ReverseRoute("OGL-KAI"))
	assert.Equal(t, "", ReverseRoute("OGL"))
	assert.Equal(t, "", ReverseRoute("OGL-"))
	assert.Equal(t, "", ReverseRoute("-KAI"))

	// Reversing twice restores the original
	assert.Equal(t, "OGL-KAI", ReverseRoute(ReverseRoute("OGL-KAI")))
	// The degenerate case stays empty both times
	assert.Equal(t, "", ReverseRoute(ReverseRoute("OGL")))
}

func TestJoinRoute(t *testing.T) {
	assert.Equal(t, "KAI-", JoinRoute("KAI", ""))
	assert.Equal(t, "KAI-OGL", JoinRoute("KAI", "OGL"))
}
