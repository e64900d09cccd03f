package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		term, want string
	}{
		{"apple", "%apple%"},
		{"", "%%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\tmp`, `%c:\\tmp%`},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ContainsPattern(tc.term), "ContainsPattern(%q)", tc.term)
	}
}
