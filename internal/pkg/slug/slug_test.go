package slug

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme Corp", "acme-corp"},
		{"already safe", "acme-corp", "acme-corp"},
		{"punctuation", "Acme, Inc.", "acme--inc-"},
		{"diacritics", "Café Corp", "cafe-corp"},
		{"digits", "Org 42", "org-42"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestDisambiguate(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, "acme-corp-1700000000", Disambiguate("acme-corp", now))
}
