package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentFilter(t *testing.T) {
	f := NewContentFilter()

	tests := []struct {
		text   string
		ok     bool
		reason string
	}{
		{"", true, ""},
		{"Great app, see https://orbit.dev for docs", true, ""},
		{"What a SCAM", false, rejectLanguage},
		{"mail me at dev@example.com", false, rejectContactInfo},
		{"call 555-123-4567", false, rejectContactInfo},
		{"sooooooo good!!!!!", false, rejectSpam},
		{"Version 10000 is fine", true, ""},
		{"THIS APPLICATION TOTALLY ROCKS", false, rejectCaps},
		{"Works with NASA data", true, ""},
	}
	for _, tc := range tests {
		ok, reason := f.Check(tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		assert.Equal(t, tc.reason, reason, tc.text)
	}
}

func TestContentFilterRejectionMessage(t *testing.T) {
	f := NewContentFilter()
	assert.Equal(t, "Your review appears to be spam.", f.RejectionMessage(rejectSpam))
	assert.Equal(t, "Your review does not meet our content guidelines.", f.RejectionMessage("other"))
}
