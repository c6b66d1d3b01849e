package assistant

import (
	"strings"
	"testing"
)

func TestRespondKeywordRules(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    string
	}{
		{"help", "I need HELP with this", "I'm here to help"},
		{"poll", "how do polls work", "I'm here to help"}, // "how" matches before "poll"
		{"question", "can I ask a question", "multiple choice questions"},
		{"timer", "is there a timer?", "60-second timer"},
		{"greeting", "hello there", "Hello Sam!"},
		{"thanks", "thank you", "You're welcome"},
		{"fallback", "the weather is nice", "interesting point"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Respond(tc.message, "Sam")
			if !strings.Contains(got, tc.want) {
				t.Errorf("Respond(%q) = %q, want substring %q", tc.message, got, tc.want)
			}
		})
	}
}

func TestRespondIncludesSenderName(t *testing.T) {
	got := Respond("hi", "Priya")
	if !strings.Contains(got, "Priya") {
		t.Errorf("greeting should address the sender, got %q", got)
	}
}
