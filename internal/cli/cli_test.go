package cli

import (
	"testing"

	"github.com/miekki-jerry/transtamps/internal/transcript"
)

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"meeting.mp4", "meeting.csv"},
		{"/videos/standup.mov", "standup.csv"},
		{"no_extension", "no_extension.csv"},
		{"dotted.name.mkv", "dotted.name.csv"},
	}
	for _, tt := range tests {
		if got := deriveOutputPath(tt.in); got != tt.want {
			t.Errorf("deriveOutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderPlain(t *testing.T) {
	tr := &transcript.Transcript{
		Utterances: []transcript.Utterance{
			{StartSec: 0, EndSec: 3, Text: "hello"},
			{StartSec: 65, EndSec: 70, Text: "one minute in"},
		},
	}
	want := "[00:00] hello\n[01:05] one minute in\n"
	if got := renderPlain(tr); got != want {
		t.Errorf("renderPlain = %q, want %q", got, want)
	}
}
