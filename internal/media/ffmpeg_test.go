package media

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"path/filepath"
	"testing"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   float64
	}{
		{
			name:   "duration line",
			output: "Input #0, mov,mp4\n  Duration: 00:25:00.00, start: 0.000000, bitrate: 1200 kb/s\n",
			want:   1500,
		},
		{
			name:   "duration with fraction",
			output: "  Duration: 01:02:03.45, start: 0.0\n",
			want:   3723.45,
		},
		{
			name:   "progress time fallback",
			output: "size=N/A time=00:00:30.50 bitrate=N/A\nsize=N/A time=00:01:01.00 bitrate=N/A\n",
			want:   61,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.output)
			if err != nil {
				t.Fatalf("ParseDuration: %v", err)
			}
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDurationNoMatch(t *testing.T) {
	if _, err := ParseDuration("garbage with no timestamps"); err == nil {
		t.Error("expected error for output without duration")
	}
}

func TestProbeDurationUnreadablePath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-video.mp4")
	_, err := ProbeDuration(context.Background(), missing)
	if err == nil {
		t.Fatal("expected error for unreadable input")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want wrapped fs.ErrNotExist", err)
	}
}

func TestExtractError(t *testing.T) {
	base := errors.New("exit status 1")

	noAudio := []byte("Output file #0 does not contain any stream")
	if err := extractError(noAudio, base); !errors.Is(err, ErrNoAudio) {
		t.Errorf("got %v, want ErrNoAudio", err)
	}

	other := []byte("moov atom not found")
	err := extractError(other, base)
	if errors.Is(err, ErrNoAudio) {
		t.Errorf("unrelated failure classified as ErrNoAudio: %v", err)
	}
	if !errors.Is(err, base) {
		t.Errorf("original error not preserved: %v", err)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "00:00:00.000"},
		{61.5, "00:01:01.500"},
		{3723.25, "01:02:03.250"},
		{600, "00:10:00.000"},
		// Truncation: must not round the seconds field up to 60.000.
		{59.9996, "00:00:59.999"},
		{3599.9999, "00:59:59.999"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.sec); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}
