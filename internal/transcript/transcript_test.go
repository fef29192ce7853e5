package transcript

import (
	"testing"

	"github.com/miekki-jerry/transtamps/internal/audio"
	"github.com/miekki-jerry/transtamps/internal/transcribe"
)

func span(i int, start float64) audio.Span {
	return audio.Span{Index: i, StartSec: start, DurationSec: 600}
}

func TestAppendOffsetsByChunkStart(t *testing.T) {
	b := NewBuilder()
	b.Append(span(0, 0), []transcribe.Segment{
		{StartSec: 0, EndSec: 4.5, Text: "hello"},
		{StartSec: 5, EndSec: 9, Text: "world"},
	})
	b.Append(span(1, 600), []transcribe.Segment{
		{StartSec: 1.2, EndSec: 6, Text: "second chunk"},
	})
	b.Append(span(2, 1200), []transcribe.Segment{
		{StartSec: 0.5, EndSec: 3, Text: "third chunk"},
	})

	tr := b.Transcript()
	if len(tr.Utterances) != 4 {
		t.Fatalf("got %d utterances, want 4", len(tr.Utterances))
	}
	if got := tr.Utterances[2].StartSec; got != 601.2 {
		t.Errorf("chunk 1 utterance start = %v, want 601.2", got)
	}
	if got := tr.Utterances[3].StartSec; got != 1200.5 {
		t.Errorf("chunk 2 utterance start = %v, want 1200.5", got)
	}
	if len(tr.Anomalies) != 0 {
		t.Errorf("unexpected anomalies: %v", tr.Anomalies)
	}

	// Non-decreasing start times across the whole sequence.
	for i := 1; i < len(tr.Utterances); i++ {
		if tr.Utterances[i].StartSec < tr.Utterances[i-1].StartSec {
			t.Errorf("start times decrease at %d", i)
		}
	}
	// Last entry within the 25-minute source.
	if last := tr.Utterances[3].StartSec; last > 1500 {
		t.Errorf("last start %v beyond source duration", last)
	}
}

func TestSeamOverlapWithinToleranceIsClean(t *testing.T) {
	b := NewBuilder()
	b.Append(span(0, 0), []transcribe.Segment{{StartSec: 595, EndSec: 600.3, Text: "tail"}})
	// Starts 0.3s before previous end: inside tolerance.
	b.Append(span(1, 600), []transcribe.Segment{{StartSec: 0, EndSec: 4, Text: "head"}})

	tr := b.Transcript()
	if len(tr.Anomalies) != 0 {
		t.Errorf("overlap within tolerance flagged: %v", tr.Anomalies)
	}
}

func TestSeamOverlapBeyondToleranceFlagged(t *testing.T) {
	b := NewBuilder()
	b.Append(span(0, 0), []transcribe.Segment{{StartSec: 590, EndSec: 599, Text: "tail"}})
	// Corrected start 597 < 599 - 0.5: hallucinated overlap across the seam.
	b.Append(span(1, 600), []transcribe.Segment{
		{StartSec: -3, EndSec: 2, Text: "overlapping head"},
		{StartSec: 3, EndSec: 6, Text: "clean follow-up"},
	})

	tr := b.Transcript()
	if len(tr.Anomalies) != 1 {
		t.Fatalf("got %d anomalies, want 1", len(tr.Anomalies))
	}
	a := tr.Anomalies[0]
	if a.ChunkIndex != 1 {
		t.Errorf("anomaly chunk = %d, want 1", a.ChunkIndex)
	}

	// Anomalous utterance is flagged but kept in sequence.
	if len(tr.Utterances) != 3 {
		t.Fatalf("got %d utterances, want 3 (nothing dropped)", len(tr.Utterances))
	}
	if !tr.Utterances[1].BoundaryAnomaly {
		t.Error("overlapping utterance not flagged")
	}
	if tr.Utterances[2].BoundaryAnomaly {
		t.Error("clean utterance wrongly flagged")
	}
}

func TestOverlapWithinSameChunkNotAnAnomaly(t *testing.T) {
	// Backends occasionally emit overlapping segments inside one chunk;
	// only cross-chunk seams are the reconciler's concern.
	b := NewBuilder()
	b.Append(span(0, 0), []transcribe.Segment{
		{StartSec: 0, EndSec: 10, Text: "long"},
		{StartSec: 4, EndSec: 8, Text: "contained"},
	})
	if tr := b.Transcript(); len(tr.Anomalies) != 0 {
		t.Errorf("same-chunk overlap flagged: %v", tr.Anomalies)
	}
}

func TestEmptyBuild(t *testing.T) {
	tr := NewBuilder().Transcript()
	if !tr.Empty() {
		t.Error("empty build should yield empty transcript")
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "00:00"},
		{59.9, "00:59"},
		{60, "01:00"},
		{601.2, "10:01"},
		{3900, "65:00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.sec); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}
