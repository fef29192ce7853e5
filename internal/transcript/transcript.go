// Package transcript merges per-chunk transcription results into one
// transcript anchored to the source video's timeline.
package transcript

import (
	"fmt"

	"github.com/miekki-jerry/transtamps/internal/audio"
	"github.com/miekki-jerry/transtamps/internal/transcribe"
)

// SeamTolerance is how far (seconds) an utterance may start before the
// previous chunk's last utterance ends without being flagged. Whisper
// timestamps drift by fractions of a second at chunk edges.
const SeamTolerance = 0.5

// Utterance is one timestamped unit of speech on the corrected, global
// timeline.
type Utterance struct {
	StartSec   float64
	EndSec     float64
	Text       string
	ChunkIndex int
	// BoundaryAnomaly is set when this utterance overlapped the previous
	// chunk's speech beyond SeamTolerance. The utterance is kept in
	// sequence; the anomaly is reported as a warning, never as a failure.
	BoundaryAnomaly bool
}

// Anomaly describes a detected timestamp inconsistency at a chunk seam.
type Anomaly struct {
	ChunkIndex int
	StartSec   float64
	PrevEndSec float64
}

func (a Anomaly) String() string {
	return fmt.Sprintf("chunk %d: utterance at %s starts before previous chunk ended at %s",
		a.ChunkIndex, FormatTime(a.StartSec), FormatTime(a.PrevEndSec))
}

// Transcript is the final ordered sequence of corrected utterances.
type Transcript struct {
	Utterances []Utterance
	Anomalies  []Anomaly
}

// Empty reports whether nothing was transcribed.
func (t *Transcript) Empty() bool { return len(t.Utterances) == 0 }

// Builder folds per-chunk segment lists into a Transcript. It is append-only:
// chunks must be appended strictly in index order, and no re-sorting happens
// afterwards — chunks are contiguous and non-overlapping by construction, so
// order is correct if the seam invariant holds.
type Builder struct {
	utterances []Utterance
	anomalies  []Anomaly
	lastEnd    float64
}

// NewBuilder returns an empty transcript builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append offsets each segment by the chunk's start offset and appends it.
// A segment whose corrected start precedes the running end of speech by more
// than SeamTolerance is flagged as a boundary anomaly and kept.
func (b *Builder) Append(span audio.Span, segs []transcribe.Segment) {
	for _, s := range segs {
		u := Utterance{
			StartSec:   span.StartSec + s.StartSec,
			EndSec:     span.StartSec + s.EndSec,
			Text:       s.Text,
			ChunkIndex: span.Index,
		}
		if len(b.utterances) > 0 && u.StartSec < b.lastEnd-SeamTolerance {
			prev := b.utterances[len(b.utterances)-1]
			if prev.ChunkIndex != span.Index {
				u.BoundaryAnomaly = true
				b.anomalies = append(b.anomalies, Anomaly{
					ChunkIndex: span.Index,
					StartSec:   u.StartSec,
					PrevEndSec: b.lastEnd,
				})
			}
		}
		b.utterances = append(b.utterances, u)
		if u.EndSec > b.lastEnd {
			b.lastEnd = u.EndSec
		}
	}
}

// Transcript finalizes the build.
func (b *Builder) Transcript() *Transcript {
	return &Transcript{Utterances: b.utterances, Anomalies: b.anomalies}
}

// FormatTime renders seconds as MM:SS. Minutes do not wrap at the hour, so
// 1h05m reads 65:00, matching the exported table format.
func FormatTime(sec float64) string {
	total := int(sec)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
