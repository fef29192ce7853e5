package transcribe

import "context"

// Segment is one timed unit of transcribed speech. Times are relative to the
// audio file that was sent, so a chunk's first sample is time zero; the
// reconciler anchors them to the source timeline.
type Segment struct {
	StartSec float64
	EndSec   float64
	Text     string
}

// Backend is a pluggable transcription backend. Implementations must return
// segments in non-decreasing start order relative to the submitted audio.
type Backend interface {
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
}
