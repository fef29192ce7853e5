package audio

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/miekki-jerry/transtamps/internal/media"
)

// Span is one planned slice of the source audio. Spans are contiguous and
// non-overlapping; their union covers the track exactly once.
type Span struct {
	Index       int
	StartSec    float64
	DurationSec float64
}

// EndSec returns the exclusive end of the span.
func (s Span) EndSec() float64 { return s.StartSec + s.DurationSec }

// Chunk is a span that has been extracted to its own audio file. The caller
// owns the file and removes it via CleanupChunks when done.
type Chunk struct {
	Span
	Path string
}

func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %s-%s", c.Index,
		media.FormatTime(c.StartSec), media.FormatTime(c.EndSec()))
}

// LimitSeconds converts a chunk byte budget to a duration budget at the
// fixed encode rate.
func LimitSeconds(maxMB int) float64 {
	return float64(maxMB) * 1024 * 1024 / float64(media.BytesPerSecond)
}

// PlanChunks divides a track of totalSec seconds into ceil(total/limit)
// contiguous spans of at most limitSec each. A zero-duration track yields an
// empty plan; the caller treats that as "nothing to transcribe", not an
// error. A track at or under the limit yields a single span at offset 0.
func PlanChunks(totalSec, limitSec float64) []Span {
	if totalSec <= 0 || limitSec <= 0 {
		return nil
	}
	n := int(math.Ceil(totalSec / limitSec))
	spans := make([]Span, 0, n)
	for i := 0; i < n; i++ {
		start := float64(i) * limitSec
		dur := math.Min(limitSec, totalSec-start)
		spans = append(spans, Span{Index: i, StartSec: start, DurationSec: dur})
	}
	return spans
}

// Splitter extracts planned spans into per-chunk audio files.
type Splitter interface {
	Split(ctx context.Context, audioPath string, spans []Span) ([]Chunk, error)
}

// FFmpegSplitter slices the extracted audio with ffmpeg into a fresh temp
// workdir per call.
type FFmpegSplitter struct {
	// TmpDir overrides the parent of the per-run workdir. Empty means the
	// system temp directory.
	TmpDir string
}

func (f FFmpegSplitter) Split(ctx context.Context, audioPath string, spans []Span) ([]Chunk, error) {
	if len(spans) == 0 {
		return nil, nil
	}
	parent := f.TmpDir
	if parent == "" {
		parent = os.TempDir()
	}
	workDir := filepath.Join(parent, "transtamps-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create chunk dir: %w", err)
	}

	chunks := make([]Chunk, 0, len(spans))
	for _, sp := range spans {
		out := filepath.Join(workDir, fmt.Sprintf("chunk_%03d.mp3", sp.Index))
		if err := media.ExtractSlice(ctx, audioPath, out, sp.StartSec, sp.DurationSec); err != nil {
			_ = os.RemoveAll(workDir)
			return nil, err
		}
		chunks = append(chunks, Chunk{Span: sp, Path: out})
	}
	return chunks, nil
}

// CleanupChunks removes the chunk files and their shared workdir.
func CleanupChunks(chunks []Chunk) {
	if len(chunks) == 0 {
		return
	}
	_ = os.RemoveAll(filepath.Dir(chunks[0].Path))
}
