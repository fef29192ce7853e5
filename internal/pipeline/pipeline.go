// Package pipeline runs one transcription end to end: probe, extract, chunk,
// transcribe sequentially, reconcile, export.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/miekki-jerry/transtamps/internal/audio"
	"github.com/miekki-jerry/transtamps/internal/config"
	"github.com/miekki-jerry/transtamps/internal/cost"
	"github.com/miekki-jerry/transtamps/internal/export"
	"github.com/miekki-jerry/transtamps/internal/media"
	"github.com/miekki-jerry/transtamps/internal/transcribe"
	"github.com/miekki-jerry/transtamps/internal/transcript"
)

// Extractor abstracts the ffmpeg shell-outs so runs are testable without a
// media toolchain.
type Extractor interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	ExtractAudio(ctx context.Context, path, outDir string, limitSec float64) (string, error)
}

type ffmpegExtractor struct{}

func (ffmpegExtractor) ProbeDuration(ctx context.Context, path string) (float64, error) {
	return media.ProbeDuration(ctx, path)
}

func (ffmpegExtractor) ExtractAudio(ctx context.Context, path, outDir string, limitSec float64) (string, error) {
	return media.ExtractAudio(ctx, path, outDir, limitSec)
}

// Options configure a single run.
type Options struct {
	Input    string
	Output   string
	TestMode bool // process only the first TEST_MODE_DURATION seconds
}

// Result summarizes a completed run.
type Result struct {
	DurationSec   float64 // full source duration
	ProcessedSec  float64 // duration actually transcribed
	EstimatedCost float64
	Chunks        int
	Transcript    *transcript.Transcript
	OutputPath    string
}

// Pipeline holds the collaborators for a run. New fills in the real ones;
// tests swap in fakes.
type Pipeline struct {
	Cfg       config.Config
	Extractor Extractor
	Splitter  audio.Splitter
	Backend   transcribe.Backend
	Logf      func(format string, a ...any)
}

// New builds a pipeline over ffmpeg and the configured transcription
// backend with bounded retries for transient failures.
func New(cfg config.Config) *Pipeline {
	var be transcribe.Backend
	switch cfg.Backend {
	case config.BackendCloudflare:
		be = transcribe.NewCloudflareBackend(cfg.CFAccountID, cfg.CFAPIToken, cfg.CFModel)
	default:
		be = transcribe.NewOpenAIBackend(cfg.APIKey, cfg.Model)
	}
	return &Pipeline{
		Cfg:       cfg,
		Extractor: ffmpegExtractor{},
		Splitter:  audio.FFmpegSplitter{},
		Backend:   transcribe.WithRetry(be, transcribe.DefaultAttempts, transcribe.DefaultBaseDelay),
	}
}

func (p *Pipeline) logf(format string, a ...any) {
	if p.Logf != nil {
		p.Logf(format, a...)
	}
}

// Run executes the whole pipeline. The output file is written atomically and
// only after every chunk has been transcribed; an aborted or failed run
// leaves no artifact behind.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	total, err := p.Extractor.ProbeDuration(ctx, opts.Input)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", opts.Input, err)
	}

	processed := total
	var limit float64
	if opts.TestMode {
		limit = float64(p.Cfg.TestModeDuration)
		processed = math.Min(total, limit)
	}

	res := &Result{
		DurationSec:   total,
		ProcessedSec:  processed,
		EstimatedCost: cost.Estimate(processed),
	}
	p.logf("duration %s, estimated cost $%.4f", transcript.FormatTime(processed), res.EstimatedCost)

	spans := audio.PlanChunks(processed, audio.LimitSeconds(p.Cfg.MaxChunkSizeMB))
	if len(spans) == 0 {
		// Nothing to transcribe is a no-op with an explicit empty result.
		res.Transcript = transcript.NewBuilder().Transcript()
		if opts.Output != "" {
			if err := writeAtomic(opts.Output, res.Transcript); err != nil {
				return nil, err
			}
			res.OutputPath = opts.Output
		}
		return res, nil
	}
	res.Chunks = len(spans)

	workDir, err := os.MkdirTemp("", "transtamps-*")
	if err != nil {
		return nil, fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	p.logf("extracting audio...")
	audioPath, err := p.Extractor.ExtractAudio(ctx, opts.Input, workDir, limit)
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}

	chunks, err := p.Splitter.Split(ctx, audioPath, spans)
	if err != nil {
		return nil, fmt.Errorf("split audio: %w", err)
	}
	defer audio.CleanupChunks(chunks)

	// Chunks go to the backend one at a time, strictly in index order; the
	// builder relies on that order instead of re-sorting by time.
	builder := transcript.NewBuilder()
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.logf("transcribing chunk %d/%d...", c.Index+1, len(chunks))
		segs, err := p.Backend.Transcribe(ctx, c.Path)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", c.Index+1, len(chunks), err)
		}
		builder.Append(c.Span, segs)
	}

	res.Transcript = builder.Transcript()
	for _, a := range res.Transcript.Anomalies {
		p.logf("boundary anomaly: %s", a)
	}

	if opts.Output != "" {
		if err := writeAtomic(opts.Output, res.Transcript); err != nil {
			return nil, err
		}
		res.OutputPath = opts.Output
	}
	return res, nil
}

// writeAtomic exports the transcript to a temp file in the target directory
// and renames it into place, so a crash mid-write never leaves a partial
// table.
func writeAtomic(path string, tr *transcript.Transcript) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".transtamps-*.csv")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()

	if err := export.WriteCSV(tmp, tr); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}
