// Package cli wires the command tree around the transcription pipeline.
package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/miekki-jerry/transtamps/internal/config"
	"github.com/miekki-jerry/transtamps/internal/pipeline"
	"github.com/miekki-jerry/transtamps/internal/transcript"
)

// runTimeout bounds a whole run; long recordings with retries stay well
// under it.
const runTimeout = 2 * time.Hour

var (
	inPath      string
	outPath     string
	testMode    bool
	toClipboard bool
	backendName string
)

var rootCmd = &cobra.Command{
	Use:   "transtamps",
	Short: "Transcribe a video into a timestamped CSV via the Whisper API",
	Long: `transtamps extracts the audio track of a video file, splits it into
chunks under the transcription API's upload limit, transcribes each chunk,
and writes one CSV table with minutes:seconds timestamps on a continuous
timeline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTranscribe,
}

func init() {
	rootCmd.Flags().StringVarP(&inPath, "input", "i", "", "input video file path")
	rootCmd.Flags().StringVarP(&outPath, "output", "o", "", "output CSV path (default <input>.csv)")
	rootCmd.Flags().BoolVar(&testMode, "test", false, "process only the first 10 minutes")
	rootCmd.Flags().BoolVar(&toClipboard, "clipboard", false, "copy the finished transcript to the clipboard")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "transcription backend: openai|cloudflare (default from TRANSCRIBE_BACKEND)")
	_ = rootCmd.MarkFlagRequired("input")
}

// loadConfig builds the run configuration, letting the --backend flag
// override the environment.
func loadConfig() config.Config {
	cfg := config.Load()
	if backendName != "" {
		cfg.Backend = backendName
	}
	return cfg
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fail("%v", err)
		os.Exit(1)
	}
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if outPath == "" {
		outPath = deriveOutputPath(inPath)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	p := pipeline.New(cfg)
	p.Logf = info

	res, err := p.Run(ctx, pipeline.Options{
		Input:    inPath,
		Output:   outPath,
		TestMode: testMode,
	})
	if err != nil {
		return err
	}

	if res.Transcript.Empty() {
		warn("nothing to transcribe in %s", inPath)
	}
	if n := len(res.Transcript.Anomalies); n > 0 {
		warn("%d boundary anomaly(ies) flagged; transcript kept complete", n)
	}
	ok("wrote %s (%d utterances, %d chunks)",
		res.OutputPath, len(res.Transcript.Utterances), res.Chunks)

	if toClipboard {
		if err := clipboard.WriteAll(renderPlain(res.Transcript)); err != nil {
			warn("clipboard copy failed: %v", err)
		} else {
			ok("transcript copied to clipboard")
		}
	}
	return nil
}

// deriveOutputPath swaps the input's extension for .csv.
func deriveOutputPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return base + ".csv"
}

// renderPlain renders the transcript as "[MM:SS] text" lines for the
// clipboard.
func renderPlain(tr *transcript.Transcript) string {
	var b strings.Builder
	for _, u := range tr.Utterances {
		b.WriteString("[")
		b.WriteString(transcript.FormatTime(u.StartSec))
		b.WriteString("] ")
		b.WriteString(u.Text)
		b.WriteString("\n")
	}
	return b.String()
}
