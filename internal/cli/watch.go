package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/miekki-jerry/transtamps/internal/pipeline"
	"github.com/miekki-jerry/transtamps/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Transcribe new recordings as they appear in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		test, _ := cmd.Flags().GetBool("test")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := &watch.Watcher{
			Dir:  args[0],
			Logf: info,
			Handler: func(ctx context.Context, videoPath string) error {
				out := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".csv"
				p := pipeline.New(cfg)
				p.Logf = info
				res, err := p.Run(ctx, pipeline.Options{
					Input:    videoPath,
					Output:   out,
					TestMode: test,
				})
				if err != nil {
					return err
				}
				if n := len(res.Transcript.Anomalies); n > 0 {
					warn("%d boundary anomaly(ies) in %s", n, filepath.Base(videoPath))
				}
				ok("wrote %s", res.OutputPath)
				return nil
			},
		}

		err := w.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().Bool("test", false, "process only the first 10 minutes of each recording")
	rootCmd.AddCommand(watchCmd)
}
