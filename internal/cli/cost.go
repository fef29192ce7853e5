package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/miekki-jerry/transtamps/internal/config"
	"github.com/miekki-jerry/transtamps/internal/cost"
	"github.com/miekki-jerry/transtamps/internal/media"
	"github.com/miekki-jerry/transtamps/internal/transcript"
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Estimate the transcription cost without processing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		test, _ := cmd.Flags().GetBool("test")

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		dur, err := media.ProbeDuration(ctx, input)
		if err != nil {
			return err
		}

		billed := dur
		if test {
			cfg := config.Load()
			if limit := float64(cfg.TestModeDuration); dur > limit {
				billed = limit
			}
		}

		info("duration: %s", transcript.FormatTime(dur))
		fmt.Printf("estimated cost: $%.4f\n", cost.Estimate(billed))
		return nil
	},
}

func init() {
	costCmd.Flags().StringP("input", "i", "", "input video file path")
	costCmd.Flags().Bool("test", false, "estimate for the first 10 minutes only")
	_ = costCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(costCmd)
}
