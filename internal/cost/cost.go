// Package cost estimates the transcription spend for a run before any audio
// is uploaded.
package cost

import "math"

// RatePerMinute is the Whisper API's published price in USD.
const RatePerMinute = 0.006

// Estimate returns the approximate USD cost of transcribing durationSec
// seconds of audio. Billing rounds up to whole minutes.
func Estimate(durationSec float64) float64 {
	if durationSec <= 0 {
		return 0
	}
	minutes := math.Ceil(durationSec / 60)
	return minutes * RatePerMinute
}
