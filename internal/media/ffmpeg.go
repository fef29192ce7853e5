package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Audio is always re-encoded to constant-bitrate mono mp3 so a byte budget
// converts exactly to a duration budget.
const (
	AudioBitrateKbps = 64
	BytesPerSecond   = AudioBitrateKbps * 1000 / 8
)

// ErrNoAudio indicates the input has no decodable audio track.
var ErrNoAudio = errors.New("input has no audio track")

// ProbeDuration returns the total duration of the input in seconds, parsed
// from ffmpeg's stderr. ffmpeg exits non-zero when run with a null muxer on
// some inputs, so the output is parsed regardless of the exit status.
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("input not readable: %w", err)
	}
	cmd := exec.CommandContext(ctx, "ffmpeg", "-i", path, "-f", "null", "-")
	out, err := cmd.CombinedOutput()
	if err != nil && len(out) == 0 {
		return 0, fmt.Errorf("ffmpeg probe: %w", err)
	}
	return ParseDuration(string(out))
}

// ExtractAudio extracts a mono 64kbps mp3 track from the video at path into
// outDir. limitSec > 0 caps extraction to the first limitSec seconds (test
// mode). Returns the path of the extracted file.
func ExtractAudio(ctx context.Context, path, outDir string, limitSec float64) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(outDir, base+"_audio.mp3")

	args := []string{"-y", "-i", path, "-vn"}
	if limitSec > 0 {
		args = append(args, "-t", FormatTime(limitSec))
	}
	args = append(args,
		"-ac", "1",
		"-c:a", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", AudioBitrateKbps),
		out,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	combined, err := cmd.CombinedOutput()
	if err != nil {
		return "", extractError(combined, err)
	}
	return out, nil
}

// extractError maps an ffmpeg extraction failure to the input taxonomy:
// a source without a usable audio stream is ErrNoAudio, everything else
// surfaces with ffmpeg's own output attached.
func extractError(output []byte, err error) error {
	if strings.Contains(string(output), "does not contain any stream") {
		return ErrNoAudio
	}
	return fmt.Errorf("ffmpeg extract: %w\n%s", err, string(output))
}

// ExtractSlice copies the [startSec, startSec+durationSec) window of an
// already-encoded audio file to outPath, preserving the encode parameters.
func ExtractSlice(ctx context.Context, audioPath, outPath string, startSec, durationSec float64) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", audioPath,
		"-ss", FormatTime(startSec),
		"-t", FormatTime(durationSec),
		"-ac", "1",
		"-c:a", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", AudioBitrateKbps),
		outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg slice %s: %w\n%s", outPath, err, string(out))
	}
	return nil
}

var (
	durationRe = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+)\.(\d+)`)
	timeRe     = regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)
)

// ParseDuration extracts a duration in seconds from ffmpeg stderr output.
// Looks for "Duration: HH:MM:SS.cc" first, then falls back to the last
// "time=HH:MM:SS.cc" progress line.
func ParseDuration(output string) (float64, error) {
	if m := durationRe.FindStringSubmatch(output); m != nil {
		return timeComponents(m[1], m[2], m[3], m[4]), nil
	}
	all := timeRe.FindAllStringSubmatch(output, -1)
	if len(all) > 0 {
		m := all[len(all)-1]
		return timeComponents(m[1], m[2], m[3], m[4]), nil
	}
	return 0, fmt.Errorf("no duration in ffmpeg output")
}

func timeComponents(hours, minutes, seconds, fractional string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	frac, _ := strconv.ParseFloat("0."+fractional, 64)
	return float64(h*3600+m*60+s) + frac
}

// FormatTime renders seconds as HH:MM:SS.mmm for ffmpeg -ss/-t arguments.
// Sub-millisecond remainders are truncated, never rounded: rounding could
// carry the seconds field to 60.000, which ffmpeg's parser rejects.
func FormatTime(sec float64) string {
	ms := int64(sec * 1000)
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	rem := ms % 60000
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, float64(rem)/1000)
}
