package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeDuration returns the length of an audio or video asset in seconds.
// One ffprobe process per call; callers needing the value twice cache it
// themselves.
func (e *Executor) ProbeDuration(ctx context.Context, path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, &AssetError{Path: path}
	}

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, &ProbeError{Path: path, Output: string(output), Err: err}
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, &ProbeError{Path: path, Output: string(output), Err: fmt.Errorf("unparsable duration: %w", err)}
	}

	e.logger.Debug().Str("path", path).Float64("duration", duration).Msg("probed duration")
	return duration, nil
}
