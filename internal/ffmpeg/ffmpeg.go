// Package ffmpeg wraps the external ffmpeg/ffprobe processes: duration
// probing, per-segment rendering, and concatenation. One process is spawned
// per call; exit code and captured stderr are the sole result channel.
package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// stderrTailLines bounds the diagnostic text kept from a failed process.
const stderrTailLines = 40

// Executor runs ffmpeg operations.
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	threads     int
}

// New resolves the ffmpeg and ffprobe binaries from PATH.
func New(logger zerolog.Logger, threads int) (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		threads:     threads,
	}, nil
}

// run executes ffmpeg with the given arguments, streaming stderr to the debug
// log. On failure the returned tail holds the last stderr lines for
// diagnostics.
func (e *Executor) run(ctx context.Context, args []string) (tail string, err error) {
	baseArgs := []string{"-y", "-hide_banner", "-loglevel", "info"}
	if e.threads > 0 {
		baseArgs = append(baseArgs, "-threads", fmt.Sprintf("%d", e.threads))
	}
	args = append(baseArgs, args...)

	e.logger.Debug().Strs("args", args).Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	var lines []string
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		e.logger.Debug().Str("ffmpeg", line).Msg("process output")
		lines = append(lines, line)
		if len(lines) > stderrTailLines {
			lines = lines[1:]
		}
	}

	tail = strings.Join(lines, "\n")
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return tail, ctx.Err()
		}
		return tail, fmt.Errorf("ffmpeg exited: %w", err)
	}
	return tail, nil
}
