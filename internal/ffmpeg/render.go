package ffmpeg

import (
	"context"
	"fmt"
	"os"

	"github.com/latentflow/mixforge/internal/filtergraph"
	"github.com/latentflow/mixforge/pkg/util"
)

// SegmentJob describes one segment render: input assets, the composition
// graph, and encode settings. Input pad order matches the filtergraph
// convention: audio 0, looped image 1, optional looped mask 2.
type SegmentJob struct {
	Graph     *filtergraph.Graph
	AudioPath string
	ImagePath string
	MaskPath  string

	// AudioStart and Duration select a sub-window of the audio (hook
	// extraction for shorts). Zero values mean the full track.
	AudioStart float64
	Duration   float64

	OutputPath string

	Preset       string
	CRF          int
	AudioBitrate string
}

// RenderSegment runs one encoding process for the job. All failure is
// reported through the returned error; a failed render may leave a partial
// file at OutputPath, which callers must treat as untrusted until a later
// attempt succeeds.
func (e *Executor) RenderSegment(ctx context.Context, job SegmentJob) error {
	if job.Graph == nil {
		return &RenderError{OutputPath: job.OutputPath, Err: fmt.Errorf("no filter graph")}
	}
	if err := job.Graph.Validate(); err != nil {
		return &RenderError{OutputPath: job.OutputPath, Err: fmt.Errorf("invalid filter graph: %w", err)}
	}
	for _, path := range []string{job.AudioPath, job.ImagePath} {
		if _, err := os.Stat(path); err != nil {
			return &AssetError{Path: path}
		}
	}
	if job.MaskPath != "" {
		if _, err := os.Stat(job.MaskPath); err != nil {
			return &AssetError{Path: job.MaskPath}
		}
	}

	var args []string
	if job.AudioStart > 0 {
		args = append(args, "-ss", util.FormatSeconds(job.AudioStart))
	}
	if job.Duration > 0 {
		args = append(args, "-t", util.FormatSeconds(job.Duration))
	}
	args = append(args, "-i", job.AudioPath)
	args = append(args, "-loop", "1", "-i", job.ImagePath)
	if job.MaskPath != "" {
		args = append(args, "-loop", "1", "-i", job.MaskPath)
	}

	preset := job.Preset
	if preset == "" {
		preset = "medium"
	}
	crf := job.CRF
	if crf == 0 {
		crf = 23
	}
	bitrate := job.AudioBitrate
	if bitrate == "" {
		bitrate = "192k"
	}

	// Encode parameters are normalized across segments so the final concat
	// can run at stream-copy speed.
	args = append(args,
		"-filter_complex", job.Graph.String(),
		"-map", "["+filtergraph.VideoOut+"]",
		"-map", "["+filtergraph.AudioOut+"]",
		"-c:v", "libx264",
		"-preset", preset,
		"-crf", fmt.Sprintf("%d", crf),
		"-c:a", "aac",
		"-b:a", bitrate,
		"-shortest",
		"-pix_fmt", "yuv420p",
		job.OutputPath,
	)

	e.logger.Info().
		Str("audio", job.AudioPath).
		Str("image", job.ImagePath).
		Str("output", job.OutputPath).
		Msg("rendering segment")

	tail, err := e.run(ctx, args)
	if err != nil {
		return &RenderError{OutputPath: job.OutputPath, Output: tail, Err: err}
	}

	e.logger.Info().Str("output", job.OutputPath).Msg("segment rendered")
	return nil
}
