package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConcatSegments stitches rendered segments into one file using the concat
// demuxer. Segments are encoded with normalized parameters, so the default is
// a lossless-boundary stream copy; ReEncode exists for inputs that were not
// produced by this pipeline.
type ConcatOptions struct {
	Inputs   []string
	Output   string
	ReEncode bool
	Preset   string
	CRF      int
}

func (e *Executor) ConcatSegments(ctx context.Context, opts ConcatOptions) error {
	if len(opts.Inputs) == 0 {
		return &ConcatError{OutputPath: opts.Output, Err: fmt.Errorf("no input files")}
	}
	if opts.Output == "" {
		return &ConcatError{Err: fmt.Errorf("output path is required")}
	}

	listFile, err := e.writeConcatList(opts.Inputs)
	if err != nil {
		return &ConcatError{OutputPath: opts.Output, Err: err}
	}
	defer os.Remove(listFile)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
	}
	if opts.ReEncode {
		preset := opts.Preset
		if preset == "" {
			preset = "medium"
		}
		crf := opts.CRF
		if crf == 0 {
			crf = 23
		}
		args = append(args,
			"-c:v", "libx264", "-preset", preset, "-crf", fmt.Sprintf("%d", crf),
			"-c:a", "aac",
			"-pix_fmt", "yuv420p")
	} else {
		args = append(args, "-c", "copy")
	}
	args = append(args, opts.Output)

	e.logger.Info().
		Int("inputs", len(opts.Inputs)).
		Str("output", opts.Output).
		Bool("re_encode", opts.ReEncode).
		Msg("concatenating segments")

	tail, err := e.run(ctx, args)
	if err != nil {
		return &ConcatError{OutputPath: opts.Output, Output: tail, Err: err}
	}
	return nil
}

// ConcatAudio joins raw per-track audio streams into one file via the concat
// filter. Used for the total-duration sanity check, not for final video
// timing.
func (e *Executor) ConcatAudio(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return &ConcatError{OutputPath: output, Err: fmt.Errorf("no input files")}
	}
	if len(inputs) == 1 {
		// Single track: nothing to join, copy through.
		tail, err := e.run(ctx, []string{"-i", inputs[0], "-c:a", "libmp3lame", "-q:a", "2", output})
		if err != nil {
			return &ConcatError{OutputPath: output, Output: tail, Err: err}
		}
		return nil
	}

	var args []string
	var labels strings.Builder
	for i, in := range inputs {
		args = append(args, "-i", in)
		fmt.Fprintf(&labels, "[%d:a]", i)
	}
	filter := fmt.Sprintf("%sconcat=n=%d:v=0:a=1[outa]", labels.String(), len(inputs))
	args = append(args,
		"-filter_complex", filter,
		"-map", "[outa]",
		"-c:a", "libmp3lame", "-q:a", "2",
		output)

	e.logger.Info().Int("inputs", len(inputs)).Str("output", output).Msg("concatenating audio")

	tail, err := e.run(ctx, args)
	if err != nil {
		return &ConcatError{OutputPath: output, Output: tail, Err: err}
	}
	return nil
}

func (e *Executor) writeConcatList(inputs []string) (string, error) {
	tmpFile, err := os.CreateTemp("", "mixforge-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	for _, input := range inputs {
		absPath, err := filepath.Abs(input)
		if err != nil {
			return "", err
		}
		if _, err := fmt.Fprintf(tmpFile, "file '%s'\n", absPath); err != nil {
			return "", err
		}
	}

	return tmpFile.Name(), nil
}
