package ffmpeg

import "fmt"

// AssetError reports a required local file that does not exist. Fatal to the
// track it belongs to, not to the run.
type AssetError struct {
	Path string
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset missing: %s", e.Path)
}

// ProbeError reports that a duration could not be determined.
type ProbeError struct {
	Path   string
	Output string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe failed for %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// RenderError reports a failed encode. Output holds the tail of the captured
// stderr, the sole diagnostic channel of the encoding process.
type RenderError struct {
	OutputPath string
	Output     string
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed for %s: %v", e.OutputPath, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ConcatError reports a failed final stitch. Fatal to the whole compilation
// run, since no partial compilation artifact is meaningful.
type ConcatError struct {
	OutputPath string
	Output     string
	Err        error
}

func (e *ConcatError) Error() string {
	return fmt.Sprintf("concatenation failed for %s: %v", e.OutputPath, e.Err)
}

func (e *ConcatError) Unwrap() error { return e.Err }
