package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH - install with: brew install ffmpeg")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr)
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	exec, err := New(testLogger(), 4)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	if exec.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
	if exec.ffprobePath == "" {
		t.Error("ffprobe path is empty")
	}
	t.Logf("ffmpeg: %s", exec.ffmpegPath)
	t.Logf("ffprobe: %s", exec.ffprobePath)
}

func TestProbeDurationMissingFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	exec, err := New(testLogger(), 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	_, err = exec.ProbeDuration(context.Background(), "nonexistent.mp3")
	if err == nil {
		t.Fatal("ProbeDuration should fail for a missing file")
	}
	var aerr *AssetError
	if !errors.As(err, &aerr) {
		t.Errorf("expected AssetError, got %T: %v", err, err)
	}
}

func TestProbeDurationInvalidFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	exec, err := New(testLogger(), 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	invalidPath := t.TempDir() + "/invalid.mp3"
	os.WriteFile(invalidPath, []byte("not audio"), 0644)

	_, err = exec.ProbeDuration(context.Background(), invalidPath)
	if err == nil {
		t.Fatal("ProbeDuration should fail for garbage bytes")
	}
	var perr *ProbeError
	if !errors.As(err, &perr) {
		t.Errorf("expected ProbeError, got %T: %v", err, err)
	}
}

func TestRenderSegmentValidation(t *testing.T) {
	skipIfNoFFmpeg(t)

	exec, err := New(testLogger(), 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	ctx := context.Background()

	// No graph at all.
	err = exec.RenderSegment(ctx, SegmentJob{OutputPath: "out.mp4"})
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Errorf("missing graph: expected RenderError, got %v", err)
	}
}

func TestConcatValidation(t *testing.T) {
	skipIfNoFFmpeg(t)

	exec, err := New(testLogger(), 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	ctx := context.Background()

	err = exec.ConcatSegments(ctx, ConcatOptions{Output: "out.mp4"})
	var cerr *ConcatError
	if !errors.As(err, &cerr) {
		t.Errorf("no inputs: expected ConcatError, got %v", err)
	}

	err = exec.ConcatSegments(ctx, ConcatOptions{Inputs: []string{"a.mp4"}})
	if !errors.As(err, &cerr) {
		t.Errorf("no output: expected ConcatError, got %v", err)
	}
}

func TestWriteConcatList(t *testing.T) {
	skipIfNoFFmpeg(t)

	exec, err := New(testLogger(), 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	listFile, err := exec.writeConcatList([]string{"seg_000.mp4", "seg_001.mp4"})
	if err != nil {
		t.Fatalf("writeConcatList failed: %v", err)
	}
	defer os.Remove(listFile)

	f, err := os.Open(listFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "file '") || !strings.HasSuffix(line, "'") {
			t.Errorf("malformed concat list line: %q", line)
		}
		// Paths are absolute so the demuxer does not resolve relative to the
		// list file's temp directory.
		if strings.Contains(line, "'seg_") {
			t.Errorf("concat list path not absolute: %q", line)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	var err error = &RenderError{OutputPath: "x.mp4", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("RenderError should unwrap to its cause")
	}
	err = &ConcatError{Err: inner}
	if !errors.Is(err, inner) {
		t.Error("ConcatError should unwrap to its cause")
	}
	err = &ProbeError{Path: "x", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("ProbeError should unwrap to its cause")
	}
}
