package ffmpeg_test

import (
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/latentflow/mixforge/internal/ffmpeg"
	"github.com/latentflow/mixforge/internal/filtergraph"
)

// local helper (cannot use unexported ones from ffmpeg package)
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH - install with: brew install ffmpeg")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

// generateTestAssets creates a 2-second sine-wave mp3 and a solid background
// image in dir, skipping the test if generation fails.
func generateTestAssets(t *testing.T, dir string) (audio, image string) {
	t.Helper()

	audio = filepath.Join(dir, "test_audio.mp3")
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "sine=frequency=440:duration=2",
		"-c:a", "libmp3lame", "-y", audio)
	if err := cmd.Run(); err != nil {
		t.Skipf("could not generate test audio: %v", err)
	}

	image = filepath.Join(dir, "test_bg.png")
	cmd = exec.Command("ffmpeg", "-f", "lavfi", "-i", "color=c=orange:size=320x240",
		"-frames:v", "1", "-y", image)
	if err := cmd.Run(); err != nil {
		t.Skipf("could not generate test image: %v", err)
	}
	return audio, image
}

func testGraphParams(duration float64) filtergraph.Params {
	// Text overlays are left empty: drawtext needs a usable fontconfig setup,
	// which CI runners do not always have.
	return filtergraph.Params{
		Width:        320,
		Height:       240,
		FPS:          30,
		Duration:     duration,
		Effect:       filtergraph.EffectGlowBars,
		VizHeight:    60,
		ZoomRate:     0.0005,
		MaxZoom:      1.2,
		FadeDuration: 0.5,
	}
}

func TestIntegration_RenderProbeConcat(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).With().Str("test", "integration_render").Logger()

	dir := t.TempDir()
	audio, image := generateTestAssets(t, dir)

	e, err := ffmpeg.New(logger, 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	ctx := context.Background()

	probed, err := e.ProbeDuration(ctx, audio)
	if err != nil {
		t.Fatalf("ProbeDuration failed: %v", err)
	}
	if math.Abs(probed-2) > 0.2 {
		t.Errorf("probed duration %v, want ~2s", probed)
	}

	graph, err := filtergraph.Build(testGraphParams(probed))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	segment := filepath.Join(dir, "segment.mp4")
	start := time.Now()
	err = e.RenderSegment(ctx, ffmpeg.SegmentJob{
		Graph:      graph,
		AudioPath:  audio,
		ImagePath:  image,
		OutputPath: segment,
		Preset:     "ultrafast",
		CRF:        30,
	})
	if err != nil {
		t.Fatalf("RenderSegment failed: %v", err)
	}
	t.Logf("segment rendered in %v", time.Since(start))

	stat, err := os.Stat(segment)
	if err != nil {
		t.Fatalf("segment not created: %v", err)
	}
	if stat.Size() == 0 {
		t.Fatal("segment is empty")
	}

	segDur, err := e.ProbeDuration(ctx, segment)
	if err != nil {
		t.Fatalf("ProbeDuration on segment failed: %v", err)
	}
	if math.Abs(segDur-probed) > 0.5 {
		t.Errorf("segment duration %v, want ~%v", segDur, probed)
	}

	// Stitch the segment with itself; stream copy must roughly double the
	// duration.
	output := filepath.Join(dir, "compilation.mp4")
	err = e.ConcatSegments(ctx, ffmpeg.ConcatOptions{
		Inputs: []string{segment, segment},
		Output: output,
	})
	if err != nil {
		t.Fatalf("ConcatSegments failed: %v", err)
	}

	outDur, err := e.ProbeDuration(ctx, output)
	if err != nil {
		t.Fatalf("ProbeDuration on output failed: %v", err)
	}
	if math.Abs(outDur-2*segDur) > 1 {
		t.Errorf("concat duration %v, want ~%v", outDur, 2*segDur)
	}
}

func TestIntegration_RenderHookWindow(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).With().Str("test", "integration_hook").Logger()

	dir := t.TempDir()
	audio, image := generateTestAssets(t, dir)

	e, err := ffmpeg.New(logger, 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	ctx := context.Background()

	// Render only a 1-second window starting half a second in.
	p := testGraphParams(1)
	p.Effect = filtergraph.EffectStatic
	graph, err := filtergraph.Build(p)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	clip := filepath.Join(dir, "clip.mp4")
	err = e.RenderSegment(ctx, ffmpeg.SegmentJob{
		Graph:      graph,
		AudioPath:  audio,
		ImagePath:  image,
		AudioStart: 0.5,
		Duration:   1,
		OutputPath: clip,
		Preset:     "ultrafast",
		CRF:        30,
	})
	if err != nil {
		t.Fatalf("RenderSegment failed: %v", err)
	}

	dur, err := e.ProbeDuration(ctx, clip)
	if err != nil {
		t.Fatalf("ProbeDuration failed: %v", err)
	}
	if math.Abs(dur-1) > 0.3 {
		t.Errorf("clip duration %v, want ~1s", dur)
	}
}

func TestIntegration_ConcatAudio(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	dir := t.TempDir()
	audio, _ := generateTestAssets(t, dir)

	e, err := ffmpeg.New(logger, 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	ctx := context.Background()

	output := filepath.Join(dir, "joined.mp3")
	if err := e.ConcatAudio(ctx, []string{audio, audio}, output); err != nil {
		t.Fatalf("ConcatAudio failed: %v", err)
	}

	dur, err := e.ProbeDuration(ctx, output)
	if err != nil {
		t.Fatalf("ProbeDuration failed: %v", err)
	}
	if math.Abs(dur-4) > 0.5 {
		t.Errorf("joined duration %v, want ~4s", dur)
	}
}
