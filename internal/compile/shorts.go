package compile

import (
	"context"
	"fmt"
	"math"

	"github.com/latentflow/mixforge/internal/ffmpeg"
	"github.com/latentflow/mixforge/internal/filtergraph"
	"github.com/latentflow/mixforge/internal/track"
)

// HookStart picks the start of the short-clip audio window. The default lands
// 15% into the track, past the intro and into the main groove, then clamps so
// the window plus a tail margin stays inside the track. Tracks shorter than
// the window clamp to zero, which discards the skip-the-intro heuristic for
// them.
func HookStart(trackDuration, clipDuration float64) float64 {
	start := trackDuration * 0.15
	maxStart := trackDuration - clipDuration - hookTailMargin
	if start > maxStart {
		start = math.Max(0, maxStart)
	}
	return start
}

// Short renders a vertical short clip from a track's hook window. Pass a
// negative hookStart to compute it; a zero duration uses the configured
// default.
func (a *Assembler) Short(ctx context.Context, t *track.Track, hookStart, duration float64, outputPath string) error {
	if t.LocalAudio == "" || t.LocalImageVertical == "" {
		return fmt.Errorf("track %s is missing audio or vertical image", t.Slug)
	}
	if t.Duration <= 0 {
		probed, err := a.exec.ProbeDuration(ctx, t.LocalAudio)
		if err != nil {
			return err
		}
		t.Duration = probed
	}

	if duration <= 0 {
		duration = a.cfg.Short.Duration
	}
	if hookStart < 0 {
		hookStart = HookStart(t.Duration, duration)
	}

	// The clip never requests audio past the end of the track.
	clipDuration := math.Min(duration, t.Duration-hookStart)
	if clipDuration <= 0 {
		return fmt.Errorf("track %s too short for a %gs clip", t.Slug, duration)
	}

	a.logger.Info().
		Str("track", t.Title).
		Float64("hook_start", hookStart).
		Float64("duration", clipDuration).
		Msg("rendering short")

	// Masks are segmented from the horizontal image and don't line up with
	// the vertical framing, so shorts never use the masked-region effect.
	params := a.verticalParams(t, clipDuration)
	job := ffmpeg.SegmentJob{
		AudioPath:    t.LocalAudio,
		ImagePath:    t.LocalImageVertical,
		AudioStart:   hookStart,
		Duration:     clipDuration,
		OutputPath:   outputPath,
		Preset:       a.cfg.Encode.Preset,
		CRF:          a.cfg.Encode.CRF,
		AudioBitrate: a.cfg.Encode.AudioBitrate,
	}

	return a.renderWithFallback(ctx, params, job)
}

// verticalParams builds the 9:16 composition parameters: narrower strip
// proportions, larger text, and the vertical crop.
func (a *Assembler) verticalParams(t *track.Track, clipDuration float64) filtergraph.Params {
	return filtergraph.Params{
		Width:        a.cfg.Short.Width,
		Height:       a.cfg.Short.Height,
		FPS:          a.cfg.Video.FPS,
		Duration:     clipDuration,
		Title:        t.Title,
		Channel:      a.cfg.Channel.Handle,
		Effect:       filtergraph.ParseEffect(a.cfg.Viz.Effect),
		VizHeight:    a.cfg.Short.VizHeight,
		ZoomRate:     a.cfg.Viz.ZoomRate,
		MaxZoom:      a.cfg.Viz.MaxZoom,
		FadeDuration: a.cfg.Viz.FadeDuration,
		TitleDisplay: a.cfg.Viz.TitleDisplay,
		TitleSize:    56,
		TitleY:       "150",
		ChannelSize:  32,
		ChannelY:     "h-280",
		Vignette:     "PI/4",
	}
}
