// Package compile assembles rendered per-track segments into long-form
// compilation videos and short vertical clips.
package compile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/latentflow/mixforge/internal/config"
	"github.com/latentflow/mixforge/internal/ffmpeg"
	"github.com/latentflow/mixforge/internal/filtergraph"
	"github.com/latentflow/mixforge/internal/track"
	"github.com/latentflow/mixforge/pkg/util"
)

// audioCheckTolerance is how far the concatenated-audio duration may drift
// from the summed track durations before a warning is logged, in seconds.
const audioCheckTolerance = 2.0

// hookTailMargin keeps the short-clip window clear of the track's final
// seconds.
const hookTailMargin = 5.0

// CompilationInfo is the hand-off artifact for downstream description and
// upload stages. Created once per run and never mutated; re-running produces
// a new instance.
type CompilationInfo struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	TotalDuration float64        `json:"total_duration"`
	TotalMinutes  float64        `json:"total_minutes"`
	TrackCount    int            `json:"track_count"`
	Tracks        []*track.Track `json:"tracks"`
	Chapters      []Chapter      `json:"chapters,omitempty"`
	ChapterText   string         `json:"chapter_text,omitempty"`
	VideoPath     string         `json:"video_path,omitempty"`
}

// SaveInfo persists a compilation info document as JSON.
func SaveInfo(info *CompilationInfo, path string) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadInfo reads a compilation info document.
func LoadInfo(path string) (*CompilationInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info CompilationInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Assembler drives segment rendering and final stitching. Processing is
// sequential per track to bound concurrent external-process load.
type Assembler struct {
	logger zerolog.Logger
	cfg    *config.Config
	exec   *ffmpeg.Executor
}

// New creates an assembler.
func New(logger zerolog.Logger, cfg *config.Config, exec *ffmpeg.Executor) *Assembler {
	return &Assembler{
		logger: logger.With().Str("component", "compile").Logger(),
		cfg:    cfg,
		exec:   exec,
	}
}

// Compile renders one segment per track, computes chapters over the tracks
// that rendered, and concatenates everything into a single video under
// WorkDir/name. Per-track failures are logged and skipped; the run fails only
// when no segment renders or the final stitch fails.
func (a *Assembler) Compile(ctx context.Context, name string, tracks []*track.Track) (*CompilationInfo, error) {
	dir := filepath.Join(a.cfg.WorkDir, name)
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create compilation dir: %w", err)
	}

	// Concurrent runs against the same compilation directory would race on
	// segment files; serialize them here.
	lock := flock.New(filepath.Join(dir, ".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire compilation lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("compilation %q is already being processed", name)
	}
	defer lock.Unlock()

	usable := a.validateTracks(ctx, tracks)
	if len(usable) == 0 {
		return nil, fmt.Errorf("no usable tracks")
	}

	ordered := track.Order(usable)

	var rendered []*track.Track
	var segments []string
	for i, t := range ordered {
		segPath := filepath.Join(dir, fmt.Sprintf("segment_%03d_%s.mp4", i, t.Slug))

		a.logger.Info().
			Int("index", i+1).
			Int("total", len(ordered)).
			Str("track", t.Title).
			Msg("rendering segment")

		if util.FileExists(segPath) {
			// Rerun: an existing segment is treated as complete.
			a.logger.Info().Str("segment", segPath).Msg("segment exists, skipping render")
			rendered = append(rendered, t)
			segments = append(segments, segPath)
			continue
		}

		params := a.horizontalParams(t)
		job := ffmpeg.SegmentJob{
			AudioPath:    t.LocalAudio,
			ImagePath:    t.LocalImage,
			MaskPath:     t.LocalMask,
			OutputPath:   segPath,
			Preset:       a.cfg.Encode.Preset,
			CRF:          a.cfg.Encode.CRF,
			AudioBitrate: a.cfg.Encode.AudioBitrate,
		}

		if err := a.renderWithFallback(ctx, params, job); err != nil {
			a.logger.Error().Err(err).Str("track", t.Slug).Msg("segment failed, track excluded")
			util.CleanupFiles(segPath)
			continue
		}

		rendered = append(rendered, t)
		segments = append(segments, segPath)
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments rendered")
	}

	// Chapters come from the same ordering the segments were rendered in;
	// tracks that failed are excluded from both.
	chapters := BuildChapters(rendered)
	total := track.TotalDuration(rendered)

	outputPath := filepath.Join(dir, name+".mp4")
	if err := a.exec.ConcatSegments(ctx, ffmpeg.ConcatOptions{
		Inputs: segments,
		Output: outputPath,
	}); err != nil {
		return nil, err
	}

	a.audioDurationCheck(ctx, dir, rendered, total)

	info := &CompilationInfo{
		ID:            uuid.NewString(),
		Name:          name,
		TotalDuration: total,
		TotalMinutes:  total / 60,
		TrackCount:    len(rendered),
		Tracks:        rendered,
		Chapters:      chapters,
		ChapterText:   ChapterText(chapters),
		VideoPath:     outputPath,
	}

	infoPath := filepath.Join(dir, "compilation_info.json")
	if err := SaveInfo(info, infoPath); err != nil {
		a.logger.Warn().Err(err).Msg("failed to persist compilation info")
	}

	a.logger.Info().
		Str("output", outputPath).
		Float64("minutes", info.TotalMinutes).
		Int("tracks", info.TrackCount).
		Msg("compilation created")

	return info, nil
}

// validateTracks drops tracks missing local assets or a known duration.
// Skipped tracks are logged, not fatal.
func (a *Assembler) validateTracks(ctx context.Context, tracks []*track.Track) []*track.Track {
	usable := make([]*track.Track, 0, len(tracks))
	for _, t := range tracks {
		if !t.HasAssets() {
			a.logger.Warn().Str("track", t.Slug).Msg("missing local assets, skipping")
			continue
		}
		if t.Duration <= 0 {
			duration, err := a.exec.ProbeDuration(ctx, t.LocalAudio)
			if err != nil {
				a.logger.Warn().Err(err).Str("track", t.Slug).Msg("duration unknown, skipping")
				continue
			}
			t.Duration = duration
		}
		usable = append(usable, t)
	}
	return usable
}

// renderWithFallback tries the configured effect graph, then retries once
// with the simpler known-good fallback graph before giving up on the track.
func (a *Assembler) renderWithFallback(ctx context.Context, params filtergraph.Params, job ffmpeg.SegmentJob) error {
	graph, err := filtergraph.Build(params)
	if err != nil {
		return err
	}
	job.Graph = graph

	err = a.exec.RenderSegment(ctx, job)
	if err == nil {
		return nil
	}

	var rerr *ffmpeg.RenderError
	if !errors.As(err, &rerr) {
		return err
	}
	a.logger.Warn().
		Str("output", job.OutputPath).
		Str("stderr", rerr.Output).
		Msg("render failed, retrying with fallback graph")

	params.HasMask = false
	job.MaskPath = ""
	fallback, err := filtergraph.BuildFallback(params)
	if err != nil {
		return err
	}
	job.Graph = fallback
	return a.exec.RenderSegment(ctx, job)
}

// audioDurationCheck concatenates the raw track audio and compares its length
// against the summed durations. Sanity check only; the result never feeds
// final video timing.
func (a *Assembler) audioDurationCheck(ctx context.Context, dir string, tracks []*track.Track, expected float64) {
	audioFiles := make([]string, 0, len(tracks))
	for _, t := range tracks {
		audioFiles = append(audioFiles, t.LocalAudio)
	}

	concatPath := filepath.Join(dir, "concat_audio.mp3")
	if err := a.exec.ConcatAudio(ctx, audioFiles, concatPath); err != nil {
		a.logger.Warn().Err(err).Msg("audio duration check skipped")
		return
	}

	actual, err := a.exec.ProbeDuration(ctx, concatPath)
	if err != nil {
		a.logger.Warn().Err(err).Msg("audio duration check skipped")
		return
	}

	if math.Abs(actual-expected) > audioCheckTolerance {
		a.logger.Warn().
			Float64("expected", expected).
			Float64("actual", actual).
			Msg("concatenated audio duration drifts from track sum")
	}
}

// horizontalParams builds the long-form composition parameters for a track.
func (a *Assembler) horizontalParams(t *track.Track) filtergraph.Params {
	return filtergraph.Params{
		Width:        a.cfg.Video.Width,
		Height:       a.cfg.Video.Height,
		FPS:          a.cfg.Video.FPS,
		Duration:     t.Duration,
		Title:        t.Title,
		Channel:      a.cfg.Channel.Name,
		Effect:       filtergraph.ParseEffect(a.cfg.Viz.Effect),
		HasMask:      t.LocalMask != "",
		VizHeight:    a.cfg.Viz.Height,
		ZoomRate:     a.cfg.Viz.ZoomRate,
		MaxZoom:      a.cfg.Viz.MaxZoom,
		FadeDuration: a.cfg.Viz.FadeDuration,
		TitleDisplay: a.cfg.Viz.TitleDisplay,
		TitleSize:    48,
		TitleY:       "100",
		ChannelSize:  32,
		ChannelY:     "50",
		Vignette:     "PI/5",
	}
}
