package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/latentflow/mixforge/internal/config"
	"github.com/latentflow/mixforge/internal/falai"
	"github.com/latentflow/mixforge/internal/ffmpeg"
	"github.com/latentflow/mixforge/internal/logging"
	"github.com/latentflow/mixforge/internal/prompt"
	"github.com/latentflow/mixforge/internal/suno"
	"github.com/latentflow/mixforge/internal/track"
	"github.com/latentflow/mixforge/pkg/util"
)

var (
	batchName  string
	batchFile  string
	batchMasks bool
	batchStyle string
)

var batchCmd = &cobra.Command{
	Use:   "batch [track urls...]",
	Short: "Fetch, classify, and prepare assets for a batch of tracks",
	Long: "Runs the full preparation pipeline for a set of track URLs: metadata fetch, " +
		"mood classification, audio download, horizontal and vertical image generation, " +
		"and optional foreground mask segmentation. Everything is cached by file " +
		"existence, so rerunning a partially failed batch only does the missing work.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.FromContext(ctx)

		urls, err := collectURLs(args, batchFile)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			return fmt.Errorf("no track URLs given (pass them as arguments or via --file)")
		}

		dir := filepath.Join(cfg.WorkDir, batchName)
		if err := util.EnsureDir(dir); err != nil {
			return err
		}

		// Tee the batch log next to the assets it produced so a failed batch
		// can be diagnosed after the terminal scrollback is gone.
		logFile, err := os.OpenFile(filepath.Join(dir, "batch.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer logFile.Close()
		logger := logging.NewLogger(logging.Console(), logFile)

		p := &batchPipeline{
			logger: logger,
			cfg:    cfg,
			suno:   suno.NewClient(logger),
			fal:    falai.NewClient(logger, cfg.Fal, os.Getenv("FAL_API_KEY")),
			dir:    dir,
		}
		p.exec, err = ffmpeg.New(logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		var tracks []*track.Track
		for i, trackURL := range urls {
			logger.Info().
				Int("index", i+1).
				Int("total", len(urls)).
				Str("url", trackURL).
				Msg("processing track")

			t, err := p.prepare(cmd.Context(), trackURL)
			if err != nil {
				logger.Error().Err(err).Str("url", trackURL).Msg("track failed, continuing batch")
				continue
			}
			tracks = append(tracks, t)
		}

		if len(tracks) == 0 {
			return fmt.Errorf("no tracks prepared")
		}

		manifest := filepath.Join(dir, "tracks.json")
		if err := saveTracks(tracks, manifest); err != nil {
			return err
		}

		logger.Info().
			Int("tracks", len(tracks)).
			Str("manifest", manifest).
			Msg("batch complete")
		return nil
	},
}

// batchPipeline carries the clients shared by every track in the batch.
type batchPipeline struct {
	logger zerolog.Logger
	cfg    *config.Config
	suno   *suno.Client
	fal    *falai.Client
	exec   *ffmpeg.Executor
	dir    string
}

// prepare runs the full per-track pipeline. Each stage is skipped when its
// output file already exists, so reruns only do the missing work.
func (p *batchPipeline) prepare(ctx context.Context, trackURL string) (*track.Track, error) {
	t, err := p.suno.Fetch(ctx, trackURL)
	if err != nil {
		return nil, err
	}
	t.Mood = track.Classify(t.Description)

	trackDir := filepath.Join(p.dir, "tracks", t.Slug)

	if t.LocalAudio, err = p.suno.DownloadAudio(ctx, t, trackDir); err != nil {
		return nil, err
	}
	if _, err := p.suno.DownloadCover(ctx, t, trackDir); err != nil {
		p.logger.Warn().Err(err).Str("track", t.Slug).Msg("cover download failed")
	}

	if t.Duration <= 0 {
		if t.Duration, err = p.exec.ProbeDuration(ctx, t.LocalAudio); err != nil {
			return nil, err
		}
	}

	t.LocalImage = filepath.Join(trackDir, "scene.jpg")
	if err := p.fal.GenerateImage(ctx, p.promptFor(t, prompt.Horizontal),
		p.cfg.Video.Width, p.cfg.Video.Height, t.LocalImage); err != nil {
		return nil, err
	}

	t.LocalImageVertical = filepath.Join(trackDir, "scene_vertical.jpg")
	if err := p.fal.GenerateImage(ctx, p.promptFor(t, prompt.Vertical),
		p.cfg.Short.Width, p.cfg.Short.Height, t.LocalImageVertical); err != nil {
		p.logger.Warn().Err(err).Str("track", t.Slug).Msg("vertical image failed, shorts unavailable for this track")
		t.LocalImageVertical = ""
	}

	// Masks feed the masked-pulse pass of the glow effect. Segmentation
	// failures degrade to the unmasked graph rather than failing the track.
	if batchMasks {
		maskPath := filepath.Join(trackDir, "mask.png")
		if err := p.fal.SegmentMask(ctx, t.LocalImage, maskPath); err != nil {
			p.logger.Warn().Err(err).Str("track", t.Slug).Msg("mask segmentation failed, using unmasked effect")
		} else {
			t.LocalMask = maskPath
		}
	}

	if err := saveTrackMetadata(t, trackDir); err != nil {
		return nil, err
	}
	return t, nil
}

// promptFor picks the image prompt: a named style preset when one was asked
// for, otherwise the synthesized per-track prompt.
func (p *batchPipeline) promptFor(t *track.Track, orientation prompt.Orientation) string {
	if batchStyle != "" {
		if styled, ok := prompt.Styles[batchStyle]; ok {
			return styled
		}
		p.logger.Warn().Str("style", batchStyle).Msg("unknown style preset, synthesizing prompt")
	}
	return prompt.Synthesize(t, orientation)
}

func collectURLs(args []string, file string) ([]string, error) {
	urls := append([]string{}, args...)
	if file == "" {
		return urls, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func saveTracks(tracks []*track.Track, path string) error {
	data, err := json.MarshalIndent(tracks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func loadTracks(path string) ([]*track.Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tracks []*track.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

func init() {
	batchCmd.Flags().StringVarP(&batchName, "name", "n", "compilation", "compilation name (directory under the work dir)")
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "file with one track URL per line")
	batchCmd.Flags().BoolVar(&batchMasks, "masks", true, "segment foreground masks for the pulse effect")
	batchCmd.Flags().StringVar(&batchStyle, "style", "", "named style preset overriding synthesized prompts")
}
