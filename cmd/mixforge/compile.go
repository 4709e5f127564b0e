package main

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/latentflow/mixforge/internal/compile"
	"github.com/latentflow/mixforge/internal/config"
	"github.com/latentflow/mixforge/internal/ffmpeg"
	"github.com/latentflow/mixforge/internal/track"
)

var compileCmd = &cobra.Command{
	Use:   "compile [name]",
	Short: "Render segments and assemble the compilation video",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.FromContext(ctx)

		name := "compilation"
		if len(args) > 0 {
			name = args[0]
		}

		tracks, err := loadTracks(filepath.Join(cfg.WorkDir, name, "tracks.json"))
		if err != nil {
			return fmt.Errorf("failed to load batch manifest (run batch first): %w", err)
		}

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		assembler := compile.New(log.Logger, cfg, exec)
		info, err := assembler.Compile(ctx, name, tracks)
		if err != nil {
			return err
		}

		fmt.Printf("Compilation: %s\n", info.VideoPath)
		fmt.Printf("Tracks:      %d\n", info.TrackCount)
		fmt.Printf("Duration:    %s\n", compile.FormatTimestamp(info.TotalDuration))
		fmt.Println()
		fmt.Print(info.ChapterText)
		return nil
	},
}

var (
	shortStart    float64
	shortDuration float64
)

var shortCmd = &cobra.Command{
	Use:   "short [name] [track slug]",
	Short: "Render a vertical short clip for one track",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.FromContext(ctx)
		name, slug := args[0], args[1]

		tracks, err := loadTracks(filepath.Join(cfg.WorkDir, name, "tracks.json"))
		if err != nil {
			return fmt.Errorf("failed to load batch manifest (run batch first): %w", err)
		}

		var target *track.Track
		for _, t := range tracks {
			if t.Slug == slug {
				target = t
				break
			}
		}
		if target == nil {
			return fmt.Errorf("track %q not in batch %q", slug, name)
		}

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		outputPath := filepath.Join(cfg.WorkDir, name, "short_"+slug+".mp4")
		assembler := compile.New(log.Logger, cfg, exec)
		if err := assembler.Short(ctx, target, shortStart, shortDuration, outputPath); err != nil {
			return err
		}

		fmt.Printf("Short: %s\n", outputPath)
		return nil
	},
}

func init() {
	shortCmd.Flags().Float64Var(&shortStart, "start", -1, "clip start in seconds (default: hook heuristic)")
	shortCmd.Flags().Float64Var(&shortDuration, "duration", 0, "clip duration in seconds (default: configured)")
}
