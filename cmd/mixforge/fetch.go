package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/latentflow/mixforge/internal/config"
	"github.com/latentflow/mixforge/internal/suno"
	"github.com/latentflow/mixforge/internal/track"
)

var fetchDownload bool

var fetchCmd = &cobra.Command{
	Use:   "fetch [track url]",
	Short: "Fetch metadata for a single track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		client := suno.NewClient(log.Logger)

		t, err := client.Fetch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		t.Mood = track.Classify(t.Description)

		fmt.Printf("Track:    %s\n", t.Title)
		fmt.Printf("Artist:   %s\n", t.Artist)
		fmt.Printf("Duration: %.1fs\n", t.Duration)
		fmt.Printf("Mood:     %s\n", t.Mood)
		fmt.Printf("BPM:      %d\n", t.BPM)

		if !fetchDownload {
			return nil
		}

		dir := filepath.Join(cfg.WorkDir, "tracks", t.Slug)
		audioPath, err := client.DownloadAudio(cmd.Context(), t, dir)
		if err != nil {
			return err
		}
		t.LocalAudio = audioPath

		if _, err := client.DownloadCover(cmd.Context(), t, dir); err != nil {
			log.Warn().Err(err).Msg("cover download failed")
		}

		return saveTrackMetadata(t, dir)
	},
}

func saveTrackMetadata(t *track.Track, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, "metadata.json")
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func init() {
	fetchCmd.Flags().BoolVarP(&fetchDownload, "download", "d", false, "also download the audio")
}
