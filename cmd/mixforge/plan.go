package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/latentflow/mixforge/internal/compile"
	"github.com/latentflow/mixforge/internal/config"
	"github.com/latentflow/mixforge/internal/track"
)

var planCmd = &cobra.Command{
	Use:   "plan [name]",
	Short: "Preview the track order and chapter layout for a batch",
	Long: "Loads the batch manifest, applies the mood-then-BPM ordering, and prints " +
		"the resulting sequence with chapter offsets. Nothing is rendered.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		name := "compilation"
		if len(args) > 0 {
			name = args[0]
		}

		tracks, err := loadTracks(filepath.Join(cfg.WorkDir, name, "tracks.json"))
		if err != nil {
			return fmt.Errorf("failed to load batch manifest (run batch first): %w", err)
		}

		ordered := track.Order(tracks)
		chapters := compile.BuildChapters(ordered)

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"#", "Chapter", "Track", "Mood", "BPM", "Length"})
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Name: "#", Align: text.AlignRight},
			{Name: "BPM", Align: text.AlignRight},
			{Name: "Length", Align: text.AlignRight},
		})

		for i, t := range ordered {
			bpm := "-"
			if t.BPM > 0 {
				bpm = fmt.Sprintf("%d", t.BPM)
			}
			tw.AppendRow(table.Row{
				i + 1,
				chapters[i].Timestamp,
				t.Title,
				string(t.Mood),
				bpm,
				compile.FormatTimestamp(t.Duration),
			})
		}

		total := track.TotalDuration(ordered)
		tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d tracks", len(ordered)), "", "", compile.FormatTimestamp(total)})
		tw.Render()

		return nil
	},
}
