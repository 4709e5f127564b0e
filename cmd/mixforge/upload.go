package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/latentflow/mixforge/internal/compile"
	"github.com/latentflow/mixforge/internal/config"
	"github.com/latentflow/mixforge/internal/history"
	"github.com/latentflow/mixforge/internal/youtube"
)

var (
	uploadTitle   string
	uploadShort   string
	uploadLinkID  string
	uploadPrivacy string
)

var uploadCmd = &cobra.Command{
	Use:   "upload [name]",
	Short: "Publish a compilation (or one of its shorts) to YouTube",
	Long: "Uploads the assembled video with a generated description and chapter list. " +
		"With --short, uploads that track's vertical clip instead and queues a " +
		"related-video task pointing at the full compilation.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.FromContext(ctx)

		name := "compilation"
		if len(args) > 0 {
			name = args[0]
		}
		dir := filepath.Join(cfg.WorkDir, name)

		info, err := compile.LoadInfo(filepath.Join(dir, "compilation_info.json"))
		if err != nil {
			return fmt.Errorf("failed to load compilation info (run compile first): %w", err)
		}

		token := os.Getenv("YOUTUBE_ACCESS_TOKEN")
		if token == "" {
			return fmt.Errorf("YOUTUBE_ACCESS_TOKEN not set")
		}
		uploader := youtube.NewUploader(log.Logger, token)

		historyPath := filepath.Join(cfg.WorkDir, "history.json")
		hist, err := history.Load(historyPath)
		if err != nil {
			return err
		}

		privacy := cfg.Upload.Privacy
		if uploadPrivacy != "" {
			privacy = uploadPrivacy
		}

		if uploadShort != "" {
			return uploadShortClip(cmd, uploader, hist, historyPath, info, dir, privacy)
		}

		title := uploadTitle
		if title == "" {
			title = defaultVideoTitle(info, cfg.Channel.Name)
		}

		result, err := uploader.Upload(ctx, info.VideoPath, youtube.Metadata{
			Title:       title,
			Description: compile.Description(info, cfg.Channel.Name),
			Tags:        cfg.Upload.Tags,
			CategoryID:  cfg.Upload.CategoryID,
			Privacy:     privacy,
		})
		if err != nil {
			return err
		}

		hist.AddVideo(result.VideoID, title, result.URL, privacy, info.VideoPath)
		if err := hist.Save(historyPath); err != nil {
			log.Warn().Err(err).Msg("failed to save upload history")
		}

		fmt.Printf("Published: %s\n", result.URL)
		return nil
	},
}

func uploadShortClip(cmd *cobra.Command, uploader *youtube.Uploader, hist *history.History, historyPath string, info *compile.CompilationInfo, dir, privacy string) error {
	cfg := config.FromContext(cmd.Context())

	shortPath := filepath.Join(dir, "short_"+uploadShort+".mp4")
	if _, err := os.Stat(shortPath); err != nil {
		return fmt.Errorf("short not rendered yet: %w", err)
	}

	var trackTitle string
	for _, t := range info.Tracks {
		if t.Slug == uploadShort {
			trackTitle = t.Title
			break
		}
	}
	if trackTitle == "" {
		return fmt.Errorf("track %q not in compilation %q", uploadShort, info.Name)
	}

	title := uploadTitle
	if title == "" {
		title = fmt.Sprintf("%s 🔥 #amapiano #shorts", trackTitle)
	}

	// Link the short back to the full video so the related-video card can be
	// set manually later. Explicit --link wins; otherwise the most recent
	// upload of this compilation's video.
	linkID := uploadLinkID
	if linkID == "" {
		for i := len(hist.Videos) - 1; i >= 0; i-- {
			if hist.Videos[i].LocalFile == info.VideoPath {
				linkID = hist.Videos[i].VideoID
				break
			}
		}
	}

	result, err := uploader.Upload(cmd.Context(), shortPath, youtube.Metadata{
		Title:       title,
		Description: fmt.Sprintf("%s\n\nFull mix on %s 🎹", trackTitle, cfg.Channel.Name),
		Tags:        append([]string{"shorts"}, cfg.Upload.Tags...),
		CategoryID:  cfg.Upload.CategoryID,
		Privacy:     privacy,
	})
	if err != nil {
		return err
	}

	hist.AddShort(result.VideoID, title, result.URL, privacy, shortPath, linkID)
	if err := hist.Save(historyPath); err != nil {
		log.Warn().Err(err).Msg("failed to save upload history")
	}

	fmt.Printf("Published: %s\n", result.URL)
	if linkID != "" {
		fmt.Printf("Pending task: link short to video %s (mark with 'mixforge tasks done %s')\n", linkID, result.VideoID)
	}
	return nil
}

// defaultVideoTitle mirrors the channel's naming convention for long-form
// uploads.
func defaultVideoTitle(info *compile.CompilationInfo, channelName string) string {
	words := strings.Fields(strings.ReplaceAll(info.Name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return fmt.Sprintf("%s | %.0f Minute Amapiano Mix | %s",
		strings.Join(words, " "), info.TotalMinutes, channelName)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List pending manual follow-up tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		hist, err := history.Load(filepath.Join(cfg.WorkDir, "history.json"))
		if err != nil {
			return err
		}

		if len(hist.PendingTasks) == 0 {
			fmt.Println("No pending tasks.")
			return nil
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Short ID", "Short", "Link to video"})
		for _, task := range hist.PendingTasks {
			tw.AppendRow(table.Row{task.ShortID, task.ShortTitle, task.LinkToVideoID})
		}
		tw.Render()
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done [short id]",
	Short: "Mark a related-video task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		historyPath := filepath.Join(cfg.WorkDir, "history.json")

		hist, err := history.Load(historyPath)
		if err != nil {
			return err
		}
		if !hist.CompleteTask(args[0]) {
			return fmt.Errorf("no pending task for short %q", args[0])
		}
		if err := hist.Save(historyPath); err != nil {
			return err
		}

		fmt.Println("Task completed.")
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadTitle, "title", "", "override the generated title")
	uploadCmd.Flags().StringVar(&uploadShort, "short", "", "upload this track's short instead of the compilation")
	uploadCmd.Flags().StringVar(&uploadLinkID, "link", "", "video ID the short should link back to")
	uploadCmd.Flags().StringVar(&uploadPrivacy, "privacy", "", "privacy status (default: configured)")

	tasksCmd.AddCommand(tasksDoneCmd)
}
