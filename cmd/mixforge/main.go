package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/latentflow/mixforge/internal/config"
	"github.com/latentflow/mixforge/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mixforge",
	Short: "mixforge - amapiano compilation video factory",
	Long:  "Fetches tracks, classifies and orders them, renders visualizer segments, and assembles long-form compilations and vertical shorts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Secrets (FAL_API_KEY, YOUTUBE_ACCESS_TOKEN) come from the
		// environment; a local .env is a convenience, not a requirement.
		_ = godotenv.Load()

		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./mixforge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(shortCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(tasksCmd)
}
