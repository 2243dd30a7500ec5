package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"travela/internal/adapters/observability"
	"travela/internal/shared"
)

var (
	configPath string
	cfg        shared.Config
)

var rootCmd = &cobra.Command{
	Use:           "guide",
	Short:         "Generate travel guides and session tokens from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configPath == "" {
			configPath = os.Getenv("TRAVELA_CONFIG")
		}
		cfg = shared.LoadFrom(configPath)
		log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	rootCmd.AddCommand(newGenerateCmd(), newTokenCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
