// Package cmd implements the naanews command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nardi-nardi/naanews-sub000/internal/bootstrap"
	"github.com/nardi-nardi/naanews-sub000/internal/config"
)

const defaultConfigFile = "config.yml"

// NewRootCommand builds the naanews command tree. Running it without a
// subcommand serves the site.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "naanews",
		Short:        "naanews content service",
		Long:         `Serves feeds, stories, books, products and roadmaps from the document store with seed fallback and a read-through cache.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.Serve(cmd.Context(), configPath)
		},
	}

	rootCmd.PersistentFlags().StringVar(
		&configPath,
		"config",
		config.GetConfigPath(defaultConfigFile),
		"path to configuration file (CONFIG_PATH)",
	)

	rootCmd.AddCommand(
		newServeCommand(&configPath),
		newMigrateCommand(&configPath),
		newSeedCommand(&configPath),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the root command until it finishes or the process is signalled.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "naanews version %s\n", bootstrap.Version)
		},
	}
}
