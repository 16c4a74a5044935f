package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nardi-nardi/naanews-sub000/internal/bootstrap"
	"github.com/nardi-nardi/naanews-sub000/internal/docstore"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP content service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.Serve(cmd.Context(), *configPath)
		},
	}
}

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back the document collection migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{bootstrap.MigrateUp, bootstrap.MigrateDown},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootstrap.Migrate(*configPath, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", args[0])
			return nil
		},
	}
}

func newSeedCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in datasets into the document store",
		Long: `Upserts every built-in feed, story, book, product, category and roadmap by id or slug,
then broadcasts a cache invalidation for every tag to running servers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := bootstrap.Seed(cmd.Context(), *configPath)
			if err != nil {
				return err
			}

			renderSeedResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

// renderSeedResult prints the documents written per collection.
func renderSeedResult(out io.Writer, result bootstrap.SeedResult) {
	colls := make([]docstore.Collection, 0, len(result))
	for coll := range result {
		colls = append(colls, coll)
	}
	slices.Sort(colls)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Collection", "Documents"})

	total := 0
	for _, coll := range colls {
		t.AppendRow(table.Row{string(coll), result[coll]})
		total += result[coll]
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()
}
