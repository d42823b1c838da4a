package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabriel/livechart-api/internal/catalog"
)

var detailCmd = &cobra.Command{
	Use:   "detail <id>",
	Short: "Print one title's detail record",
	Long: `Fetch a title detail page and print the extracted record.

Examples:
  livechart detail 11000
  livechart detail 12345 --movie`,
	Args: cobra.ExactArgs(1),
	RunE: runDetailCmd,
}

var exportCmd = &cobra.Command{
	Use:   "export <id>...",
	Short: "Print detail records for several ids",
	Long: `Fetch up to 50 detail pages and print the records that could be
extracted. Ids that fail are listed under "failures".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExportCmd,
}

func init() {
	rootCmd.AddCommand(detailCmd)
	rootCmd.AddCommand(exportCmd)
	detailCmd.Flags().Bool("movie", false, "Parse with the movie profile")
	exportCmd.Flags().Bool("movie", false, "Parse with the movie profile")
}

func detailKind(cmd *cobra.Command) catalog.DetailKind {
	if movie, _ := cmd.Flags().GetBool("movie"); movie {
		return catalog.MovieDetail
	}
	return catalog.AnimeDetail
}

func runDetailCmd(cmd *cobra.Command, args []string) error {
	service, err := newService(cmd)
	if err != nil {
		return err
	}

	result, err := service.Detail(cmd.Context(), detailKind(cmd), args[0])
	if err != nil {
		return fmt.Errorf("detail %s: %w", args[0], err)
	}
	return printJSON(cmd.OutOrStdout(), result.Record)
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	service, err := newService(cmd)
	if err != nil {
		return err
	}

	result, err := service.ExportDetails(cmd.Context(), detailKind(cmd), args)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{
		"total":    len(result.Items),
		"items":    result.Items,
		"failures": result.Failures,
	})
}
