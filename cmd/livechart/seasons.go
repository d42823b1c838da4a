package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gabriel/livechart-api/internal/catalog"
)

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "Print the seasons and years that can be queried",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printJSON(cmd.OutOrStdout(), catalog.SeasonCatalog(time.Now()))
	},
}

func init() {
	rootCmd.AddCommand(seasonsCmd)
}
