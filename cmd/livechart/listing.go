package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabriel/livechart-api/internal/catalog"
)

var listingCmd = &cobra.Command{
	Use:   "listing [kind]",
	Short: "Print a season listing",
	Long: `Fetch one season listing and print its records.

Kinds are anime (default), movie, ova and all, plus their aliases.

Examples:
  livechart listing
  livechart listing movies --season spring --year 2023
  livechart listing anime --sort title --order asc
  livechart listing all --search frieren`,
	Args: cobra.MaximumNArgs(1),
	RunE: runListingCmd,
}

func init() {
	rootCmd.AddCommand(listingCmd)
	listingCmd.Flags().String("season", "", "Season: winter, spring, summer or fall")
	listingCmd.Flags().String("year", "", "Year")
	listingCmd.Flags().String("sort", "", "Sort by rating, title, episodes or airdates")
	listingCmd.Flags().String("order", "", "Sort order: asc or desc")
	listingCmd.Flags().String("search", "", "Keep titles containing this text")
	listingCmd.Flags().String("status", "", "Keep records with this status")
}

func runListingCmd(cmd *cobra.Command, args []string) error {
	season, _ := cmd.Flags().GetString("season")
	year, _ := cmd.Flags().GetString("year")
	sortBy, _ := cmd.Flags().GetString("sort")
	order, _ := cmd.Flags().GetString("order")
	search, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")

	query := catalog.ListingQuery{Kind: "anime", Season: season, Year: year}
	if len(args) > 0 {
		query.Kind = args[0]
	}

	service, err := newService(cmd)
	if err != nil {
		return err
	}

	result, err := service.Listing(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("listing %s: %w", query.Kind, err)
	}

	records := result.Records
	if search != "" {
		if records, err = catalog.Search(records, search); err != nil {
			return err
		}
	}
	if status != "" {
		if records, err = catalog.FilterByStatus(records, status); err != nil {
			return err
		}
	}
	if sortBy != "" || order != "" {
		if records, err = catalog.Sort(records, sortBy, order); err != nil {
			return err
		}
	}

	return printJSON(cmd.OutOrStdout(), map[string]any{
		"type":   result.Kind.Key,
		"season": result.Season,
		"year":   result.Year,
		"total":  len(records),
		"data":   records,
	})
}
