package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/regatta-results-api/internal/scraper"
)

func newRacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "races",
		Short: "Prints the races listed on the results overview page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			races, err := appInstance.GetScraper().Races(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch races: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), races)
		},
	}
}

func newFieldsCmd() *cobra.Command {
	var raceURL string
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Prints the fields of one race",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			fields, err := appInstance.GetScraper().Fields(cmd.Context(), raceURL)
			if err != nil {
				return fmt.Errorf("fetch fields: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), fields)
		},
	}
	cmd.Flags().StringVar(&raceURL, "race-url", "", "race events page URL")
	_ = cmd.MarkFlagRequired("race-url")
	return cmd
}

func newEntriesCmd() *cobra.Command {
	var pageURL string
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Prints the crews of one field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			results, err := appInstance.GetScraper().Entries(cmd.Context(), pageURL)
			if err != nil {
				return fmt.Errorf("fetch entries: %w", err)
			}
			normalize := appInstance.GetConfig().Entries.NormalizeFallback
			return printJSON(cmd.OutOrStdout(), scraper.EncodeCrews(results, normalize))
		},
	}
	cmd.Flags().StringVar(&pageURL, "url", "", "entries or draw page URL")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
