package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dreamware/countries/internal/loader"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the dataset and report problems without serving",
		Long: `Validate reads the dataset exactly as serve would and prints a summary.

It exits non-zero if the file cannot be read or decoded, or if --strict-ids
is set and two records share an id. Suspicious coordinates and country codes
are reported but do not fail validation.`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	rep, err := loader.Inspect(cmd.Context(), cfg.Data, loader.WithStrictIDs(cfg.StrictIDs))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d countries\n", rep.Path, rep.Dataset.Len())
	for _, w := range rep.Warnings {
		fmt.Fprintf(out, "warning: record %d (id %d): %s\n", w.Index, w.ID, w.Message)
	}
	if len(rep.Duplicates) > 0 {
		fmt.Fprintf(out, "warning: duplicate ids %v; lookups return the last record for each\n", rep.Duplicates)
	}
	return nil
}
