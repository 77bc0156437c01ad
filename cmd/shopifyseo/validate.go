package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ShopifySEO/internal/infrastructure/csvio"
	"ShopifySEO/internal/pipeline"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <input.csv>",
		Short: "Check that a product export is well formed and count eligible rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			catalog, err := csvio.NewSource(args[0]).Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			active, eligible := 0, 0
			for _, rec := range catalog.Records {
				if rec.IsActive() {
					active++
				}
				if pipeline.Eligible(rec, cfg.Pipeline.MaxTitleLength) {
					eligible++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File is valid.\n")
			fmt.Fprintf(out, "Total products:    %d\n", len(catalog.Records))
			fmt.Fprintf(out, "Active products:   %d\n", active)
			fmt.Fprintf(out, "Eligible for rewrite: %d\n", eligible)
			return nil
		},
	}
}
