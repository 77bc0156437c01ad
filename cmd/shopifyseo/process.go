package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ShopifySEO/internal/app"
	"ShopifySEO/internal/infrastructure/csvio"
	"ShopifySEO/internal/logging"
)

func newProcessCmd(opts *rootOptions) *cobra.Command {
	var (
		output    string
		model     string
		maxLength int
		tempDir   string
		timeout   int
		retries   int
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "process <input.csv>",
		Short: "Rewrite SEO titles in a product export and write the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig()

			flags := cmd.Flags()
			if flags.Changed("model") {
				cfg.LLM.Model = model
			}
			if flags.Changed("max-length") {
				cfg.Pipeline.MaxTitleLength = maxLength
			}
			if flags.Changed("temp-dir") {
				cfg.Pipeline.TempDir = tempDir
			}
			if flags.Changed("timeout") {
				cfg.Pipeline.APITimeout = timeout
			}
			if flags.Changed("retries") {
				cfg.Pipeline.MaxRetries = retries
			}
			if flags.Changed("workers") {
				cfg.Pipeline.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			input := args[0]
			if output == "" {
				output = defaultOutputPath(input)
			}

			logger := logging.New(cfg.Logging.Level)
			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			result := application.Runner().Run(cmd.Context(),
				csvio.NewSource(input), csvio.NewSink(output))
			if !result.Success {
				return fmt.Errorf("processing failed: %s", result.ErrorMessage)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total products:   %d\n", result.TotalProducts)
			fmt.Fprintf(out, "Active products:  %d\n", result.ActiveProducts)
			fmt.Fprintf(out, "Titles rewritten: %d\n", result.EditedTitles)
			fmt.Fprintf(out, "Duration:         %s\n", result.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "Output:           %s\n", result.OutputFile)
			if len(result.Failures) > 0 {
				fmt.Fprintf(out, "Failed rewrites:  %d\n", len(result.Failures))
				for _, f := range result.Failures {
					fmt.Fprintf(out, "  row %d %q: %s after %d attempts\n",
						f.Row, f.Title, f.Reason, f.Attempts)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (default <input>_optimized_<ts>.csv)")
	cmd.Flags().StringVar(&model, "model", "", "override the LLM model")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "override the SEO title length cap")
	cmd.Flags().StringVar(&tempDir, "temp-dir", "", "override the working directory")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "override the per-attempt backend timeout in seconds")
	cmd.Flags().IntVar(&retries, "retries", 0, "override the retry count per record")
	cmd.Flags().IntVar(&workers, "workers", 0, "override the rewrite concurrency")
	return cmd
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return fmt.Sprintf("%s_optimized_%d.csv", base, time.Now().Unix())
}
