// Command shopifyseo rewrites SEO titles in Shopify product exports, either
// as a one-shot batch over a CSV file or as an upload web service.
package main

import (
	"github.com/spf13/cobra"

	"ShopifySEO/internal/config"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "shopifyseo",
		Short:         "Rewrite overlong Shopify SEO titles with an LLM backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config (defaults to $SHOPIFY_SEO_CONFIG)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newProcessCmd(opts),
		newValidateCmd(opts),
		newConfigCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// loadConfig resolves file plus environment configuration and applies the
// shared verbosity flag.
func (o *rootOptions) loadConfig() config.Config {
	cfg := config.Load(o.configPath)
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg
}
