package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration after file and env resolution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.loadConfig()
			if cfg.LLM.APIKey != "" {
				cfg.LLM.APIKey = "<redacted>"
			}
			if cfg.Redis.Password != "" {
				cfg.Redis.Password = "<redacted>"
			}
			if cfg.Database.DSN != "" {
				cfg.Database.DSN = "<redacted>"
			}

			raw, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
}
