package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"foley/internal/config"
)

func newConfigCommand(cmdCtx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(cmdCtx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the curation plan and mood profiles, then run `foley curate`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Validate and display the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Library dir:     %s\n", cfg.Paths.LibraryDir)
			fmt.Fprintf(out, "Cache dir:       %s\n", cfg.Paths.CacheDir)
			fmt.Fprintf(out, "Ledger:          %s\n", cfg.Paths.LedgerPath)
			fmt.Fprintf(out, "Variations:      %d (seed %d, %d workers)\n",
				cfg.Curation.VariationCount, cfg.Curation.Seed, cfg.Curation.Parallelism)
			fmt.Fprintf(out, "Generator:       %s\n", cfg.Curation.GeneratorBinary)
			fmt.Fprintf(out, "Plan entries:    %d\n", len(cfg.Curation.Plan))
			fmt.Fprintf(out, "Profiles:        %d\n", len(cfg.Profiles))
			fmt.Fprintf(out, "Enhancement:     %s (scale %d, enabled %s)\n",
				cfg.Enhancement.Binary, cfg.Enhancement.Scale, yesNo(cfg.Enhancement.Enabled))
			fmt.Fprintf(out, "Interpolation:   %s (min %.1fs, %d fps, enabled %s)\n",
				cfg.Interpolation.Binary, cfg.Interpolation.MinSceneSeconds,
				cfg.Interpolation.TargetFPS, yesNo(cfg.Interpolation.Enabled))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
