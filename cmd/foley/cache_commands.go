package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"foley/internal/enhancecache"
)

func newCacheCommand(cmdCtx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the enhancement cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(cmdCtx))
	cacheCmd.AddCommand(newCacheClearCommand(cmdCtx))

	return cacheCmd
}

func (c *commandContext) newCache() (*enhancecache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return enhancecache.New(cfg, c.ensureLogger())
}

func newCacheStatsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show enhancement cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := cmdCtx.newCache()
			if err != nil {
				return err
			}
			stats, err := cache.Stats()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:    %d\n", stats.Entries)
			fmt.Fprintf(out, "Size:       %s\n", formatBytes(stats.Bytes))
			fmt.Fprintf(out, "Free space: %s\n", formatBytes(int64(stats.FreeBytes)))
			return nil
		},
	}
}

func newCacheClearCommand(cmdCtx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached enhancement artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && stdoutIsTTY() {
				fmt.Fprint(cmd.OutOrStdout(), "Delete all cached artifacts? [y/N] ")
				var answer string
				fmt.Fscanln(cmd.InOrStdin(), &answer)
				if answer != "y" && answer != "Y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			cache, err := cmdCtx.newCache()
			if err != nil {
				return err
			}
			if err := cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
