package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"foley/internal/asset"
	"foley/internal/library"
)

func newResolveCommand(cmdCtx *commandContext) *cobra.Command {
	var characterFlag string

	cmd := &cobra.Command{
		Use:   "resolve <category> <key>",
		Short: "Resolve a symbolic key to a library file",
		Long: `Resolve walks the fallback chain for one symbolic key: a
character-specific entry first, then the generic tier, then absent. Absent
is a normal outcome and exits zero; scripts can distinguish it by the
printed tier.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := asset.ParseCategory(args[0])
			if err != nil {
				return err
			}

			resolver, err := cmdCtx.newResolver()
			if err != nil {
				return err
			}

			res := resolver.Resolve(asset.ResolutionRequest{
				Category:  category,
				Key:       args[1],
				Character: characterFlag,
			})

			out := cmd.OutOrStdout()
			if !res.Found {
				fmt.Fprintf(out, "%s\t-\n", library.TierAbsent)
				return nil
			}
			fmt.Fprintf(out, "%s\t%s\n", res.Tier, res.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&characterFlag, "character", "", "Character id for scoped lookup")
	return cmd
}
