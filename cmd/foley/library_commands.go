package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newLibraryCommand(cmdCtx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and manage the asset library",
	}

	libraryCmd.AddCommand(newLibraryListCommand(cmdCtx))
	libraryCmd.AddCommand(newLibraryCharactersCommand(cmdCtx))
	libraryCmd.AddCommand(newLibraryAddCharacterCommand(cmdCtx))

	return libraryCmd
}

func newLibraryListCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every committed library entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := cmdCtx.newResolver()
			if err != nil {
				return err
			}

			entries := resolver.Entries()
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				character := "-"
				if entry.Character != "" {
					character = displayTitle(entry.Character)
				}
				rows = append(rows, []string{
					displayTitle(string(entry.Category)),
					entry.Key,
					character,
					filepath.Base(entry.Path),
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "Library is empty; run `foley curate` to populate it.")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Category", "Key", "Character", "File"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d entries\n", len(rows))
			return nil
		},
	}
}

func newLibraryCharactersCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "List characters with scoped asset folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := cmdCtx.newResolver()
			if err != nil {
				return err
			}
			characters, err := resolver.Characters()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(characters) == 0 {
				fmt.Fprintln(out, "No characters registered.")
				return nil
			}
			for _, id := range characters {
				fmt.Fprintf(out, "%s\t%s\n", id, displayTitle(id))
			}
			return nil
		},
	}
}

func newLibraryAddCharacterCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-character <id>",
		Short: "Create the scoped folders for a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := cmdCtx.newResolver()
			if err != nil {
				return err
			}
			if err := resolver.EnsureCharacter(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created character folders for %s\n", displayTitle(args[0]))
			return nil
		},
	}
}
