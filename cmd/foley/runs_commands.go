package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRunsCommand(cmdCtx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect curation run history",
	}

	runsCmd.AddCommand(newRunsListCommand(cmdCtx))
	runsCmd.AddCommand(newRunsShowCommand(cmdCtx))

	return runsCmd
}

func newRunsListCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent curation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cmdCtx.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No curation runs recorded.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				outcome := "ok"
				if !run.Succeeded() {
					outcome = "failed"
				}
				rows = append(rows, []string{
					run.ID,
					displayTitle(run.Category),
					run.Key,
					outcome,
					formatScore(run.WinnerScore),
					run.StartedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Category", "Key", "Outcome", "Score", "Started"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func newRunsShowCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show candidate scores for one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cmdCtx.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:       %s\n", run.ID)
			fmt.Fprintf(out, "Key:       %s/%s\n", run.Category, run.Key)
			if run.Character != "" {
				fmt.Fprintf(out, "Character: %s\n", displayTitle(run.Character))
			}
			fmt.Fprintf(out, "Profile:   %s\n", run.ProfileName)
			fmt.Fprintf(out, "Target:    %.1f LUFS\n", run.TargetLUFS)
			fmt.Fprintf(out, "Succeeded: %s\n", yesNo(run.Succeeded()))
			if run.Error != "" {
				fmt.Fprintf(out, "Error:     %s\n", run.Error)
			}

			rows := make([][]string, 0, len(run.Candidates))
			for _, cand := range run.Candidates {
				marker := ""
				if cand.Index == run.WinnerIndex {
					marker = "*"
				}
				detail := fmt.Sprintf("rms=%.3f bpm=%.0f centroid=%.0f dr=%.1f hnr=%.2f",
					cand.RMS, cand.TempoBPM, cand.SpectralCentroid, cand.DynamicRangeDB, cand.HarmonicRatio)
				if cand.Error != "" {
					detail = cand.Error
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d%s", cand.Index, marker),
					formatScore(cand.Score),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Variation", "Score", "Detail"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
