package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"foley/internal/asset"
	"foley/internal/config"
	"foley/internal/curator"
	"foley/internal/logging"
	"foley/internal/services/musicgen"
)

func newCurateCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		keyFlag       string
		categoryFlag  string
		characterFlag string
		promptFlag    string
		profileFlag   string
		durationFlag  float64
	)

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Generate, score, and commit library assets",
		Long: `Curate runs the offline asset pass: for each planned key it generates
candidate variations, scores them against the key's mood profile, normalizes
the winner's loudness, and commits it to the library. Keys that already have
a committed (or manually placed) file are skipped.

Without flags the full configured plan is curated. With --key a single
ad-hoc entry is curated instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger := cmdCtx.ensureLogger()

			var recorder curator.Recorder
			store, err := cmdCtx.openLedger()
			if err != nil {
				logger.Warn("ledger unavailable; run history disabled",
					logging.Args(logging.Error(err))...)
			} else {
				recorder = store
				defer store.Close()
			}

			gen := musicgen.NewCLI(musicgen.WithBinary(cfg.Curation.GeneratorBinary))
			cur, err := curator.New(cfg, gen, recorder, logger)
			if err != nil {
				return err
			}

			var requests []curator.Request
			if keyFlag != "" {
				request, err := adHocRequest(cmdCtx, keyFlag, categoryFlag, characterFlag, promptFlag, profileFlag, durationFlag)
				if err != nil {
					return err
				}
				requests = []curator.Request{request}
			} else {
				requests = curator.RequestsFromPlan(cfg)
				if len(requests) == 0 {
					return errors.New("no plan entries configured; add [[curation.plan]] entries or pass --key")
				}
			}

			items, err := cur.CurateBatch(cmd.Context(), requests)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(items))
			failed := 0
			for _, item := range items {
				status := "curated"
				detail := formatScore(item.Result.WinnerScore)
				switch {
				case item.Err != nil:
					status = "failed"
					detail = item.Err.Error()
					failed++
				case item.Result.Skipped:
					status = "skipped"
					detail = "entry already exists"
				}
				rows = append(rows, []string{
					displayTitle(string(item.Request.Category)),
					item.Request.Key,
					status,
					detail,
					item.Result.Entry.Path,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Category", "Key", "Status", "Detail", "Path"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			if failed > 0 {
				return fmt.Errorf("%d of %d keys failed", failed, len(items))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&keyFlag, "key", "", "Curate a single symbolic key instead of the plan")
	cmd.Flags().StringVar(&categoryFlag, "category", "sfx", "Category for --key (bgm, sfx, ambience, stinger, attack, personality)")
	cmd.Flags().StringVar(&characterFlag, "character", "", "Character id for character-scoped categories")
	cmd.Flags().StringVar(&promptFlag, "prompt", "", "Generation prompt for --key")
	cmd.Flags().StringVar(&profileFlag, "profile", "", "Scoring profile name for --key")
	cmd.Flags().Float64Var(&durationFlag, "duration", 4, "Clip duration in seconds for --key")
	return cmd
}

func adHocRequest(cmdCtx *commandContext, key, category, character, prompt, profile string, duration float64) (curator.Request, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return curator.Request{}, err
	}
	parsed, err := asset.ParseCategory(category)
	if err != nil {
		return curator.Request{}, err
	}
	if prompt == "" {
		return curator.Request{}, errors.New("--prompt is required with --key")
	}
	if parsed.CharacterScoped() && character == "" {
		return curator.Request{}, fmt.Errorf("category %s requires --character", parsed)
	}

	resolved, name := cfg.PlanProfile(config.PlanEntry{
		Category: string(parsed),
		Key:      key,
		Profile:  profile,
	})
	return curator.Request{
		Category:    parsed,
		Key:         key,
		Character:   character,
		Prompt:      prompt,
		Duration:    duration,
		Profile:     resolved,
		ProfileName: name,
	}, nil
}
