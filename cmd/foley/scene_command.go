package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"foley/internal/interpolate"
	"foley/internal/services/rife"
)

func newSceneCommand(cmdCtx *commandContext) *cobra.Command {
	sceneCmd := &cobra.Command{
		Use:   "scene",
		Short: "Per-scene processing utilities",
	}

	sceneCmd.AddCommand(newSceneInterpolateCommand(cmdCtx))

	return sceneCmd
}

func newSceneInterpolateCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		durationFlag float64
		motionFlag   string
	)

	cmd := &cobra.Command{
		Use:   "interpolate <clip>",
		Short: "Run one clip through the interpolation gate",
		Long: `Interpolate evaluates a single rendered clip against the gate
heuristics and, if it qualifies, runs the configured interpolator. A failed
interpolation falls back to the original clip; the command never fails a
scene over interpolation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			var interp interpolate.Interpolator
			if cfg.Interpolation.Enabled {
				interp = rife.NewCLI(rife.WithBinary(cfg.Interpolation.Binary))
			}
			gate, err := interpolate.NewGate(cfg, interp, cmdCtx.ensureLogger())
			if err != nil {
				return err
			}

			decision := gate.Process(cmd.Context(), interpolate.Scene{
				Path:            args[0],
				DurationSeconds: durationFlag,
				Motion:          interpolate.Motion(motionFlag),
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Outcome: %s\n", decision.Outcome)
			fmt.Fprintf(out, "Reason:  %s\n", decision.Reason)
			fmt.Fprintf(out, "Clip:    %s\n", decision.OutputPath)
			return nil
		},
	}

	cmd.Flags().Float64Var(&durationFlag, "duration", 0, "Scene duration in seconds")
	cmd.Flags().StringVar(&motionFlag, "motion", "static", "Scene motion class (static, zoom, pan, shake)")
	return cmd
}
