package interpolate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"foley/internal/config"
	"foley/internal/logging"
	"foley/internal/services"
)

// Motion classifies the dominant camera move of a scene.
type Motion string

const (
	MotionStatic Motion = "static"
	MotionZoom   Motion = "zoom"
	MotionPan    Motion = "pan"
	MotionShake  Motion = "shake"
)

// Moving reports whether interpolation has any visible effect on this
// motion class.
func (m Motion) Moving() bool {
	switch m {
	case MotionZoom, MotionPan, MotionShake:
		return true
	default:
		return false
	}
}

// Scene describes one rendered clip the gate may interpolate.
type Scene struct {
	Path            string
	DurationSeconds float64
	Motion          Motion
}

// Outcome is the terminal state of a gate decision.
type Outcome string

const (
	OutcomeSkipped    Outcome = "skipped"
	OutcomeApplied    Outcome = "applied"
	OutcomeFallenBack Outcome = "fallen_back"
)

// Decision is the gate's verdict for one scene. OutputPath always points at
// a usable clip: the interpolated output when applied, the original
// otherwise.
type Decision struct {
	Outcome    Outcome
	Reason     string
	OutputPath string
	Elapsed    time.Duration
}

// Interpolated reports whether the scene's frame rate actually changed.
func (d Decision) Interpolated() bool {
	return d.Outcome == OutcomeApplied
}

// Interpolator renders inputPath at targetFPS into outputPath.
type Interpolator interface {
	Interpolate(ctx context.Context, inputPath, outputPath string, targetFPS int) error
}

// Gate applies the skip heuristics and runs the interpolator with a soft
// failure mode.
type Gate struct {
	cfg    *config.Config
	interp Interpolator
	logger *slog.Logger
}

// NewGate constructs a gate. interp may be nil when interpolation is
// disabled in config.
func NewGate(cfg *config.Config, interp Interpolator, logger *slog.Logger) (*Gate, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "interpolate", "new", "config is required", nil)
	}
	if cfg.Interpolation.Enabled && interp == nil {
		return nil, services.Wrap(services.ErrConfiguration, "interpolate", "new", "interpolation enabled but no interpolator provided", nil)
	}
	return &Gate{
		cfg:    cfg,
		interp: interp,
		logger: logging.NewComponentLogger(logger, "interpolate"),
	}, nil
}

// Process evaluates one scene. The zero-value guards run first; only a
// scene that passes every one reaches the interpolator.
func (g *Gate) Process(ctx context.Context, scene Scene) Decision {
	if reason, skip := g.skipReason(scene); skip {
		return g.decide(scene, Decision{
			Outcome:    OutcomeSkipped,
			Reason:     reason,
			OutputPath: scene.Path,
		})
	}

	started := time.Now()
	outputPath := interpolatedPath(scene.Path, g.cfg.Interpolation.TargetFPS)

	attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.InterpolationTimeout())
	defer cancel()

	if err := g.interp.Interpolate(attemptCtx, scene.Path, outputPath, g.cfg.Interpolation.TargetFPS); err != nil {
		return g.fallBack(scene, started, fmt.Sprintf("interpolator failed: %v", err))
	}
	if info, err := os.Stat(outputPath); err != nil || info.Size() == 0 {
		_ = os.Remove(outputPath)
		return g.fallBack(scene, started, "interpolator produced no usable output")
	}

	return g.decide(scene, Decision{
		Outcome:    OutcomeApplied,
		Reason:     fmt.Sprintf("interpolated to %d fps", g.cfg.Interpolation.TargetFPS),
		OutputPath: outputPath,
		Elapsed:    time.Since(started),
	})
}

func (g *Gate) skipReason(scene Scene) (string, bool) {
	switch {
	case !g.cfg.Interpolation.Enabled:
		return "interpolation disabled", true
	case scene.DurationSeconds < g.cfg.Interpolation.MinSceneSeconds:
		return fmt.Sprintf("scene too short: %.2fs < %.2fs",
			scene.DurationSeconds, g.cfg.Interpolation.MinSceneSeconds), true
	case !scene.Motion.Moving():
		return "no camera motion", true
	default:
		return "", false
	}
}

func (g *Gate) fallBack(scene Scene, started time.Time, reason string) Decision {
	return g.decide(scene, Decision{
		Outcome:    OutcomeFallenBack,
		Reason:     reason,
		OutputPath: scene.Path,
		Elapsed:    time.Since(started),
	})
}

func (g *Gate) decide(scene Scene, decision Decision) Decision {
	attrs := logging.DecisionAttrs("interpolation", string(decision.Outcome), decision.Reason)
	attrs = append(attrs,
		logging.String("scene", filepath.Base(scene.Path)),
		logging.Float64("duration_seconds", scene.DurationSeconds),
		logging.String("motion", string(scene.Motion)),
	)
	if decision.Elapsed > 0 {
		attrs = append(attrs, logging.Duration("elapsed", decision.Elapsed))
	}
	level := slog.LevelDebug
	if decision.Outcome == OutcomeFallenBack {
		level = slog.LevelWarn
	}
	g.logger.Log(context.Background(), level, "interpolation decision", logging.Args(attrs...)...)
	return decision
}

// interpolatedPath derives the sibling output name: scene.mp4 -> scene_48fps.mp4.
func interpolatedPath(inputPath string, fps int) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + fmt.Sprintf("_%dfps", fps) + ext
}
