package curator

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"foley/internal/analysis"
	"foley/internal/asset"
	"foley/internal/config"
	"foley/internal/ledger"
	"foley/internal/logging"
	"foley/internal/loudness"
	"foley/internal/scoring"
	"foley/internal/services"
	"foley/internal/wav"
)

// GenerateRequest describes one variation render.
type GenerateRequest struct {
	Prompt   string
	Duration float64
	Seed     int64
}

// Generator is the external audio generation collaborator. Implementations
// must honor ctx cancellation; a call that outlives its deadline counts as a
// failed variation.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*asset.Buffer, error)
}

// Recorder persists curation run history. A nil Recorder disables history.
type Recorder interface {
	RecordRun(ctx context.Context, run ledger.Run) error
}

// Request names one library key to curate.
type Request struct {
	Category    asset.Category
	Key         string
	Character   string
	Prompt      string
	Duration    float64
	Profile     scoring.Profile
	ProfileName string
}

// CandidateReport captures how one variation fared during scoring.
type CandidateReport struct {
	Index    int
	Score    float64
	Features analysis.Features
	Err      string
}

// Result describes a finished (or skipped) curation for one key.
type Result struct {
	Entry       asset.LibraryEntry
	Skipped     bool
	RunID       string
	WinnerIndex int
	WinnerScore float64
	Candidates  []CandidateReport
}

// Curator orchestrates candidate generation, scoring, normalization, and
// commit-once persistence.
type Curator struct {
	cfg      *config.Config
	gen      Generator
	recorder Recorder
	logger   *slog.Logger
}

// New constructs a curator. recorder may be nil.
func New(cfg *config.Config, gen Generator, recorder Recorder, logger *slog.Logger) (*Curator, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "curator", "new", "config is required", nil)
	}
	if gen == nil {
		return nil, services.Wrap(services.ErrConfiguration, "curator", "new", "generator is required", nil)
	}
	return &Curator{
		cfg:      cfg,
		gen:      gen,
		recorder: recorder,
		logger:   logging.NewComponentLogger(logger, "curator"),
	}, nil
}

// Curate produces the library entry for one key. If an entry already exists
// the call is a no-op that returns it; the generator is not invoked.
func (c *Curator) Curate(ctx context.Context, req Request) (Result, error) {
	if req.Key == "" {
		return Result{}, services.Wrap(services.ErrConfiguration, "curator", "curate", "symbolic key is required", nil)
	}

	target := c.cfg.LoudnessTarget(req.Category)
	if existing, ok := c.existingEntry(req); ok {
		c.logger.Debug("entry exists; skipping curation",
			logging.Args(
				logging.String(logging.FieldCategory, string(req.Category)),
				logging.String(logging.FieldSymbolicKey, req.Key),
				logging.String("path", existing),
			)...)
		return Result{
			Entry: asset.LibraryEntry{
				Category:    req.Category,
				Key:         req.Key,
				Character:   req.Character,
				Path:        existing,
				LoudnessLUF: target,
			},
			Skipped: true,
		}, nil
	}

	runID := uuid.NewString()
	started := time.Now()
	count := c.cfg.Curation.VariationCount

	type candidate struct {
		index  int
		buffer *asset.Buffer
	}

	// Generation failures drop the variation; they only become fatal when
	// every variation fails.
	reports := make([]CandidateReport, 0, count)
	var survivors []candidate
	for i := 0; i < count; i++ {
		buf, err := c.generate(ctx, req, i)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			c.logger.Warn("variation generation failed",
				logging.Args(
					logging.String(logging.FieldEventType, "variation_generation_failed"),
					logging.String(logging.FieldSymbolicKey, req.Key),
					logging.Int("variation", i),
					logging.Error(err),
					logging.String(logging.FieldImpact, "variation dropped from scoring"),
				)...)
			reports = append(reports, CandidateReport{Index: i, Err: err.Error()})
			continue
		}
		reports = append(reports, CandidateReport{Index: i})
		survivors = append(survivors, candidate{index: i, buffer: buf})
	}

	if len(survivors) == 0 {
		err := services.Wrap(services.ErrGenerationExhausted, "curator", "curate",
			fmt.Sprintf("all %d variations failed for %s/%s", count, req.Category, req.Key), nil)
		c.recordRun(ctx, runID, req, target, started, reports, -1, 0, err)
		return Result{}, err
	}

	// Scoring runs strictly after the full candidate set is in hand.
	// Strict greater-than keeps the earliest generation on ties, which is
	// what makes selection deterministic for fixed seeds.
	winner := survivors[0]
	bestScore := -1.0
	for _, cand := range survivors {
		features := analysis.Extract(cand.buffer)
		score := scoring.Score(features, req.Profile)
		reports[cand.index].Features = features
		reports[cand.index].Score = score
		if score > bestScore {
			bestScore = score
			winner = cand
		}
	}

	normalized, measured, err := loudness.Normalize(winner.buffer, target)
	if err != nil {
		if !errors.Is(err, loudness.ErrUnmeasurable) {
			c.recordRun(ctx, runID, req, target, started, reports, winner.index, bestScore, err)
			return Result{}, fmt.Errorf("normalize winner: %w", err)
		}
		// A silent winner means every candidate was silent; commit it as-is
		// rather than failing the key.
		normalized = winner.buffer
		measured = target
	}

	relPath := asset.CanonicalPath(req.Category, req.Key, req.Character)
	fullPath := filepath.Join(c.cfg.Paths.LibraryDir, relPath)
	if err := wav.WriteFile(fullPath, normalized); err != nil {
		c.recordRun(ctx, runID, req, target, started, reports, winner.index, bestScore, err)
		return Result{}, fmt.Errorf("persist winner: %w", err)
	}

	c.logger.Info("curated asset",
		logging.Args(
			logging.String(logging.FieldRunID, runID),
			logging.String(logging.FieldCategory, string(req.Category)),
			logging.String(logging.FieldSymbolicKey, req.Key),
			logging.Int("winner_variation", winner.index),
			logging.Float64("winner_score", bestScore),
			logging.Float64("measured_lufs", measured),
			logging.Float64("target_lufs", target),
			logging.Duration("elapsed", time.Since(started)),
		)...)

	c.recordRun(ctx, runID, req, target, started, reports, winner.index, bestScore, nil)

	return Result{
		Entry: asset.LibraryEntry{
			Category:    req.Category,
			Key:         req.Key,
			Character:   req.Character,
			Path:        fullPath,
			LoudnessLUF: target,
		},
		RunID:       runID,
		WinnerIndex: winner.index,
		WinnerScore: bestScore,
		Candidates:  reports,
	}, nil
}

func (c *Curator) generate(ctx context.Context, req Request, variation int) (*asset.Buffer, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.GeneratorTimeout())
	defer cancel()

	buf, err := c.gen.Generate(ctx, GenerateRequest{
		Prompt:   req.Prompt,
		Duration: req.Duration,
		Seed:     variationSeed(c.cfg.Curation.Seed, req, variation),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "curator", "generate", "generation timed out", err)
		}
		return nil, services.Wrap(services.ErrGeneration, "curator", "generate", "generator call failed", err)
	}
	if buf == nil || len(buf.Samples) == 0 {
		return nil, services.Wrap(services.ErrGeneration, "curator", "generate", "generator returned an empty buffer", nil)
	}
	return buf, nil
}

// existingEntry checks the filesystem for a committed or manually placed
// file. Manual overrides may be .mp3; the canonical extension is .wav.
func (c *Curator) existingEntry(req Request) (string, bool) {
	relPath := asset.CanonicalPath(req.Category, req.Key, req.Character)
	base := strings.TrimSuffix(filepath.Join(c.cfg.Paths.LibraryDir, relPath), ".wav")
	for _, ext := range []string{".wav", ".mp3"} {
		path := base + ext
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func (c *Curator) recordRun(ctx context.Context, runID string, req Request, target float64, started time.Time, reports []CandidateReport, winnerIndex int, winnerScore float64, runErr error) {
	if c.recorder == nil {
		return
	}
	run := ledger.Run{
		ID:             runID,
		Category:       string(req.Category),
		Key:            req.Key,
		Character:      req.Character,
		ProfileName:    req.ProfileName,
		VariationCount: c.cfg.Curation.VariationCount,
		WinnerIndex:    winnerIndex,
		WinnerScore:    winnerScore,
		TargetLUFS:     target,
		StartedAt:      started,
		FinishedAt:     time.Now(),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	for _, report := range reports {
		run.Candidates = append(run.Candidates, ledger.Candidate{
			Index:            report.Index,
			Score:            report.Score,
			RMS:              report.Features.RMS,
			TempoBPM:         report.Features.TempoBPM,
			SpectralCentroid: report.Features.SpectralCentroid,
			DynamicRangeDB:   report.Features.DynamicRangeDB,
			HarmonicRatio:    report.Features.HarmonicRatio,
			Error:            report.Err,
		})
	}
	if err := c.recorder.RecordRun(ctx, run); err != nil {
		c.logger.Warn("failed to record curation run",
			logging.Args(
				logging.String(logging.FieldEventType, "ledger_record_failed"),
				logging.String(logging.FieldRunID, runID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check ledger path permissions"),
				logging.String(logging.FieldImpact, "run history will be incomplete"),
			)...)
	}
}

// variationSeed derives a stable per-variation seed from the configured base
// seed and the key identity, so different keys never share candidate seeds.
func variationSeed(base int64, req Request, variation int) int64 {
	h := fnv.New64a()
	h.Write([]byte(string(req.Category)))
	h.Write([]byte{0})
	h.Write([]byte(req.Key))
	h.Write([]byte{0})
	h.Write([]byte(req.Character))
	return base + int64(h.Sum64()&0x7fffffff) + int64(variation)
}
