// Package musicgen wraps the external audio generation CLI. The binary
// renders a prompt to a WAV file; the client decodes it into an in-memory
// buffer for scoring.
package musicgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"foley/internal/asset"
	"foley/internal/curator"
	"foley/internal/wav"
)

var commandContext = exec.CommandContext

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithModel selects a generation model checkpoint.
func WithModel(model string) Option {
	return func(c *CLI) {
		c.model = model
	}
}

// CLI wraps the generation command-line tool.
type CLI struct {
	binary string
	model  string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "musicgen"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Generate renders one variation and decodes the result.
func (c *CLI) Generate(ctx context.Context, req curator.GenerateRequest) (*asset.Buffer, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, errors.New("prompt required")
	}
	if req.Duration <= 0 {
		return nil, errors.New("duration must be positive")
	}

	tmpDir, err := os.MkdirTemp("", "foley-gen-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	outputPath := filepath.Join(tmpDir, "variation.wav")

	args := []string{
		"--prompt", req.Prompt,
		"--duration", strconv.FormatFloat(req.Duration, 'f', -1, 64),
		"--seed", strconv.FormatInt(req.Seed, 10),
		"--output", outputPath,
	}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("generation failed: %w: %s", err, firstLine(output))
	}

	buf, err := wav.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("decode generated audio: %w", err)
	}
	return buf, nil
}

func firstLine(output []byte) string {
	text := strings.TrimSpace(string(output))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return text
}

var _ curator.Generator = (*CLI)(nil)
