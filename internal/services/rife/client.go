// Package rife wraps the external frame interpolation CLI used by the
// interpolation gate.
package rife

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"foley/internal/interpolate"
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

// WithModel selects an interpolation model directory.
func WithModel(model string) Option {
	return func(c *CLI) {
		c.model = model
	}
}

// CLI wraps the interpolation command-line tool.
type CLI struct {
	binary string
	model  string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "rife-ncnn-vulkan"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Interpolate renders inputPath at targetFPS into outputPath.
func (c *CLI) Interpolate(ctx context.Context, inputPath, outputPath string, targetFPS int) error {
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}
	if targetFPS <= 0 {
		return errors.New("target fps must be positive")
	}

	args := []string{
		"-i", inputPath,
		"-o", outputPath,
		"--fps", strconv.Itoa(targetFPS),
	}
	if c.model != "" {
		args = append(args, "-m", c.model)
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("interpolation failed: %w: %s", err, firstLine(output))
	}
	return nil
}

func firstLine(output []byte) string {
	for i, b := range output {
		if b == '\n' {
			return string(output[:i])
		}
	}
	return string(output)
}

var _ interpolate.Interpolator = (*CLI)(nil)
