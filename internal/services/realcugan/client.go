// Package realcugan wraps the external image upscaler CLI used by the
// enhancement cache.
package realcugan

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
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

// WithScale sets the upscale factor.
func WithScale(scale int) Option {
	return func(c *CLI) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

// WithDenoise sets the denoise level.
func WithDenoise(level int) Option {
	return func(c *CLI) {
		c.denoise = level
	}
}

// CLI wraps the upscaler command-line tool.
type CLI struct {
	binary  string
	scale   int
	denoise int
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "realcugan-ncnn-vulkan", scale: 2}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Enhance upscales inputPath into outputPath. The signature matches the
// enhancement cache's compute contract.
func (c *CLI) Enhance(ctx context.Context, inputPath, outputPath string) error {
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}

	args := []string{
		"-i", inputPath,
		"-o", outputPath,
		"-s", strconv.Itoa(c.scale),
		"-n", strconv.Itoa(c.denoise),
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("upscale failed: %w: %s", err, firstLine(output))
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
