package musicgen

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"testing"

	"foley/internal/asset"
	"foley/internal/curator"
	"foley/internal/wav"
)

func argValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func setHelperCommand(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string(nil), args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("MUSICGEN_HELPER_MODE=%s", mode),
			fmt.Sprintf("MUSICGEN_OUTPUT=%s", argValue(args, "--output")),
		)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/musicgen"))
	if cli.binary != "/opt/musicgen" {
		t.Fatalf("expected binary override, got %q", cli.binary)
	}
}

func TestGenerateRequiresPrompt(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Generate(context.Background(), curator.GenerateRequest{Duration: 1}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestGenerateRequiresPositiveDuration(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Generate(context.Background(), curator.GenerateRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error for non-positive duration")
	}
}

func TestGeneratePassesSeedAndModel(t *testing.T) {
	var captured []string
	setHelperCommand(t, "success", &captured)

	cli := NewCLI(WithModel("small"))
	_, err := cli.Generate(context.Background(), curator.GenerateRequest{
		Prompt:   "calm ambient pad",
		Duration: 1.5,
		Seed:     42,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := argValue(captured, "--seed"); got != "42" {
		t.Fatalf("seed arg = %q, want 42", got)
	}
	if got := argValue(captured, "--duration"); got != "1.5" {
		t.Fatalf("duration arg = %q, want 1.5", got)
	}
	if got := argValue(captured, "--model"); got != "small" {
		t.Fatalf("model arg = %q, want small", got)
	}
}

func TestGenerateDecodesOutput(t *testing.T) {
	setHelperCommand(t, "success", nil)

	cli := NewCLI()
	buf, err := cli.Generate(context.Background(), curator.GenerateRequest{
		Prompt:   "calm ambient pad",
		Duration: 1,
		Seed:     1,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if buf.SampleRate != 44100 || buf.Channels != 1 {
		t.Fatalf("unexpected format: rate=%d channels=%d", buf.SampleRate, buf.Channels)
	}
	if math.Abs(buf.Duration()-0.25) > 0.01 {
		t.Fatalf("duration = %v, want ~0.25", buf.Duration())
	}
}

func TestGenerateFailureSurfacesStderr(t *testing.T) {
	setHelperCommand(t, "failure", nil)

	cli := NewCLI()
	_, err := cli.Generate(context.Background(), curator.GenerateRequest{
		Prompt:   "p",
		Duration: 1,
	})
	if err == nil {
		t.Fatal("expected generation failure")
	}
}

func TestGenerateMissingOutputFails(t *testing.T) {
	setHelperCommand(t, "noop", nil)

	cli := NewCLI()
	if _, err := cli.Generate(context.Background(), curator.GenerateRequest{
		Prompt:   "p",
		Duration: 1,
	}); err == nil {
		t.Fatal("expected decode failure when binary writes nothing")
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("MUSICGEN_HELPER_MODE") {
	case "success":
		rate := 44100
		samples := make([]float64, rate/4)
		for i := range samples {
			samples[i] = 0.4 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))
		}
		buf := &asset.Buffer{Samples: samples, SampleRate: rate, Channels: 1}
		if err := wav.WriteFile(os.Getenv("MUSICGEN_OUTPUT"), buf); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "CUDA out of memory")
		os.Exit(1)
	case "noop":
		os.Exit(0)
	default:
		os.Exit(0)
	}
}
