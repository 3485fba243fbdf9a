package enhancecache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"foley/internal/services"
	"foley/internal/testsupport"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cache, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cache
}

func copyCompute(calls *atomic.Int64) ComputeFunc {
	return func(ctx context.Context, sourcePath, outputPath string) error {
		calls.Add(1)
		data, err := os.ReadFile(sourcePath)
		if err != nil {
			return err
		}
		return os.WriteFile(outputPath, append([]byte("enhanced:"), data...), 0o644)
	}
}

func TestGetOrComputeCachesByContent(t *testing.T) {
	cache := newTestCache(t)
	source := writeSource(t, "panel.png", "panel-bytes")
	var calls atomic.Int64

	first, err := cache.GetOrCompute(context.Background(), source, copyCompute(&calls))
	if err != nil {
		t.Fatalf("first GetOrCompute: %v", err)
	}
	second, err := cache.GetOrCompute(context.Background(), source, copyCompute(&calls))
	if err != nil {
		t.Fatalf("second GetOrCompute: %v", err)
	}
	if first != second {
		t.Fatalf("paths differ: %q vs %q", first, second)
	}
	if calls.Load() != 1 {
		t.Fatalf("compute calls = %d, want 1", calls.Load())
	}
}

func TestContentChangeInvalidates(t *testing.T) {
	cache := newTestCache(t)
	source := writeSource(t, "panel.png", "v1")
	var calls atomic.Int64

	if _, err := cache.GetOrCompute(context.Background(), source, copyCompute(&calls)); err != nil {
		t.Fatalf("GetOrCompute v1: %v", err)
	}
	if err := os.WriteFile(source, []byte("v2"), 0o644); err != nil {
		t.Fatalf("rewrite source: %v", err)
	}
	if _, err := cache.GetOrCompute(context.Background(), source, copyCompute(&calls)); err != nil {
		t.Fatalf("GetOrCompute v2: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("compute calls = %d, want 2", calls.Load())
	}
}

func TestConfigChangeInvalidates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := writeSource(t, "panel.png", "panel-bytes")
	var calls atomic.Int64

	first, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := first.GetOrCompute(context.Background(), source, copyCompute(&calls)); err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}

	cfg.Enhancement.Scale = 4
	second, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New after scale change: %v", err)
	}
	if _, err := second.GetOrCompute(context.Background(), source, copyCompute(&calls)); err != nil {
		t.Fatalf("GetOrCompute after scale change: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("compute calls = %d, want 2", calls.Load())
	}
}

func TestConcurrentSameKeyComputesOnce(t *testing.T) {
	cache := newTestCache(t)
	source := writeSource(t, "panel.png", "panel-bytes")

	var calls atomic.Int64
	release := make(chan struct{})
	compute := func(ctx context.Context, sourcePath, outputPath string) error {
		calls.Add(1)
		<-release
		return os.WriteFile(outputPath, []byte("enhanced"), 0o644)
	}

	const callers = 8
	var wg sync.WaitGroup
	paths := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = cache.GetOrCompute(context.Background(), source, compute)
		}(i)
	}

	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("compute calls = %d, want 1", calls.Load())
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if paths[i] != paths[0] {
			t.Fatalf("caller %d path %q differs from %q", i, paths[i], paths[0])
		}
	}
}

func TestCorruptArtifactRecomputes(t *testing.T) {
	cache := newTestCache(t)
	source := writeSource(t, "panel.png", "panel-bytes")
	var calls atomic.Int64

	first, err := cache.GetOrCompute(context.Background(), source, copyCompute(&calls))
	if err != nil {
		t.Fatalf("GetOrCompute: %v", err)
	}
	if err := os.Truncate(first, 0); err != nil {
		t.Fatalf("truncate artifact: %v", err)
	}

	if _, err := cache.GetOrCompute(context.Background(), source, copyCompute(&calls)); err != nil {
		t.Fatalf("GetOrCompute after corruption: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("compute calls = %d, want 2", calls.Load())
	}
}

func TestComputeFailureIsNotCached(t *testing.T) {
	cache := newTestCache(t)
	source := writeSource(t, "panel.png", "panel-bytes")

	failing := func(ctx context.Context, sourcePath, outputPath string) error {
		return errors.New("enhancer crashed")
	}
	if _, err := cache.GetOrCompute(context.Background(), source, failing); !errors.Is(err, services.ErrEnhancement) {
		t.Fatalf("err = %v, want ErrEnhancement", err)
	}

	var calls atomic.Int64
	if _, err := cache.GetOrCompute(context.Background(), source, copyCompute(&calls)); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("retry compute calls = %d, want 1", calls.Load())
	}
}

func TestEmptyArtifactFromComputeIsRejected(t *testing.T) {
	cache := newTestCache(t)
	source := writeSource(t, "panel.png", "panel-bytes")

	empty := func(ctx context.Context, sourcePath, outputPath string) error {
		return os.WriteFile(outputPath, nil, 0o644)
	}
	if _, err := cache.GetOrCompute(context.Background(), source, empty); !errors.Is(err, services.ErrEnhancement) {
		t.Fatalf("err = %v, want ErrEnhancement", err)
	}
}

func TestClearAndStats(t *testing.T) {
	cache := newTestCache(t)
	var calls atomic.Int64

	for _, name := range []string{"a.png", "b.png"} {
		source := writeSource(t, name, "content-"+name)
		if _, err := cache.GetOrCompute(context.Background(), source, copyCompute(&calls)); err != nil {
			t.Fatalf("GetOrCompute %s: %v", name, err)
		}
	}

	stats, err := cache.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 2 || stats.Bytes == 0 {
		t.Fatalf("stats = %+v, want 2 entries with bytes", stats)
	}
	if stats.FreeBytes == 0 {
		t.Fatal("free bytes should be reported")
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats, err = cache.Stats()
	if err != nil {
		t.Fatalf("Stats after clear: %v", err)
	}
	if stats.Entries != 0 || stats.Bytes != 0 {
		t.Fatalf("stats after clear = %+v, want empty", stats)
	}
}
