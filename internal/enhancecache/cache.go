package enhancecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"foley/internal/config"
	"foley/internal/logging"
	"foley/internal/services"
)

// Key identifies one cached artifact.
type Key struct {
	ContentHash string
	ConfigHash  string
}

// ComputeFunc produces the enhanced artifact at outputPath from sourcePath.
// It must write the complete artifact before returning; the cache moves it
// into place atomically.
type ComputeFunc func(ctx context.Context, sourcePath, outputPath string) error

// Stats summarizes cache disk usage.
type Stats struct {
	Entries   int
	Bytes     int64
	FreeBytes uint64
}

type call struct {
	done chan struct{}
	path string
	err  error
}

// Cache is a content-addressed enhancement cache rooted in one directory.
type Cache struct {
	dir        string
	configHash string
	cfg        *config.Config
	logger     *slog.Logger

	mu       sync.Mutex
	inflight map[Key]*call
}

// New builds a cache over cfg.Paths.CacheDir, deriving the config hash from
// the enhancement settings.
func New(cfg *config.Config, logger *slog.Logger) (*Cache, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "enhancecache", "new", "config is required", nil)
	}
	if strings.TrimSpace(cfg.Paths.CacheDir) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "enhancecache", "new", "cache directory is required", nil)
	}
	if err := os.MkdirAll(cfg.Paths.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Cache{
		dir:        cfg.Paths.CacheDir,
		configHash: configHash(cfg.Enhancement),
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "enhancecache"),
		inflight:   make(map[Key]*call),
	}, nil
}

// configHash canonicalizes the settings that change enhancement output.
// Field order is fixed; adding a field invalidates every cached artifact,
// which is the intended behavior.
func configHash(enh config.Enhancement) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "binary=%s;scale=%d;denoise=%d", enh.Binary, enh.Scale, enh.Denoise))
	return hex.EncodeToString(sum[:])[:16]
}

// KeyFor hashes the source file's content and pairs it with the config hash.
func (c *Cache) KeyFor(sourcePath string) (Key, error) {
	file, err := os.Open(sourcePath)
	if err != nil {
		return Key{}, fmt.Errorf("open source: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return Key{}, fmt.Errorf("hash source: %w", err)
	}
	return Key{
		ContentHash: hex.EncodeToString(hasher.Sum(nil))[:32],
		ConfigHash:  c.configHash,
	}, nil
}

func (c *Cache) artifactPath(key Key, sourcePath string) string {
	ext := strings.ToLower(filepath.Ext(sourcePath))
	if ext == "" {
		ext = ".png"
	}
	return filepath.Join(c.dir, key.ContentHash+"-"+key.ConfigHash+ext)
}

// GetOrCompute returns the cached artifact path for sourcePath, invoking
// compute at most once per key even under concurrent callers.
func (c *Cache) GetOrCompute(ctx context.Context, sourcePath string, compute ComputeFunc) (string, error) {
	key, err := c.KeyFor(sourcePath)
	if err != nil {
		return "", err
	}
	artifact := c.artifactPath(key, sourcePath)

	if path, ok := c.lookup(artifact); ok {
		return path, nil
	}

	c.mu.Lock()
	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-inflight.done:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		if inflight.err != nil {
			return "", inflight.err
		}
		return inflight.path, nil
	}
	current := &call{done: make(chan struct{})}
	c.inflight[key] = current
	c.mu.Unlock()

	current.path, current.err = c.compute(ctx, key, sourcePath, artifact, compute)

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
	close(current.done)

	return current.path, current.err
}

// lookup treats an empty artifact as corrupt: it is removed and the caller
// recomputes.
func (c *Cache) lookup(artifact string) (string, bool) {
	info, err := os.Stat(artifact)
	if err != nil {
		return "", false
	}
	if info.Size() == 0 {
		c.logger.Warn("removing corrupt cache artifact",
			logging.Args(
				logging.String(logging.FieldEventType, "cache_artifact_corrupt"),
				logging.String("path", artifact),
				logging.String(logging.FieldImpact, "artifact will be recomputed"),
			)...)
		_ = os.Remove(artifact)
		return "", false
	}
	return artifact, true
}

func (c *Cache) compute(ctx context.Context, key Key, sourcePath, artifact string, compute ComputeFunc) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.EnhancementTimeout())
	defer cancel()

	tmp := artifact + ".tmp"
	defer os.Remove(tmp)

	if err := compute(ctx, sourcePath, tmp); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrTimeout, "enhancecache", "compute", "enhancement timed out", err)
		}
		return "", services.Wrap(services.ErrEnhancement, "enhancecache", "compute", "enhancement failed", err)
	}

	info, err := os.Stat(tmp)
	if err != nil {
		return "", services.Wrap(services.ErrEnhancement, "enhancecache", "compute", "enhancer produced no output", err)
	}
	if info.Size() == 0 {
		return "", services.Wrap(services.ErrEnhancement, "enhancecache", "compute", "enhancer produced an empty artifact", nil)
	}
	if err := os.Rename(tmp, artifact); err != nil {
		return "", fmt.Errorf("commit artifact: %w", err)
	}

	c.logger.Debug("cached enhancement artifact",
		logging.Args(
			logging.String("content_hash", key.ContentHash),
			logging.String("config_hash", key.ConfigHash),
			logging.Int64("bytes", info.Size()),
		)...)
	return artifact, nil
}

// Clear removes every cached artifact. In-flight computations are not
// interrupted; their artifacts reappear when they finish.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("remove artifact %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Stats reports entry count, total artifact bytes, and free space on the
// cache filesystem.
func (c *Cache) Stats() (Stats, error) {
	var stats Stats

	entries, err := os.ReadDir(c.dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Stats{}, fmt.Errorf("read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.Bytes += info.Size()
	}

	var fsStat unix.Statfs_t
	if err := unix.Statfs(c.dir, &fsStat); err == nil {
		stats.FreeBytes = uint64(fsStat.Bavail) * uint64(fsStat.Bsize)
	}
	return stats, nil
}
