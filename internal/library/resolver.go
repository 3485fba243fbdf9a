package library

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"foley/internal/asset"
	"foley/internal/logging"
)

// Tier identifies which rung of the fallback chain satisfied a resolution.
type Tier string

const (
	TierCharacter Tier = "character"
	TierGeneric   Tier = "generic"
	TierAbsent    Tier = "absent"
)

// Resolution is the outcome of a lookup. Found is false only for TierAbsent.
type Resolution struct {
	Path  string
	Tier  Tier
	Found bool
}

// Resolver maps symbolic keys to library files.
type Resolver struct {
	root   string
	logger *slog.Logger

	mu      sync.RWMutex
	index   map[string]string
	entries []asset.LibraryEntry
}

// NewResolver builds a resolver over the library root and scans it once. A
// missing root yields an empty index, not an error: every lookup resolves
// absent until assets are curated.
func NewResolver(root string, logger *slog.Logger) (*Resolver, error) {
	r := &Resolver{
		root:   root,
		logger: logging.NewComponentLogger(logger, "library"),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// preferredExtensions in lookup order. A .wav beats an .mp3 for the same key.
var preferredExtensions = []string{".wav", ".mp3"}

func indexKey(category asset.Category, key, character string) string {
	return string(category) + "\x00" + asset.SanitizeKey(key) + "\x00" + asset.SanitizeKey(character)
}

// Reload rescans the library directory and swaps in a fresh index.
func (r *Resolver) Reload() error {
	index := make(map[string]string)
	var entries []asset.LibraryEntry

	record := func(category asset.Category, key, character, path string) {
		id := indexKey(category, key, character)
		if existing, ok := index[id]; ok {
			// Extension preference: keep the entry whose extension sorts
			// earlier in preferredExtensions.
			if extRank(existing) <= extRank(path) {
				return
			}
			for i, entry := range entries {
				if entry.Path == existing {
					entries[i].Path = path
					break
				}
			}
			index[id] = path
			return
		}
		index[id] = path
		entries = append(entries, asset.LibraryEntry{
			Category:  category,
			Key:       key,
			Character: character,
			Path:      path,
		})
	}

	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == r.root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if extRank(path) == len(preferredExtensions) {
			return nil
		}
		rel, relErr := filepath.Rel(r.root, path)
		if relErr != nil {
			return relErr
		}
		category, key, character, ok := classify(rel)
		if !ok {
			r.logger.Debug("ignoring unrecognized library file",
				logging.Args(logging.String("path", rel), logging.String("ext", ext))...)
			return nil
		}
		record(category, key, character, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan library %s: %w", r.root, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		if entries[i].Character != entries[j].Character {
			return entries[i].Character < entries[j].Character
		}
		return entries[i].Key < entries[j].Key
	})

	r.mu.Lock()
	r.index = index
	r.entries = entries
	r.mu.Unlock()

	r.logger.Debug("library index rebuilt",
		logging.Args(logging.Int("entries", len(entries)))...)
	return nil
}

func extRank(path string) int {
	ext := strings.ToLower(filepath.Ext(path))
	for i, candidate := range preferredExtensions {
		if ext == candidate {
			return i
		}
	}
	return len(preferredExtensions)
}

// classify maps a library-relative path to its identity. Layout:
//
//	bgm/<key>_loop.wav
//	sfx/<key>.wav
//	ambience/<key>.wav
//	stingers/<key>.wav
//	characters/<id>/attacks/<key>.wav
//	characters/<id>/personality/<key>.wav
func classify(rel string) (asset.Category, string, string, bool) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	switch {
	case len(parts) == 2:
		var category asset.Category
		switch parts[0] {
		case "bgm":
			category = asset.CategoryBGM
		case "sfx":
			category = asset.CategorySFX
		case "ambience":
			category = asset.CategoryAmbience
		case "stingers":
			category = asset.CategoryStinger
		default:
			return "", "", "", false
		}
		return category, asset.KeyFromFilename(category, parts[1]), "", true
	case len(parts) == 4 && parts[0] == "characters":
		var category asset.Category
		switch parts[2] {
		case "attacks":
			category = asset.CategoryAttack
		case "personality":
			category = asset.CategoryPersonality
		default:
			return "", "", "", false
		}
		return category, asset.KeyFromFilename(category, parts[3]), parts[1], true
	default:
		return "", "", "", false
	}
}

// Resolve walks the fallback chain for one request. It never fails: an
// unmatched request resolves to TierAbsent with Found false.
func (r *Resolver) Resolve(req asset.ResolutionRequest) Resolution {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if req.Character != "" && req.Category.CharacterScoped() {
		if path, ok := r.index[indexKey(req.Category, req.Key, req.Character)]; ok {
			return Resolution{Path: path, Tier: TierCharacter, Found: true}
		}
	}

	generic := req.Category.GenericFallback()
	if path, ok := r.index[indexKey(generic, req.Key, "")]; ok {
		return Resolution{Path: path, Tier: TierGeneric, Found: true}
	}

	attrs := logging.DecisionAttrs("resolution", string(TierAbsent), "no entry in any tier")
	attrs = append(attrs,
		logging.String(logging.FieldCategory, string(req.Category)),
		logging.String(logging.FieldSymbolicKey, req.Key),
		logging.String(logging.FieldCharacter, req.Character),
	)
	r.logger.Debug("asset absent", logging.Args(attrs...)...)
	return Resolution{Tier: TierAbsent}
}

// Entries lists every indexed entry in stable display order.
func (r *Resolver) Entries() []asset.LibraryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]asset.LibraryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Characters lists the character ids that have at least one scoped entry or
// an on-disk folder.
func (r *Resolver) Characters() ([]string, error) {
	seen := make(map[string]struct{})

	r.mu.RLock()
	for _, entry := range r.entries {
		if entry.Character != "" {
			seen[entry.Character] = struct{}{}
		}
	}
	r.mu.RUnlock()

	dirs, err := os.ReadDir(filepath.Join(r.root, "characters"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	for _, d := range dirs {
		if d.IsDir() {
			seen[d.Name()] = struct{}{}
		}
	}

	characters := make([]string, 0, len(seen))
	for id := range seen {
		characters = append(characters, id)
	}
	sort.Strings(characters)
	return characters, nil
}

// EnsureCharacter creates the scoped folder pair for a character so manual
// drops have a place to land before any curation happens.
func (r *Resolver) EnsureCharacter(id string) error {
	id = asset.SanitizeKey(id)
	if id == "" {
		return errors.New("character id is required")
	}
	for _, sub := range []string{"attacks", "personality"} {
		dir := filepath.Join(r.root, "characters", id, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create character directory %s: %w", dir, err)
		}
	}
	return nil
}
