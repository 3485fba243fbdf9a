package asset

import (
	"path/filepath"
	"strings"
)

// bgmSuffix keeps background music files loop-named, matching the layout the
// runtime mixer expects.
const bgmSuffix = "_loop"

// CanonicalPath derives the library-relative path for an entry. The path is
// the entry's identity: a file dropped here by hand is indistinguishable
// from a curated one.
//
//	bgm/calm_loop.wav
//	sfx/punch.wav
//	ambience/wind.wav
//	stingers/intro.wav
//	characters/<id>/attacks/<key>.wav
//	characters/<id>/personality/<key>.wav
func CanonicalPath(category Category, key, character string) string {
	key = SanitizeKey(key)
	switch category {
	case CategoryBGM:
		return filepath.Join("bgm", key+bgmSuffix+".wav")
	case CategorySFX:
		return filepath.Join("sfx", key+".wav")
	case CategoryAmbience:
		return filepath.Join("ambience", key+".wav")
	case CategoryStinger:
		return filepath.Join("stingers", key+".wav")
	case CategoryAttack:
		return filepath.Join("characters", SanitizeKey(character), "attacks", key+".wav")
	case CategoryPersonality:
		return filepath.Join("characters", SanitizeKey(character), "personality", key+".wav")
	default:
		return filepath.Join(string(category), key+".wav")
	}
}

// KeyFromFilename recovers the symbolic key from a library file name,
// stripping the extension and, for bgm, the loop suffix.
func KeyFromFilename(category Category, name string) string {
	key := strings.TrimSuffix(name, filepath.Ext(name))
	if category == CategoryBGM {
		key = strings.TrimSuffix(key, bgmSuffix)
	}
	return key
}

// SanitizeKey normalizes a symbolic key or character id into a stable
// path-safe handle: lowercase, spaces to underscores, separators stripped.
func SanitizeKey(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	value = replacer.Replace(value)
	return strings.Trim(value, "-_.")
}
