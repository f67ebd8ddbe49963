package scan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultBlacklist keeps pseudo filesystems out of a scan of /.
//
//nolint:gochecknoglobals // Config constant
var DefaultBlacklist = []string{"/proc", "/sys"}

// Blacklist is a set of paths excluded from recursion.
//
// Plain entries match the path itself and everything below it.
// Entries containing glob metacharacters are matched as patterns where
// '*' stops at a path separator and '**' does not.
// Relative entries are resolved against the working directory, except
// patterns starting with '**', which already match at any depth.
type Blacklist struct {
	exact    map[string]struct{}
	dirs     []string
	patterns []blacklistPattern
}

type blacklistPattern struct {
	source string
	glob   glob.Glob
}

// NewBlacklist compiles entries into a Blacklist.
func NewBlacklist(entries []string) (*Blacklist, error) {
	b := &Blacklist{exact: make(map[string]struct{}, len(entries))}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.ContainsAny(entry, "*?[{") {
			pattern := entry
			if !filepath.IsAbs(pattern) && !strings.HasPrefix(filepath.ToSlash(pattern), "**") {
				abs, err := filepath.Abs(pattern)
				if err != nil {
					return nil, fmt.Errorf("resolving blacklist pattern %q: %w", entry, err)
				}

				pattern = abs
			}

			g, err := glob.Compile(filepath.ToSlash(pattern), '/')
			if err != nil {
				return nil, fmt.Errorf("compiling blacklist pattern %q: %w", entry, err)
			}

			b.patterns = append(b.patterns, blacklistPattern{source: entry, glob: g})

			continue
		}

		abs, err := filepath.Abs(entry)
		if err != nil {
			return nil, fmt.Errorf("resolving blacklist entry %q: %w", entry, err)
		}

		b.exact[abs] = struct{}{}
		b.dirs = append(b.dirs, abs)
	}

	return b, nil
}

// Match returns the entry that excludes path, or "" when path is allowed.
// A nil Blacklist allows everything.
func (b *Blacklist) Match(path string) string {
	if b == nil {
		return ""
	}

	if _, ok := b.exact[path]; ok {
		return path
	}

	for _, dir := range b.dirs {
		if isBelow(path, dir) {
			return dir
		}
	}

	slashed := filepath.ToSlash(path)
	for _, p := range b.patterns {
		if p.glob.Match(slashed) {
			return p.source
		}
	}

	return ""
}

// Len returns the number of compiled entries.
func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}

	return len(b.exact) + len(b.patterns)
}

// isBelow reports whether path lies strictly inside dir.
func isBelow(path, dir string) bool {
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}

	return strings.HasPrefix(path, dir)
}
