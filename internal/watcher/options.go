package watcher

import (
	"path/filepath"
	"strings"
	"time"
)

// Options configures which source files the watcher reacts to and how
// long it waits for an edited CSV to settle before emitting an event.
type Options struct {
	IgnorePatterns []string
	SettleDelay    time.Duration
	IgnoreHidden   bool
}

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = 200 * time.Millisecond
	}

	// Spreadsheet tools and editors litter source directories with
	// scratch files; ignore the usual suspects unless the caller set
	// their own patterns (nil, not just empty).
	if o.IgnorePatterns == nil {
		o.IgnorePatterns = []string{
			".DS_Store",
			"*.tmp",
			"*.temp",
			"*.swp",
			"Thumbs.db",
		}
		// An explicitly set pattern list (even empty) keeps the
		// caller's IgnoreHidden choice.
		o.IgnoreHidden = true
	}
}

// shouldIgnore reports whether a source path matches the ignore rules.
func (o *Options) shouldIgnore(path string) bool {
	if o.IgnoreHidden {
		parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
		for _, part := range parts {
			if strings.HasPrefix(part, ".") && part != "." && part != ".." {
				return true
			}
		}
	}

	base := filepath.Base(path)
	for _, pattern := range o.IgnorePatterns {
		matched, err := filepath.Match(pattern, base)
		if err == nil && matched {
			return true
		}
	}

	return false
}
