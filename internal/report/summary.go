package report

import (
	"sort"
	"time"

	"github.com/idelchi/sz/internal/scan"
)

// Entry is a directory and its own size.
type Entry struct {
	// Path is the directory path.
	Path string `json:"path"`
	// Size is the own size in bytes.
	Size int64 `json:"size"`
}

// Volume describes the filesystem holding the scan root.
type Volume struct {
	// Fstype is the filesystem type, if known.
	Fstype string `json:"fstype,omitempty"`
	// Total is the capacity in bytes.
	Total uint64 `json:"total"`
	// Used is the number of used bytes.
	Used uint64 `json:"used"`
	// UsedPercent is Used relative to Total.
	UsedPercent float64 `json:"used_percent"`
}

// Options configures which entries end up in a Summary.
type Options struct {
	// Summary keeps only entries above 1% of the total.
	Summary bool
	// Zeroes keeps zero-size entries and disables Summary.
	Zeroes bool
	// TopN limits the number of entries (0 = all).
	TopN int
}

// Summary is the report view of a scan.
type Summary struct {
	// Root is the scanned directory.
	Root string `json:"root"`
	// RootSize is the own size of Root.
	RootSize int64 `json:"root_size"`
	// Total is the sum of all own sizes.
	Total int64 `json:"total"`
	// Entries are the selected directories, largest first.
	Entries []Entry `json:"entries"`
	// Directories is the number of directories measured.
	Directories int `json:"directories"`
	// Failed is the number of directories that could not be read.
	Failed int `json:"failed"`
	// StatFailures is the number of entries that could not be stat'ed.
	StatFailures int `json:"stat_failures"`
	// Blacklisted is the number of directories skipped by the blacklist.
	Blacklisted int `json:"blacklisted"`
	// Partial is set when the scan was interrupted.
	Partial bool `json:"partial"`
	// Filtered indicates that entries at or below 1% of Total were dropped.
	Filtered bool `json:"filtered"`
	// Elapsed is the scan duration.
	Elapsed time.Duration `json:"elapsed"`
	// Volume describes the filesystem of Root, if known.
	Volume *Volume `json:"volume,omitempty"`
}

// Build ranks the directories of s and applies opt.
func Build(s *scan.Scan, opt Options) *Summary {
	total := s.Total()
	filtered := opt.Summary && !opt.Zeroes
	onePercent := float64(total) / 100.0

	entries := make([]Entry, 0, len(s.Sizes))

	for path, size := range s.Sizes {
		if filtered && float64(size) <= onePercent {
			continue
		}

		if !opt.Zeroes && size == 0 {
			continue
		}

		entries = append(entries, Entry{Path: path, Size: size})
	}

	// Sort by size (largest first), ties by path for stable output
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}

		return entries[i].Path < entries[j].Path
	})

	if opt.TopN > 0 && len(entries) > opt.TopN {
		entries = entries[:opt.TopN]
	}

	return &Summary{
		Root:         s.Root,
		RootSize:     s.Sizes[s.Root],
		Total:        total,
		Entries:      entries,
		Directories:  len(s.Sizes),
		Failed:       len(s.Failed),
		StatFailures: s.StatFailures,
		Blacklisted:  s.Blacklisted,
		Partial:      s.Partial,
		Filtered:     filtered,
		Elapsed:      s.Elapsed,
	}
}
