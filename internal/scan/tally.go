package scan

import (
	"context"
	"io/fs"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// Tally walks root in one pass and returns the bytes a complete scan should report
// as its total. It applies the same rules as Probe (symlinks skipped, foreign-device
// directories counted but not entered) and the same blacklist, so a mismatch with
// Scan.Total points at a directory that failed or changed during the scan.
func Tally(ctx context.Context, root string, blacklist *Blacklist) (int64, error) {
	root, device, err := ResolveRoot(root)
	if err != nil {
		return 0, err
	}

	var total atomic.Int64

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable directories count as empty
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if path == root || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // Stat failures contribute 0
		}

		if info.IsDir() {
			if dev, ok := deviceOf(info); ok && dev != device {
				total.Add(info.Size())

				return fastwalk.SkipDir
			}

			if blacklist.Match(path) != "" {
				return fastwalk.SkipDir
			}

			return nil
		}

		if info.Mode()&fs.ModeSymlink == 0 {
			total.Add(info.Size())
		}

		return nil
	})
	if walkErr != nil {
		return 0, walkErr
	}

	return total.Load(), nil
}
