package scan

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultWorkers is the default size of the worker pool.
	DefaultWorkers = 50
	// DefaultProgressInterval is the default interval for progress updates.
	DefaultProgressInterval = 500 * time.Millisecond
)

// Options configures a scan.
type Options struct {
	// Path is the root directory to scan.
	Path string
	// Workers is the number of concurrent probes (0 = DefaultWorkers).
	Workers int
	// Blacklist excludes directories from recursion. Nil excludes nothing.
	Blacklist *Blacklist
	// Timeout stops submitting new work once exceeded (0 = no limit).
	Timeout time.Duration
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Prober lists directories. Nil uses the filesystem.
	Prober *Prober
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// Progress is a snapshot of a running scan.
type Progress struct {
	// Probed is the number of completed probes.
	Probed int
	// Pending is the number of submitted probes that have not completed.
	Pending int
	// Bytes is the running total of own sizes.
	Bytes int64
}

// Scan is the finalized result of a scan.
type Scan struct {
	// Root is the absolute, cleaned root path. It is a key of Sizes unless the root failed.
	Root string
	// Sizes maps every successfully probed directory to its own size in bytes.
	Sizes map[string]int64
	// Submitted is the number of probes submitted to the pool.
	Submitted int
	// Failed lists the directories that could not be listed.
	Failed []*Error
	// StatFailures counts entries that contributed 0 bytes because stat failed.
	StatFailures int
	// Blacklisted counts children that were never submitted because of the blacklist.
	Blacklisted int
	// Partial is set when the scan stopped early on timeout or cancellation.
	Partial bool
	// Elapsed is the wall time of the scan.
	Elapsed time.Duration
}

// Total returns the sum of all own sizes.
func (s *Scan) Total() int64 {
	var total int64
	for _, size := range s.Sizes {
		total += size
	}

	return total
}

// ResolveRoot makes path absolute and captures its device id.
func ResolveRoot(path string) (string, uint64, error) {
	if path == "" {
		path = "."
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", 0, &Error{Kind: KindRootNotFound, Path: path, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", 0, &Error{Kind: KindRootNotFound, Path: abs, Err: err}
	}

	if !info.IsDir() {
		return "", 0, &Error{Kind: KindNotADirectory, Path: abs}
	}

	device, err := rootDevice(abs)
	if err != nil {
		return "", 0, &Error{Kind: KindRootNotFound, Path: abs, Err: err}
	}

	return abs, device, nil
}

// Run scans opt.Path and returns the own size of every reachable directory.
//
// Only a root that cannot be resolved fails the scan. Directories that cannot be
// listed are recorded in Scan.Failed and left out of Scan.Sizes.
//
// If ctx is cancelled or opt.Timeout expires, no further probes are submitted,
// in-flight probes are awaited and the partial result is returned.
// progressHook, if non-nil, is called from the calling goroutine.
//
//nolint:gocognit,funlen,cyclop // The coordinator loop reads best as one piece.
func Run(ctx context.Context, opt Options, progressHook func(Progress)) (*Scan, error) {
	logger := opt.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	root, device, err := ResolveRoot(opt.Path)
	if err != nil {
		return nil, err
	}

	workers := opt.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	if opt.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, opt.Timeout)
		defer cancel()
	}

	var tick <-chan time.Time

	if progressHook != nil {
		interval := opt.ProgressInterval
		if interval <= 0 {
			interval = DefaultProgressInterval
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		tick = ticker.C
	}

	logger.Debug("starting scan", "root", root, "device", device, "workers", workers, "blacklist", opt.Blacklist.Len())

	start := time.Now()
	p := startPool(workers, opt.Prober)

	defer p.stop()

	scan := &Scan{
		Root:  root,
		Sizes: make(map[string]int64),
	}

	var (
		pending  int
		probed   int
		bytes    int64
		queue    []Request
		stopping bool
		done     = ctx.Done()
	)

	submit := func(path string) {
		pending++
		scan.Submitted++
		queue = append(queue, Request{Path: path, Device: device})
	}

	submit(root)

	for pending > 0 {
		var (
			jobs chan<- Request
			next Request
		)

		if len(queue) > 0 {
			jobs = p.jobs
			next = queue[0]
		}

		select {
		case jobs <- next:
			queue = queue[1:]

		case res := <-p.results:
			pending--
			probed++

			if res.Err != nil {
				switch res.Err.Kind {
				case KindListFailed, KindNotADirectory:
					logger.Debug("skipping directory", "path", res.Err.Path, "kind", res.Err.Kind, "err", res.Err.Err)
				default:
					logger.Warn("unexpected probe failure", "err", res.Err)
				}

				scan.Failed = append(scan.Failed, res.Err)

				continue
			}

			scan.Sizes[res.Path] = res.OwnSize
			scan.StatFailures += len(res.StatErrors)

			for _, statErr := range res.StatErrors {
				logger.Debug("counting entry as empty", "path", statErr.Path, "kind", statErr.Kind, "err", statErr.Err)
			}
			bytes += res.OwnSize

			if stopping {
				continue
			}

			for _, child := range res.ChildDirs {
				if entry := opt.Blacklist.Match(child); entry != "" {
					logger.Debug("skipping blacklisted directory", "path", child, "entry", entry)

					scan.Blacklisted++

					continue
				}

				submit(child)
			}

		case <-tick:
			progressHook(Progress{Probed: probed, Pending: pending, Bytes: bytes})

		case <-done:
			logger.Debug("scan interrupted", "err", ctx.Err(), "queued", len(queue), "pending", pending)

			stopping = true
			scan.Partial = true
			pending -= len(queue)
			scan.Submitted -= len(queue)
			queue = nil
			done = nil
		}
	}

	scan.Elapsed = time.Since(start)

	if progressHook != nil {
		progressHook(Progress{Probed: probed, Bytes: bytes})
	}

	logger.Debug("scan finished",
		"directories", len(scan.Sizes), "failed", len(scan.Failed), "elapsed", scan.Elapsed)

	return scan, nil
}

// IsNotExist reports whether err is a root resolution failure caused by a missing path.
func IsNotExist(err error) bool {
	var scanErr *Error

	return errors.As(err, &scanErr) && scanErr.Kind == KindRootNotFound && errors.Is(err, fs.ErrNotExist)
}
