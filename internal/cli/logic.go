package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/cobra"

	"github.com/idelchi/sz/internal/config"
	"github.com/idelchi/sz/internal/report"
	"github.com/idelchi/sz/internal/scan"
)

// runOptions is everything a single invocation needs.
type runOptions struct {
	config.Config

	Path   string
	Verify bool
	Debug  bool
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "sz"})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	return logger
}

//nolint:funlen // Wiring from flags to scan to report.
func logic(cmd *cobra.Command, options runOptions) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	logger := newLogger(stderr, options.Debug)

	blacklist, err := scan.NewBlacklist(options.Blacklist)
	if err != nil {
		return err
	}

	enableProgress := options.Output == "table" &&
		!options.Debug &&
		isTerminal(stderr)

	// Simple progress callback that prints directly to stderr
	var progressHook func(scan.Progress)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(p scan.Progress) {
			msg := fmt.Sprintf("Scanning… %d directories, %d pending, %s",
				p.Probed, p.Pending, humanize.Bytes(uint64(p.Bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	result, err := scan.Run(cmd.Context(), scan.Options{
		Path:      options.Path,
		Workers:   options.Workers,
		Blacklist: blacklist,
		Timeout:   options.Timeout,
		Logger:    logger,
	}, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		if scan.IsNotExist(err) {
			return fmt.Errorf("path %q does not exist", options.Path)
		}

		return fmt.Errorf("scanning %q: %w", options.Path, err)
	}

	if result.Partial {
		logger.Warn("scan interrupted, results are partial", "directories", len(result.Sizes))
	}

	if len(result.Failed) > 0 {
		logger.Debug("some directories could not be read", "count", len(result.Failed))
	}

	if options.Verify {
		verify(cmd, logger, result, blacklist)
	}

	summary := report.Build(result, report.Options{
		Summary: options.Summary,
		Zeroes:  options.Zeroes,
		TopN:    options.Top,
	})

	if usage, err := disk.Usage(result.Root); err == nil {
		summary.Volume = &report.Volume{
			Fstype:      usage.Fstype,
			Total:       usage.Total,
			Used:        usage.Used,
			UsedPercent: usage.UsedPercent,
		}
	} else {
		logger.Debug("filesystem usage unavailable", "err", err)
	}

	format := report.Format{
		Human:  options.Human,
		Colors: options.Colors && isTerminal(stdout),
	}

	switch options.Output {
	case "json":
		return report.PrintJSON(summary, stdout)
	case "plain":
		return report.PrintPlain(summary, stdout, format)
	case "table":
		return report.PrintTable(summary, stdout, format)
	default:
		return fmt.Errorf("unknown output format: %s", options.Output)
	}
}

// verify compares the scan total with a single fastwalk pass over the same tree.
func verify(cmd *cobra.Command, logger *log.Logger, result *scan.Scan, blacklist *scan.Blacklist) {
	total, err := scan.Tally(cmd.Context(), result.Root, blacklist)
	if err != nil {
		logger.Warn("verification walk failed", "err", err)

		return
	}

	if total != result.Total() {
		logger.Warn("totals differ; the tree changed during the scan or directories were unreadable",
			"scan", result.Total(), "walk", total, "failed", len(result.Failed))

		return
	}

	logger.Info("verified total", "bytes", total)
}
