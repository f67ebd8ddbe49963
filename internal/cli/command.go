package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/sz/internal/config"
	"github.com/idelchi/sz/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// flagValues holds raw flag values before they are merged over the config file.
type flagValues struct {
	threads     int
	human       bool
	noSummary   bool
	zeroes      bool
	noColors    bool
	top         int
	output      string
	blacklist   []string
	timeout     time.Duration
	configPath  string
	verify      bool
	debug       bool
	version     bool
	integration bool
}

// Execute runs the CLI with the process arguments.
// An interrupt stops the scan and reports what was measured so far.
func (c CLI) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.Command().ExecuteContext(ctx)
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var flags flagValues

	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "sz [flags] [path]",
		Short: "Report which directories consume the most space",
		Long: heredoc.Doc(`
			sz measures the size of every directory below a path and reports the largest.

			The size of a directory is the sum of the files directly inside it; subdirectories
			are reported on their own lines. Symbolic links are never followed and the scan
			stays on the filesystem of the path. Directories that cannot be read are skipped.

			By default only directories consuming more than 1% of the total are listed.

			Settings are read from the config file first, flags given on the command line win.
			The '-i' flag prints a zsh integration that pipes the result into 'fzf' and
			changes into the chosen directory.
		`),
		Example: heredoc.Doc(`
			sz -H /var
			sz -v -V -o plain .
			sz -t 8 -b '**/node_modules' --timeout 30s ~
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.version {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			if flags.integration {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			cfg, err := resolveConfig(cmd.Flags(), flags)
			if err != nil {
				return err
			}

			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			return logic(cmd, runOptions{
				Config: cfg,
				Path:   path,
				Verify: flags.verify,
				Debug:  flags.debug,
			})
		},
	}

	f := cmd.Flags()
	f.IntVarP(&flags.threads, "threads", "t", defaults.Workers, "Number of directories probed concurrently")
	f.BoolVarP(&flags.human, "human", "H", defaults.Human, "Print sizes in human readable form (e.g. 2.1 GB)")
	f.BoolVarP(&flags.noSummary, "no-summary", "v", !defaults.Summary, "List every directory, not only those above 1% of the total")
	f.BoolVarP(&flags.zeroes, "zeroes", "V", defaults.Zeroes, "Include zero-size directories (implies --no-summary)")
	f.BoolVarP(&flags.noColors, "no-colors", "c", !defaults.Colors, "Disable colored output")
	f.IntVarP(&flags.top, "top", "n", defaults.Top, "Maximum number of directories to list (0=all)")
	f.StringVarP(&flags.output, "output", "o", defaults.Output, "Output format: table, plain or json")
	f.StringSliceVarP(&flags.blacklist, "blacklist", "b", defaults.Blacklist,
		"Paths or glob patterns never descended into (relative to the working directory; '**/name' matches anywhere)")
	f.DurationVar(&flags.timeout, "timeout", defaults.Timeout, "Stop the scan after this long and report partial results (0=none)")
	f.StringVar(&flags.configPath, "config", config.DefaultPath(), "Config file")
	f.BoolVar(&flags.verify, "verify", false, "Cross-check the total with an independent walk")
	f.BoolVar(&flags.debug, "debug", false, "Enable debug output")
	f.BoolVar(&flags.version, "version", false, "Show version and exit")
	f.BoolVarP(&flags.integration, "init", "i", false, "Output init script for shell usage")

	f.SortFlags = false

	return cmd
}

// resolveConfig layers explicitly set flags over the config file.
func resolveConfig(set *pflag.FlagSet, flags flagValues) (config.Config, error) {
	cfg, err := config.Load(flags.configPath, set.Changed("config"))
	if err != nil {
		return cfg, err
	}

	if set.Changed("threads") {
		cfg.Workers = flags.threads
	}

	if set.Changed("human") {
		cfg.Human = flags.human
	}

	if set.Changed("no-summary") {
		cfg.Summary = !flags.noSummary
	}

	if set.Changed("zeroes") {
		cfg.Zeroes = flags.zeroes
	}

	if set.Changed("no-colors") {
		cfg.Colors = !flags.noColors
	}

	if set.Changed("top") {
		cfg.Top = flags.top
	}

	if set.Changed("output") {
		cfg.Output = flags.output
	}

	if set.Changed("blacklist") {
		cfg.Blacklist = flags.blacklist
	}

	if set.Changed("timeout") {
		cfg.Timeout = flags.timeout
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings: %w", err)
	}

	return cfg, nil
}
