// ABOUTME: Root command for the transcript-tidy CLI
// ABOUTME: Cleaning runs on the root itself; subcommands inspect and configure
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Global flags shared by all commands
var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
████████╗██╗██████╗ ██╗   ██╗
╚══██╔══╝██║██╔══██╗╚██╗ ██╔╝
   ██║   ██║██║  ██║ ╚████╔╝
   ██║   ██║██║  ██║  ╚██╔╝
   ██║   ██║██████╔╝   ██║
   ╚═╝   ╚═╝╚═════╝    ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript-tidy <input-file>",
		Short: "Clean noisy speech-to-text transcripts with an LLM",
		Long: banner + `
Clean noisy auto-generated transcripts. The input is split into
overlapping chunks, each chunk is corrected by a language-model API,
and the results are merged back into one coherent transcript.

Progress is checkpointed after every chunk, so an interrupted run can
be continued with --resume without repeating completed service calls.`,
		Example: `  # Clean a transcript with the defaults
  transcript-tidy interview.txt

  # Continue an interrupted run
  transcript-tidy interview.txt --resume

  # Smaller chunks, longer pause between API calls
  transcript-tidy talk.txt --chunk-size 4000 --overlap 300 --delay 2.5

  # Preview the chunk boundaries without calling the API
  transcript-tidy talk.txt --dry-run`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runClean,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output with per-chunk progress")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all non-error output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	addCleanFlags(cmd)

	cmd.AddCommand(NewChunksCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. The command context is cancelled on
// SIGINT or SIGTERM, which stops the pipeline between service calls and
// leaves the checkpoint resumable.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// newLogger builds the stderr logger for the current verbosity. Styled
// output only when stderr is a terminal; plain logfmt otherwise.
func newLogger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if quiet {
		level = log.ErrorLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
	if !isTerminal(os.Stderr) {
		logger.SetFormatter(log.LogfmtFormatter)
	}
	return logger
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
