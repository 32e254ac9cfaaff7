package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnalyze/internal/buildinfo"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	dataset    string
	format     string
	envFile    string
	debug      bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "txnalyze",
		Short:   "Query and summarize a transaction dataset",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default txnalyze.yaml if present)")
	flags.StringVar(&opts.dataset, "dataset", "", "dataset file, overrides dataset.path")
	flags.StringVar(&opts.format, "format", "", "dataset format: json, csv, chase or sql")
	flags.StringVar(&opts.envFile, "env-file", "", "env file with TXNALYZE_* overrides (default .env)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newReportCommand(opts),
		newTypesCommand(opts),
		newTotalCommand(opts),
		newAverageCommand(opts),
		newDebitTotalCommand(opts),
		newDominantCommand(opts),
		newDescriptionsCommand(opts),
		newListCommand(opts),
		newFindCommand(opts),
		newMonthsCommand(opts),
	)

	return rootCmd
}
