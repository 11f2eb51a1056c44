package main

import (
	"fmt"
	"os"

	"github.com/marcusziade/githubcards/pkg/config"
	"github.com/marcusziade/githubcards/pkg/logging"
	"github.com/marcusziade/githubcards/pkg/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "githubcards",
	Short: "GitHub profile cards in the terminal",
	Long: `githubcards shows GitHub profiles as cards.

Run "githubcards tui" to add cards interactively, or "githubcards lookup"
to print a single user's card.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		// the TUI owns the terminal, so its logs go to a file or nowhere
		if cmd.Name() == "tui" && cfg.Logging.File == "" {
			logger = zap.NewNop()
			return nil
		}

		logger, err = logging.New(cfg.Logging, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "githubcards.yaml", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(cacheCmd)
}

func styles() render.Styles {
	if noColor {
		return render.PlainStyles()
	}
	return render.DefaultStyles()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
