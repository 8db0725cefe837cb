package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"newsverifier/internal/app"
	"newsverifier/internal/config"
	"newsverifier/internal/logging"
	"newsverifier/internal/tui"
)

// errVerificationFailed makes the process exit non-zero after the outcome
// has already been printed.
var errVerificationFailed = errors.New("verification did not succeed")

// cli carries global flags and the objects built from them.
type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "newsverifier",
		Short: "Check news text against a verification service",
		Long: `newsverifier submits a piece of news text to the verification service and
shows how credible it is: an overall score, a detailed breakdown, related
sources and the steps the service took.

Run without arguments to start the interactive terminal interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg

			opts := logging.FromConfig(cfg.Logging, c.verbose)
			// The terminal UI owns the screen, so its logs go to a file.
			if cmd == cmd.Root() {
				if opts.File, err = cfg.LogPath(); err != nil {
					return err
				}
			}
			c.logger, err = logging.New(opts)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			m := tui.New(cmd.Context(), svc.Lifecycle, svc.Prefs, c.logger.Named("tui"))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", config.DefaultPath(), "Path to config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newVerifyCmd(c),
		newPromptCmd(c),
		newModeCmd(c),
		newFeedCmd(c),
		newConfigCmd(c),
	)
	return root
}

func (c *cli) service() (*app.Service, error) {
	return app.NewService(c.cfg, c.logger)
}

func newPromptCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Verify blocks of text typed on stdin, one per blank-line-terminated block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			return svc.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errVerificationFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
