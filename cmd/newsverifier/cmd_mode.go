package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"newsverifier/internal/config"
	"newsverifier/internal/prefs"
)

func modeName(simulated bool) string {
	if simulated {
		return "simulation"
	}
	return "live"
}

func newModeCmd(c *cli) *cobra.Command {
	mode := &cobra.Command{
		Use:   "mode",
		Short: "Show which backend new verifications use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.prefs()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), modeName(store.Get()))
			return nil
		},
	}

	mode.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between the live and simulated backend and remember the choice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.prefs()
			if err != nil {
				return err
			}
			on, err := store.Toggle()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), modeName(on))
			return nil
		},
	})
	return mode
}

func (c *cli) prefs() (*prefs.Store, error) {
	dir, err := c.cfg.PreferencesDir()
	if err != nil {
		return nil, err
	}
	return prefs.Open(prefs.PathIn(dir))
}

func newConfigCmd(c *cli) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to --config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DefaultConfig().Save(c.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", c.configPath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config and preferences locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cfg.PreferencesDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\npreferences: %s\n", c.configPath, prefs.PathIn(dir))
			return nil
		},
	})
	return cfgCmd
}
