package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Barneybot002/monad-testbot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bot configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.Path(cfg.Home)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}
		cmd.Printf("wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Secrets are excluded from serialization and never printed.
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("rendering config: %w", err)
		}
		cmd.Print(string(out))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
