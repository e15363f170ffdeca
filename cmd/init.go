package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dealflow/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Writes the default configuration (stage set, searchable fields, key
mappings) to the user config directory so it can be customized.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to build config: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Println("config written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
