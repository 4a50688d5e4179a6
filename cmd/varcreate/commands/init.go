package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tjmonk/varcreate/internal/scaffold"
)

var (
	forceInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter varcreate project",
	Long: `Create a starter varcreate project in the working directory.

Creates:
  • varcreate.yml - Tool defaults (server address, instance, prefix, flags)
  • vars.json - Example variable definitions ready to register

Use --force to reinitialize (WARNING: overwrites the existing files).`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Force reinitialization (removes existing varcreate.yml and vars.json)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check for existing files (unless --force)
	if !forceInit {
		if err := scaffold.CheckExisting(); err != nil {
			return err
		}
	}

	if err := scaffold.Initialize(forceInit); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	scaffold.PrintSuccess()

	return nil
}
