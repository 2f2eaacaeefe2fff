package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage viewer settings",
	Long:  `View and configure the zoom level and the auto-import directory.`,
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsZoomCmd = &cobra.Command{
	Use:   "zoom [factor]",
	Short: "Set the render zoom",
	Long:  `Sets the render scale applied to every view. 1.0 is the base size.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsZoom,
}

var settingsImportDirCmd = &cobra.Command{
	Use:   "import-dir [dir]",
	Short: "Set the auto-import directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsImportDir,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsZoomCmd)
	settingsCmd.AddCommand(settingsImportDirCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println(titleStyle.Render("Settings"))
	cmd.Println()
	cmd.Printf("  Zoom:       %.2f\n", settingsService.Zoom())
	if dir := settingsService.ImportDir(); dir != "" {
		cmd.Printf("  Import dir: %s\n", dir)
	} else {
		cmd.Printf("  Import dir: %s\n", mutedStyle.Render("(not set)"))
	}
	return nil
}

func runSettingsZoom(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	zoom, err := strconv.ParseFloat(args[0], 64)
	if err != nil || zoom <= 0 {
		return fmt.Errorf("invalid zoom factor: %s", args[0])
	}

	if err := settingsService.SetZoom(zoom); err != nil {
		return fmt.Errorf("failed to save zoom: %w", err)
	}

	cmd.Printf("Zoom set to %.2f\n", zoom)
	return nil
}

func runSettingsImportDir(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetImportDir(args[0]); err != nil {
		return fmt.Errorf("failed to save import directory: %w", err)
	}

	cmd.Printf("Import directory set to %s\n", args[0])
	return nil
}
