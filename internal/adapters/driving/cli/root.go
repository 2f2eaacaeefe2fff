// Package cli implements the command-line interface for scoreleaf.
// Commands are thin: they parse arguments, call the driving services
// and format output. All state lives behind the service interfaces,
// which main wires up before Execute.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/scoreleaf/scoreleaf/internal/core/ports/driving"
	"github.com/scoreleaf/scoreleaf/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	libraryService    driving.LibraryService
	markerService     driving.MarkerService
	annotationService driving.AnnotationService
	settingsService   driving.SettingsService
	viewerSession     driving.ViewerSession
)

// Persistent flags.
var (
	verbose bool
	dataDir string
)

// initServices builds the service graph once flags are parsed, so the
// --data-dir flag can direct where storage lives.
var initServices func(dataDir string) error

var rootCmd = &cobra.Command{
	Use:   "scoreleaf",
	Short: "Sheet music reader with half-page turns",
	Long: `Scoreleaf manages a library of scanned sheet-music PDFs and renders
them as half-page views, so a page turn never hides the line being played.

Scores are organized into folders, navigated by view, and enriched with
jump markers and placed symbols.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if verbose {
			logger.SetVerbose(true)
		}
		if initServices != nil {
			return initServices(dataDir)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ~/.scoreleaf)")
}

// SetInitializer registers the function that wires services after flag
// parsing. Called by main.
func SetInitializer(fn func(dataDir string) error) {
	initServices = fn
}

// SetServices injects the driving services the commands call.
func SetServices(
	library driving.LibraryService,
	markers driving.MarkerService,
	annotations driving.AnnotationService,
	settings driving.SettingsService,
	viewer driving.ViewerSession,
) {
	libraryService = library
	markerService = markers
	annotationService = annotations
	settingsService = settings
	viewerSession = viewer
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
