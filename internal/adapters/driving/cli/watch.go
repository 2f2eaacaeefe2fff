package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scoreleaf/scoreleaf/internal/connectors/filesystem"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Auto-import PDFs from a directory",
	Long: `Scans a directory for PDFs, imports them into the library, then keeps
watching and imports new files as they appear. Runs until interrupted.

With no argument, uses the saved import directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

// scanOnly exits after the initial scan instead of watching.
var scanOnly bool

func init() {
	watchCmd.Flags().BoolVar(&scanOnly, "scan-only", false, "Import existing files and exit")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if libraryService == nil || settingsService == nil {
		return errors.New("library service not configured")
	}

	dir := settingsService.ImportDir()
	if len(args) == 1 {
		dir = filesystem.ResolveLocalPath(args[0])
		if err := settingsService.SetImportDir(dir); err != nil {
			return fmt.Errorf("failed to save import directory: %w", err)
		}
	}
	if dir == "" {
		return errors.New("no import directory; pass one as an argument")
	}

	importer := filesystem.NewImporter(libraryService, dir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	imported, err := importer.Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	cmd.Printf("Imported %d scores from %s\n", imported, dir)

	if scanOnly {
		return nil
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)
	if err := importer.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
