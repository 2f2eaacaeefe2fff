package cli

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

var renderCmd = &cobra.Command{
	Use:   "render [key]",
	Short: "Render a view to a PNG file",
	Long: `Composites one view of a score, with its markers and annotations
drawn on top, and writes the result as a PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

// Flags for the render command.
var (
	renderView  int
	renderScale float64
	renderOut   string
)

func init() {
	renderCmd.Flags().IntVar(&renderView, "view", 0, "View index (default: last viewed position)")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 0, "Render scale (default: saved zoom)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "view.png", "Output file")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if viewerSession == nil {
		return errors.New("viewer not configured")
	}

	ctx := context.Background()

	if err := viewerSession.Open(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to open score: %w", err)
	}
	defer func() {
		_ = viewerSession.Close(ctx)
	}()

	if renderView > 0 {
		viewerSession.GoTo(renderView)
	}
	if renderScale > 0 {
		viewerSession.SetScale(renderScale)
	}

	img, err := viewerSession.Render(ctx)
	if err != nil {
		// A rasterization failure still yields a partial surface; keep
		// it and tell the user which pages are missing.
		if img == nil || !errors.Is(err, domain.ErrRenderFailed) {
			return fmt.Errorf("failed to render view: %w", err)
		}
		cmd.Printf("Warning: view rendered incompletely: %v\n", err)
	}

	out, err := os.Create(renderOut)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	bounds := img.Bounds()
	cmd.Printf("Rendered view %d/%d to %s (%dx%d)\n",
		viewerSession.View(), viewerSession.ViewCount(), renderOut, bounds.Dx(), bounds.Dy())
	return nil
}
