package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var markerCmd = &cobra.Command{
	Use:   "marker",
	Short: "Manage jump markers",
	Long: `List, add, or delete jump markers on a score.

A marker links a point on one view to a point on another. Clicking the
origin point in the viewer jumps to the target view.`,
}

var markerListCmd = &cobra.Command{
	Use:   "list [key]",
	Short: "List markers for a score",
	Args:  cobra.ExactArgs(1),
	RunE:  runMarkerList,
}

var markerAddCmd = &cobra.Command{
	Use:   "add [key]",
	Short: "Add a marker to a score",
	Args:  cobra.ExactArgs(1),
	RunE:  runMarkerAdd,
}

var markerDeleteCmd = &cobra.Command{
	Use:   "delete [key] [marker-id]",
	Short: "Delete a marker",
	Args:  cobra.ExactArgs(2),
	RunE:  runMarkerDelete,
}

// Flags for marker add. Coordinates are fractions of the canvas in [0,1].
var (
	markerView    int
	markerX       float64
	markerY       float64
	markerTarget  int
	markerTargetX float64
	markerTargetY float64
)

func init() {
	markerAddCmd.Flags().IntVar(&markerView, "view", 1, "Origin view index")
	markerAddCmd.Flags().Float64Var(&markerX, "x", 0.5, "Origin x in [0,1]")
	markerAddCmd.Flags().Float64Var(&markerY, "y", 0.5, "Origin y in [0,1]")
	markerAddCmd.Flags().IntVar(&markerTarget, "target-view", 1, "Target view index")
	markerAddCmd.Flags().Float64Var(&markerTargetX, "target-x", 0.5, "Target x in [0,1]")
	markerAddCmd.Flags().Float64Var(&markerTargetY, "target-y", 0.5, "Target y in [0,1]")

	markerCmd.AddCommand(markerListCmd)
	markerCmd.AddCommand(markerAddCmd)
	markerCmd.AddCommand(markerDeleteCmd)
	rootCmd.AddCommand(markerCmd)
}

func runMarkerList(cmd *cobra.Command, args []string) error {
	if libraryService == nil || markerService == nil {
		return errors.New("marker service not configured")
	}

	ctx := context.Background()

	doc, err := libraryService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get score: %w", err)
	}

	markers, err := markerService.Load(ctx, doc.Name)
	if err != nil {
		return fmt.Errorf("failed to load markers: %w", err)
	}

	if len(markers) == 0 {
		cmd.Printf("No markers for %s.\n", doc.Name)
		return nil
	}

	cmd.Println(titleStyle.Render("Markers for " + doc.Name))
	cmd.Println()
	for i := range markers {
		m := &markers[i]
		cmd.Printf("  %s\n", keyStyle.Render(m.ID))
		cmd.Printf("    View %d (%.2f, %.2f) -> view %d (%.2f, %.2f)\n",
			m.View, m.X, m.Y, m.TargetView, m.TargetX, m.TargetY)
		cmd.Printf("    %s\n", mutedStyle.Render(fmt.Sprintf("color %d", m.ColorIndex)))
	}
	cmd.Println()

	cmd.Printf("Total: %d markers\n", len(markers))
	return nil
}

func runMarkerAdd(cmd *cobra.Command, args []string) error {
	if libraryService == nil || markerService == nil {
		return errors.New("marker service not configured")
	}

	ctx := context.Background()

	doc, err := libraryService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get score: %w", err)
	}

	if _, err := markerService.Load(ctx, doc.Name); err != nil {
		return fmt.Errorf("failed to load markers: %w", err)
	}

	// Drive the two-click capture protocol directly.
	markerService.StartCapture()
	if _, err := markerService.RecordClick(ctx, doc.Name, markerView, markerX, markerY); err != nil {
		markerService.CancelCapture()
		return fmt.Errorf("failed to record origin: %w", err)
	}
	marker, err := markerService.RecordClick(ctx, doc.Name, markerTarget, markerTargetX, markerTargetY)
	if err != nil {
		markerService.CancelCapture()
		return fmt.Errorf("failed to record target: %w", err)
	}

	cmd.Printf("Added marker %s\n", keyStyle.Render(marker.ID))
	cmd.Printf("  View %d (%.2f, %.2f) -> view %d (%.2f, %.2f)\n",
		marker.View, marker.X, marker.Y, marker.TargetView, marker.TargetX, marker.TargetY)
	return nil
}

func runMarkerDelete(cmd *cobra.Command, args []string) error {
	if libraryService == nil || markerService == nil {
		return errors.New("marker service not configured")
	}

	ctx := context.Background()

	doc, err := libraryService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get score: %w", err)
	}

	if _, err := markerService.Load(ctx, doc.Name); err != nil {
		return fmt.Errorf("failed to load markers: %w", err)
	}

	if err := markerService.Delete(ctx, doc.Name, args[1]); err != nil {
		return fmt.Errorf("failed to delete marker: %w", err)
	}

	cmd.Printf("Deleted marker %s\n", args[1])
	return nil
}
