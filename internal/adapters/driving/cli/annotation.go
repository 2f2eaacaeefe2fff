package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

var annotationCmd = &cobra.Command{
	Use:   "annotation",
	Short: "Manage placed symbols",
	Long: `List, add, or delete annotations on a score.

Annotations are musical symbols or text fixed to a point on a view:
oval, whole-note, repeat-start, repeat-end, or text.`,
}

var annotationListCmd = &cobra.Command{
	Use:   "list [key]",
	Short: "List annotations for a score",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotationList,
}

var annotationAddCmd = &cobra.Command{
	Use:   "add [key]",
	Short: "Add an annotation to a score",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotationAdd,
}

var annotationDeleteCmd = &cobra.Command{
	Use:   "delete [key] [annotation-id]",
	Short: "Delete an annotation",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnnotationDelete,
}

// Flags for annotation add.
var (
	annotationType string
	annotationText string
	annotationView int
	annotationX    float64
	annotationY    float64
)

func init() {
	annotationAddCmd.Flags().StringVarP(&annotationType, "type", "t", "oval", "Symbol type (oval, whole-note, repeat-start, repeat-end, text)")
	annotationAddCmd.Flags().StringVar(&annotationText, "text", "", "Text payload (text type only)")
	annotationAddCmd.Flags().IntVar(&annotationView, "view", 1, "View index")
	annotationAddCmd.Flags().Float64Var(&annotationX, "x", 0.5, "Placement x in [0,1]")
	annotationAddCmd.Flags().Float64Var(&annotationY, "y", 0.5, "Placement y in [0,1]")

	annotationCmd.AddCommand(annotationListCmd)
	annotationCmd.AddCommand(annotationAddCmd)
	annotationCmd.AddCommand(annotationDeleteCmd)
	rootCmd.AddCommand(annotationCmd)
}

func runAnnotationList(cmd *cobra.Command, args []string) error {
	if libraryService == nil || annotationService == nil {
		return errors.New("annotation service not configured")
	}

	ctx := context.Background()

	doc, err := libraryService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get score: %w", err)
	}

	annotations, err := annotationService.Load(ctx, doc.Name)
	if err != nil {
		return fmt.Errorf("failed to load annotations: %w", err)
	}

	if len(annotations) == 0 {
		cmd.Printf("No annotations for %s.\n", doc.Name)
		return nil
	}

	cmd.Println(titleStyle.Render("Annotations for " + doc.Name))
	cmd.Println()
	for i := range annotations {
		a := &annotations[i]
		cmd.Printf("  %s\n", keyStyle.Render(a.ID))
		cmd.Printf("    %s at view %d (%.2f, %.2f)\n", a.Type, a.Page, a.X, a.Y)
		if a.Text != "" {
			cmd.Printf("    Text: %s\n", a.Text)
		}
	}
	cmd.Println()

	cmd.Printf("Total: %d annotations\n", len(annotations))
	return nil
}

func runAnnotationAdd(cmd *cobra.Command, args []string) error {
	if libraryService == nil || annotationService == nil {
		return errors.New("annotation service not configured")
	}

	ctx := context.Background()

	doc, err := libraryService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get score: %w", err)
	}

	if _, err := annotationService.Load(ctx, doc.Name); err != nil {
		return fmt.Errorf("failed to load annotations: %w", err)
	}

	if err := annotationService.BeginPlacement(domain.AnnotationType(annotationType), annotationText); err != nil {
		return fmt.Errorf("failed to begin placement: %w", err)
	}

	annotation, err := annotationService.PlaceClick(ctx, doc.Name, annotationView, annotationX, annotationY)
	if err != nil {
		annotationService.CancelPlacement()
		return fmt.Errorf("failed to place annotation: %w", err)
	}

	cmd.Printf("Added %s annotation %s at view %d (%.2f, %.2f)\n",
		annotation.Type, keyStyle.Render(annotation.ID), annotation.Page, annotation.X, annotation.Y)
	return nil
}

func runAnnotationDelete(cmd *cobra.Command, args []string) error {
	if libraryService == nil || annotationService == nil {
		return errors.New("annotation service not configured")
	}

	ctx := context.Background()

	doc, err := libraryService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get score: %w", err)
	}

	if _, err := annotationService.Load(ctx, doc.Name); err != nil {
		return fmt.Errorf("failed to load annotations: %w", err)
	}

	if err := annotationService.Delete(ctx, doc.Name, args[1]); err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}

	cmd.Printf("Deleted annotation %s\n", args[1])
	return nil
}
