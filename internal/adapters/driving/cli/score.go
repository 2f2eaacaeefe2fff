package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scoreleaf/scoreleaf/internal/connectors/filesystem"
	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Manage the score library",
	Long:  `Add, list, move, or remove scores from the library.`,
}

var scoreAddCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Add a PDF to the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runScoreAdd,
}

var scoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scores in the library",
	RunE:  runScoreList,
}

var scoreShowCmd = &cobra.Command{
	Use:   "show [key]",
	Short: "Show score info",
	Args:  cobra.ExactArgs(1),
	RunE:  runScoreShow,
}

var scoreRemoveCmd = &cobra.Command{
	Use:   "remove [key]",
	Short: "Remove a score from the library",
	Long:  `Removes a score. Its markers and annotations are kept and reattach if the same file is added again.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScoreRemove,
}

var scoreMoveCmd = &cobra.Command{
	Use:   "move [key]",
	Short: "Move a score into or out of a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runScoreMove,
}

// Flags for the score commands.
var (
	scoreAddFolder   string
	scoreListFolder  string
	scoreMoveFolder  string
	scoreMoveUnfiled bool
)

func init() {
	scoreAddCmd.Flags().StringVarP(&scoreAddFolder, "folder", "f", "", "Folder ID to add the score into")
	scoreListCmd.Flags().StringVarP(&scoreListFolder, "folder", "f", "", "List only scores in this folder")
	scoreMoveCmd.Flags().StringVarP(&scoreMoveFolder, "folder", "f", "", "Destination folder ID")
	scoreMoveCmd.Flags().BoolVar(&scoreMoveUnfiled, "unfiled", false, "Move the score out of its folder")

	scoreCmd.AddCommand(scoreAddCmd)
	scoreCmd.AddCommand(scoreListCmd)
	scoreCmd.AddCommand(scoreShowCmd)
	scoreCmd.AddCommand(scoreRemoveCmd)
	scoreCmd.AddCommand(scoreMoveCmd)
	rootCmd.AddCommand(scoreCmd)
}

func runScoreAdd(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	path := filesystem.ResolveLocalPath(args[0])
	ctx := context.Background()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read score: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read score: %w", err)
	}

	doc := domain.Document{
		Name:         filepath.Base(path),
		Size:         info.Size(),
		MediaType:    "application/pdf",
		Data:         data,
		LastModified: info.ModTime().UnixMilli(),
	}

	var folderID *string
	if scoreAddFolder != "" {
		folderID = &scoreAddFolder
	}

	added, err := libraryService.Add(ctx, doc, folderID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			cmd.Printf("Score already in library: %s\n", doc.Key())
			return nil
		}
		return fmt.Errorf("failed to add score: %w", err)
	}

	cmd.Printf("Added %s\n", added.Name)
	cmd.Printf("  Key:   %s\n", keyStyle.Render(added.Key()))
	cmd.Printf("  Pages: %d\n", added.PageCount)
	cmd.Printf("  Views: %d\n", domain.ViewCount(added.PageCount))
	return nil
}

func runScoreList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()

	var docs []domain.Document
	var err error
	if scoreListFolder != "" {
		docs, err = libraryService.ListByFolder(ctx, scoreListFolder)
	} else {
		docs, err = libraryService.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list scores: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No scores in the library.")
		return nil
	}

	cmd.Println(titleStyle.Render("Scores"))
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].Name)
		cmd.Printf("    Key:   %s\n", keyStyle.Render(docs[i].Key()))
		cmd.Printf("    Size:  %s\n", humanSize(docs[i].Size))
		if docs[i].PageCount > 0 {
			cmd.Printf("    Pages: %d (%d views)\n", docs[i].PageCount, domain.ViewCount(docs[i].PageCount))
		}
		if docs[i].FolderID != nil {
			cmd.Printf("    Folder: %s\n", *docs[i].FolderID)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d scores\n", len(docs))
	return nil
}

func runScoreShow(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()

	doc, err := libraryService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get score: %w", err)
	}

	cmd.Printf("Score: %s\n\n", doc.Name)
	cmd.Printf("  Key:       %s\n", keyStyle.Render(doc.Key()))
	cmd.Printf("  Size:      %s\n", humanSize(doc.Size))
	cmd.Printf("  Pages:     %d\n", doc.PageCount)
	cmd.Printf("  Views:     %d\n", domain.ViewCount(doc.PageCount))
	cmd.Printf("  Added:     %s\n", doc.AddedAt.Format("2006-01-02 15:04:05"))
	if doc.FolderID != nil {
		cmd.Printf("  Folder:    %s\n", *doc.FolderID)
	}
	return nil
}

func runScoreRemove(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()

	if err := libraryService.Remove(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to remove score: %w", err)
	}

	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runScoreMove(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}
	if scoreMoveFolder == "" && !scoreMoveUnfiled {
		return errors.New("specify --folder or --unfiled")
	}

	ctx := context.Background()

	var folderID *string
	if !scoreMoveUnfiled {
		folderID = &scoreMoveFolder
	}

	if err := libraryService.Move(ctx, args[0], folderID); err != nil {
		return fmt.Errorf("failed to move score: %w", err)
	}

	if folderID == nil {
		cmd.Printf("Moved %s out of its folder\n", args[0])
	} else {
		cmd.Printf("Moved %s to folder %s\n", args[0], *folderID)
	}
	return nil
}

// humanSize formats a byte count for display.
func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
