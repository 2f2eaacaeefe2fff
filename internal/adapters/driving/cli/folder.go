package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
	Long:  `Create, list, rename, or delete folders. Folders group scores without owning them.`,
}

var folderCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runFolderCreate,
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	RunE:  runFolderList,
}

var folderRenameCmd = &cobra.Command{
	Use:   "rename [id] [name]",
	Short: "Rename a folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runFolderRename,
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a folder",
	Long:  `Deletes a folder. Scores inside it are kept and become unfiled.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFolderDelete,
}

func init() {
	folderCmd.AddCommand(folderCreateCmd)
	folderCmd.AddCommand(folderListCmd)
	folderCmd.AddCommand(folderRenameCmd)
	folderCmd.AddCommand(folderDeleteCmd)
	rootCmd.AddCommand(folderCmd)
}

func runFolderCreate(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()

	folder, err := libraryService.CreateFolder(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	cmd.Printf("Created folder %s\n", folder.Name)
	cmd.Printf("  ID: %s\n", keyStyle.Render(folder.ID))
	return nil
}

func runFolderList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()

	folders, err := libraryService.ListFolders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}

	if len(folders) == 0 {
		cmd.Println("No folders.")
		return nil
	}

	cmd.Println(titleStyle.Render("Folders"))
	cmd.Println()
	for i := range folders {
		docs, err := libraryService.ListByFolder(ctx, folders[i].ID)
		if err != nil {
			return fmt.Errorf("failed to list folder contents: %w", err)
		}
		cmd.Printf("  %s\n", folders[i].Name)
		cmd.Printf("    ID:     %s\n", keyStyle.Render(folders[i].ID))
		cmd.Printf("    Scores: %d\n", len(docs))
		cmd.Println()
	}

	cmd.Printf("Total: %d folders\n", len(folders))
	return nil
}

func runFolderRename(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()

	if err := libraryService.RenameFolder(ctx, args[0], args[1]); err != nil {
		return fmt.Errorf("failed to rename folder: %w", err)
	}

	cmd.Printf("Renamed folder %s to %s\n", args[0], args[1])
	return nil
}

func runFolderDelete(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()

	if err := libraryService.DeleteFolder(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	cmd.Printf("Deleted folder %s\n", args[0])
	return nil
}
