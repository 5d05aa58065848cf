// Package cmd (docs.go) defines the document commands: listing the documents
// the user can see, inspecting a single document, and deleting one.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvveber/docs/internal/app"
	"github.com/rvveber/docs/internal/ui"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Work with documents",
	Long:  `Provides commands to list documents, show a document's details and abilities, and delete documents.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return docsListLogic(a, cmd, args)
	},
}

func docsListLogic(a *app.App, cmd *cobra.Command, args []string) error {
	paging, err := ui.ParsePagingFlags(cmd)
	if err != nil {
		return err
	}

	list, err := a.SDK.ListDocuments(cmd.Context(), paging.Next)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if paging.All {
		for list.Next != "" {
			page, err := a.SDK.ListDocuments(cmd.Context(), list.Next)
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}
			list.Results = append(list.Results, page.Results...)
			list.Next = page.Next
		}
	}

	ui.DisplayDocuments(list)
	ui.HandleNextPageInfo(list.Next, paging.All)
	return nil
}

var docsGetCmd = &cobra.Command{
	Use:   "get <document-id>",
	Short: "Show a document's details and your abilities on it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return docsGetLogic(a, cmd, args)
	},
}

func docsGetLogic(a *app.App, cmd *cobra.Command, args []string) error {
	doc, err := a.SDK.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}
	ui.DisplayDocument(doc)
	return nil
}

var docsRmCmd = &cobra.Command{
	Use:   "rm <document-id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return docsRmLogic(a, cmd, args)
	},
}

func docsRmLogic(a *app.App, cmd *cobra.Command, args []string) error {
	if err := a.SDK.DeleteDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	ui.Success(fmt.Sprintf("Document %s deleted.", args[0]))
	return nil
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsGetCmd)
	docsCmd.AddCommand(docsRmCmd)
	ui.AddPagingFlags(docsListCmd)
}
