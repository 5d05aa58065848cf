package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Paging carries the standard pagination settings of listing commands.
type Paging struct {
	// Next is the opaque cursor of the page to continue from.
	Next string
	// All fetches every page instead of stopping after one.
	All bool
}

// AddPagingFlags adds the standard pagination flags to a command.
func AddPagingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("all", false, "Fetch all items across all pages")
	cmd.Flags().String("next", "", "Continue from this cursor")
}

// ParsePagingFlags extracts pagination settings from command flags.
func ParsePagingFlags(cmd *cobra.Command) (Paging, error) {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return Paging{}, fmt.Errorf("error parsing all flag: %w", err)
	}

	next, err := cmd.Flags().GetString("next")
	if err != nil {
		return Paging{}, fmt.Errorf("error parsing next flag: %w", err)
	}

	return Paging{Next: next, All: all}, nil
}

// HandleNextPageInfo tells the user how to continue a paginated listing.
func HandleNextPageInfo(next string, fetchAll bool) {
	if next != "" && !fetchAll {
		fmt.Printf("\nNext page available. Use --next '%s' to continue.\n", next)
	}
}
