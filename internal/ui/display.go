// Package ui formats docs resources (members, invitations, search results,
// documents) for the console, and provides the progress bar used while a
// batch of invitations is submitted.
package ui

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/rvveber/docs/internal/share"
	"github.com/rvveber/docs/pkg/docs"
)

// Success prints a simple success message to standard output.
func Success(msg string) {
	fmt.Println(msg)
}

// PrintError reports an error through the standard logger.
func PrintError(err error) {
	log.Printf("ERROR: %v", err)
}

// DisplayDocuments prints a table of documents.
func DisplayDocuments(list docs.DocumentList) {
	if len(list.Results) == 0 {
		fmt.Println("No documents found.")
		return
	}

	fmt.Printf("%-38s %-40s %s\n", "ID", "Title", "Updated")
	fmt.Println(strings.Repeat("-", 100))
	for _, doc := range list.Results {
		fmt.Printf("%-38s %-40.40s %s\n", doc.ID, doc.Title, doc.UpdatedAt.Format(time.RFC3339))
	}
	if list.Count > len(list.Results) {
		fmt.Printf("\nShowing %d of %d documents.\n", len(list.Results), list.Count)
	}
}

// DisplayDocument prints a single document with the caller's abilities.
func DisplayDocument(doc docs.Document) {
	fmt.Printf("ID:      %s\n", doc.ID)
	fmt.Printf("Title:   %s\n", doc.Title)
	fmt.Printf("Public:  %v\n", doc.IsPublic)
	fmt.Printf("Updated: %s\n", doc.UpdatedAt.Format(time.RFC3339))
	fmt.Printf("Abilities: view accesses=%v, manage accesses=%v, update=%v, destroy=%v\n",
		doc.Abilities.AccessesView, doc.Abilities.AccessesManage,
		doc.Abilities.Update, doc.Abilities.Destroy)
}

// DisplayMembers prints the confirmed members of a document under the given
// group label.
func DisplayMembers(label string, accesses []docs.Access) {
	fmt.Println(label)
	if len(accesses) == 0 {
		fmt.Println("  (no members)")
		return
	}
	fmt.Printf("  %-38s %-30s %-25s %s\n", "Access ID", "Name", "Email", "Role")
	fmt.Println("  " + strings.Repeat("-", 110))
	for _, access := range accesses {
		name := access.User.FullName
		if name == "" {
			name = access.User.ShortName
		}
		fmt.Printf("  %-38s %-30.30s %-25.25s %s\n", access.ID, name, access.User.Email, access.Role)
	}
}

// DisplayInvitations prints the pending invitations of a document.
func DisplayInvitations(invitations []docs.Invitation) {
	if len(invitations) == 0 {
		fmt.Println("No pending invitations.")
		return
	}
	fmt.Println("Pending invitations")
	fmt.Printf("  %-38s %-30s %-12s %s\n", "Invitation ID", "Email", "Role", "Status")
	fmt.Println("  " + strings.Repeat("-", 100))
	for _, invitation := range invitations {
		fmt.Printf("  %-38s %-30.30s %-12s %s\n", invitation.ID, invitation.Email, invitation.Role, invitation.Status)
	}
}

// DisplaySearchEntries prints merged search results, numbering them so the
// interactive picker can address entries by index.
func DisplaySearchEntries(entries []share.Entry) {
	if len(entries) == 0 {
		fmt.Println("No matching users.")
		return
	}
	for i, entry := range entries {
		marker := " "
		if entry.Kind == share.EntryEmailInvite {
			marker = "+"
		}
		fmt.Printf("  [%d]%s %s\n", i+1, marker, entry.Label())
	}
}

// DisplayStaged prints the staged selection.
func DisplayStaged(entries []share.Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Printf("Selected (%d):\n", len(entries))
	for _, entry := range entries {
		fmt.Printf("  - %s\n", entry.Label())
	}
}

// DisplayGroups renders the full picker surface for the current mode.
func DisplayGroups(groups share.Groups) {
	if groups.Mode == share.ModeBrowse {
		if len(groups.Invitations.Elements) > 0 {
			DisplayInvitations(groups.Invitations.Elements)
			if groups.Invitations.HasMore {
				fmt.Println("  (more invitations available)")
			}
			fmt.Println()
		}
		DisplayMembers(groups.Members.Label, groups.Members.Elements)
		if groups.Members.HasMore {
			fmt.Println("  (more members available)")
		}
		return
	}

	DisplayStaged(groups.Selected.Elements)
	fmt.Println(groups.Results.Label)
	DisplaySearchEntries(groups.Results.Elements)
}

// NewInviteProgressBar creates a progress bar counting invitations as they
// are submitted. It writes to stderr so stdout stays parseable.
func NewInviteProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription("Inviting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
		progressbar.OptionClearOnFinish(),
	)
}
