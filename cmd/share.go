// Package cmd (share.go) defines the sharing commands: viewing members and
// pending invitations, searching the directory, inviting people (by directory
// match or raw email), changing roles, and revoking access. 'share picker'
// drives the interactive access picker built on internal/share.
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rvveber/docs/internal/app"
	"github.com/rvveber/docs/internal/share"
	"github.com/rvveber/docs/internal/ui"
	"github.com/rvveber/docs/pkg/docs"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Manage who can access a document",
	Long: `Provides commands to inspect and change a document's sharing state:
listing members and pending invitations, searching the user directory,
inviting users or email addresses, updating roles, and revoking access.`,
}

var shareMembersCmd = &cobra.Command{
	Use:   "members <document-id>",
	Short: "List a document's members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return shareMembersLogic(a, cmd, args)
	},
}

func shareMembersLogic(a *app.App, cmd *cobra.Command, args []string) error {
	doc, err := a.SDK.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}
	caps := share.ResolveCapabilities(doc)
	if !caps.CanView {
		return fmt.Errorf("viewing accesses on this document: %w", docs.ErrAccessDenied)
	}

	paging, err := ui.ParsePagingFlags(cmd)
	if err != nil {
		return err
	}

	list, err := a.SDK.ListAccesses(cmd.Context(), doc.ID, paging.Next)
	if err != nil {
		return fmt.Errorf("listing accesses: %w", err)
	}
	if paging.All {
		for list.Next != "" {
			page, err := a.SDK.ListAccesses(cmd.Context(), doc.ID, list.Next)
			if err != nil {
				return fmt.Errorf("listing accesses: %w", err)
			}
			list.Results = append(list.Results, page.Results...)
			list.Next = page.Next
		}
	}

	label := "Members"
	if list.Count > 0 {
		label = fmt.Sprintf("Members (%d)", list.Count)
	}
	if list.Count <= 1 {
		label = "Document owner"
	}
	ui.DisplayMembers(label, list.Results)
	ui.HandleNextPageInfo(list.Next, paging.All)
	return nil
}

var shareInvitationsCmd = &cobra.Command{
	Use:   "invitations <document-id>",
	Short: "List a document's pending invitations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return shareInvitationsLogic(a, cmd, args)
	},
}

func shareInvitationsLogic(a *app.App, cmd *cobra.Command, args []string) error {
	doc, err := a.SDK.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}
	if !share.ResolveCapabilities(doc).CanView {
		return fmt.Errorf("viewing invitations on this document: %w", docs.ErrAccessDenied)
	}

	paging, err := ui.ParsePagingFlags(cmd)
	if err != nil {
		return err
	}

	list, err := a.SDK.ListInvitations(cmd.Context(), doc.ID, paging.Next)
	if err != nil {
		return fmt.Errorf("listing invitations: %w", err)
	}
	if paging.All {
		for list.Next != "" {
			page, err := a.SDK.ListInvitations(cmd.Context(), doc.ID, list.Next)
			if err != nil {
				return fmt.Errorf("listing invitations: %w", err)
			}
			list.Results = append(list.Results, page.Results...)
			list.Next = page.Next
		}
	}

	ui.DisplayInvitations(list.Results)
	ui.HandleNextPageInfo(list.Next, paging.All)
	return nil
}

var shareSearchCmd = &cobra.Command{
	Use:   "search <document-id> <query>",
	Short: "Search the user directory for people to invite",
	Long: `Searches the user directory, excluding users who already have access to
the document. If the query looks like an email address that no directory
entry matches exactly, an invite-by-email entry is offered as well.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return shareSearchLogic(a, cmd, args)
	},
}

func shareSearchLogic(a *app.App, cmd *cobra.Command, args []string) error {
	documentID, query := args[0], args[1]

	var results []docs.User
	if len([]rune(query)) > docs.MinSearchQueryLength {
		found, err := a.SDK.SearchUsers(cmd.Context(), query, documentID)
		if err != nil {
			return fmt.Errorf("searching users: %w", err)
		}
		results = found
	}

	entries := share.MergeSearchResults(results, query)
	ui.DisplaySearchEntries(entries)
	return nil
}

var shareInviteCmd = &cobra.Command{
	Use:   "invite <document-id> <email-or-user-id>...",
	Short: "Invite one or more people to a document",
	Long: `Invites the given recipients to the document. Each recipient is resolved
against the user directory first; an email address with no exact directory
match is invited by email instead. Invitations that fail are reported
individually, and the rest still go through.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return shareInviteLogic(a, cmd, args)
	},
}

func shareInviteLogic(a *app.App, cmd *cobra.Command, args []string) error {
	doc, err := a.SDK.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}
	caps := share.ResolveCapabilities(doc)
	if !caps.CanManage {
		return share.ErrManageForbidden
	}

	role, err := cmd.Flags().GetString("role")
	if err != nil {
		return fmt.Errorf("error parsing role flag: %w", err)
	}

	stage := share.NewSelectionStage()
	for _, recipient := range args[1:] {
		entry, err := resolveRecipient(a, cmd, doc.ID, recipient)
		if err != nil {
			return err
		}
		stage.Add(entry)
	}

	submitter := share.NewSubmitter(a.SDK, doc.ID, role)
	bar := ui.NewInviteProgressBar(stage.Len())
	submitter.OnProgress = func(done, total int) {
		_ = bar.Set(done)
	}

	created, failed, err := submitter.Submit(cmd.Context(), caps, stage)
	if err != nil {
		return err
	}

	for _, invitation := range created {
		ui.Success(fmt.Sprintf("Invited %s as %s.", invitation.Email, invitation.Role))
	}
	if len(failed) > 0 {
		for _, f := range failed {
			ui.PrintError(f)
		}
		return fmt.Errorf("%d of %d invitations failed", len(failed), len(args[1:]))
	}
	return nil
}

// resolveRecipient turns a command-line recipient into a picker entry. A
// directory user whose id or email matches exactly wins; otherwise an
// email-shaped recipient becomes an invite-by-email entry.
func resolveRecipient(a *app.App, cmd *cobra.Command, documentID, recipient string) (share.Entry, error) {
	results, err := a.SDK.SearchUsers(cmd.Context(), recipient, documentID)
	if err != nil {
		return share.Entry{}, fmt.Errorf("resolving %q: %w", recipient, err)
	}
	for _, user := range results {
		if user.ID == recipient || strings.EqualFold(user.Email, recipient) {
			return share.Entry{Kind: share.EntryDirectory, User: user}, nil
		}
	}
	if share.IsEmailLike(recipient) {
		return share.Entry{
			Kind: share.EntryEmailInvite,
			User: docs.User{ID: recipient, Email: recipient},
		}, nil
	}
	return share.Entry{}, fmt.Errorf("no user found for %q and it is not an email address", recipient)
}

var shareRoleCmd = &cobra.Command{
	Use:   "role <document-id> <access-id> <role>",
	Short: "Change a member's role",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return shareRoleLogic(a, cmd, args)
	},
}

func shareRoleLogic(a *app.App, cmd *cobra.Command, args []string) error {
	access, err := a.SDK.UpdateAccess(cmd.Context(), args[0], args[1], args[2])
	if err != nil {
		return fmt.Errorf("updating access: %w", err)
	}
	ui.Success(fmt.Sprintf("%s is now %s.", access.User.Email, access.Role))
	return nil
}

var shareRevokeCmd = &cobra.Command{
	Use:   "revoke <document-id> <access-id>",
	Short: "Revoke a member's access",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return shareRevokeLogic(a, cmd, args)
	},
}

func shareRevokeLogic(a *app.App, cmd *cobra.Command, args []string) error {
	if err := a.SDK.DeleteAccess(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("revoking access: %w", err)
	}
	ui.Success("Access revoked.")
	return nil
}

var shareWithdrawCmd = &cobra.Command{
	Use:   "withdraw <document-id> <invitation-id>",
	Short: "Withdraw a pending invitation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return shareWithdrawLogic(a, cmd, args)
	},
}

func shareWithdrawLogic(a *app.App, cmd *cobra.Command, args []string) error {
	if err := a.SDK.DeleteInvitation(cmd.Context(), args[0], args[1]); err != nil {
		return fmt.Errorf("withdrawing invitation: %w", err)
	}
	ui.Success("Invitation withdrawn.")
	return nil
}

var sharePickerCmd = &cobra.Command{
	Use:   "picker <document-id>",
	Short: "Open the interactive access picker",
	Long: `Opens an interactive session against the document's access picker. Typed
text is treated as a live search query (debounced, minimum length applies).
Commands start with a slash:

  /select <n>   stage search result number n
  /remove <id>  unstage an entry by user id or email
  /submit       invite everyone staged
  /more         load the next page of members (or invitations with /morei)
  /quit         close the picker`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("error creating app: %w", err)
		}
		return sharePickerLogic(a, cmd, args)
	},
}

func sharePickerLogic(a *app.App, cmd *cobra.Command, args []string) error {
	doc, err := a.SDK.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}

	role, err := cmd.Flags().GetString("role")
	if err != nil {
		return fmt.Errorf("error parsing role flag: %w", err)
	}

	picker := share.NewPicker(cmd.Context(), a.SDK, doc, share.PickerOptions{Role: role})
	defer picker.Close()

	if !picker.Capabilities().CanView {
		return fmt.Errorf("viewing accesses on this document: %w", docs.ErrAccessDenied)
	}
	if err := picker.Open(cmd.Context()); err != nil {
		return fmt.Errorf("opening picker: %w", err)
	}

	ui.DisplayGroups(picker.Groups())
	fmt.Println("\nType to search, /select <n> to stage, /submit to invite, /quit to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		if strings.HasPrefix(line, "/") {
			quit, err := runPickerCommand(cmd, picker, line)
			if err != nil {
				ui.PrintError(err)
			}
			if quit {
				break
			}
		} else {
			picker.OnQueryChange(line)
			// The debounce commits on its own timer; for a line-based
			// prompt the quiet period has always elapsed by the next read.
			waitForSearch(picker)
		}

		ui.DisplayGroups(picker.Groups())
		if err := picker.LastError(); err != nil {
			ui.PrintError(err)
		}
	}
	return scanner.Err()
}

// runPickerCommand executes one slash command. It returns true when the
// session should end.
func runPickerCommand(cmd *cobra.Command, picker *share.Picker, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/q":
		return true, nil
	case "/select":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: /select <n>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("not a result number: %q", fields[1])
		}
		results := picker.Groups().Results.Elements
		if n < 1 || n > len(results) {
			return false, fmt.Errorf("no search result number %d", n)
		}
		picker.OnSelect(results[n-1])
	case "/remove":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: /remove <id>")
		}
		picker.OnRemoveSelected(fields[1])
	case "/submit":
		total := len(picker.Staged())
		if total == 0 {
			return false, fmt.Errorf("nothing staged")
		}
		bar := ui.NewInviteProgressBar(total)
		picker.SetProgress(func(done, _ int) {
			_ = bar.Set(done)
		})
		created, failed, err := picker.Submit(cmd.Context())
		if err != nil {
			return false, err
		}
		for _, invitation := range created {
			ui.Success(fmt.Sprintf("Invited %s as %s.", invitation.Email, invitation.Role))
		}
		for _, f := range failed {
			ui.PrintError(f)
		}
	case "/more":
		return false, picker.LoadMoreMembers(cmd.Context())
	case "/morei":
		return false, picker.LoadMoreInvitations(cmd.Context())
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
	return false, nil
}

// waitForSearch blocks until the pending debounce (if any) has committed and
// its search has landed, even when it legitimately returned nothing.
// Line-based input has no mid-typing keystrokes, so a short bounded wait is
// enough.
func waitForSearch(picker *share.Picker) {
	deadline := time.Now().Add(docs.SearchDebounceDelay * 10)
	step := docs.SearchDebounceDelay / 10
	for time.Now().Before(deadline) {
		if picker.Mode() == share.ModeBrowse || picker.SearchSettled() {
			return
		}
		time.Sleep(step)
	}
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.AddCommand(shareMembersCmd)
	shareCmd.AddCommand(shareInvitationsCmd)
	shareCmd.AddCommand(shareSearchCmd)
	shareCmd.AddCommand(shareInviteCmd)
	shareCmd.AddCommand(shareRoleCmd)
	shareCmd.AddCommand(shareRevokeCmd)
	shareCmd.AddCommand(shareWithdrawCmd)
	shareCmd.AddCommand(sharePickerCmd)

	ui.AddPagingFlags(shareMembersCmd)
	ui.AddPagingFlags(shareInvitationsCmd)
	shareInviteCmd.Flags().String("role", docs.RoleReader, "Role granted by the invitation (reader, editor, administrator, owner)")
	sharePickerCmd.Flags().String("role", docs.RoleReader, "Role granted by submitted invitations")
}
