package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"leadconsole/internal/api"
	"leadconsole/internal/lookup"
)

var noteUserID int64

var noteCmd = &cobra.Command{
	Use:   "note --user <user-id> <lead-id> <body>...",
	Short: "Attach a note to a lead",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runNote,
}

var showCmd = &cobra.Command{
	Use:   "show <lead-id>",
	Short: "Show one lead record",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runNote(cmd *cobra.Command, args []string) error {
	leadID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fail("invalid lead id %q", args[0])
	}
	body := strings.Join(args[1:], " ")

	app, err := buildApp()
	if err != nil {
		return err
	}

	if err := app.client.CreateNote(cmd.Context(), api.NoteCreate{
		Body:   body,
		LeadID: leadID,
		UserID: noteUserID,
	}); err != nil {
		return err
	}

	printSuccess("note added to lead %d", leadID)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	leadID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fail("invalid lead id %q", args[0])
	}

	app, err := buildApp()
	if err != nil {
		return err
	}

	lead, err := app.client.GetLead(cmd.Context(), leadID)
	if err != nil {
		return err
	}
	app.store.Put(lead)

	cmd.Printf("#%d %s\n", lead.ID, lead.Name)
	cmd.Printf("  email:  %s\n", lead.Email)
	cmd.Printf("  phone:  %s\n", lookup.FormatPhone(lead.Phone, app.cfg.DefaultPhoneRegion))
	if lead.Company != "" {
		cmd.Printf("  company: %s\n", lead.Company)
	}
	if lead.Status != nil {
		cmd.Printf("  status: %s\n", lead.Status.Name)
	} else {
		cmd.Printf("  status: #%d\n", lead.StatusID)
	}
	if lead.AssignedUser != nil {
		cmd.Printf("  assigned: %s\n", lead.AssignedUser.Name)
	}
	if lead.Score != nil {
		cmd.Printf("  score:  %d\n", *lead.Score)
	}
	if lead.IsDeleted {
		printWarn("  archived")
	}
	return nil
}

func init() {
	noteCmd.Flags().Int64Var(&noteUserID, "user", 0, "authoring user id")
	_ = noteCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(showCmd)
}
