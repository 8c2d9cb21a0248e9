package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"leadconsole/internal/api"
	"leadconsole/internal/inline"
	"leadconsole/internal/leads"
)

var editCmd = &cobra.Command{
	Use:   "edit <lead-id> <field> <value>",
	Short: "Edit one field of a lead inline",
	Long: `Edits a single field through an optimistic edit session: the full
current entity is fetched, the field is patched and the complete record
is written back. A rejected save reverts the field and reports the
server-provided reason.

Editable fields: name, email, phone, company, status_id, source_id,
assigned_to_user_id, score.`,
	Args: cobra.ExactArgs(3),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	leadID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fail("invalid lead id %q", args[0])
	}
	fieldKey, value := args[1], args[2]

	app, err := buildApp()
	if err != nil {
		return err
	}

	current, err := app.client.GetLead(cmd.Context(), leadID)
	if err != nil {
		return err
	}
	app.store.Put(current)

	session, err := app.sessions.Open(leadID, fieldKey, fieldValue(current, fieldKey), persistField(app), inline.Hooks{
		OnCommit: func(updated api.Lead) {
			app.store.Put(updated)
		},
		OnHighlight: func() {
			printSuccess("saved %s on lead %d", fieldKey, leadID)
		},
		OnSaveError: func(err error) {
			printWarn("save rejected, field reverted: %v", err)
		},
	})
	if err != nil {
		return err
	}

	if err := session.SetCandidate(value); err != nil {
		return err
	}
	if err := session.Save(cmd.Context()); err != nil {
		// The session stays open for an interactive retry; a one-shot
		// CLI invocation just abandons it.
		_ = session.Cancel()
		return err
	}
	return nil
}

// persistField wraps the shared read-modify-write primitive as the
// session's persist function.
func persistField(app *app) inline.PersistFunc {
	return func(ctx context.Context, leadID int64, fieldKey, value string) (api.Lead, error) {
		var patchErr error
		updated, err := leads.ReadModifyWrite(ctx, app.client, leadID, func(lead *api.Lead) {
			patchErr = applyField(lead, fieldKey, value)
		})
		if patchErr != nil {
			return api.Lead{}, patchErr
		}
		return updated, err
	}
}

// applyField writes one field value onto the fetched entity.
func applyField(lead *api.Lead, fieldKey, value string) error {
	switch fieldKey {
	case "name":
		lead.Name = value
	case "email":
		lead.Email = value
	case "phone":
		lead.Phone = value
	case "company":
		lead.Company = value
	case "status_id":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fail("invalid status id %q", value)
		}
		lead.StatusID = id
	case "source_id":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fail("invalid source id %q", value)
		}
		lead.SourceID = &id
	case "assigned_to_user_id":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fail("invalid user id %q", value)
		}
		lead.AssignedToUserID = &id
	case "score":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fail("invalid score %q", value)
		}
		lead.Score = &n
	default:
		return fail("field %q is not editable", fieldKey)
	}
	return nil
}

// fieldValue reads the current value of an editable field for capture
// as the session's rollback value.
func fieldValue(lead api.Lead, fieldKey string) string {
	switch fieldKey {
	case "name":
		return lead.Name
	case "email":
		return lead.Email
	case "phone":
		return lead.Phone
	case "company":
		return lead.Company
	case "status_id":
		return strconv.FormatInt(lead.StatusID, 10)
	case "source_id":
		if lead.SourceID != nil {
			return strconv.FormatInt(*lead.SourceID, 10)
		}
	case "assigned_to_user_id":
		if lead.AssignedToUserID != nil {
			return strconv.FormatInt(*lead.AssignedToUserID, 10)
		}
	case "score":
		if lead.Score != nil {
			return strconv.Itoa(*lead.Score)
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(editCmd)
}
