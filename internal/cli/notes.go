package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	notably "github.com/notably/notably.go"
	"github.com/notably/notably.go/pkg/api"
	"github.com/notably/notably.go/pkg/models"
)

func newNotesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes",
	}
	cmd.AddCommand(
		newNotesListCmd(a),
		newNotesShowCmd(a),
		newNotesCreateCmd(a),
		newNotesEditCmd(a),
		newNotesDeleteCmd(a),
	)
	return cmd
}

func newNotesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireAuth(); err != nil {
				return err
			}

			list, err := a.client.Notes.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list.Notes) == 0 {
				fmt.Fprintln(a.out, "No notes yet.")
				return nil
			}
			for _, note := range list.Notes {
				fmt.Fprintf(a.out, "%s  %s  (updated %s)\n",
					note.ID, note.Title, note.UpdatedAt.Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(a.out, "%d of %d note(s)\n", len(list.Notes), list.Pagination.Total)
			return nil
		},
	}
}

func newNotesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireAuth(); err != nil {
				return err
			}

			note, err := a.client.Notes.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "# %s\n\n%s\n", note.Title, note.Content)
			return nil
		},
	}
}

func newNotesCreateCmd(a *app) *cobra.Command {
	var input models.NoteInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := a.requireAuth()
			if err != nil {
				return err
			}

			note, err := a.client.Notes.Create(cmd.Context(), input)
			if err != nil {
				return a.handleNoteFailure(err, state)
			}
			fmt.Fprintf(a.out, "Created note %s\n", note.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input.Title, "title", "t", "", "note title (required)")
	cmd.Flags().StringVarP(&input.Content, "content", "c", "", "note content")
	return cmd
}

func newNotesEditCmd(a *app) *cobra.Command {
	var input models.NoteInput

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireAuth(); err != nil {
				return err
			}

			note, err := a.client.Notes.Update(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated note %s\n", note.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input.Title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&input.Content, "content", "c", "", "new content")
	return cmd
}

func newNotesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireAuth(); err != nil {
				return err
			}

			if err := a.client.Notes.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted note %s\n", args[0])
			return nil
		},
	}
}

// handleNoteFailure turns the plan-limit 403 into the upgrade prompt;
// everything else propagates as a plain error.
func (a *app) handleNoteFailure(err error, state notably.State) error {
	if !api.IsPlanLimit(err) {
		return err
	}
	fmt.Fprintln(a.out, api.ErrorMessage(err, "Your plan's note limit is reached."))
	if state.User != nil && state.User.Tenant != nil && state.User.Tenant.Plan == models.PlanFree {
		fmt.Fprintln(a.out, "Upgrade with: notably tenant upgrade")
	}
	return errors.New("note limit reached")
}
