package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notably/notably.go/pkg/api"
	"github.com/notably/notably.go/pkg/models"
)

func newLoginCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Sign in and cache the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = a.promptLine("Password: "); err != nil {
					return err
				}
			}

			result, err := a.client.Session.Login(cmd.Context(), args[0], password)
			if err != nil {
				return fmt.Errorf("login failed: %s", api.ErrorMessage(err, err.Error()))
			}

			switch {
			case result.User == nil:
				fmt.Fprintln(a.out, "Signed in.")
			case result.User.Tenant == nil:
				fmt.Fprintf(a.out, "Signed in as %s\n", result.User.Name())
			default:
				fmt.Fprintf(a.out, "Signed in as %s (%s plan)\n", result.User.Name(), result.User.Tenant.Plan)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	form := models.RegisterForm{}

	cmd := &cobra.Command{
		Use:   "register EMAIL",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Email = args[0]
			if form.Password == "" {
				var err error
				if form.Password, err = a.promptLine("Password: "); err != nil {
					return err
				}
			}
			if form.ConfirmPassword == "" {
				var err error
				if form.ConfirmPassword, err = a.promptLine("Confirm password: "); err != nil {
					return err
				}
			}

			result, err := a.client.Session.Register(cmd.Context(), form)
			if err != nil {
				return fmt.Errorf("registration failed: %s", api.ErrorMessage(err, err.Error()))
			}

			if result.User == nil || result.User.Tenant == nil {
				fmt.Fprintln(a.out, "Account created.")
				return nil
			}
			fmt.Fprintf(a.out, "Welcome, %s! Your workspace %q is on the %s plan.\n",
				result.User.Name(), result.User.Tenant.Slug, result.User.Tenant.Plan)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password confirmation (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.client.Session.Logout()
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireAuth(); err != nil {
				return err
			}

			user, err := a.client.Auth.Profile(cmd.Context())
			if err != nil {
				if api.IsUnauthorized(err) {
					return errors.New("session expired, run 'notably login' again")
				}
				return err
			}

			fmt.Fprintf(a.out, "%s <%s>\n", user.Name(), user.Email)
			fmt.Fprintf(a.out, "Role:   %s\n", user.Role)
			if user.Tenant != nil {
				fmt.Fprintf(a.out, "Tenant: %s (%s plan)\n", user.Tenant.Slug, user.Tenant.Plan)
			}
			return nil
		},
	}
}
