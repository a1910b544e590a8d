package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notably/notably.go/pkg/api"
	"github.com/notably/notably.go/pkg/models"
)

func newTenantCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Inspect and upgrade the tenant plan",
	}
	cmd.AddCommand(newTenantShowCmd(a), newTenantUpgradeCmd(a))
	return cmd
}

// tenantSlug resolves the caller's tenant from the restored session.
func (a *app) tenantSlug() (string, error) {
	state, err := a.requireAuth()
	if err != nil {
		return "", err
	}
	if state.User == nil || state.User.Tenant == nil {
		return "", errors.New("cached user has no tenant, run 'notably login' again")
	}
	return state.User.Tenant.Slug, nil
}

func newTenantShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the tenant and its plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slug, err := a.tenantSlug()
			if err != nil {
				return err
			}

			tenant, err := a.client.Tenants.Get(cmd.Context(), slug)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Tenant: %s\n", tenant.Slug)
			if tenant.Name != "" {
				fmt.Fprintf(a.out, "Name:   %s\n", tenant.Name)
			}
			fmt.Fprintf(a.out, "Plan:   %s\n", tenant.Plan)
			return nil
		},
	}
}

func newTenantUpgradeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the tenant to the pro plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slug, err := a.tenantSlug()
			if err != nil {
				return err
			}

			tenant, err := a.client.Tenants.Upgrade(cmd.Context(), slug)
			if err != nil {
				return fmt.Errorf("upgrade failed: %s", api.ErrorMessage(err, err.Error()))
			}
			if tenant.Plan == models.PlanPro {
				fmt.Fprintf(a.out, "Tenant %s is now on the pro plan.\n", tenant.Slug)
			}
			return nil
		},
	}
}
