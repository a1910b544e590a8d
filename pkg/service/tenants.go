package service

import (
	"context"
	"net/url"

	"github.com/notably/notably.go/pkg/api"
	"github.com/notably/notably.go/pkg/models"
)

// tenantPayload wraps tenant responses.
type tenantPayload struct {
	Tenant *models.Tenant `json:"tenant"`
}

// Tenants translates tenant plan operations into API calls.
type Tenants struct {
	client *api.Client
}

// NewTenants creates the tenants façade.
func NewTenants(client *api.Client) *Tenants {
	return &Tenants{client: client}
}

// Get fetches a tenant by slug.
func (t *Tenants) Get(ctx context.Context, slug string) (*models.Tenant, error) {
	var payload tenantPayload
	if err := t.client.Get(ctx, "/tenants/"+url.PathEscape(slug), &payload); err != nil {
		return nil, err
	}
	return payload.Tenant, nil
}

// Upgrade moves the tenant to the pro plan and returns the updated
// tenant. The server enforces who may upgrade.
func (t *Tenants) Upgrade(ctx context.Context, slug string) (*models.Tenant, error) {
	var payload tenantPayload
	if err := t.client.Post(ctx, "/tenants/"+url.PathEscape(slug)+"/upgrade", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tenant, nil
}
