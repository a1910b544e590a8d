package notably

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/notably/notably.go/pkg/api"
	"github.com/notably/notably.go/pkg/service"
	"github.com/notably/notably.go/pkg/storage"
)

// Client bundles the HTTP pipeline, the domain façades and the session
// for one API endpoint. All façades share a single underlying
// [api.Client], so every call passes through the same token and 401
// interception points.
type Client struct {
	API     *api.Client
	Auth    *service.Auth
	Notes   *service.Notes
	Tenants *service.Tenants
	Session *Session
}

type config struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// Option customizes a Client.
type Option func(*config)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithLogger attaches a logger to the pipeline and the session.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) { c.log = log }
}

// New creates a client for the API at baseURL (including any path
// prefix, no trailing slash). The store persists the session across
// processes; use [storage.NewMemory] for a throwaway session.
func New(baseURL string, store storage.Store, opts ...Option) *Client {
	cfg := config{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	apiOpts := []api.Option{api.WithLogger(cfg.log)}
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}
	apiClient := api.New(baseURL, store, apiOpts...)

	auth := service.NewAuth(apiClient)
	return &Client{
		API:     apiClient,
		Auth:    auth,
		Notes:   service.NewNotes(apiClient),
		Tenants: service.NewTenants(apiClient),
		Session: NewSession(store, auth, cfg.log),
	}
}
