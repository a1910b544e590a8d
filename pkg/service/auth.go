// Package service holds the domain façades. Each façade maps one
// domain operation onto exactly one HTTP call, validates form input
// client-side where a form exists, and passes failures through
// untouched.
package service

import (
	"context"

	"github.com/notably/notably.go/pkg/api"
	"github.com/notably/notably.go/pkg/models"
)

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Auth translates authentication operations into API calls.
type Auth struct {
	client *api.Client
}

// NewAuth creates the auth façade.
func NewAuth(client *api.Client) *Auth {
	return &Auth{client: client}
}

// Login exchanges credentials for a token and user. Credentials are
// validated client-side first; invalid forms are never submitted.
func (a *Auth) Login(ctx context.Context, creds models.Credentials) (*AuthResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var result AuthResult
	if err := a.client.Post(ctx, "/auth/login", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account. The form's confirmation field is used
// only for the equality check here and is excluded from the payload.
func (a *Auth) Register(ctx context.Context, form models.RegisterForm) (*AuthResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	var result AuthResult
	if err := a.client.Post(ctx, "/auth/register", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile fetches the authenticated user's profile. The payload is
// unwrapped one envelope level like every other operation.
func (a *Auth) Profile(ctx context.Context) (*models.User, error) {
	var payload struct {
		User *models.User `json:"user"`
	}
	if err := a.client.Get(ctx, "/auth/profile", &payload); err != nil {
		return nil, err
	}
	return payload.User, nil
}
