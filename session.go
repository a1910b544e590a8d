package notably

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/notably/notably.go/pkg/api"
	"github.com/notably/notably.go/pkg/models"
	"github.com/notably/notably.go/pkg/service"
	"github.com/notably/notably.go/pkg/storage"
)

// Phase is the coarse lifecycle position of a session.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseRestoring     Phase = "restoring"
	PhaseAuthenticated Phase = "authenticated"
	PhaseAnonymous     Phase = "anonymous"
)

// State is a point-in-time view of the session. Authenticated is true
// iff User is present and no logout has happened since; Loading is true
// only while a login, register or restore is in flight; Err holds the
// message of the last failed attempt.
type State struct {
	Phase         Phase
	User          *models.User
	Authenticated bool
	Loading       bool
	Err           string
}

// actionKind enumerates the closed set of state transitions. State is
// mutated exclusively by reduce over these actions.
type actionKind int

const (
	restoreBegin actionKind = iota // restore started reading the cache
	authBegin                      // login/register issued
	authSucceed                    // token+user obtained (or restored)
	authFail                       // login/register failed
	reset                          // logout
	settle                         // restore found no cached session
)

type action struct {
	kind    actionKind
	user    *models.User
	message string
}

func reduce(s State, a action) State {
	switch a.kind {
	case restoreBegin:
		s.Phase = PhaseRestoring
		s.Loading = true
		s.Err = ""
	case authBegin:
		s.Loading = true
		s.Err = ""
	case authSucceed:
		s.Phase = PhaseAuthenticated
		s.User = a.user
		s.Authenticated = true
		s.Loading = false
		s.Err = ""
	case authFail:
		s.Phase = PhaseAnonymous
		s.User = nil
		s.Authenticated = false
		s.Loading = false
		s.Err = a.message
	case reset:
		s.Phase = PhaseAnonymous
		s.User = nil
		s.Authenticated = false
		s.Loading = false
		s.Err = ""
	case settle:
		s.Phase = PhaseAnonymous
		s.Loading = false
	}
	return s
}

// Session is the authentication state machine. It owns the persistent
// session cache and is the only component that writes authentication
// state; consumers read it through Snapshot. Individual dispatches are
// mutex-serialized, so every snapshot is a consistent state. An
// operation spanning a network call is not atomic: overlapping logins
// can interleave around their requests, and the last transition wins.
type Session struct {
	mu    sync.Mutex
	state State

	store storage.Store
	auth  *service.Auth
	log   zerolog.Logger
}

// NewSession creates a session over the given cache and auth façade.
// The session starts uninitialized and loading; call Restore once at
// startup.
func NewSession(store storage.Store, auth *service.Auth, log zerolog.Logger) *Session {
	return &Session{
		state: State{Phase: PhaseUninitialized, Loading: true},
		store: store,
		auth:  auth,
		log:   log.With().Str("component", "session").Logger(),
	}
}

func (s *Session) dispatch(a action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, a)
	return s.state
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Restore rebuilds the session from the persistent cache. When both a
// token and a user are cached the session becomes authenticated with
// the cached user immediately, with no network validation; otherwise
// it settles anonymous. Restore is idempotent.
func (s *Session) Restore() State {
	s.dispatch(action{kind: restoreBegin})

	token, haveToken := s.store.Get(storage.KeyToken)
	var user models.User
	haveUser := s.store.GetJSON(storage.KeyUser, &user)

	if haveToken && token != "" && haveUser {
		s.log.Debug().Int64("user_id", user.ID).Msg("session restored from cache")
		return s.dispatch(action{kind: authSucceed, user: &user})
	}
	s.log.Debug().Msg("no cached session")
	return s.dispatch(action{kind: settle})
}

// Login authenticates with the given credentials. On success the token
// and user are persisted and the session becomes authenticated; on
// failure the session settles anonymous with an error message and the
// original failure is returned to the caller.
func (s *Session) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	s.dispatch(action{kind: authBegin})

	result, err := s.auth.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		s.dispatch(action{kind: authFail, message: failureMessage(err, "Login failed")})
		return nil, err
	}
	s.persist(result)
	s.dispatch(action{kind: authSucceed, user: result.User})
	return result, nil
}

// Register creates an account and signs in with it. Same contract as
// Login; the form's confirmation field never leaves the client.
func (s *Session) Register(ctx context.Context, form models.RegisterForm) (*service.AuthResult, error) {
	s.dispatch(action{kind: authBegin})

	result, err := s.auth.Register(ctx, form)
	if err != nil {
		s.dispatch(action{kind: authFail, message: failureMessage(err, "Registration failed")})
		return nil, err
	}
	s.persist(result)
	s.dispatch(action{kind: authSucceed, user: result.User})
	return result, nil
}

// Logout clears the persistent cache and resets the session. It is
// purely local and has no failure mode.
func (s *Session) Logout() {
	storage.ClearSession(s.store)
	s.dispatch(action{kind: reset})
	s.log.Debug().Msg("logged out")
}

func (s *Session) persist(result *service.AuthResult) {
	s.store.Set(storage.KeyToken, result.Token)
	if err := s.store.SetJSON(storage.KeyUser, result.User); err != nil {
		s.log.Error().Err(err).Msg("persist user")
	}
}

// failureMessage picks the user-facing message for a failed attempt:
// field errors speak for themselves, API failures carry the server's
// message, anything else falls back to the generic string.
func failureMessage(err error, fallback string) string {
	var fe models.FieldErrors
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return api.ErrorMessage(err, fallback)
}
