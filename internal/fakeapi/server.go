// Package fakeapi provides an in-process fake of the notes API for
// testing the client against real HTTP without a deployed backend.
//
// The fake implements every endpoint the client consumes, speaks the
// same {success, data} envelope and {message} failure bodies, issues
// HS256 bearer tokens, and enforces the free-plan note limit so tests
// can exercise the upgrade-prompt path.
package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/notably/notably.go/pkg/models"
)

// FreeNoteLimit is the number of notes a free tenant may hold before
// note creation starts failing with a 403.
const FreeNoteLimit = 3

const tokenTTL = 24 * time.Hour

// Seeded accounts, mirroring the demo data the real backend ships with.
const (
	AdminEmail     = "admin@example.com"
	AdminPassword  = "admin123"
	MemberEmail    = "user@example.com"
	MemberPassword = "user123"

	AdminTenant  = "acme"
	MemberTenant = "globex"
)

type account struct {
	user     *models.User
	password string
}

type claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// Server is a stateful fake of the notes API.
type Server struct {
	mu      sync.Mutex
	secret  []byte
	byEmail map[string]*account
	byID    map[int64]*account
	tenants map[string]*models.Tenant
	notes   map[string]map[string]*models.Note // tenant slug -> note id -> note
	nextID  int64

	hs *httptest.Server
}

// NewServer creates and starts a fake server with two seeded accounts:
// an admin on a pro tenant and a member on a free tenant.
func NewServer() *Server {
	s := &Server{
		secret:  []byte(uuid.NewString()),
		byEmail: map[string]*account{},
		byID:    map[int64]*account{},
		tenants: map[string]*models.Tenant{},
		notes:   map[string]map[string]*models.Note{},
		nextID:  1,
	}
	s.addTenant(&models.Tenant{Slug: AdminTenant, Name: "Acme", Plan: models.PlanPro})
	s.addTenant(&models.Tenant{Slug: MemberTenant, Name: "Globex", Plan: models.PlanFree})
	s.addAccount(AdminEmail, AdminPassword, "Admin", "User", models.RoleAdmin, AdminTenant)
	s.addAccount(MemberEmail, MemberPassword, "Free", "User", models.RoleMember, MemberTenant)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("GET /auth/profile", s.authed(s.handleProfile))
	mux.HandleFunc("GET /notes", s.authed(s.handleListNotes))
	mux.HandleFunc("POST /notes", s.authed(s.handleCreateNote))
	mux.HandleFunc("GET /notes/{id}", s.authed(s.handleGetNote))
	mux.HandleFunc("PUT /notes/{id}", s.authed(s.handleUpdateNote))
	mux.HandleFunc("DELETE /notes/{id}", s.authed(s.handleDeleteNote))
	mux.HandleFunc("GET /tenants/{slug}", s.authed(s.handleGetTenant))
	mux.HandleFunc("POST /tenants/{slug}/upgrade", s.authed(s.handleUpgradeTenant))

	s.hs = httptest.NewServer(mux)
	return s
}

// URL returns the base URL clients should use.
func (s *Server) URL() string {
	return s.hs.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.hs.Close()
}

// IssueToken mints a valid bearer token for the account with the given
// email. It panics on unknown emails; it is test plumbing.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	acc, ok := s.byEmail[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("fakeapi: no account %q", email))
	}
	return s.signToken(acc.user.ID)
}

// NoteCount reports how many notes a tenant currently holds.
func (s *Server) NoteCount(slug string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes[slug])
}

func (s *Server) addTenant(t *models.Tenant) {
	s.tenants[t.Slug] = t
	s.notes[t.Slug] = map[string]*models.Note{}
}

func (s *Server) addAccount(email, password, first, last string, role models.Role, tenantSlug string) *account {
	acc := &account{
		user: &models.User{
			ID:        s.nextID,
			Email:     strings.ToLower(email),
			FirstName: first,
			LastName:  last,
			Role:      role,
			Tenant:    s.tenants[tenantSlug],
		},
		password: password,
	}
	s.nextID++
	s.byEmail[acc.user.Email] = acc
	s.byID[acc.user.ID] = acc
	return acc
}

func (s *Server) signToken(userID int64) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) verifyToken(raw string) (*account, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.byID[cl.UserID]
	if !ok {
		return nil, errors.New("unknown user")
	}
	return acc, nil
}

// authed wraps a handler with bearer-token verification.
func (s *Server) authed(next func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		acc, err := s.verifyToken(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next(w, r, acc)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	acc, ok := s.byEmail[strings.ToLower(body.Email)]
	s.mu.Unlock()
	if !ok || acc.password != body.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"token": s.signToken(acc.user.ID),
		"user":  acc.user,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.byEmail[email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "User already exists")
		return
	}
	// Every registration starts its own free tenant.
	slug := strings.SplitN(email, "@", 2)[0]
	if _, taken := s.tenants[slug]; taken {
		slug = slug + "-" + uuid.NewString()[:8]
	}
	s.addTenant(&models.Tenant{Slug: slug, Name: body.FirstName + "'s workspace", Plan: models.PlanFree})
	acc := s.addAccount(email, body.Password, body.FirstName, body.LastName, models.RoleAdmin, slug)
	s.mu.Unlock()

	writeData(w, http.StatusCreated, map[string]any{
		"token": s.signToken(acc.user.ID),
		"user":  acc.user,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, _ *http.Request, acc *account) {
	writeData(w, http.StatusOK, map[string]any{"user": acc.user})
}

func (s *Server) handleListNotes(w http.ResponseWriter, _ *http.Request, acc *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenantNotes := s.notes[acc.user.Tenant.Slug]
	list := make([]*models.Note, 0, len(tenantNotes))
	for _, n := range tenantNotes {
		list = append(list, n)
	}
	writeData(w, http.StatusOK, map[string]any{
		"notes": list,
		"pagination": models.Pagination{
			Page:       1,
			Limit:      len(list),
			Total:      len(list),
			TotalPages: 1,
		},
	})
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request, acc *account) {
	var input models.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(input.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tenant := s.tenants[acc.user.Tenant.Slug]
	if tenant.Plan == models.PlanFree && len(s.notes[tenant.Slug]) >= FreeNoteLimit {
		writeError(w, http.StatusForbidden, "Note limit reached. Upgrade to Pro to add more notes.")
		return
	}
	now := time.Now().UTC()
	note := &models.Note{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes[tenant.Slug][note.ID] = note
	writeData(w, http.StatusCreated, map[string]any{"note": note})
}

func (s *Server) tenantNote(acc *account, id string) (*models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[acc.user.Tenant.Slug][id]
	return n, ok
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request, acc *account) {
	note, ok := s.tenantNote(acc, r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"note": note})
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request, acc *account) {
	var input models.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[acc.user.Tenant.Slug][r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	if input.Title != "" {
		note.Title = input.Title
	}
	note.Content = input.Content
	note.UpdatedAt = time.Now().UTC()
	writeData(w, http.StatusOK, map[string]any{"note": note})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request, acc *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := s.notes[acc.user.Tenant.Slug][id]; !ok {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	delete(s.notes[acc.user.Tenant.Slug], id)
	writeData(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleGetTenant(w http.ResponseWriter, r *http.Request, acc *account) {
	slug := r.PathValue("slug")
	if acc.user.Tenant.Slug != slug {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}
	s.mu.Lock()
	tenant := s.tenants[slug]
	s.mu.Unlock()
	writeData(w, http.StatusOK, map[string]any{"tenant": tenant})
}

func (s *Server) handleUpgradeTenant(w http.ResponseWriter, r *http.Request, acc *account) {
	slug := r.PathValue("slug")
	if acc.user.Tenant.Slug != slug {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}
	if !acc.user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Only admins can upgrade the tenant")
		return
	}
	s.mu.Lock()
	tenant := s.tenants[slug]
	tenant.Plan = models.PlanPro
	s.mu.Unlock()
	writeData(w, http.StatusOK, map[string]any{"tenant": tenant})
}
