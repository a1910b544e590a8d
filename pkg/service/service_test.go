package service_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notably/notably.go/internal/fakeapi"
	"github.com/notably/notably.go/pkg/api"
	"github.com/notably/notably.go/pkg/models"
	"github.com/notably/notably.go/pkg/service"
	"github.com/notably/notably.go/pkg/storage"
)

// testClient returns an API client logged in as the given seeded account.
func testClient(t *testing.T, srv *fakeapi.Server, email string) *api.Client {
	t.Helper()
	store := storage.NewMemory()
	store.Set(storage.KeyToken, srv.IssueToken(email))
	return api.New(srv.URL(), store)
}

func TestAuthLoginAndProfile(t *testing.T) {
	srv := fakeapi.NewServer()
	defer srv.Close()

	store := storage.NewMemory()
	client := api.New(srv.URL(), store)
	auth := service.NewAuth(client)

	result, err := auth.Login(context.Background(), models.Credentials{
		Email:    fakeapi.AdminEmail,
		Password: fakeapi.AdminPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, fakeapi.AdminEmail, result.User.Email)

	// The façade only returns the payload; persisting the token is the
	// session's job. Do it manually here to call an authed endpoint.
	store.Set(storage.KeyToken, result.Token)

	user, err := auth.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
}

func TestAuthLoginRejectsInvalidCredentials(t *testing.T) {
	srv := fakeapi.NewServer()
	defer srv.Close()

	auth := service.NewAuth(api.New(srv.URL(), storage.NewMemory()))

	_, err := auth.Login(context.Background(), models.Credentials{
		Email:    fakeapi.AdminEmail,
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", api.ErrorMessage(err, "fallback"))
}

func TestAuthLoginBlocksInvalidFormWithoutRequest(t *testing.T) {
	called := false
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer hs.Close()

	auth := service.NewAuth(api.New(hs.URL, storage.NewMemory()))

	_, err := auth.Login(context.Background(), models.Credentials{Email: "", Password: ""})
	var fe models.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.False(t, called, "validation failures must never reach the server")
}

func TestRegisterPayloadOmitsConfirmPassword(t *testing.T) {
	var body []byte
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"success":true,"data":{"token":"t1","user":{"id":7}}}`))
	}))
	defer hs.Close()

	auth := service.NewAuth(api.New(hs.URL, storage.NewMemory()))

	result, err := auth.Register(context.Background(), models.RegisterForm{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", result.Token)

	require.NotEmpty(t, body)
	assert.Contains(t, string(body), `"email":"ada@example.com"`)
	assert.NotContains(t, string(body), "confirm")
	assert.NotContains(t, string(body), "Confirm")
}

func TestRegisterAgainstFakeServer(t *testing.T) {
	srv := fakeapi.NewServer()
	defer srv.Close()

	auth := service.NewAuth(api.New(srv.URL(), storage.NewMemory()))

	result, err := auth.Register(context.Background(), models.RegisterForm{
		FirstName:       "New",
		LastName:        "Person",
		Email:           "new@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, result.User.Tenant.Plan, "new tenants start on the free plan")

	_, err = auth.Register(context.Background(), models.RegisterForm{
		FirstName:       "New",
		LastName:        "Person",
		Email:           "new@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.Error(t, err)
	assert.Equal(t, "User already exists", api.ErrorMessage(err, "fallback"))
}

func TestNotesCRUD(t *testing.T) {
	srv := fakeapi.NewServer()
	defer srv.Close()

	notes := service.NewNotes(testClient(t, srv, fakeapi.AdminEmail))
	ctx := context.Background()

	created, err := notes.Create(ctx, models.NoteInput{Title: "first", Content: "hello"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "first", created.Title)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := notes.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := notes.Update(ctx, created.ID, models.NoteInput{Title: "renamed", Content: "bye"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "bye", updated.Content)

	list, err := notes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Notes, 1)
	assert.Equal(t, 1, list.Pagination.Total)

	require.NoError(t, notes.Delete(ctx, created.ID))

	list, err = notes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Notes)
}

func TestNotesCreateBlocksEmptyTitle(t *testing.T) {
	called := false
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer hs.Close()

	notes := service.NewNotes(api.New(hs.URL, storage.NewMemory()))

	_, err := notes.Create(context.Background(), models.NoteInput{Title: "", Content: "x"})
	var fe models.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "title")
	assert.False(t, called, "an empty title must never be submitted")
}

func TestTenantGetAndUpgrade(t *testing.T) {
	srv := fakeapi.NewServer()
	defer srv.Close()

	tenants := service.NewTenants(testClient(t, srv, fakeapi.AdminEmail))
	ctx := context.Background()

	tenant, err := tenants.Get(ctx, fakeapi.AdminTenant)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, tenant.Plan)

	memberTenants := service.NewTenants(testClient(t, srv, fakeapi.MemberEmail))
	tenant, err = memberTenants.Get(ctx, fakeapi.MemberTenant)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, tenant.Plan)

	// Members cannot upgrade; the failure passes through untouched.
	_, err = memberTenants.Upgrade(ctx, fakeapi.MemberTenant)
	require.Error(t, err)
	assert.True(t, api.IsPlanLimit(err) || api.ErrorMessage(err, "") != "")
}

func TestUpgradeLiftsNoteLimit(t *testing.T) {
	srv := fakeapi.NewServer()
	defer srv.Close()

	// A fresh registration is its own tenant admin on the free plan.
	store := storage.NewMemory()
	client := api.New(srv.URL(), store)
	auth := service.NewAuth(client)
	result, err := auth.Register(context.Background(), models.RegisterForm{
		FirstName:       "Solo",
		LastName:        "Founder",
		Email:           "solo@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	store.Set(storage.KeyToken, result.Token)

	notes := service.NewNotes(client)
	ctx := context.Background()
	for i := 0; i < fakeapi.FreeNoteLimit; i++ {
		_, err := notes.Create(ctx, models.NoteInput{Title: "n"})
		require.NoError(t, err)
	}
	_, err = notes.Create(ctx, models.NoteInput{Title: "blocked"})
	require.True(t, api.IsPlanLimit(err))

	tenant, err := service.NewTenants(client).Upgrade(ctx, result.User.Tenant.Slug)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, tenant.Plan)

	_, err = notes.Create(ctx, models.NoteInput{Title: "unblocked"})
	require.NoError(t, err)
}
