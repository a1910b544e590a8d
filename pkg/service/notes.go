package service

import (
	"context"
	"net/url"

	"github.com/notably/notably.go/pkg/api"
	"github.com/notably/notably.go/pkg/models"
)

// NoteList is the payload of a note listing.
type NoteList struct {
	Notes      []models.Note     `json:"notes"`
	Pagination models.Pagination `json:"pagination"`
}

// notePayload wraps single-note responses.
type notePayload struct {
	Note *models.Note `json:"note"`
}

// Notes translates note CRUD operations into API calls.
type Notes struct {
	client *api.Client
}

// NewNotes creates the notes façade.
func NewNotes(client *api.Client) *Notes {
	return &Notes{client: client}
}

// List fetches the caller's notes with pagination metadata.
func (n *Notes) List(ctx context.Context) (*NoteList, error) {
	var list NoteList
	if err := n.client.Get(ctx, "/notes", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Create submits a new note. Input is validated client-side; a note
// with an empty title is never sent. A 403 means the tenant hit its
// plan limit — detect it with [api.IsPlanLimit].
func (n *Notes) Create(ctx context.Context, input models.NoteInput) (*models.Note, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var payload notePayload
	if err := n.client.Post(ctx, "/notes", input, &payload); err != nil {
		return nil, err
	}
	return payload.Note, nil
}

// Update replaces the title and content of an existing note.
func (n *Notes) Update(ctx context.Context, id string, input models.NoteInput) (*models.Note, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var payload notePayload
	if err := n.client.Put(ctx, "/notes/"+url.PathEscape(id), input, &payload); err != nil {
		return nil, err
	}
	return payload.Note, nil
}

// Get fetches a single note.
func (n *Notes) Get(ctx context.Context, id string) (*models.Note, error) {
	var payload notePayload
	if err := n.client.Get(ctx, "/notes/"+url.PathEscape(id), &payload); err != nil {
		return nil, err
	}
	return payload.Note, nil
}

// Delete removes a note. The success payload is discarded.
func (n *Notes) Delete(ctx context.Context, id string) error {
	return n.client.Delete(ctx, "/notes/"+url.PathEscape(id))
}
