package models

import (
	"sort"
	"strings"
)

// FieldErrors maps form field names to validation messages. It is
// returned by the Validate methods below and satisfies error, so a
// caller can present per-field messages or the joined string.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+fe[field])
	}
	return strings.Join(parts, "; ")
}

// Credentials is a login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the credentials client-side. It returns a
// [FieldErrors] when something is missing, nil otherwise.
func (c Credentials) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(c.Email) == "" {
		fe["email"] = "email is required"
	}
	if c.Password == "" {
		fe["password"] = "password is required"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// RegisterForm is a sign-up form. ConfirmPassword is checked locally
// and never serialized into the request payload.
type RegisterForm struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// Validate checks the form client-side: required fields, a plausible
// email, a minimum password length and a matching confirmation.
func (f RegisterForm) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(f.FirstName) == "" {
		fe["firstName"] = "first name is required"
	}
	if strings.TrimSpace(f.LastName) == "" {
		fe["lastName"] = "last name is required"
	}
	switch email := strings.TrimSpace(f.Email); {
	case email == "":
		fe["email"] = "email is required"
	case !strings.Contains(email, "@"):
		fe["email"] = "email is invalid"
	}
	if len(f.Password) < 6 {
		fe["password"] = "password must be at least 6 characters"
	}
	if f.Password != f.ConfirmPassword {
		fe["confirmPassword"] = "passwords do not match"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// NoteInput is the payload for creating or updating a note.
type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate rejects notes without a title.
func (n NoteInput) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return FieldErrors{"title": "title is required"}
	}
	return nil
}
