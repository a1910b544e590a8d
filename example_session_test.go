package notably_test

import (
	"context"
	"fmt"

	notably "github.com/notably/notably.go"
	"github.com/notably/notably.go/internal/fakeapi"
	"github.com/notably/notably.go/pkg/models"
	"github.com/notably/notably.go/pkg/storage"
)

func ExampleSession_Login() {
	srv := fakeapi.NewServer()
	defer srv.Close()

	client := notably.New(srv.URL(), storage.NewMemory())

	if _, err := client.Session.Login(context.Background(), fakeapi.AdminEmail, fakeapi.AdminPassword); err != nil {
		panic(err)
	}

	state := client.Session.Snapshot()
	fmt.Println(state.Authenticated, state.User.Email)
	// Output: true admin@example.com
}

func ExampleClient_notes() {
	srv := fakeapi.NewServer()
	defer srv.Close()

	client := notably.New(srv.URL(), storage.NewMemory())
	ctx := context.Background()

	if _, err := client.Session.Login(ctx, fakeapi.AdminEmail, fakeapi.AdminPassword); err != nil {
		panic(err)
	}

	note, err := client.Notes.Create(ctx, models.NoteInput{Title: "groceries", Content: "milk, eggs"})
	if err != nil {
		panic(err)
	}

	list, err := client.Notes.List(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Println(len(list.Notes), note.Title)
	// Output: 1 groceries
}
