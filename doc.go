// Package notably is a Go client for the Notably multi-tenant notes
// API.
//
// The package is organized the way the API is consumed:
//
//   - [Client] bundles everything a caller needs: the HTTP pipeline
//     ([github.com/notably/notably.go/pkg/api]), the domain façades for
//     auth, notes and tenants
//     ([github.com/notably/notably.go/pkg/service]) and the [Session].
//   - [Session] is the authentication state machine. It owns the
//     persistent session cache
//     ([github.com/notably/notably.go/pkg/storage]) and is the only
//     writer of authentication state.
//
// A typical flow:
//
//	store, err := storage.OpenFile(path, log)
//	if err != nil {
//		return err
//	}
//	client := notably.New("http://localhost:3000/api", store)
//
//	// Pick up a previous session, if any, without a network call.
//	state := client.Session.Restore()
//	if !state.Authenticated {
//		if _, err := client.Session.Login(ctx, email, password); err != nil {
//			return err
//		}
//	}
//
//	notes, err := client.Notes.List(ctx)
//
// All business logic, persistence and authorization live server-side;
// this client renders state, validates form input before submission and
// calls remote endpoints. Failures carry the server's message and
// status code (see [github.com/notably/notably.go/pkg/api.Error]); a
// 403 from note creation means the tenant's plan limit was hit and the
// caller should offer an upgrade instead of a generic error.
package notably
