// Package storage provides the persistent key-value store the client
// caches its session in.
//
// The store holds two well-known entries: the bearer token under
// [KeyToken] and the JSON-serialized user under [KeyUser]. Both are
// written together on successful authentication and cleared together on
// logout and on any 401 response. There is no cross-process
// coordination; concurrent writers race and the last writer wins.
package storage

// Well-known session entries.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is a narrow persistent string store. Structured values go
// through GetJSON/SetJSON so corrupted entries can be detected and
// dropped in one place.
type Store interface {
	// Get returns the raw value for key, ok=false if absent.
	Get(key string) (value string, ok bool)
	// Set stores the raw value for key, replacing any previous value.
	Set(key, value string)
	// Remove deletes the entry for key. Removing an absent key is a
	// no-op.
	Remove(key string)
	// GetJSON decodes the entry for key into target. A missing entry,
	// the literal strings "undefined" and "null", or a value that does
	// not parse all yield ok=false; unparsable entries are removed.
	GetJSON(key string, target any) (ok bool)
	// SetJSON stores value JSON-encoded under key.
	SetJSON(key string, value any) error
}

// ClearSession removes the cached token and user together.
func ClearSession(s Store) {
	s.Remove(KeyToken)
	s.Remove(KeyUser)
}
