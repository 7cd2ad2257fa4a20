package storage

// Fixed slot keys for the persisted session. The layout is stable for the
// lifetime of the application: a raw token string under TokenKey and a
// JSON-serialized user profile under UserKey.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// Storage defines the contract for persistent client-side key-value state.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Get returns the value stored under key and whether it was present.
	// Backend read errors degrade to absence.
	Get(key string) (string, bool)

	// Set stores value under key, overwriting any previous value.
	// The returned error reports the persistence outcome; callers that
	// treat persistence as best-effort may log it and continue.
	Set(key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}
