package ids

import "github.com/google/uuid"

// Generator produces unique string identifiers for payments and linked
// transactions. It is injected into every mutation entry point so tests can
// supply deterministic ids.
type Generator interface {
	NewID() string
}

// UUID is the production Generator backed by random UUIDs.
type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }
