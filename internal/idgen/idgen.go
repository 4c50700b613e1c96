package idgen

import "github.com/google/uuid"

// NewFunc generates identifiers for tokens, requests and confirmation
// records. Tests override it for deterministic IDs.
var NewFunc = func() string { return uuid.New().String() }

// New returns a fresh identifier.
func New() string { return NewFunc() }
