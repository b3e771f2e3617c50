// Package session keeps one editor per browser session. A Store persists the
// serialized editor state; a Manager serialises access per session id so
// every editor operation runs to completion before the next one starts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id has no stored record, including
// records that expired.
var ErrNotFound = errors.New("session: not found")

// Record is the persisted form of one editor: the variant name and the
// document exactly as exported.
type Record struct {
	Variant   string          `json:"variant"`
	Document  json.RawMessage `json:"document"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store persists records by session id.
type Store interface {
	Load(ctx context.Context, id string) (Record, error)
	Save(ctx context.Context, id string, record Record) error
	Delete(ctx context.Context, id string) error
	// List returns the ids of records that have not expired.
	List(ctx context.Context) ([]string, error)
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
