// Package history records completed translations and namings.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind is the operation a Record describes.
type Kind string

const (
	KindTranslate Kind = "translate"
	KindNaming    Kind = "naming"
)

// Record is one completed operation.
type Record struct {
	ID         string        `json:"id"`
	Kind       Kind          `json:"kind"`
	Backend    string        `json:"backend"`
	Model      string        `json:"model"`
	Input      string        `json:"input"`
	Output     string        `json:"output"`
	TargetLang string        `json:"target_lang,omitempty"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewRecord returns a Record with a fresh ID and creation time.
func NewRecord(kind Kind) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// Driver defines the interface for persisting and listing records.
type Driver interface {
	// Put stores a record. Storing a record with an existing ID replaces it.
	Put(ctx context.Context, rec *Record) error

	// Get retrieves a record by its ID.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. A limit <= 0 returns
	// all records.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases any resources held by the driver.
	Close() error
}
