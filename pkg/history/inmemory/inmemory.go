// Package inmemory provides a history.Driver kept in process memory.
package inmemory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/papercomputeco/aitranslate/pkg/history"
)

// Driver implements history.Driver using an in-memory map.
type Driver struct {
	mu      sync.RWMutex
	records map[string]*history.Record
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		records: make(map[string]*history.Record),
	}
}

func (d *Driver) Put(_ context.Context, rec *history.Record) error {
	if rec == nil {
		return errors.New("cannot store nil record")
	}
	if rec.ID == "" {
		return errors.New("cannot store record without id")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	cp := *rec
	d.records[rec.ID] = &cp
	return nil
}

func (d *Driver) Get(_ context.Context, id string) (*history.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.records[id]
	if !ok {
		return nil, history.NotFoundError{ID: id}
	}

	cp := *rec
	return &cp, nil
}

func (d *Driver) List(_ context.Context, limit int) ([]*history.Record, error) {
	d.mu.RLock()
	out := make([]*history.Record, 0, len(d.records))
	for _, rec := range d.records {
		cp := *rec
		out = append(out, &cp)
	}
	d.mu.RUnlock()

	slices.SortFunc(out, func(a, b *history.Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *Driver) Close() error {
	return nil
}
