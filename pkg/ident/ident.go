// Package ident mints identifiers for new projects, main tasks and subtasks.
// Ids are always assigned client-side, before anything reaches the record store.
package ident

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Allocator produces identifiers that are unique within the process lifetime.
type Allocator interface {
	NewID() string
}

// UUID allocates random (version 4) UUIDs in canonical string form.
type UUID struct{}

// NewID returns a fresh random UUID.
func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence allocates predictable ids ("p-1", "p-2", ...). Meant for tests and fixtures.
type Sequence struct {
	Prefix string
	n      atomic.Int64
}

// NewSequence creates a Sequence with the given prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.Prefix, s.n.Add(1))
}
