// Package session holds the per-session state of the resume builder: the
// profile scalars, the four entry collections with their edit cursors, the
// generated document slots, and the manager that owns session lifetimes.
package session

import "errors"

// ErrIndexOutOfRange is returned by positional operations given an index
// outside the current sequence.
var ErrIndexOutOfRange = errors.New("entry index out of range")

// noCursor is the cursor value meaning "form is in add mode".
const noCursor = -1

// Store is an ordered collection of one entry kind. Insertion order is the
// display and serialization order; there is no sorting. At most one edit
// cursor is set at a time.
type Store[T any] struct {
	entries []T
	cursor  int
}

// NewStore returns an empty store in add mode.
func NewStore[T any]() *Store[T] {
	return &Store[T]{cursor: noCursor}
}

// Add appends an entry and clears the edit cursor.
func (s *Store[T]) Add(entry T) {
	s.entries = append(s.entries, entry)
	s.cursor = noCursor
}

// Update replaces the entry at index and clears the edit cursor.
func (s *Store[T]) Update(index int, entry T) error {
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	s.entries[index] = entry
	s.cursor = noCursor
	return nil
}

// Delete removes the entry at index, shifting later entries down. A cursor
// pointing at the deleted entry is cleared; a cursor pointing past it is
// shifted down so it keeps tracking the same entry.
func (s *Store[T]) Delete(index int) error {
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	switch {
	case s.cursor == index:
		s.cursor = noCursor
	case s.cursor > index:
		s.cursor--
	}
	return nil
}

// SetCursor marks the entry at index as the edit target.
func (s *Store[T]) SetCursor(index int) error {
	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	s.cursor = index
	return nil
}

// ClearCursor returns the store to add mode.
func (s *Store[T]) ClearCursor() {
	s.cursor = noCursor
}

// Cursor reports the current edit target, if any.
func (s *Store[T]) Cursor() (int, bool) {
	if s.cursor == noCursor {
		return 0, false
	}
	return s.cursor, true
}

// Len reports the number of entries.
func (s *Store[T]) Len() int {
	return len(s.entries)
}

// At returns the entry at index.
func (s *Store[T]) At(index int) (T, error) {
	var zero T
	if index < 0 || index >= len(s.entries) {
		return zero, ErrIndexOutOfRange
	}
	return s.entries[index], nil
}

// All returns a copy of the entries in insertion order.
func (s *Store[T]) All() []T {
	out := make([]T, len(s.entries))
	copy(out, s.entries)
	return out
}

// Replace swaps the whole sequence, used by import. The cursor is cleared.
func (s *Store[T]) Replace(entries []T) {
	s.entries = make([]T, len(entries))
	copy(s.entries, entries)
	s.cursor = noCursor
}

// Find returns the index of the first entry matching pred.
func (s *Store[T]) Find(pred func(T) bool) (int, bool) {
	for i, e := range s.entries {
		if pred(e) {
			return i, true
		}
	}
	return 0, false
}
