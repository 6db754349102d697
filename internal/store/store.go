// Package store holds the append-only sequence of discovered entries.
//
// A single writer appends while any number of readers observe a consistent,
// monotonically growing prefix. Entries live in fixed-size chunks that are
// never moved once allocated, so a reader holding an index below the
// published length can read it without locking.
package store

import (
	"sync"
	"sync/atomic"

	"findt/internal/domain"
)

const chunkSize = 1024

type chunk [chunkSize]domain.Entry

// Store is an append-only, insertion-ordered collection of entries
type Store struct {
	mu     sync.Mutex // serialises appenders
	chunks atomic.Pointer[[]*chunk]
	length atomic.Int64
}

// New creates an empty store
func New() *Store {
	s := &Store{}
	empty := make([]*chunk, 0)
	s.chunks.Store(&empty)
	return s
}

// Append adds entries in order. Safe to call concurrently with readers.
func (s *Store) Append(entries ...domain.Entry) {
	if len(entries) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := int(s.length.Load())
	dir := *s.chunks.Load()
	for _, e := range entries {
		ci, off := n/chunkSize, n%chunkSize
		if ci == len(dir) {
			grown := make([]*chunk, len(dir)+1)
			copy(grown, dir)
			grown[ci] = new(chunk)
			dir = grown
			s.chunks.Store(&dir)
		}
		dir[ci][off] = e
		n++
	}
	// publishing the length last makes the written entries visible to readers
	s.length.Store(int64(n))
}

// Len returns the number of entries appended so far
func (s *Store) Len() int {
	return int(s.length.Load())
}

// At returns the entry at index i, which must be below a previously observed Len
func (s *Store) At(i int) domain.Entry {
	dir := *s.chunks.Load()
	return dir[i/chunkSize][i%chunkSize]
}

// Range calls fn for each entry in [from, to) in insertion order, clamped to
// the current length. Iteration stops when fn returns false.
func (s *Store) Range(from, to int, fn func(i int, e domain.Entry) bool) {
	n := s.Len()
	if to > n {
		to = n
	}
	if from < 0 {
		from = 0
	}
	if from >= to {
		return
	}
	dir := *s.chunks.Load()
	for i := from; i < to; i++ {
		if !fn(i, dir[i/chunkSize][i%chunkSize]) {
			return
		}
	}
}

// Slice copies the entries in [from, to), clamped to the current length
func (s *Store) Slice(from, to int) []domain.Entry {
	var out []domain.Entry
	s.Range(from, to, func(_ int, e domain.Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Snapshot freezes the current length so a computation sees a fixed prefix
func (s *Store) Snapshot() Snapshot {
	return Snapshot{store: s, length: s.Len()}
}

// Snapshot is a fixed-length view of a store
type Snapshot struct {
	store  *Store
	length int
}

// Len returns the number of entries visible in the snapshot
func (sn Snapshot) Len() int {
	return sn.length
}

// At returns the entry at index i
func (sn Snapshot) At(i int) domain.Entry {
	return sn.store.At(i)
}

// Range iterates [from, to) within the snapshot
func (sn Snapshot) Range(from, to int, fn func(i int, e domain.Entry) bool) {
	if to > sn.length {
		to = sn.length
	}
	if sn.store == nil {
		return
	}
	sn.store.Range(from, to, fn)
}
