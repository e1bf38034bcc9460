package server

import (
	"image"
	"sync"

	"omr-grader/internal/omr"
)

// SheetRecord pairs a graded result with the uploaded image it came
// from. The source image is kept so overlays can be rendered after the
// grading request has completed.
type SheetRecord struct {
	Result *omr.SheetResult
	Source image.Image
}

// ResultStore provides thread-safe storage of graded sheets keyed by
// evaluation ID.
//
// ResultStore is safe for concurrent use by multiple goroutines. All
// methods use appropriate locking to prevent data races.
//
// # Memory Management
//
// Stored records remain in memory until explicitly removed via Evict()
// or Clear(). For long-running deployments handling many sheets,
// consider periodic cleanup to prevent unbounded memory growth.
type ResultStore struct {
	mu      sync.RWMutex
	records map[string]*SheetRecord
}

// NewResultStore creates and initializes a new empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		records: make(map[string]*SheetRecord),
	}
}

// Put stores a graded sheet under the given evaluation ID, replacing
// any existing record with the same ID.
func (s *ResultStore) Put(id string, record *SheetRecord) {
	s.mu.Lock()
	s.records[id] = record
	s.mu.Unlock()
}

// Get retrieves a record by evaluation ID. The second return value
// reports whether the ID was present.
func (s *ResultStore) Get(id string) (*SheetRecord, bool) {
	s.mu.RLock()
	record, ok := s.records[id]
	s.mu.RUnlock()
	return record, ok
}

// Evict removes a specific record by its evaluation ID.
//
// If the ID is not in the store, this method does nothing.
func (s *ResultStore) Evict(id string) {
	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
}

// Clear removes all records from the store, freeing the associated
// memory.
func (s *ResultStore) Clear() {
	s.mu.Lock()
	s.records = make(map[string]*SheetRecord)
	s.mu.Unlock()
}

// Len reports how many records the store currently holds.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
