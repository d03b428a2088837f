package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
)

// Memory represents the serialization implementation for reading and storing
// batches in memory using a slice. This implements the database.Serializer
// interface.
type Memory struct {
	mu      sync.RWMutex
	batches []database.BatchData
}

// NewMemory constructs a Memory value for use.
func NewMemory() *Memory {
	return &Memory{}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified batch and stores it in memory.
func (m *Memory) Write(batchData database.BatchData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := uint64(len(m.batches))
	if l+1 != batchData.Number {
		return fmt.Errorf("batch is out of order, got %d, exp %d", batchData.Number, l+1)
	}

	m.batches = append(m.batches, batchData)

	return nil
}

// GetBatch locates and returns the contents of the specified batch by number.
// Batch numbers start at 1.
func (m *Memory) GetBatch(num uint64) (database.BatchData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if num == 0 || num > uint64(len(m.batches)) {
		return database.BatchData{}, errors.New("batch does not exist")
	}

	return m.batches[num-1], nil
}

// ForEach returns an iterator to walk through all the batches
// starting with batch number 1.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// Reset will clear out the batches held in memory.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batches = nil
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through the batches held in memory.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current batch number being iterated over.
	eob     bool    // Represents the iterator is past the last batch.
}

// Next retrieves the next batch from memory.
func (mi *memoryIterator) Next() (database.BatchData, error) {
	if mi.eob {
		return database.BatchData{}, errors.New("end of batches")
	}

	mi.current++
	batchData, err := mi.storage.GetBatch(mi.current)
	if err != nil {
		mi.eob = true
	}

	return batchData, err
}

// Done returns the end of batches value.
func (mi *memoryIterator) Done() bool {
	return mi.eob
}
