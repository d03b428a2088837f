// Package storage implements the serializers used by the database to
// persist committed batches.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
)

// Disk represents the serialization implementation for reading and storing
// batches in their own separate files on disk. This implements the
// database.Serializer interface.
type Disk struct {
	dbPath string
}

// NewDisk constructs a Disk value for use.
func NewDisk(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each batch and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified batch and stores it on disk in a file labeled
// with the batch number. The data is written to a temporary file first and
// renamed into place so a batch file is either complete or absent.
func (d *Disk) Write(batchData database.BatchData) error {

	// Marshal the batch for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(batchData, "", "  ")
	if err != nil {
		return err
	}

	path := d.getPath(batchData.Number)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("batch %d already exists", batchData.Number)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	return nil
}

// GetBatch locates and returns the contents of the specified batch by number.
func (d *Disk) GetBatch(num uint64) (database.BatchData, error) {

	// Open the batch file for the specified number.
	f, err := os.OpenFile(d.getPath(num), os.O_RDONLY, 0600)
	if err != nil {
		return database.BatchData{}, err
	}
	defer f.Close()

	// Decode the contents of the batch.
	var batchData database.BatchData
	if err := json.NewDecoder(f).Decode(&batchData); err != nil {
		return database.BatchData{}, fmt.Errorf("decode batch %d: %w", num, err)
	}

	return batchData, nil
}

// ForEach returns an iterator to walk through all the batches
// starting with batch number 1.
func (d *Disk) ForEach() database.Iterator {
	return &DiskIterator{disk: d}
}

// Reset will clear out the batches on disk.
func (d *Disk) Reset() error {
	if err := os.RemoveAll(d.dbPath); err != nil {
		return err
	}

	return os.MkdirAll(d.dbPath, 0755)
}

// getPath forms the path to the specified batch.
func (d *Disk) getPath(batchNum uint64) string {
	name := strconv.FormatUint(batchNum, 10)
	return filepath.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// DiskIterator represents the iteration implementation for walking
// through and reading batches on disk. This implements the database
// Iterator interface.
type DiskIterator struct {
	disk    *Disk  // Access to the disk storage API.
	current uint64 // Current batch number being iterated over.
	eob     bool   // Represents the iterator is past the last batch.
}

// Next retrieves the next batch from disk.
func (di *DiskIterator) Next() (database.BatchData, error) {
	if di.eob {
		return database.BatchData{}, errors.New("end of batches")
	}

	di.current++
	batchData, err := di.disk.GetBatch(di.current)
	if errors.Is(err, fs.ErrNotExist) {
		di.eob = true
	}

	return batchData, err
}

// Done returns the end of batches value.
func (di *DiskIterator) Done() bool {
	return di.eob
}
