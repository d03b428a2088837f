package database

// Serializer interface represents the behavior required to be implemented by any
// package providing support for storing and reading committed batches.
type Serializer interface {
	Write(batchData BatchData) error
	GetBatch(num uint64) (BatchData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the batches.
type Iterator interface {
	Next() (BatchData, error)
	Done() bool
}

// =============================================================================

// BatchData is the set of records written by one committed transaction. The
// batch number starts at 1 and increases by one for every commit.
type BatchData struct {
	Number    uint64   `json:"number"`
	TimeStamp int64    `json:"timestamp"`
	Records   []Record `json:"records"`
}

// Record is the stored form of one value in a batch. Exactly one of the
// value fields is set and it matches the kind encoded in the key.
type Record struct {
	Key        Key         `json:"key"`
	Account    *Account    `json:"account,omitempty"`
	Challenge  *Challenge  `json:"challenge,omitempty"`
	Submission *Submission `json:"submission,omitempty"`
	Counter    *Counter    `json:"counter,omitempty"`
}
