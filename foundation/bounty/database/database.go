// Package database handles all the lower level support for maintaining the
// bounty records and account balances in memory and for committing every
// change as a numbered batch through a serializer.
package database

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ardanlabs/bounty/foundation/bounty/genesis"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Database manages the accounts, challenges, submissions and counters.
type Database struct {
	mu sync.RWMutex

	genesis     genesis.Genesis
	latestBatch uint64
	accounts    map[AccountID]Account
	challenges  map[uint64]Challenge
	submissions map[uint64][]Submission
	counters    map[Kind]Counter

	serializer Serializer
}

// New constructs a new database and applies account genesis information and
// replays every batch held by the serializer.
func New(genesis genesis.Genesis, serializer Serializer, evHandler func(v string, args ...any)) (*Database, error) {
	db := Database{
		genesis:    genesis,
		serializer: serializer,
	}

	if err := db.load(); err != nil {
		return nil, err
	}

	iter := db.serializer.ForEach()
	for batchData, err := iter.Next(); !iter.Done(); batchData, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if batchData.Number != db.latestBatch+1 {
			return nil, fmt.Errorf("batch out of order, got %d, exp %d", batchData.Number, db.latestBatch+1)
		}

		db.apply(batchData.Records)
		db.latestBatch = batchData.Number

		if evHandler != nil {
			evHandler("database: replay: batch[%d] records[%d]", batchData.Number, len(batchData.Records))
		}
	}

	return &db, nil
}

// Close closes the underlying serializer.
func (db *Database) Close() error {
	return db.serializer.Close()
}

// Reset re-initalizes the database back to the genesis state.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.serializer.Reset(); err != nil {
		return err
	}

	return db.load()
}

// load initializes the in memory state from the genesis information.
func (db *Database) load() error {
	db.latestBatch = 0
	db.accounts = make(map[AccountID]Account)
	db.challenges = make(map[uint64]Challenge)
	db.submissions = make(map[uint64][]Submission)
	db.counters = make(map[Kind]Counter)

	for accountStr, balance := range db.genesis.Balances {
		accountID, err := ToAccountID(accountStr)
		if err != nil {
			return err
		}
		db.accounts[accountID] = newAccount(accountID, balance)
	}

	return nil
}

// =============================================================================

// Update runs fn against a staged view of the database while holding the
// write lock. When fn returns nil the staged changes are written as one
// batch and then made visible. When fn returns an error nothing changes.
func (db *Database) Update(fn func(tx *Txn) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx := newTxn(db)
	if err := fn(tx); err != nil {
		return err
	}

	records := tx.records()
	if len(records) == 0 {
		return nil
	}

	batchData := BatchData{
		Number:    db.latestBatch + 1,
		TimeStamp: time.Now().UTC().Unix(),
		Records:   records,
	}

	if err := db.serializer.Write(batchData); err != nil {
		return fmt.Errorf("write batch %d: %w", batchData.Number, err)
	}

	db.apply(records)
	db.latestBatch = batchData.Number

	return nil
}

// apply stores the records in memory. The caller must hold the write lock
// or have exclusive access to the database.
func (db *Database) apply(records []Record) {
	for _, rec := range records {
		switch {
		case rec.Account != nil:
			db.accounts[rec.Account.AccountID] = *rec.Account

		case rec.Challenge != nil:
			db.challenges[rec.Challenge.ChallengeID] = *rec.Challenge

		case rec.Submission != nil:
			sub := *rec.Submission
			db.submissions[sub.ChallengeID] = append(db.submissions[sub.ChallengeID], sub)

		case rec.Counter != nil:
			db.counters[rec.Counter.Kind] = *rec.Counter
		}
	}
}

// =============================================================================

// LatestBatch returns the number of the last committed batch.
func (db *Database) LatestBatch() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBatch
}

// QueryAccount returns the specified account. An account that has never
// been funded is returned with a zero balance.
func (db *Database) QueryAccount(accountID AccountID) Account {
	db.mu.RLock()
	defer db.mu.RUnlock()

	account, exists := db.accounts[accountID]
	if !exists {
		return newAccount(accountID, 0)
	}
	return account
}

// CopyAccounts makes a copy of the current accounts in the database.
func (db *Database) CopyAccounts() map[AccountID]Account {
	db.mu.RLock()
	defer db.mu.RUnlock()

	accounts := make(map[AccountID]Account, len(db.accounts))
	for accountID, account := range db.accounts {
		accounts[accountID] = account
	}
	return accounts
}

// QueryChallenge returns the specified challenge.
func (db *Database) QueryChallenge(challengeID uint64) (Challenge, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	challenge, exists := db.challenges[challengeID]
	if !exists {
		return Challenge{}, ErrNotFound
	}
	return challenge, nil
}

// CopyChallenges returns all challenges ordered by id.
func (db *Database) CopyChallenges() []Challenge {
	db.mu.RLock()
	defer db.mu.RUnlock()

	challenges := make([]Challenge, 0, len(db.challenges))
	for _, challenge := range db.challenges {
		challenges = append(challenges, challenge)
	}

	sort.Slice(challenges, func(i, j int) bool {
		return challenges[i].ChallengeID < challenges[j].ChallengeID
	})

	return challenges
}

// QuerySubmissions returns the submissions made against the specified
// challenge in the order they were accepted.
func (db *Database) QuerySubmissions(challengeID uint64) []Submission {
	db.mu.RLock()
	defer db.mu.RUnlock()

	subs := db.submissions[challengeID]

	out := make([]Submission, len(subs))
	copy(out, subs)
	return out
}

// CopySubmissions returns every submission ordered by id.
func (db *Database) CopySubmissions() []Submission {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []Submission
	for _, subs := range db.submissions {
		out = append(out, subs...)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmissionID < out[j].SubmissionID
	})

	return out
}

// QueryCounter returns the counter of the specified kind.
func (db *Database) QueryCounter(kind Kind) (Counter, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	counter, exists := db.counters[kind]
	if !exists {
		return Counter{}, ErrNotFound
	}
	return counter, nil
}
