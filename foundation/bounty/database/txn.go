package database

import (
	"errors"
	"fmt"
	"sort"
)

// Set of errors returned by transaction operations.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrExists            = errors.New("record already exists")
)

// Txn is a staged view of the database used inside Update. Reads see the
// staged values first and the committed values second. Nothing written to a
// Txn is visible outside of it until Update commits.
type Txn struct {
	db          *Database
	accounts    map[AccountID]Account
	challenges  map[uint64]Challenge
	submissions map[Key]Submission
	counters    map[Kind]Counter
}

func newTxn(db *Database) *Txn {
	return &Txn{
		db:          db,
		accounts:    make(map[AccountID]Account),
		challenges:  make(map[uint64]Challenge),
		submissions: make(map[Key]Submission),
		counters:    make(map[Kind]Counter),
	}
}

// Account returns the specified account. An unknown account is returned
// with a zero balance.
func (tx *Txn) Account(accountID AccountID) Account {
	if account, exists := tx.accounts[accountID]; exists {
		return account
	}
	if account, exists := tx.db.accounts[accountID]; exists {
		return account
	}
	return newAccount(accountID, 0)
}

// PutAccount stages the account.
func (tx *Txn) PutAccount(account Account) {
	tx.accounts[account.AccountID] = account
}

// Challenge returns the specified challenge.
func (tx *Txn) Challenge(challengeID uint64) (Challenge, error) {
	if challenge, exists := tx.challenges[challengeID]; exists {
		return challenge, nil
	}
	if challenge, exists := tx.db.challenges[challengeID]; exists {
		return challenge, nil
	}
	return Challenge{}, ErrNotFound
}

// PutChallenge stages the challenge.
func (tx *Txn) PutChallenge(challenge Challenge) {
	tx.challenges[challenge.ChallengeID] = challenge
}

// InsertSubmission stages a new submission. Submissions are immutable so a
// second insert under the same key fails.
func (tx *Txn) InsertSubmission(sub Submission) error {
	key := SubmissionKey(sub.ChallengeID, sub.SubmissionID)

	if _, exists := tx.submissions[key]; exists {
		return fmt.Errorf("%s: %w", key, ErrExists)
	}
	for _, s := range tx.db.submissions[sub.ChallengeID] {
		if s.SubmissionID == sub.SubmissionID {
			return fmt.Errorf("%s: %w", key, ErrExists)
		}
	}

	tx.submissions[key] = sub
	return nil
}

// Counter returns the counter of the specified kind.
func (tx *Txn) Counter(kind Kind) (Counter, error) {
	if counter, exists := tx.counters[kind]; exists {
		return counter, nil
	}
	if counter, exists := tx.db.counters[kind]; exists {
		return counter, nil
	}
	return Counter{}, ErrNotFound
}

// PutCounter stages the counter.
func (tx *Txn) PutCounter(counter Counter) {
	tx.counters[counter.Kind] = counter
}

// Transfer moves value from one account to another. The sender must hold
// the full value and the receiver balance must not overflow.
func (tx *Txn) Transfer(fromID AccountID, toID AccountID, value uint64) error {
	if fromID == toID {
		return nil
	}

	from := tx.Account(fromID)
	to := tx.Account(toID)

	if from.Balance < value {
		return fmt.Errorf("%w, bal %d, needed %d", ErrInsufficientFunds, from.Balance, value)
	}

	balance, err := AddUint64(to.Balance, value)
	if err != nil {
		return fmt.Errorf("credit %s: %w", toID, err)
	}

	from.Balance -= value
	to.Balance = balance

	tx.PutAccount(from)
	tx.PutAccount(to)

	return nil
}

// =============================================================================

// records converts the staged values into batch records ordered by key.
func (tx *Txn) records() []Record {
	records := make([]Record, 0, len(tx.accounts)+len(tx.challenges)+len(tx.submissions)+len(tx.counters))

	for _, account := range tx.accounts {
		account := account
		records = append(records, Record{Key: AccountKey(account.AccountID), Account: &account})
	}
	for _, challenge := range tx.challenges {
		challenge := challenge
		records = append(records, Record{Key: ChallengeKey(challenge.ChallengeID), Challenge: &challenge})
	}
	for key, sub := range tx.submissions {
		sub := sub
		records = append(records, Record{Key: key, Submission: &sub})
	}
	for _, counter := range tx.counters {
		counter := counter
		records = append(records, Record{Key: CounterKey(counter.Kind), Counter: &counter})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})

	return records
}
