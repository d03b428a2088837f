// Package state is the core API for the bounty node and implements all the
// business rules for escrow custody and the challenge lifecycle.
package state

import (
	"time"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/genesis"
)

// EventHandler defines a function that is called when events
// occur in the processing of operations.
type EventHandler func(v string, args ...any)

// Notifier defines a function that is called with the receipt of every
// committed operation.
type Notifier func(receipt Receipt)

// =============================================================================

// Config represents the configuration required to start the node state.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Serializer
	Now       func() time.Time
	EvHandler EventHandler
	Notifier  Notifier
}

// State manages the bounty database and the operations allowed against it.
type State struct {
	genesis   genesis.Genesis
	now       func() time.Time
	evHandler EventHandler
	notify    Notifier

	db *database.Database
}

// New constructs the state, replaying any batches held by storage.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	notify := func(receipt Receipt) {
		if cfg.Notifier != nil {
			cfg.Notifier(receipt)
		}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		now:       now,
		evHandler: ev,
		notify:    notify,
		db:        db,
	}

	return &state, nil
}

// Shutdown cleanly brings the state down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: closing storage")
	return s.db.Close()
}

// =============================================================================

// Initialize creates both id counters at zero. The payer funds the reserve
// of the two counter accounts. It can succeed only once.
func (s *State) Initialize(payerID database.AccountID) error {
	_, err := s.execute(func(tx *database.Txn) (Receipt, error) {
		return s.initialize(tx, payerID)
	})
	return err
}

func (s *State) initialize(tx *database.Txn, payerID database.AccountID) (Receipt, error) {
	payerID, err := database.ToAccountID(string(payerID))
	if err != nil {
		return Receipt{}, err
	}

	kinds := []database.Kind{database.KindChallenge, database.KindSubmission}

	for _, kind := range kinds {
		if _, err := tx.Counter(kind); err == nil {
			return Receipt{}, ErrAlreadyInitialized
		}
	}

	reserve := s.genesis.Rent.MinimumBalance(database.CounterDataLen)

	var paid uint64
	for _, kind := range kinds {
		tx.PutCounter(database.Counter{Kind: kind})

		if err := fundRecord(tx, payerID, database.CounterAccountID(kind), reserve, database.CounterDataLen); err != nil {
			return Receipt{}, err
		}

		if paid, err = database.AddUint64(paid, reserve); err != nil {
			return Receipt{}, err
		}
	}

	receipt := Receipt{
		Op:     database.OpInitialize,
		From:   payerID,
		Amount: paid,
	}

	return receipt, nil
}

// Transfer moves value between two accounts.
func (s *State) Transfer(fromID database.AccountID, toID database.AccountID, value uint64) error {
	_, err := s.execute(func(tx *database.Txn) (Receipt, error) {
		return s.transfer(tx, fromID, toID, value)
	})
	return err
}

func (s *State) transfer(tx *database.Txn, fromID database.AccountID, toID database.AccountID, value uint64) (Receipt, error) {
	fromID, err := database.ToAccountID(string(fromID))
	if err != nil {
		return Receipt{}, err
	}

	toID, err = database.ToAccountID(string(toID))
	if err != nil {
		return Receipt{}, err
	}

	if value == 0 || fromID == toID {
		return Receipt{}, ErrInvalidTransfer
	}

	if err := tx.Transfer(fromID, toID, value); err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{
		Op:     database.OpTransfer,
		From:   fromID,
		To:     toID,
		Amount: value,
	}

	return receipt, nil
}

// =============================================================================

// execute runs the operation in one database transaction and announces the
// receipt once the transaction is committed.
func (s *State) execute(fn func(tx *database.Txn) (Receipt, error)) (Receipt, error) {
	var receipt Receipt

	err := s.db.Update(func(tx *database.Txn) error {
		var err error
		receipt, err = fn(tx)
		return err
	})
	if err != nil {
		return Receipt{}, err
	}

	s.announce(receipt)

	return receipt, nil
}

// announce logs the receipt and hands it to the notifier.
func (s *State) announce(receipt Receipt) {
	switch receipt.Op {
	case database.OpInitialize:
		s.evHandler("state: initialize: payer[%s] reserve[%d]", receipt.From, receipt.Amount)

	case database.OpCreateChallenge:
		s.evHandler("state: create challenge: id[%d] creator[%s] bounty[%d]", receipt.Challenge.ChallengeID, receipt.From, receipt.Challenge.BountyAmount)

	case database.OpSubmitSolution:
		s.evHandler("state: submit solution: id[%d] challenge[%d] submitter[%s]", receipt.Submission.SubmissionID, receipt.Submission.ChallengeID, receipt.From)

	case database.OpSelectWinner:
		s.evHandler("state: select winner: challenge[%d] winner[%s] paid[%d]", receipt.Challenge.ChallengeID, receipt.To, receipt.Amount)

	case database.OpTransfer:
		s.evHandler("state: transfer: from[%s] to[%s] value[%d]", receipt.From, receipt.To, receipt.Amount)
	}

	s.notify(receipt)
}

// fundRecord moves the amount into the account that backs a stored record
// and marks how much data that account holds.
func fundRecord(tx *database.Txn, fromID database.AccountID, toID database.AccountID, amount uint64, dataLen uint64) error {
	if err := tx.Transfer(fromID, toID, amount); err != nil {
		return err
	}

	account := tx.Account(toID)
	account.DataLen = dataLen
	tx.PutAccount(account)

	return nil
}
