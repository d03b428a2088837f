package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
)

// ErrInvalidSignature is returned when a transaction signature can't be
// verified.
var ErrInvalidSignature = errors.New("invalid signature")

// Receipt describes the outcome of a committed operation.
type Receipt struct {
	Op         database.Op          `json:"op"`
	From       database.AccountID   `json:"from"`
	Challenge  *database.Challenge  `json:"challenge,omitempty"`
	Submission *database.Submission `json:"submission,omitempty"`
	To         database.AccountID   `json:"to,omitempty"`
	Amount     uint64               `json:"amount"`
}

// SubmitTx accepts a signed transaction, verifies who signed it, and runs
// the requested operation with the signer as the caller. The nonce check,
// the operation and the nonce update commit together.
func (s *State) SubmitTx(signedTx database.SignedTx) (Receipt, error) {
	if err := signedTx.Validate(); err != nil {
		return Receipt{}, fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	if signedTx.ChainID != s.genesis.ChainID {
		return Receipt{}, fmt.Errorf("%w, got %d, exp %d", ErrWrongChain, signedTx.ChainID, s.genesis.ChainID)
	}

	fromID, err := signedTx.FromAccount()
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	return s.execute(func(tx *database.Txn) (Receipt, error) {
		account := tx.Account(fromID)
		if signedTx.Nonce <= account.Nonce {
			return Receipt{}, fmt.Errorf("%w, current %d, provided %d", ErrNonceTooSmall, account.Nonce, signedTx.Nonce)
		}

		receipt, err := s.apply(tx, fromID, signedTx.Tx)
		if err != nil {
			return Receipt{}, err
		}

		// The operation may have moved funds for this account so it
		// has to be read again before the nonce is stored.
		account = tx.Account(fromID)
		account.Nonce = signedTx.Nonce
		tx.PutAccount(account)

		return receipt, nil
	})
}

// apply performs the operation named by the transaction.
func (s *State) apply(tx *database.Txn, fromID database.AccountID, t database.Tx) (Receipt, error) {
	switch t.Op {
	case database.OpInitialize:
		return s.initialize(tx, fromID)

	case database.OpCreateChallenge:
		nc := NewChallenge{
			Title:        t.Title,
			Description:  t.Description,
			BountyAmount: t.BountyAmount,
			DeadlineDays: t.DeadlineDays,
		}
		return s.createChallenge(tx, fromID, nc)

	case database.OpSubmitSolution:
		return s.submitSolution(tx, fromID, t.ChallengeID, t.ProofURL)

	case database.OpSelectWinner:
		return s.selectWinner(tx, fromID, t.ChallengeID, t.ToID)

	case database.OpTransfer:
		return s.transfer(tx, fromID, t.ToID, t.Value)
	}

	return Receipt{}, fmt.Errorf("%w: %q", ErrUnknownOp, t.Op)
}
