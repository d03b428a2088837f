package state

import (
	"errors"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
)

// SelectWinner closes the challenge and pays everything spendable in the
// escrow account to the winner. Only the creator may call it and only once.
// The winner does not need to have submitted and the deadline is not
// checked.
func (s *State) SelectWinner(callerID database.AccountID, challengeID uint64, winnerID database.AccountID) (Receipt, error) {
	return s.execute(func(tx *database.Txn) (Receipt, error) {
		return s.selectWinner(tx, callerID, challengeID, winnerID)
	})
}

func (s *State) selectWinner(tx *database.Txn, callerID database.AccountID, challengeID uint64, winnerID database.AccountID) (Receipt, error) {
	challenge, err := tx.Challenge(challengeID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return Receipt{}, ErrChallengeNotFound
		}
		return Receipt{}, err
	}

	winnerID, err = database.ToAccountID(string(winnerID))
	if err != nil {
		return Receipt{}, err
	}

	if !challenge.IsActive {
		return Receipt{}, ErrChallengeNotActive
	}

	callerID, err = database.ToAccountID(string(callerID))
	if err != nil || callerID != challenge.Creator {
		return Receipt{}, ErrUnauthorizedCreator
	}

	// Everything above the reserve is spendable. That includes any balance
	// sent to the escrow account after the challenge was created.
	escrow := tx.Account(challenge.EscrowID())
	reserve := s.genesis.Rent.MinimumBalance(escrow.DataLen)
	payable := database.SubSaturating(escrow.Balance, reserve)

	if err := tx.Transfer(escrow.AccountID, winnerID, payable); err != nil {
		return Receipt{}, err
	}

	challenge.Winner = &winnerID
	challenge.IsActive = false
	tx.PutChallenge(challenge)

	receipt := Receipt{
		Op:        database.OpSelectWinner,
		From:      callerID,
		Challenge: &challenge,
		To:        winnerID,
		Amount:    payable,
	}

	return receipt, nil
}
