package state

import (
	"math"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
)

// Limits applied to the text of a challenge.
const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	secondsPerDay     = 86400
)

// NewChallenge is what a creator provides to open a challenge.
type NewChallenge struct {
	Title        string
	Description  string
	BountyAmount uint64
	DeadlineDays uint64
}

// Validate checks the shape of the new challenge. Lengths are measured in
// bytes, which is what bounds the stored record.
func (nc NewChallenge) Validate() error {
	if n := len(nc.Title); n == 0 || n > maxTitleLen {
		return ErrInvalidTitle
	}

	if n := len(nc.Description); n == 0 || n > maxDescriptionLen {
		return ErrInvalidDescription
	}

	if nc.BountyAmount == 0 {
		return ErrInvalidBounty
	}

	if nc.DeadlineDays == 0 {
		return ErrInvalidDeadline
	}

	return nil
}

// =============================================================================

// CreateChallenge opens a new challenge and locks the bounty in the
// challenge's escrow account. The creator pays the bounty plus the reserve
// the escrow account needs for the challenge record. On any failure nothing
// changes.
func (s *State) CreateChallenge(creatorID database.AccountID, nc NewChallenge) (database.Challenge, error) {
	receipt, err := s.execute(func(tx *database.Txn) (Receipt, error) {
		return s.createChallenge(tx, creatorID, nc)
	})
	if err != nil {
		return database.Challenge{}, err
	}

	return *receipt.Challenge, nil
}

func (s *State) createChallenge(tx *database.Txn, creatorID database.AccountID, nc NewChallenge) (Receipt, error) {
	if err := nc.Validate(); err != nil {
		return Receipt{}, err
	}

	creatorID, err := database.ToAccountID(string(creatorID))
	if err != nil {
		return Receipt{}, err
	}

	now := s.now().UTC().Unix()

	deadline, err := deadlineAfter(now, nc.DeadlineDays)
	if err != nil {
		return Receipt{}, err
	}

	reserve := s.genesis.Rent.MinimumBalance(database.ChallengeDataLen)
	amount, err := database.AddUint64(nc.BountyAmount, reserve)
	if err != nil {
		return Receipt{}, err
	}

	challengeID, err := nextID(tx, database.KindChallenge)
	if err != nil {
		return Receipt{}, err
	}

	challenge := database.Challenge{
		ChallengeID:     challengeID,
		Creator:         creatorID,
		Title:           nc.Title,
		Description:     nc.Description,
		BountyAmount:    nc.BountyAmount,
		Deadline:        deadline,
		IsActive:        true,
		Winner:          nil,
		SubmissionCount: 0,
		CreatedAt:       now,
	}

	if err := fundRecord(tx, creatorID, challenge.EscrowID(), amount, database.ChallengeDataLen); err != nil {
		return Receipt{}, err
	}

	tx.PutChallenge(challenge)

	receipt := Receipt{
		Op:        database.OpCreateChallenge,
		From:      creatorID,
		Challenge: &challenge,
		Amount:    amount,
	}

	return receipt, nil
}

// deadlineAfter returns now plus the number of days in seconds, failing
// rather than wrapping.
func deadlineAfter(now int64, days uint64) (int64, error) {
	if now < 0 || days > uint64(math.MaxInt64-now)/secondsPerDay {
		return 0, database.ErrOverflow
	}

	return now + int64(days*secondsPerDay), nil
}
