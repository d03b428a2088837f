package database

import (
	"errors"
	"math"
)

// ErrOverflow is returned when checked arithmetic would wrap. It is fatal
// for the operation that produced it.
var ErrOverflow = errors.New("arithmetic overflow")

// Kind identifies which counter an id is allocated from.
type Kind string

// Set of counter kinds.
const (
	KindChallenge  Kind = "challenge"
	KindSubmission Kind = "submission"
)

// Sizes of the stored records, used to compute the reserve each derived
// account must keep. Strings are counted at their maximum length plus a four
// byte length prefix and addresses at twenty bytes.
const (
	recordTag  = 8
	addressLen = 20

	ChallengeDataLen  = recordTag + 8 + addressLen + (4 + 100) + (4 + 500) + 8 + 8 + 1 + (1 + addressLen) + 4 + 8
	SubmissionDataLen = recordTag + 8 + 8 + addressLen + (4 + 200) + 8
	CounterDataLen    = recordTag + 8
)

// =============================================================================

// Challenge represents a bounty locked in escrow until the creator
// selects a winner.
type Challenge struct {
	ChallengeID     uint64     `json:"challenge_id"`
	Creator         AccountID  `json:"creator"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	BountyAmount    uint64     `json:"bounty_amount"`
	Deadline        int64      `json:"deadline"`
	IsActive        bool       `json:"is_active"`
	Winner          *AccountID `json:"winner,omitempty"`
	SubmissionCount uint32     `json:"submission_count"`
	CreatedAt       int64      `json:"created_at"`
}

// EscrowID returns the account holding the funds for this challenge.
func (c Challenge) EscrowID() AccountID {
	return EscrowAccountID(c.ChallengeID)
}

// Submission represents a proof of work recorded against a challenge.
type Submission struct {
	SubmissionID uint64    `json:"submission_id"`
	ChallengeID  uint64    `json:"challenge_id"`
	Submitter    AccountID `json:"submitter"`
	ProofURL     string    `json:"proof_url"`
	SubmittedAt  int64     `json:"submitted_at"`
}

// Counter is a monotonically increasing total of the entities of one kind.
// The total is also the id of the next entity.
type Counter struct {
	Kind  Kind   `json:"kind"`
	Total uint64 `json:"total"`
}

// Increment returns the counter advanced by one.
func (c Counter) Increment() (Counter, error) {
	total, err := AddUint64(c.Total, 1)
	if err != nil {
		return Counter{}, err
	}

	c.Total = total
	return c, nil
}

// =============================================================================

// AddUint64 adds two values and fails instead of wrapping.
func AddUint64(a uint64, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// SubSaturating subtracts b from a, stopping at zero.
func SubSaturating(a uint64, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
