package state

import (
	"errors"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/genesis"
)

// Set of challenge status values used for filtering.
const (
	StatusAll       = ""
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Set of submission status values.
const (
	SubmissionPending = "pending"
	SubmissionWon     = "won"
	SubmissionLost    = "lost"
)

// ChallengeFilter narrows the set of challenges returned by QueryChallenges.
type ChallengeFilter struct {
	Status  string
	Creator database.AccountID
}

// Escrow is the state of the account holding a challenge's funds.
type Escrow struct {
	AccountID database.AccountID `json:"account"`
	Balance   uint64             `json:"balance"`
	Reserve   uint64             `json:"reserve"`
	Payable   uint64             `json:"payable"`
}

// Counters is the state of the two id counters.
type Counters struct {
	Initialized bool   `json:"initialized"`
	Challenges  uint64 `json:"challenges"`
	Submissions uint64 `json:"submissions"`
}

// =============================================================================

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveAccounts returns a copy of the set of accounts.
func (s *State) RetrieveAccounts() map[database.AccountID]database.Account {
	return s.db.CopyAccounts()
}

// RetrieveLatestBatch returns the number of the last committed batch.
func (s *State) RetrieveLatestBatch() uint64 {
	return s.db.LatestBatch()
}

// QueryAccount returns a copy of the specified account.
func (s *State) QueryAccount(accountID database.AccountID) database.Account {
	return s.db.QueryAccount(accountID)
}

// QueryCounters returns the current totals of the id counters.
func (s *State) QueryCounters() Counters {
	challenges, err := s.db.QueryCounter(database.KindChallenge)
	if err != nil {
		return Counters{}
	}

	submissions, err := s.db.QueryCounter(database.KindSubmission)
	if err != nil {
		return Counters{}
	}

	return Counters{
		Initialized: true,
		Challenges:  challenges.Total,
		Submissions: submissions.Total,
	}
}

// QueryChallenge returns the specified challenge.
func (s *State) QueryChallenge(challengeID uint64) (database.Challenge, error) {
	challenge, err := s.db.QueryChallenge(challengeID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return database.Challenge{}, ErrChallengeNotFound
		}
		return database.Challenge{}, err
	}

	return challenge, nil
}

// QueryChallenges returns the challenges matching the filter ordered by id.
func (s *State) QueryChallenges(filter ChallengeFilter) []database.Challenge {
	var out []database.Challenge

	for _, challenge := range s.db.CopyChallenges() {
		switch {
		case filter.Status == StatusActive && !challenge.IsActive:
			continue
		case filter.Status == StatusCompleted && challenge.IsActive:
			continue
		case filter.Creator != "" && filter.Creator != challenge.Creator:
			continue
		}

		out = append(out, challenge)
	}

	return out
}

// QuerySubmissions returns the submissions for the specified challenge.
func (s *State) QuerySubmissions(challengeID uint64) ([]database.Submission, error) {
	if _, err := s.QueryChallenge(challengeID); err != nil {
		return nil, err
	}

	return s.db.QuerySubmissions(challengeID), nil
}

// QuerySubmissionsBySubmitter returns every submission made by the account.
func (s *State) QuerySubmissionsBySubmitter(accountID database.AccountID) []database.Submission {
	var out []database.Submission

	for _, sub := range s.db.CopySubmissions() {
		if sub.Submitter == accountID {
			out = append(out, sub)
		}
	}

	return out
}

// QueryEscrow returns the balance, reserve and payable amount held for the
// specified challenge.
func (s *State) QueryEscrow(challengeID uint64) (Escrow, error) {
	challenge, err := s.QueryChallenge(challengeID)
	if err != nil {
		return Escrow{}, err
	}

	account := s.db.QueryAccount(challenge.EscrowID())
	reserve := s.genesis.Rent.MinimumBalance(account.DataLen)

	escrow := Escrow{
		AccountID: account.AccountID,
		Balance:   account.Balance,
		Reserve:   reserve,
		Payable:   database.SubSaturating(account.Balance, reserve),
	}

	return escrow, nil
}

// =============================================================================

// SubmissionStatus reports whether the submission is still pending, won
// or lost. A submitter named as winner wins with every submission they made.
func SubmissionStatus(challenge database.Challenge, sub database.Submission) string {
	switch {
	case challenge.IsActive:
		return SubmissionPending
	case challenge.Winner != nil && *challenge.Winner == sub.Submitter:
		return SubmissionWon
	default:
		return SubmissionLost
	}
}
