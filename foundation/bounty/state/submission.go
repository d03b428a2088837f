package state

import (
	"errors"
	"math"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
)

const maxProofURLLen = 200

// SubmitSolution records a proof against an open challenge. The submitter
// pays the reserve for the submission record. The same submitter may submit
// any number of times.
func (s *State) SubmitSolution(submitterID database.AccountID, challengeID uint64, proofURL string) (database.Submission, error) {
	receipt, err := s.execute(func(tx *database.Txn) (Receipt, error) {
		return s.submitSolution(tx, submitterID, challengeID, proofURL)
	})
	if err != nil {
		return database.Submission{}, err
	}

	return *receipt.Submission, nil
}

func (s *State) submitSolution(tx *database.Txn, submitterID database.AccountID, challengeID uint64, proofURL string) (Receipt, error) {
	if n := len(proofURL); n == 0 || n > maxProofURLLen {
		return Receipt{}, ErrInvalidProofURL
	}

	submitterID, err := database.ToAccountID(string(submitterID))
	if err != nil {
		return Receipt{}, err
	}

	challenge, err := tx.Challenge(challengeID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return Receipt{}, ErrChallengeNotFound
		}
		return Receipt{}, err
	}

	if !challenge.IsActive {
		return Receipt{}, ErrChallengeNotActive
	}

	now := s.now().UTC().Unix()
	if now >= challenge.Deadline {
		return Receipt{}, ErrDeadlinePassed
	}

	if challenge.SubmissionCount == math.MaxUint32 {
		return Receipt{}, database.ErrOverflow
	}

	submissionID, err := nextID(tx, database.KindSubmission)
	if err != nil {
		return Receipt{}, err
	}

	sub := database.Submission{
		SubmissionID: submissionID,
		ChallengeID:  challenge.ChallengeID,
		Submitter:    submitterID,
		ProofURL:     proofURL,
		SubmittedAt:  now,
	}

	if err := tx.InsertSubmission(sub); err != nil {
		return Receipt{}, err
	}

	reserve := s.genesis.Rent.MinimumBalance(database.SubmissionDataLen)
	subAccountID := database.SubmissionAccountID(sub.ChallengeID, sub.SubmissionID)
	if err := fundRecord(tx, submitterID, subAccountID, reserve, database.SubmissionDataLen); err != nil {
		return Receipt{}, err
	}

	challenge.SubmissionCount++
	tx.PutChallenge(challenge)

	receipt := Receipt{
		Op:         database.OpSubmitSolution,
		From:       submitterID,
		Challenge:  &challenge,
		Submission: &sub,
		Amount:     reserve,
	}

	return receipt, nil
}
