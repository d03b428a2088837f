package public

import (
	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/state"
	"github.com/ardanlabs/bounty/foundation/nameservice"
)

type account struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance uint64             `json:"balance"`
	Nonce   uint64             `json:"nonce"`
}

type accounts struct {
	LatestBatch uint64    `json:"latest_batch"`
	Accounts    []account `json:"accounts"`
}

type challenge struct {
	ID              uint64              `json:"id"`
	Creator         database.AccountID  `json:"creator"`
	CreatorName     string              `json:"creator_name"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	BountyAmount    uint64              `json:"bounty_amount"`
	Deadline        int64               `json:"deadline"`
	IsActive        bool                `json:"is_active"`
	Winner          *database.AccountID `json:"winner,omitempty"`
	WinnerName      string              `json:"winner_name,omitempty"`
	SubmissionCount uint32              `json:"submission_count"`
	CreatedAt       int64               `json:"created_at"`
	Escrow          database.AccountID  `json:"escrow"`
}

func toChallenge(ns *nameservice.NameService, c database.Challenge) challenge {
	ch := challenge{
		ID:              c.ChallengeID,
		Creator:         c.Creator,
		CreatorName:     ns.Lookup(c.Creator),
		Title:           c.Title,
		Description:     c.Description,
		BountyAmount:    c.BountyAmount,
		Deadline:        c.Deadline,
		IsActive:        c.IsActive,
		Winner:          c.Winner,
		SubmissionCount: c.SubmissionCount,
		CreatedAt:       c.CreatedAt,
		Escrow:          c.EscrowID(),
	}

	if c.Winner != nil {
		ch.WinnerName = ns.Lookup(*c.Winner)
	}

	return ch
}

type submission struct {
	ID            uint64             `json:"id"`
	ChallengeID   uint64             `json:"challenge_id"`
	Submitter     database.AccountID `json:"submitter"`
	SubmitterName string             `json:"submitter_name"`
	ProofURL      string             `json:"proof_url"`
	SubmittedAt   int64              `json:"submitted_at"`
	Status        string             `json:"status"`
}

func toSubmission(ns *nameservice.NameService, c database.Challenge, s database.Submission) submission {
	return submission{
		ID:            s.SubmissionID,
		ChallengeID:   s.ChallengeID,
		Submitter:     s.Submitter,
		SubmitterName: ns.Lookup(s.Submitter),
		ProofURL:      s.ProofURL,
		SubmittedAt:   s.SubmittedAt,
		Status:        state.SubmissionStatus(c, s),
	}
}
