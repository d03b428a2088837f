package state

import "errors"

// Input shape violations. The caller must correct the input and retry.
var (
	ErrInvalidTitle       = errors.New("title must be 1-100 characters")
	ErrInvalidDescription = errors.New("description must be 1-500 characters")
	ErrInvalidBounty      = errors.New("bounty amount must be greater than 0")
	ErrInvalidDeadline    = errors.New("deadline must be in the future")
	ErrInvalidProofURL    = errors.New("proof url must be 1-200 characters")
	ErrInvalidTransfer    = errors.New("transfer value must be greater than 0")
	ErrUnknownOp          = errors.New("unknown operation")
)

// State and timing violations. Not retryable with the same arguments.
var (
	ErrChallengeNotActive = errors.New("challenge is not active")
	ErrDeadlinePassed     = errors.New("deadline has passed")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrNotInitialized     = errors.New("counters are not initialized")
	ErrAlreadyInitialized = errors.New("counters are already initialized")
	ErrNonceTooSmall      = errors.New("nonce too small")
	ErrWrongChain         = errors.New("wrong chain id")
)

// ErrUnauthorizedCreator is returned when anyone but the creator tries to
// close a challenge.
var ErrUnauthorizedCreator = errors.New("only the challenge creator can select winner")
