package v1

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/state"
)

// NewStateError attaches the HTTP status that matches an error returned by
// the state package. Unknown errors are returned as is and end up as a 500.
func NewStateError(err error) error {
	if err == nil {
		return nil
	}

	status := stateStatus(err)
	if status == 0 {
		return err
	}

	return NewRequestError(err, status)
}

func stateStatus(err error) int {
	badRequest := []error{
		state.ErrInvalidTitle,
		state.ErrInvalidDescription,
		state.ErrInvalidBounty,
		state.ErrInvalidDeadline,
		state.ErrInvalidProofURL,
		state.ErrInvalidTransfer,
		state.ErrUnknownOp,
		state.ErrInvalidSignature,
		state.ErrWrongChain,
		database.ErrInvalidAccount,
	}

	conflict := []error{
		state.ErrChallengeNotActive,
		state.ErrDeadlinePassed,
		state.ErrNonceTooSmall,
		state.ErrNotInitialized,
		state.ErrAlreadyInitialized,
		database.ErrInsufficientFunds,
		database.ErrOverflow,
	}

	switch {
	case errors.Is(err, state.ErrChallengeNotFound):
		return http.StatusNotFound

	case errors.Is(err, state.ErrUnauthorizedCreator):
		return http.StatusForbidden
	}

	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	for _, target := range conflict {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}

	return 0
}
