package v1_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/ardanlabs/bounty/business/web/v1"
	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_NewStateError(t *testing.T) {
	type table struct {
		err    error
		status int
	}

	tt := []table{
		{err: state.ErrInvalidTitle, status: http.StatusBadRequest},
		{err: fmt.Errorf("select: %w", database.ErrInvalidAccount), status: http.StatusBadRequest},
		{err: state.ErrChallengeNotFound, status: http.StatusNotFound},
		{err: state.ErrUnauthorizedCreator, status: http.StatusForbidden},
		{err: state.ErrDeadlinePassed, status: http.StatusConflict},
		{err: fmt.Errorf("%w, bal 1, needed 2", database.ErrInsufficientFunds), status: http.StatusConflict},
		{err: errors.New("disk full"), status: 0},
	}

	t.Log("Given the need to map state errors to HTTP statuses.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling %q.", testID, tst.err)
			{
				err := v1.NewStateError(tst.err)

				reqErr := v1.GetRequestError(err)
				switch {
				case tst.status == 0 && reqErr != nil:
					t.Fatalf("\t%s\tTest %d:\tShould leave an unknown error alone.", failed, testID)

				case tst.status != 0 && (reqErr == nil || reqErr.Status != tst.status):
					t.Fatalf("\t%s\tTest %d:\tShould get status %d, got %+v.", failed, testID, tst.status, reqErr)
				}

				if !errors.Is(err, tst.err) {
					t.Fatalf("\t%s\tTest %d:\tShould keep the original error.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get status %d.", success, testID, tst.status)
			}
		}
	}
}
