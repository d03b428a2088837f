package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
)

// nextID returns the current total of the counter as the id of the new
// entity and stores the counter advanced by one. It relies on running inside
// a database transaction for exclusive access to the counter.
func nextID(tx *database.Txn, kind database.Kind) (uint64, error) {
	counter, err := tx.Counter(kind)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, ErrNotInitialized
		}
		return 0, err
	}

	next, err := counter.Increment()
	if err != nil {
		return 0, fmt.Errorf("%s counter: %w", kind, err)
	}

	tx.PutCounter(next)

	return counter.Total, nil
}
