// Package private maintains the group of handlers for operator access.
package private

import (
	"context"
	"net/http"

	v1 "github.com/ardanlabs/bounty/business/web/v1"
	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/state"
	"github.com/ardanlabs/bounty/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of operator endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	NodeID database.AccountID
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()

	status := struct {
		ChainID     uint16             `json:"chain_id"`
		NodeAccount database.AccountID `json:"node_account"`
		LatestBatch uint64             `json:"latest_batch"`
		Counters    state.Counters     `json:"counters"`
	}{
		ChainID:     gen.ChainID,
		NodeAccount: h.NodeID,
		LatestBatch: h.State.RetrieveLatestBatch(),
		Counters:    h.State.QueryCounters(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Initialize creates the id counters, paid for by the node account.
func (h Handlers) Initialize(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("initialize", "traceid", v.TraceID, "payer", h.NodeID)

	if err := h.State.Initialize(h.NodeID); err != nil {
		return v1.NewStateError(err)
	}

	return web.Respond(ctx, w, h.State.QueryCounters(), http.StatusOK)
}
