// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/bounty/business/sys/validate"
	v1 "github.com/ardanlabs/bounty/business/web/v1"
	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/state"
	"github.com/ardanlabs/bounty/foundation/events"
	"github.com/ardanlabs/bounty/foundation/nameservice"
	"github.com/ardanlabs/bounty/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of bounty endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client. The optional
// challenge query parameter limits the stream to one challenge.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var filter events.Filter
	if qs := r.URL.Query().Get("challenge"); qs != "" {
		challengeID, err := strconv.ParseUint(qs, 10, 64)
		if err != nil {
			return v1.NewRequestError(errors.New("challenge must be a number"), http.StatusBadRequest)
		}
		filter.ChallengeID = &challengeID
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The connection is hijacked so the status is recorded by hand.
	web.SetStatusCode(ctx, http.StatusSwitchingProtocols)

	ch := h.Evts.Acquire(v.TraceID, filter)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// SubmitTransaction runs a signed operation against the state.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var signedTx database.SignedTx
	if err := web.Decode(r, &signedTx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	if err := validate.Check(signedTx); err != nil {
		return err
	}

	if signedTx.Op == database.OpInitialize {
		return v1.NewRequestError(errors.New("initialize is only available on the private api"), http.StatusBadRequest)
	}

	h.Log.Infow("submit tx", "traceid", v.TraceID, "from:nonce:op", signedTx, "challenge", signedTx.ChallengeID, "to", signedTx.ToID)

	receipt, err := h.State.SubmitTx(signedTx)
	if err != nil {
		return v1.NewStateError(err)
	}

	return web.Respond(ctx, w, receipt, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Accounts returns the current balances for all accounts or the one named
// by the account parameter, either by id or by name.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var dbAccounts []database.Account

	switch nameOrAccount := web.Param(r, "account"); nameOrAccount {
	case "":
		for _, act := range h.State.RetrieveAccounts() {
			dbAccounts = append(dbAccounts, act)
		}

	default:
		accountID, err := h.NS.Resolve(nameOrAccount)
		if err != nil {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}
		dbAccounts = append(dbAccounts, h.State.QueryAccount(accountID))
	}

	sort.Slice(dbAccounts, func(i, j int) bool {
		return dbAccounts[i].AccountID < dbAccounts[j].AccountID
	})

	acts := make([]account, len(dbAccounts))
	for i, act := range dbAccounts {
		acts[i] = account{
			Account: act.AccountID,
			Name:    h.NS.Lookup(act.AccountID),
			Balance: act.Balance,
			Nonce:   act.Nonce,
		}
	}

	resp := accounts{
		LatestBatch: h.State.RetrieveLatestBatch(),
		Accounts:    acts,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Challenges returns the challenges matching the status and creator query
// parameters.
func (h Handlers) Challenges(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	qs := r.URL.Query()

	filter := state.ChallengeFilter{
		Status: qs.Get("status"),
	}

	switch filter.Status {
	case state.StatusAll, state.StatusActive, state.StatusCompleted:
	default:
		return v1.NewRequestError(errors.New("status must be active or completed"), http.StatusBadRequest)
	}

	if creator := qs.Get("creator"); creator != "" {
		accountID, err := h.NS.Resolve(creator)
		if err != nil {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}
		filter.Creator = accountID
	}

	dbChallenges := h.State.QueryChallenges(filter)

	out := make([]challenge, len(dbChallenges))
	for i, c := range dbChallenges {
		out[i] = toChallenge(h.NS, c)
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}

// Challenge returns the specified challenge.
func (h Handlers) Challenge(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	challengeID, err := challengeParam(r)
	if err != nil {
		return err
	}

	c, err := h.State.QueryChallenge(challengeID)
	if err != nil {
		return v1.NewStateError(err)
	}

	return web.Respond(ctx, w, toChallenge(h.NS, c), http.StatusOK)
}

// Escrow returns the funds held for the specified challenge.
func (h Handlers) Escrow(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	challengeID, err := challengeParam(r)
	if err != nil {
		return err
	}

	escrow, err := h.State.QueryEscrow(challengeID)
	if err != nil {
		return v1.NewStateError(err)
	}

	return web.Respond(ctx, w, escrow, http.StatusOK)
}

// Submissions returns the submissions made against the specified challenge.
func (h Handlers) Submissions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	challengeID, err := challengeParam(r)
	if err != nil {
		return err
	}

	c, err := h.State.QueryChallenge(challengeID)
	if err != nil {
		return v1.NewStateError(err)
	}

	subs, err := h.State.QuerySubmissions(challengeID)
	if err != nil {
		return v1.NewStateError(err)
	}

	out := make([]submission, len(subs))
	for i, sub := range subs {
		out[i] = toSubmission(h.NS, c, sub)
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}

// SubmissionsByAccount returns every submission made by the account.
func (h Handlers) SubmissionsByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := h.NS.Resolve(web.Param(r, "account"))
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	subs := h.State.QuerySubmissionsBySubmitter(accountID)
	if len(subs) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	out := make([]submission, 0, len(subs))
	for _, sub := range subs {
		c, err := h.State.QueryChallenge(sub.ChallengeID)
		if err != nil {
			return err
		}
		out = append(out, toSubmission(h.NS, c, sub))
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}

// =============================================================================

func challengeParam(r *http.Request) (uint64, error) {
	challengeID, err := strconv.ParseUint(web.Param(r, "id"), 10, 64)
	if err != nil {
		return 0, v1.NewRequestError(errors.New("challenge id must be a number"), http.StatusBadRequest)
	}
	return challengeID, nil
}
