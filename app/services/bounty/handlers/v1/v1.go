// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/bounty/app/services/bounty/handlers/v1/private"
	"github.com/ardanlabs/bounty/app/services/bounty/handlers/v1/public"
	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/state"
	"github.com/ardanlabs/bounty/foundation/events"
	"github.com/ardanlabs/bounty/foundation/nameservice"
	"github.com/ardanlabs/bounty/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log    *zap.SugaredLogger
	State  *state.State
	NS     *nameservice.NameService
	Evts   *events.Events
	NodeID database.AccountID
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/accounts/list", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/accounts/list/:account", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/challenges/list", pbl.Challenges)
	app.Handle(http.MethodGet, version, "/challenges/:id", pbl.Challenge)
	app.Handle(http.MethodGet, version, "/challenges/:id/escrow", pbl.Escrow)
	app.Handle(http.MethodGet, version, "/challenges/:id/submissions", pbl.Submissions)
	app.Handle(http.MethodGet, version, "/submissions/list/:account", pbl.SubmissionsByAccount)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:    cfg.Log,
		State:  cfg.State,
		NodeID: cfg.NodeID,
	}

	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
	app.Handle(http.MethodPost, version, "/node/initialize", prv.Initialize)
}
