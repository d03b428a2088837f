package handlers_test

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/bounty/app/services/bounty/handlers"
	"github.com/ardanlabs/bounty/business/sys/metrics"
	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/database/storage"
	"github.com/ardanlabs/bounty/foundation/bounty/genesis"
	"github.com/ardanlabs/bounty/foundation/bounty/state"
	"github.com/ardanlabs/bounty/foundation/events"
	"github.com/ardanlabs/bounty/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const chainID = 1

type apiTest struct {
	t       *testing.T
	public  http.Handler
	private http.Handler
	debug   http.Handler
}

func newKey(t *testing.T) (*ecdsa.PrivateKey, database.AccountID) {
	t.Helper()

	pk, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("Should be able to generate a key: %s", err)
	}
	return pk, database.PublicKeyToAccountID(pk.PublicKey)
}

func newAPITest(t *testing.T, balances map[database.AccountID]uint64, nodeID database.AccountID) *apiTest {
	t.Helper()

	gen := genesis.Genesis{
		ChainID:  chainID,
		Rent:     genesis.Rent{PerByteYear: 1, ExemptionYears: 2},
		Balances: make(map[string]uint64),
	}
	for id, balance := range balances {
		gen.Balances[string(id)] = balance
	}

	st, err := state.New(state.Config{
		Genesis: gen,
		Storage: storage.NewMemory(),
	})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	ns, err := nameservice.New(t.TempDir())
	if err != nil {
		t.Fatalf("Should be able to construct the name service: %s", err)
	}

	reg := prometheus.NewRegistry()
	log := zap.NewNop().Sugar()

	cfg := handlers.MuxConfig{
		Shutdown:    make(chan os.Signal, 1),
		Log:         log,
		Metrics:     metrics.New(reg),
		State:       st,
		NS:          ns,
		Evts:        events.New(),
		NodeID:      nodeID,
		CorsOrigins: []string{"*"},
	}

	return &apiTest{
		t:       t,
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
		debug:   handlers.DebugMux("test", log, st, reg),
	}
}

func (at *apiTest) do(h http.Handler, method string, path string, body any) *httptest.ResponseRecorder {
	at.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			at.t.Fatalf("Should be able to encode the body: %s", err)
		}
	}

	r := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	return w
}

func (at *apiTest) sign(pk *ecdsa.PrivateKey, tx database.Tx) database.SignedTx {
	at.t.Helper()

	signedTx, err := tx.Sign(pk)
	if err != nil {
		at.t.Fatalf("Should be able to sign the transaction: %s", err)
	}
	return signedTx
}

// =============================================================================

func Test_API(t *testing.T) {
	nodePK, nodeID := newKey(t)
	creatorPK, creatorID := newKey(t)
	alicePK, aliceID := newKey(t)

	at := newAPITest(t, map[database.AccountID]uint64{
		nodeID:    100_000,
		creatorID: 1_000_000,
		aliceID:   100_000,
	}, nodeID)

	create := at.sign(creatorPK, database.Tx{
		ChainID:      chainID,
		Nonce:        1,
		Op:           database.OpCreateChallenge,
		Title:        "Benchmark the cache",
		Description:  "Publish numbers for the read path.",
		BountyAmount: 40_000,
		DeadlineDays: 2,
	})

	type table struct {
		name    string
		handler http.Handler
		method  string
		path    string
		body    any
		status  int
		check   func(body string) bool
	}

	tt := []table{
		{name: "notready", handler: at.debug, method: http.MethodGet, path: "/debug/readiness", status: http.StatusServiceUnavailable},
		{name: "precreate", handler: at.public, method: http.MethodPost, path: "/v1/tx/submit", body: create, status: http.StatusConflict},
		{name: "initialize", handler: at.private, method: http.MethodPost, path: "/v1/node/initialize", status: http.StatusOK},
		{name: "reinitialize", handler: at.private, method: http.MethodPost, path: "/v1/node/initialize", status: http.StatusConflict},
		{name: "publicinit", handler: at.public, method: http.MethodPost, path: "/v1/tx/submit", body: at.sign(nodePK, database.Tx{ChainID: chainID, Nonce: 1, Op: database.OpInitialize}), status: http.StatusBadRequest},
		{name: "create", handler: at.public, method: http.MethodPost, path: "/v1/tx/submit", body: create, status: http.StatusOK,
			check: func(body string) bool { return strings.Contains(body, `"op":"create_challenge"`) }},
		{name: "replay", handler: at.public, method: http.MethodPost, path: "/v1/tx/submit", body: create, status: http.StatusConflict},
		{name: "badop", handler: at.public, method: http.MethodPost, path: "/v1/tx/submit", body: at.sign(alicePK, database.Tx{ChainID: chainID, Nonce: 1, Op: "mint"}), status: http.StatusBadRequest,
			check: func(body string) bool { return strings.Contains(body, `"op"`) }},
		{name: "badjson", handler: at.public, method: http.MethodPost, path: "/v1/tx/submit", body: map[string]string{"unknown": "field"}, status: http.StatusBadRequest},
		{name: "challenge", handler: at.public, method: http.MethodGet, path: "/v1/challenges/0", status: http.StatusOK,
			check: func(body string) bool { return strings.Contains(body, `"title":"Benchmark the cache"`) }},
		{name: "missing", handler: at.public, method: http.MethodGet, path: "/v1/challenges/9", status: http.StatusNotFound},
		{name: "notnumber", handler: at.public, method: http.MethodGet, path: "/v1/challenges/abc", status: http.StatusBadRequest},
		{name: "escrow", handler: at.public, method: http.MethodGet, path: "/v1/challenges/0/escrow", status: http.StatusOK,
			check: func(body string) bool { return strings.Contains(body, `"payable":40000`) }},
		{name: "submit", handler: at.public, method: http.MethodPost, path: "/v1/tx/submit", body: at.sign(alicePK, database.Tx{ChainID: chainID, Nonce: 1, Op: database.OpSubmitSolution, ChallengeID: 0, ProofURL: "https://proof"}), status: http.StatusOK},
		{name: "steal", handler: at.public, method: http.MethodPost, path: "/v1/tx/submit", body: at.sign(alicePK, database.Tx{ChainID: chainID, Nonce: 2, Op: database.OpSelectWinner, ChallengeID: 0, ToID: aliceID}), status: http.StatusForbidden},
		{name: "submissions", handler: at.public, method: http.MethodGet, path: "/v1/challenges/0/submissions", status: http.StatusOK,
			check: func(body string) bool { return strings.Contains(body, `"status":"pending"`) }},
		{name: "select", handler: at.public, method: http.MethodPost, path: "/v1/tx/submit", body: at.sign(creatorPK, database.Tx{ChainID: chainID, Nonce: 2, Op: database.OpSelectWinner, ChallengeID: 0, ToID: aliceID}), status: http.StatusOK,
			check: func(body string) bool { return strings.Contains(body, `"amount":40000`) }},
		{name: "bysubmitter", handler: at.public, method: http.MethodGet, path: "/v1/submissions/list/" + string(aliceID), status: http.StatusOK,
			check: func(body string) bool { return strings.Contains(body, `"status":"won"`) }},
		{name: "completed", handler: at.public, method: http.MethodGet, path: "/v1/challenges/list?status=completed", status: http.StatusOK,
			check: func(body string) bool { return strings.Contains(body, `"is_active":false`) }},
		{name: "badstatus", handler: at.public, method: http.MethodGet, path: "/v1/challenges/list?status=open", status: http.StatusBadRequest},
		{name: "account", handler: at.public, method: http.MethodGet, path: "/v1/accounts/list/" + string(aliceID), status: http.StatusOK},
		{name: "status", handler: at.private, method: http.MethodGet, path: "/v1/node/status", status: http.StatusOK,
			check: func(body string) bool { return strings.Contains(body, `"challenges":1`) }},
		{name: "ready", handler: at.debug, method: http.MethodGet, path: "/debug/readiness", status: http.StatusOK},
		{name: "metrics", handler: at.debug, method: http.MethodGet, path: "/metrics", status: http.StatusOK,
			check: func(body string) bool { return strings.Contains(body, "bounty_http_requests_total") }},
	}

	t.Log("Given the need to drive a challenge through the web api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen calling %s %s.", testID, tst.method, tst.path)
			{
				w := at.do(tst.handler, tst.method, tst.path, tst.body)

				if w.Code != tst.status {
					t.Fatalf("\t%s\tTest %d:\tShould get status %d for %s, got %d: %s", failed, testID, tst.status, tst.name, w.Code, w.Body.String())
				}
				t.Logf("\t%s\tTest %d:\tShould get status %d for %s.", success, testID, tst.status, tst.name)

				if tst.check != nil && !tst.check(w.Body.String()) {
					t.Fatalf("\t%s\tTest %d:\tShould get the expected body for %s, got %s", failed, testID, tst.name, w.Body.String())
				}
			}
		}
	}
}
