package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fadedpez/friendbet/internal/auth"
	"github.com/fadedpez/friendbet/internal/metrics"
	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/repositories/activity"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"github.com/fadedpez/friendbet/pkg/services/betting"
	"github.com/fadedpez/friendbet/pkg/services/leaderboard"
	"github.com/fadedpez/friendbet/pkg/services/social"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	repo := ledger.NewMemoryRepository()
	reg := prometheus.NewRegistry()
	archive := activity.NewMemoryArchive()
	tokens := auth.NewTokenStore(nil).WithPersister(repo)

	bets := betting.NewService(repo, nil,
		betting.WithArchive(archive),
		betting.WithMetrics(metrics.NewMetrics(reg)),
		betting.WithLogger(zaptest.NewLogger(t)))
	people := social.NewService(repo, social.WithArchive(archive))

	server := NewServer(bets, leaderboard.NewService(repo), people, tokens, zaptest.NewLogger(t))
	server.SetTokenIssuer(tokens)
	server.SetHealthCheck(repo.Ping)
	server.EnableMetrics(reg)

	return &testAPI{t: t, handler: server.Handler()}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// register creates a user and returns their ID and token
func (a *testAPI) register(username string) (string, string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/users", "", map[string]string{"username": username})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode(a.t, w)
	user := resp["user"].(map[string]interface{})
	return user["id"].(string), resp["token"].(string)
}

func (a *testAPI) createBet(token string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/bets", token, map[string]interface{}{
		"title":       "Run a marathon",
		"description": "Finish the city marathon under five hours",
		"deadline":    time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"category":    "FITNESS",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(a.t, w)["id"].(string)
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code types.ErrorCode) {
	t.Helper()
	assert.Equal(t, status, w.Code, w.Body.String())
	assert.Equal(t, string(code), decode(t, w)["code"])
}

func TestBetLifecycle(t *testing.T) {
	api := newTestAPI(t)
	_, creator := api.register("creator")
	aliceID, alice := api.register("alice")
	_, carol := api.register("carol")

	betID := api.createBet(creator)

	w := api.do(http.MethodPost, "/api/bets/"+betID+"/vote", alice, map[string]interface{}{"choice": "FOR", "stake": 50})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/vote", carol, map[string]interface{}{"choice": "AGAINST", "stake": 50, "punishment": "Shave your eyebrows"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/bets/"+betID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode(t, w)
	assert.Len(t, details["predictions"], 2)
	assert.Len(t, details["punishments"], 1)
	assert.Equal(t, float64(100), details["pools"].(map[string]interface{})["total"])

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/result", creator, map[string]interface{}{"result": "WON"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "Bet resolved successfully", resp["message"])
	assert.Equal(t, "WON", resp["result"])

	payouts := resp["payouts"].([]interface{})
	require.Len(t, payouts, 2)
	first := payouts[0].(map[string]interface{})
	assert.Equal(t, aliceID, first["userId"])
	assert.Equal(t, float64(50), first["payout"])

	w = api.do(http.MethodGet, "/api/users/me", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1050), decode(t, w)["points"])

	w = api.do(http.MethodGet, "/api/notifications", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/leaderboard?page=1&per_page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decode(t, w)
	assert.Equal(t, float64(3), board["totalUsers"])
	assert.Len(t, board["users"], 2)

	w = api.do(http.MethodGet, "/api/bets/settled", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["bets"], 1)

	w = api.do(http.MethodGet, "/api/users/me/powerups", creator, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["powerups"], 1)

	w = api.do(http.MethodGet, "/api/users/me/transactions", carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["transactions"], 1)
}

func TestProofRoutes(t *testing.T) {
	api := newTestAPI(t)
	_, creator := api.register("creator")
	_, alice := api.register("alice")

	betID := api.createBet(creator)
	w := api.do(http.MethodPost, "/api/bets/"+betID+"/vote", alice, map[string]interface{}{"choice": "AGAINST", "stake": 30})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/proof", creator, map[string]string{"proofUrl": "https://example.com/proof.jpg"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/verify", alice, map[string]string{"vote": "REJECT"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, true, resp["resolved"])
	counts := resp["voteCounts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["reject"])
	assert.Equal(t, float64(1), counts["required"])

	w = api.do(http.MethodGet, "/api/bets/"+betID+"/verify", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "REJECT", decode(t, w)["userVote"])

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/punishment", alice, map[string]string{"description": "Wear a tutu", "type": "PHOTO"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	punishmentID := decode(t, w)["id"].(string)

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/punishment/"+punishmentID+"/vote", creator, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), decode(t, w)["votes"])

	w = api.do(http.MethodPatch, "/api/bets/"+betID+"/punishment?punishmentId="+punishmentID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(3), decode(t, w)["votes"])

	w = api.do(http.MethodPatch, "/api/bets/"+betID+"/punishment", alice, nil)
	assertError(t, w, http.StatusBadRequest, types.ErrValidation)
}

func TestErrorMapping(t *testing.T) {
	api := newTestAPI(t)
	_, creator := api.register("creator")
	_, alice := api.register("alice")
	betID := api.createBet(creator)

	w := api.do(http.MethodPost, "/api/bets/"+betID+"/vote", "", map[string]interface{}{"choice": "FOR", "stake": 50})
	assertError(t, w, http.StatusUnauthorized, types.ErrUnauthorized)

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/vote", "bogus-token", map[string]interface{}{"choice": "FOR", "stake": 50})
	assertError(t, w, http.StatusUnauthorized, types.ErrUnauthorized)

	w = api.do(http.MethodPost, "/api/bets/missing/vote", alice, map[string]interface{}{"choice": "FOR", "stake": 50})
	assertError(t, w, http.StatusNotFound, types.ErrNotFound)

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/vote", creator, map[string]interface{}{"choice": "FOR", "stake": 50})
	assertError(t, w, http.StatusForbidden, types.ErrForbidden)

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/vote", alice, map[string]interface{}{"choice": "FOR", "stake": 5})
	assertError(t, w, http.StatusBadRequest, types.ErrValidation)

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/vote", alice, map[string]interface{}{"choice": "FOR", "stake": 50})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/vote", alice, map[string]interface{}{"choice": "FOR", "stake": 50})
	assertError(t, w, http.StatusConflict, types.ErrConflict)

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/result", alice, map[string]interface{}{"result": "WON"})
	assertError(t, w, http.StatusForbidden, types.ErrForbidden)

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/cancel", creator, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/bets/"+betID+"/resolve", creator, map[string]interface{}{"result": "WON"})
	assertError(t, w, http.StatusBadRequest, types.ErrInvalidState)

	req := httptest.NewRequest(http.MethodPost, "/api/bets", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+creator)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assertError(t, rec, http.StatusBadRequest, types.ErrValidation)

	w = api.do(http.MethodPost, "/api/users", "", map[string]string{"username": "alice"})
	assertError(t, w, http.StatusConflict, types.ErrConflict)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(types.ErrInsufficientBalance))
	assert.Equal(t, http.StatusInternalServerError, statusFor(types.ErrInternalError))
	assert.Equal(t, http.StatusInternalServerError, statusFor("SOMETHING_ELSE"))
}

func TestInternalErrorsHideDetails(t *testing.T) {
	server := NewServer(nil, nil, nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/bets", nil)
	w := httptest.NewRecorder()

	server.writeError(w, req, types.WrapError(types.ErrInternalError, "error listing bets", errors.New("password=hunter2")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.Equal(t, "internal server error", decode(t, w)["error"])
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, creator := api.register("creator")
	_, alice := api.register("alice")
	betID := api.createBet(creator)
	api.do(http.MethodPost, "/api/bets/"+betID+"/vote", alice, map[string]interface{}{"choice": "FOR", "stake": 50})

	w = api.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "friendbet_predictions_total")

	server := NewServer(nil, nil, nil, nil, nil)
	server.SetHealthCheck(func(ctx context.Context) error { return errors.New("db down") })
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
