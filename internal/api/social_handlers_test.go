package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fadedpez/friendbet/internal/auth"
	"github.com/fadedpez/friendbet/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocialRoutes(t *testing.T) {
	api := newTestAPI(t)
	aliceID, alice := api.register("alice")
	bobID, bob := api.register("bob")
	_, carol := api.register("carol")

	w := api.do(http.MethodPost, "/api/friends", alice, map[string]string{"friendId": bobID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "Friend added successfully", resp["message"])
	friendship := resp["friendship"].(map[string]interface{})
	assert.Equal(t, aliceID, friendship["userId"])
	assert.Equal(t, "ACCEPTED", friendship["status"])

	w = api.do(http.MethodPost, "/api/friends", bob, map[string]string{"friendId": aliceID})
	assertError(t, w, http.StatusConflict, types.ErrConflict)
	w = api.do(http.MethodPost, "/api/friends", alice, map[string]string{"friendId": aliceID})
	assertError(t, w, http.StatusBadRequest, types.ErrValidation)
	w = api.do(http.MethodPost, "/api/friends", alice, map[string]string{"friendId": "nobody"})
	assertError(t, w, http.StatusNotFound, types.ErrNotFound)

	w = api.do(http.MethodGet, "/api/friends", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	friends := decode(t, w)["friends"].([]interface{})
	require.Len(t, friends, 1)
	assert.Equal(t, "alice", friends[0].(map[string]interface{})["username"])

	betID := api.createBet(bob)
	w = api.do(http.MethodPost, "/api/bets/"+betID+"/vote", alice, map[string]interface{}{"choice": "FOR", "stake": 50})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = api.do(http.MethodPost, "/api/bets/"+betID+"/result", bob, map[string]interface{}{"result": "WON"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/users/search?q=bo", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode(t, w)["users"].([]interface{})
	require.Len(t, users, 1)
	assert.Equal(t, bobID, users[0].(map[string]interface{})["id"])

	w = api.do(http.MethodGet, "/api/users/"+bobID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	assert.Equal(t, "bob", profile["username"])
	assert.Equal(t, float64(1), profile["_count"].(map[string]interface{})["betsCreated"])

	w = api.do(http.MethodGet, "/api/users/nobody", alice, nil)
	assertError(t, w, http.StatusNotFound, types.ErrNotFound)

	w = api.do(http.MethodGet, "/api/bets/user/"+aliceID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	userBets := decode(t, w)
	assert.Empty(t, userBets["created"])
	assert.Len(t, userBets["participated"], 1)

	w = api.do(http.MethodGet, "/api/challenges/my", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["challenges"], 1)

	w = api.do(http.MethodGet, "/api/challenges/friends", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	challenges := decode(t, w)["challenges"].([]interface{})
	require.Len(t, challenges, 1)
	challenge := challenges[0].(map[string]interface{})
	assert.Equal(t, float64(1), challenge["forBets"])
	assert.Equal(t, float64(1), challenge["totalBets"])

	w = api.do(http.MethodGet, "/api/feed", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode(t, w)["feed"].([]interface{})
	var feedTypes []string
	for _, item := range feed {
		feedTypes = append(feedTypes, item.(map[string]interface{})["type"].(string))
	}
	assert.ElementsMatch(t, []string{"BET_CREATED", "BET_COMPLETED"}, feedTypes)

	w = api.do(http.MethodGet, "/api/feed", carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["feed"])

	w = api.do(http.MethodGet, "/api/activities", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["activities"], 2)

	w = api.do(http.MethodGet, "/api/activities", "", nil)
	assertError(t, w, http.StatusUnauthorized, types.ErrUnauthorized)

	w = api.do(http.MethodDelete, "/api/friends?friendId="+aliceID, bob, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Friend removed successfully", decode(t, w)["message"])

	w = api.do(http.MethodGet, "/api/friends", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["friends"])
}

type identityFunc func(ctx context.Context, token string) (string, error)

func (f identityFunc) Identify(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

func TestAuthenticateStoreFailure(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "Unknown token", err: auth.ErrUnknownToken, status: http.StatusUnauthorized},
		{name: "Store down", err: errors.New("connection refused"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(nil, nil, nil, identityFunc(func(ctx context.Context, token string) (string, error) {
				return "", tt.err
			}), nil)

			req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
			req.Header.Set("Authorization", "Bearer tok")
			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
