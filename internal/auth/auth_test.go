package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	mock_ledger "github.com/fadedpez/friendbet/pkg/repositories/ledger/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(map[string]string{"dev": "user-1"})

	userID, err := store.Identify(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = store.Identify(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownToken)

	_, err = store.Identify(ctx, "")
	assert.ErrorIs(t, err, ErrUnknownToken)

	token, err := store.Issue(ctx, "user-2")
	require.NoError(t, err)
	userID, err = store.Identify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", userID)
}

func TestTokenStorePersistsIssuedTokens(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	require.NoError(t, repo.SaveUser(ctx, &entities.User{ID: "user-1", Username: "alice", CreatedAt: time.Now()}))

	token, err := NewTokenStore(nil).WithPersister(repo).Issue(ctx, "user-1")
	require.NoError(t, err)

	// A fresh store backed by the same repository still knows the token
	restarted := NewTokenStore(map[string]string{"dev": "user-9"}).WithPersister(repo)
	userID, err := restarted.Identify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	userID, err = restarted.Identify(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)

	_, err = restarted.Identify(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownToken)

	_, err = restarted.Issue(ctx, "missing-user")
	assert.ErrorIs(t, err, ledger.ErrUserNotFound)
}

func TestTokenStorePersisterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_ledger.NewMockRepository(ctrl)
	repo.EXPECT().GetTokenUser(gomock.Any(), "tok").Return("", errors.New("connection refused"))

	_, err := NewTokenStore(nil).WithPersister(repo).Identify(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownToken)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{header: "Bearer abc123", expected: "abc123"},
		{header: "bearer abc123", expected: "abc123"},
		{header: "Basic abc123", expected: ""},
		{header: "Bearer ", expected: ""},
		{header: "", expected: ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.expected, BearerToken(req), "header %q", tt.header)
	}
}

func TestUserIDContext(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)

	userID, ok := UserID(WithUserID(context.Background(), "user-1"))
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
}
