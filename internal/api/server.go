// Package api serves the FriendBet HTTP JSON API
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fadedpez/friendbet/internal/auth"
	"github.com/fadedpez/friendbet/internal/logging"
	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/services/betting"
	"github.com/fadedpez/friendbet/pkg/services/leaderboard"
	"github.com/fadedpez/friendbet/pkg/services/social"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// TokenIssuer hands out a bearer token for a newly registered user
type TokenIssuer interface {
	Issue(ctx context.Context, userID string) (string, error)
}

// Server is the FriendBet HTTP API server
type Server struct {
	bets     *betting.Service
	board    *leaderboard.Service
	social   *social.Service
	identity auth.IdentityProvider
	issuer   TokenIssuer
	health   func(ctx context.Context) error
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// NewServer creates a new API server
func NewServer(bets *betting.Service, board *leaderboard.Service, people *social.Service, identity auth.IdentityProvider, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		bets:     bets,
		board:    board,
		social:   people,
		identity: identity,
		logger:   logger,
	}
}

// SetTokenIssuer makes registration return a bearer token
func (s *Server) SetTokenIssuer(issuer TokenIssuer) { s.issuer = issuer }

// SetHealthCheck sets the check behind /healthz
func (s *Server) SetHealthCheck(fn func(ctx context.Context) error) { s.health = fn }

// EnableMetrics exposes the gatherer on /metrics
func (s *Server) EnableMetrics(gatherer prometheus.Gatherer) { s.gatherer = gatherer }

// Handler returns the chi router with all routes mounted
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleRegister)
		r.Get("/bets", s.handleListBets)
		r.Get("/bets/{id}", s.handleGetBet)
		r.Get("/bets/settled", s.handleSettledBets)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/users/me", s.handleMe)
			r.Get("/users/me/transactions", s.handleTransactions)
			r.Get("/users/me/powerups", s.handlePowerups)
			r.Get("/users/search", s.handleSearchUsers)
			r.Get("/users/{id}", s.handleProfile)
			r.Get("/notifications", s.handleNotifications)

			r.Get("/friends", s.handleFriends)
			r.Post("/friends", s.handleAddFriend)
			r.Delete("/friends", s.handleRemoveFriend)
			r.Get("/challenges/my", s.handleMyChallenges)
			r.Get("/challenges/friends", s.handleFriendChallenges)
			r.Get("/activities", s.handleActivities)
			r.Get("/feed", s.handleFeed)
			r.Get("/bets/user/{id}", s.handleUserBets)

			r.Post("/bets", s.handleCreateBet)
			r.Post("/bets/{id}/vote", s.handlePlacePrediction)
			r.Post("/bets/{id}/result", s.handleResolve)
			r.Post("/bets/{id}/resolve", s.handleResolve)
			r.Post("/bets/{id}/cancel", s.handleCancel)
			r.Post("/bets/{id}/proof", s.handleSubmitProof)
			r.Post("/bets/{id}/verify", s.handleProofVote)
			r.Get("/bets/{id}/verify", s.handleProofTally)
			r.Post("/bets/{id}/punishment", s.handleSuggestPunishment)
			r.Patch("/bets/{id}/punishment", s.handleVotePunishment)
			r.Post("/bets/{id}/punishment/{punishmentId}/vote", s.handleVotePunishment)
		})
	})

	return r
}

// authenticate resolves the bearer token and stores the caller in the
// request context
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.identity.Identify(r.Context(), auth.BearerToken(r))
		if errors.Is(err, auth.ErrUnknownToken) {
			s.writeError(w, r, types.WrapError(types.ErrUnauthorized, "unauthorized", err))
			return
		}
		if err != nil {
			s.writeError(w, r, types.WrapError(types.ErrInternalError, "error identifying caller", err))
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps an error code to its HTTP status
func statusFor(code types.ErrorCode) int {
	switch code {
	case types.ErrUnauthorized:
		return http.StatusUnauthorized
	case types.ErrForbidden:
		return http.StatusForbidden
	case types.ErrNotFound:
		return http.StatusNotFound
	case types.ErrConflict:
		return http.StatusConflict
	case types.ErrInvalidState, types.ErrValidation, types.ErrInsufficientBalance:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response. Internal details never reach the
// client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := types.CodeOf(err)
	message := "internal server error"

	var betErr *types.BetError
	if code != types.ErrInternalError && errors.As(err, &betErr) {
		message = betErr.Message
	}
	if code == types.ErrInternalError {
		logging.LogError(s.logger, "Request failed", err,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	}

	writeJSON(w, statusFor(code), map[string]string{
		"error": message,
		"code":  string(code),
	})
}

// decodeJSON reads the request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return types.WrapError(types.ErrValidation, "invalid request body", err)
	}
	return nil
}

// queryInt returns the named query parameter as an int, or def when absent
// or malformed
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

func caller(r *http.Request) string {
	userID, _ := auth.UserID(r.Context())
	return userID
}
