package api

import (
	"net/http"

	"github.com/fadedpez/friendbet/internal/types"
	"github.com/fadedpez/friendbet/pkg/services/betting"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req betting.RegisterUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.bets.RegisterUser(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := map[string]interface{}{"user": user}
	if s.issuer != nil {
		token, err := s.issuer.Issue(r.Context(), user.ID)
		if err != nil {
			s.writeError(w, r, types.WrapError(types.ErrInternalError, "error issuing token", err))
			return
		}
		resp["token"] = token
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.bets.GetUser(r.Context(), caller(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.bets.Transactions(r.Context(), caller(r), queryInt(r, "limit", 0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})
}

func (s *Server) handlePowerups(w http.ResponseWriter, r *http.Request) {
	powerups, err := s.bets.Powerups(r.Context(), caller(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"powerups": powerups})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.bets.Notifications(r.Context(), caller(r), queryInt(r, "limit", 0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (s *Server) handleListBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.bets.ListBets(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bets": bets})
}

func (s *Server) handleGetBet(w http.ResponseWriter, r *http.Request) {
	details, err := s.bets.GetBet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleCreateBet(w http.ResponseWriter, r *http.Request) {
	var req betting.CreateBetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	bet, err := s.bets.CreateBet(r.Context(), caller(r), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bet)
}

func (s *Server) handlePlacePrediction(w http.ResponseWriter, r *http.Request) {
	var req betting.PlacePredictionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	prediction, err := s.bets.PlacePrediction(r.Context(), caller(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, prediction)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req betting.ResolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.bets.Resolve(r.Context(), caller(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Bet resolved successfully",
		"result":  res.Settlement.Result,
		"model":   res.Settlement.Model,
		"bet":     res.Bet,
		"pools":   res.Settlement.Pools,
		"payouts": res.Settlement.Lines,
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	bet, err := s.bets.CancelBet(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) handleSubmitProof(w http.ResponseWriter, r *http.Request) {
	var req betting.SubmitProofRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	bet, err := s.bets.SubmitProof(r.Context(), caller(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Proof uploaded successfully. Bettors have been notified to verify.",
		"bet":     bet,
	})
}

func (s *Server) handleProofVote(w http.ResponseWriter, r *http.Request) {
	var req betting.ProofVoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.bets.CastProofVote(r.Context(), caller(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleProofTally(w http.ResponseWriter, r *http.Request) {
	view, err := s.bets.GetProofTally(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSuggestPunishment(w http.ResponseWriter, r *http.Request) {
	var req betting.PunishmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	punishment, err := s.bets.SuggestPunishment(r.Context(), caller(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, punishment)
}

// handleVotePunishment takes the punishment from the path, or from the
// punishmentId query parameter on the PATCH form
func (s *Server) handleVotePunishment(w http.ResponseWriter, r *http.Request) {
	punishmentID := chi.URLParam(r, "punishmentId")
	if punishmentID == "" {
		punishmentID = r.URL.Query().Get("punishmentId")
	}
	if punishmentID == "" {
		s.writeError(w, r, types.NewBetError(types.ErrValidation, "punishment ID is required"))
		return
	}

	punishment, err := s.bets.VotePunishment(r.Context(), caller(r), chi.URLParam(r, "id"), punishmentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, punishment)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.board.GetLeaderboard(r.Context(), queryInt(r, "page", 1), queryInt(r, "per_page", 0))
	if err != nil {
		s.writeError(w, r, types.WrapError(types.ErrInternalError, "error loading leaderboard", err))
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleSettledBets(w http.ResponseWriter, r *http.Request) {
	records, err := s.bets.SettledBets(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bets": records})
}
