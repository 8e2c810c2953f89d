package api

import (
	"net/http"

	"github.com/fadedpez/friendbet/pkg/services/social"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.social.Friends(r.Context(), caller(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"friends": friends})
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req social.FriendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.social.AddFriend(r.Context(), caller(r), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Friend added successfully",
		"friendship": conn,
	})
}

// handleRemoveFriend takes the friend from the body or a friendId query
// parameter
func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	req := social.FriendRequest{FriendID: r.URL.Query().Get("friendId")}
	if req.FriendID == "" {
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if err := s.social.RemoveFriend(r.Context(), caller(r), &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend removed successfully"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.social.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.social.SearchUsers(r.Context(), caller(r), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (s *Server) handleUserBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.social.UserBets(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

func (s *Server) handleMyChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := s.social.MyChallenges(r.Context(), caller(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"challenges": challenges})
}

func (s *Server) handleFriendChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := s.social.FriendChallenges(r.Context(), caller(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"challenges": challenges})
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := s.social.Activities(r.Context(), caller(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activities": activities})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.social.Feed(r.Context(), caller(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"feed": feed})
}
