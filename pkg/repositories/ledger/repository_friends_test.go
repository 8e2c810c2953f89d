package ledger

import (
	"time"

	"github.com/fadedpez/friendbet/pkg/entities"
)

func (s *RepositoryTestSuite) connect(id, userID, friendID string) error {
	return s.repo.AddFriend(s.ctx, &entities.FriendConnection{
		ID:        id,
		UserID:    userID,
		FriendID:  friendID,
		Status:    entities.FriendStatusAccepted,
		CreatedAt: s.now,
	})
}

func (s *RepositoryTestSuite) TestFriendsInEitherDirection() {
	s.Require().NoError(s.connect("f-1", "alice", "bob"))
	s.Require().NoError(s.connect("f-2", "carol", "alice"))

	friends, err := s.repo.GetFriends(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(friends, 2)
	s.ElementsMatch([]string{"bob", "carol"}, []string{friends[0].ID, friends[1].ID})

	friends, err = s.repo.GetFriends(s.ctx, "bob")
	s.Require().NoError(err)
	s.Require().Len(friends, 1)
	s.Equal("alice", friends[0].ID)
	s.Equal(entities.StartingPoints, friends[0].Points)
}

func (s *RepositoryTestSuite) TestAddFriendRejectsExistingConnection() {
	s.Require().NoError(s.connect("f-1", "alice", "bob"))

	s.ErrorIs(s.connect("f-2", "alice", "bob"), ErrFriendExists)
	s.ErrorIs(s.connect("f-3", "bob", "alice"), ErrFriendExists)
}

func (s *RepositoryTestSuite) TestAddFriendUnknownUser() {
	s.ErrorIs(s.connect("f-1", "alice", "nobody"), ErrUserNotFound)

	friends, err := s.repo.GetFriends(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(friends)
}

func (s *RepositoryTestSuite) TestRemoveFriendEitherDirection() {
	s.Require().NoError(s.connect("f-1", "alice", "bob"))

	s.Require().NoError(s.repo.RemoveFriend(s.ctx, "bob", "alice"))

	friends, err := s.repo.GetFriends(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(friends)

	s.Require().NoError(s.connect("f-2", "alice", "bob"))
}

func (s *RepositoryTestSuite) TestListBetsByCreators() {
	s.Require().NoError(s.repo.CreateBet(s.ctx, &entities.Bet{
		ID:        "bet-2",
		CreatorID: "alice",
		Title:     "Read a book",
		Category:  entities.CategoryStudy,
		Deadline:  s.now.Add(time.Hour),
		Status:    entities.BetStatusActive,
		CreatedAt: s.now.Add(time.Minute),
	}))
	s.Require().NoError(s.repo.CreateBet(s.ctx, &entities.Bet{
		ID:        "bet-3",
		CreatorID: "bob",
		Title:     "Learn to juggle",
		Category:  entities.CategoryOther,
		Deadline:  s.now.Add(time.Hour),
		Status:    entities.BetStatusActive,
		CreatedAt: s.now.Add(2 * time.Minute),
	}))

	bets, err := s.repo.ListBetsByCreators(s.ctx, []string{"creator", "alice"}, 10)
	s.Require().NoError(err)
	s.Require().Len(bets, 2)
	s.Equal("bet-2", bets[0].ID)
	s.Equal("bet-1", bets[1].ID)

	bets, err = s.repo.ListBetsByCreators(s.ctx, []string{"creator", "alice", "bob"}, 1)
	s.Require().NoError(err)
	s.Require().Len(bets, 1)
	s.Equal("bet-3", bets[0].ID)

	bets, err = s.repo.ListBetsByCreators(s.ctx, nil, 10)
	s.Require().NoError(err)
	s.Empty(bets)
}

func (s *RepositoryTestSuite) TestListPredictionsByUsersAndCounts() {
	s.Require().NoError(s.place("alice", entities.ChoiceFor, 100))
	s.Require().NoError(s.repo.UpdateBet(s.ctx, "bet-1", func(snap *Snapshot) (*Mutation, error) {
		return &Mutation{Prediction: &entities.Prediction{
			ID:        "pred-bob",
			BetID:     snap.Bet.ID,
			UserID:    "bob",
			Choice:    entities.ChoiceAgainst,
			Stake:     50,
			CreatedAt: s.now.Add(time.Minute),
		}}, nil
	}))

	predictions, err := s.repo.ListPredictionsByUsers(s.ctx, []string{"alice", "bob"}, 10)
	s.Require().NoError(err)
	s.Require().Len(predictions, 2)
	s.Equal("pred-bob", predictions[0].ID)
	s.Equal("pred-alice", predictions[1].ID)
	s.Equal(int64(100), predictions[1].Stake)

	predictions, err = s.repo.ListPredictionsByUsers(s.ctx, []string{"carol"}, 10)
	s.Require().NoError(err)
	s.Empty(predictions)

	activity, err := s.repo.CountUserActivity(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(&UserActivity{BetsCreated: 0, Predictions: 1}, activity)

	activity, err = s.repo.CountUserActivity(s.ctx, "creator")
	s.Require().NoError(err)
	s.Equal(&UserActivity{BetsCreated: 1, Predictions: 0}, activity)
}

func (s *RepositoryTestSuite) TestTokens() {
	s.Require().NoError(s.repo.SaveToken(s.ctx, "tok-1", "alice", s.now))

	userID, err := s.repo.GetTokenUser(s.ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal("alice", userID)

	_, err = s.repo.GetTokenUser(s.ctx, "tok-2")
	s.ErrorIs(err, ErrTokenNotFound)
}
