package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messaging-service/internal/repositories"
)

var _ repositories.Store = (*StoreMock)(nil)

// StoreMock hands the same repository mocks to queries and transactions and
// counts how transactions ended.
type StoreMock struct {
	Conversations *ConversationRepositoryMock
	Channels      *ChannelRepositoryMock
	Messages      *MessageRepositoryMock
	Preferences   *PreferenceRepositoryMock
	Reactions     *ReactionRepositoryMock
	Favorites     *FavoriteRepositoryMock
	Receipts      *ReadReceiptRepositoryMock

	Commits   int
	Rollbacks int
}

func NewStoreMock() *StoreMock {
	return &StoreMock{
		Conversations: new(ConversationRepositoryMock),
		Channels:      new(ChannelRepositoryMock),
		Messages:      new(MessageRepositoryMock),
		Preferences:   new(PreferenceRepositoryMock),
		Reactions:     new(ReactionRepositoryMock),
		Favorites:     new(FavoriteRepositoryMock),
		Receipts:      new(ReadReceiptRepositoryMock),
	}
}

func (s *StoreMock) Repos() repositories.Repos {
	return repositories.Repos{
		Conversations: s.Conversations,
		Channels:      s.Channels,
		Messages:      s.Messages,
		Preferences:   s.Preferences,
		Reactions:     s.Reactions,
		Favorites:     s.Favorites,
		Receipts:      s.Receipts,
	}
}

func (s *StoreMock) WithinTx(ctx context.Context, fn func(repositories.Repos) error) error {
	if err := fn(s.Repos()); err != nil {
		s.Rollbacks++
		return err
	}
	s.Commits++
	return nil
}

// AssertExpectations checks every repository mock.
func (s *StoreMock) AssertExpectations(t mock.TestingT) {
	s.Conversations.AssertExpectations(t)
	s.Channels.AssertExpectations(t)
	s.Messages.AssertExpectations(t)
	s.Preferences.AssertExpectations(t)
	s.Reactions.AssertExpectations(t)
	s.Favorites.AssertExpectations(t)
	s.Receipts.AssertExpectations(t)
}
