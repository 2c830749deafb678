package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messaging-service/internal/models"
	"messaging-service/internal/notify"
)

var _ notify.Notifier = (*NotifierMock)(nil)

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) NotifyUser(ctx context.Context, userID int, event models.Event) error {
	args := m.Called(ctx, userID, event)
	return args.Error(0)
}

func (m *NotifierMock) NotifyChannelMembers(ctx context.Context, channelID int, memberIDs []int, event models.Event) error {
	args := m.Called(ctx, channelID, memberIDs, event)
	return args.Error(0)
}
