package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/services"
	"messaging-service/internal/telemetry"
)

func auditWith(t *testing.T, pub *mocks.PublisherMock) *telemetry.AuditEmitter {
	return telemetry.NewAuditEmitter(pub, "audit.messaging", "messaging-service", "test", zaptest.NewLogger(t))
}

func auditAction(action, level string) any {
	return mock.MatchedBy(func(env telemetry.AuditEnvelope) bool {
		return env.Payload.Action == action && env.Payload.Level == level
	})
}

func TestCreateChannelIsAudited(t *testing.T) {
	svc := new(mocks.ServiceMock)
	pub := new(mocks.PublisherMock)
	svc.On("CreateChannel", mock.Anything, 1, services.ChannelInput{Name: "general", Type: models.ChannelPublic}).
		Return(models.Channel{ID: 5, Name: "general"}, nil).Once()
	pub.On("Publish", mock.Anything, "audit.messaging", auditAction("channel.create", "INFO")).Return(nil).Once()
	r := newRouter(t, svc, auditWith(t, pub))

	w := do(r, http.MethodPost, "/channels", 1, map[string]string{"name": "general", "type": "public"})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateChannelRejectsUnknownType(t *testing.T) {
	svc := new(mocks.ServiceMock)
	r := newRouter(t, svc, nil)

	w := do(r, http.MethodPost, "/channels", 1, map[string]string{"name": "general", "type": "secret"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateChannel", mock.Anything, mock.Anything, mock.Anything)
}

func TestFailedAdminCommandIsAuditedAsError(t *testing.T) {
	svc := new(mocks.ServiceMock)
	pub := new(mocks.PublisherMock)
	svc.On("TransferOwnership", mock.Anything, 2, 5, 3).Return(nil, models.Forbiddenf("owner role required")).Once()
	pub.On("Publish", mock.Anything, "audit.messaging", mock.MatchedBy(func(env telemetry.AuditEnvelope) bool {
		return env.Payload.Action == "channel.transfer" &&
			env.Payload.Level == "ERROR" &&
			env.Payload.Text == "owner role required" &&
			env.Payload.Fields["new_owner_id"] == 3
	})).Return(nil).Once()
	r := newRouter(t, svc, auditWith(t, pub))

	w := do(r, http.MethodPost, "/channels/5/transfer", 2, map[string]int{"user_id": 3})

	assert.Equal(t, http.StatusForbidden, w.Code)
	pub.AssertExpectations(t)
}

func TestAuditPublishFailureDoesNotFailRequest(t *testing.T) {
	svc := new(mocks.ServiceMock)
	pub := new(mocks.PublisherMock)
	svc.On("ArchiveChannel", mock.Anything, 1, 5).Return(models.Channel{ID: 5, IsArchived: true}, nil).Once()
	pub.On("Publish", mock.Anything, "audit.messaging", auditAction("channel.archive", "INFO")).Return(assert.AnError).Once()
	r := newRouter(t, svc, auditWith(t, pub))

	w := do(r, http.MethodDelete, "/channels/5", 1, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	pub.AssertExpectations(t)
}

func TestAddMember(t *testing.T) {
	svc := new(mocks.ServiceMock)
	svc.On("AddMember", mock.Anything, 1, 5, 3, models.RoleAdmin).
		Return(models.Member{UserID: 3, Role: models.RoleAdmin}, nil).Once()
	r := newRouter(t, svc, nil)

	w := do(r, http.MethodPost, "/channels/5/members", 1, map[string]any{"user_id": 3, "role": "admin"})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestRemoveMemberInvalidTarget(t *testing.T) {
	svc := new(mocks.ServiceMock)
	r := newRouter(t, svc, nil)

	w := do(r, http.MethodDelete, "/channels/5/members/0", 1, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid user_id", decode(t, w)["error"])
}

func TestLeaveChannel(t *testing.T) {
	svc := new(mocks.ServiceMock)
	svc.On("LeaveChannel", mock.Anything, 2, 5).Return(nil).Once()
	svc.On("LeaveChannel", mock.Anything, 1, 5).Return(models.InvalidStatef("owner must transfer ownership first")).Once()
	r := newRouter(t, svc, nil)

	w := do(r, http.MethodPost, "/channels/5/leave", 2, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodPost, "/channels/5/leave", 1, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	svc.AssertExpectations(t)
}

func TestPostToArchivedChannel(t *testing.T) {
	svc := new(mocks.ServiceMock)
	svc.On("SendChannelMessage", mock.Anything, 2, 5, models.MessageDraft{Content: "hi"}).Return(nil, models.ErrChannelArchived).Once()
	r := newRouter(t, svc, nil)

	w := do(r, http.MethodPost, "/channels/5/messages", 2, map[string]string{"content": "hi"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, "invalid_state", body["kind"])
	assert.Equal(t, "channel_archived", body["code"])
}

func TestMarkChannelRead(t *testing.T) {
	svc := new(mocks.ServiceMock)
	svc.On("MarkChannelAsRead", mock.Anything, 2, 5).Return(int64(7), nil).Once()
	r := newRouter(t, svc, nil)

	w := do(r, http.MethodPost, "/channels/5/read", 2, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"marked":7}`, w.Body.String())
}
