package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
)

func TestPreferenceRoutesUseScopeKind(t *testing.T) {
	svc := new(mocks.ServiceMock)
	svc.On("TogglePin", mock.Anything, 1, models.ConversationScope(10)).Return(models.Preferences{Pinned: true}, nil).Once()
	svc.On("ToggleMute", mock.Anything, 1, models.ChannelScope(5)).Return(models.Preferences{Muted: true}, nil).Once()
	r := newRouter(t, svc, nil)

	w := do(r, http.MethodPost, "/conversations/10/pin", 1, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	prefs := decode(t, w)["preferences"].(map[string]any)
	assert.Equal(t, true, prefs["is_pinned"])

	w = do(r, http.MethodPost, "/channels/5/mute", 1, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSetHiddenRequiresValue(t *testing.T) {
	svc := new(mocks.ServiceMock)
	svc.On("SetHidden", mock.Anything, 1, models.ChannelScope(5), false).Return(models.Preferences{}, nil).Once()
	r := newRouter(t, svc, nil)

	w := do(r, http.MethodPut, "/channels/5/hidden", 1, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/channels/5/hidden", 1, map[string]any{"hidden": false})
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestReadLaterRoutes(t *testing.T) {
	svc := new(mocks.ServiceMock)
	scope := models.ConversationScope(10)
	svc.On("MarkAsReadLater", mock.Anything, 1, scope).Return(models.ReadLaterState{Scope: scope, MarkedReadLater: true}, nil).Once()
	svc.On("UnmarkAsReadLater", mock.Anything, 1, scope).Return(models.ReadLaterState{Scope: scope}, nil).Once()
	svc.On("UnmarkOnOpen", mock.Anything, 1, scope).Return(models.ReadLaterState{Scope: scope}, nil).Once()
	r := newRouter(t, svc, nil)

	w := do(r, http.MethodPost, "/conversations/10/read-later", 1, nil)
	assert.Equal(t, true, decode(t, w)["marked_read_later"])

	w = do(r, http.MethodDelete, "/conversations/10/read-later", 1, nil)
	assert.Equal(t, false, decode(t, w)["marked_read_later"])

	w = do(r, http.MethodPost, "/conversations/10/open", 1, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListPinnedOfOutsider(t *testing.T) {
	svc := new(mocks.ServiceMock)
	svc.On("ListPinnedMessages", mock.Anything, 9, models.ChannelScope(5)).Return(nil, models.ErrNotParticipant).Once()
	r := newRouter(t, svc, nil)

	w := do(r, http.MethodGet, "/channels/5/pinned", 9, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "not_participant", decode(t, w)["code"])
}
