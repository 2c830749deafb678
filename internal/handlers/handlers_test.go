package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"messaging-service/internal/middleware"
	"messaging-service/internal/mocks"
	"messaging-service/internal/telemetry"
)

var (
	_ ConversationService = (*mocks.ServiceMock)(nil)
	_ ChannelService      = (*mocks.ServiceMock)(nil)
	_ MessageService      = (*mocks.ServiceMock)(nil)
	_ PreferenceService   = (*mocks.ServiceMock)(nil)
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter mounts every route behind the auth middleware, backed by svc.
func newRouter(t *testing.T, svc *mocks.ServiceMock, audit *telemetry.AuditEmitter) *gin.Engine {
	t.Helper()
	log := zaptest.NewLogger(t)
	r := gin.New()
	api := r.Group("/", middleware.RequestID(), middleware.AuthMiddleware())
	RegisterRoutes(api, Handlers{
		Conversations: NewConversationHandler(svc, log),
		Channels:      NewChannelHandler(svc, audit, log),
		Messages:      NewMessageHandler(svc, log),
		Preferences:   NewPreferenceHandler(svc, log),
	})
	return r
}

func do(r http.Handler, method, path string, userID int, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(middleware.UserIDHeader, strconv.Itoa(userID))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), fmt.Sprintf("body: %s", w.Body.String()))
	return out
}
