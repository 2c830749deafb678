package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"messaging-service/internal/models"
)

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindConflict:
		return http.StatusConflict
	case models.KindInvalidState:
		return http.StatusUnprocessableEntity
	case models.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondError writes err. Unexpected errors are logged and hidden from the client.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("request_id", requestIDFromContext(c)),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var domainErr *models.Error
	if errors.As(err, &domainErr) {
		body["kind"] = domainErr.Kind
		if domainErr.Code != "" {
			body["code"] = domainErr.Code
		}
	}
	c.JSON(status, body)
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// parsePage reads the before, after and limit query parameters.
func parsePage(c *gin.Context) (models.Page, bool) {
	var page models.Page
	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{{"before", &page.Before}, {"after", &page.After}} {
		raw := c.Query(bound.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + bound.name + " cursor"})
			return models.Page{}, false
		}
		*bound.dst = &t
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return models.Page{}, false
		}
		page.Limit = limit
	}
	return page.Normalize(), true
}

type messageRequest struct {
	Content          string `json:"content"`
	FileURL          string `json:"file_url"`
	ReplyToMessageID *int   `json:"reply_to_message_id"`
	IsForwarded      bool   `json:"is_forwarded"`
}

func (r messageRequest) draft() models.MessageDraft {
	return models.MessageDraft{
		Content:          r.Content,
		FileURL:          r.FileURL,
		ReplyToMessageID: r.ReplyToMessageID,
		IsForwarded:      r.IsForwarded,
	}
}
