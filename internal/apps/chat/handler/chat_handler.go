package handler

import (
	"errors"
	"io"
	"net/http"

	"mediconnect-backend/internal/apps/chat/models"
	"mediconnect-backend/internal/apps/chat/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles HTTP requests for assistant chat
type ChatHandler struct {
	service service.ChatService
}

// NewChatHandler creates a new instance of ChatHandler
func NewChatHandler(service service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

// StartSession handles POST /api/v1/chat/sessions
func (h *ChatHandler) StartSession(c *gin.Context) {
	var req models.StartSessionRequest
	// empty body is allowed
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	resp, err := h.service.StartSession(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// GetSession handles GET /api/v1/chat/sessions/:id
func (h *ChatHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.Transcript(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// SendMessage handles POST /api/v1/chat/sessions/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.SendMessage(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Skip handles POST /api/v1/chat/sessions/:id/skip
func (h *ChatHandler) Skip(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.Skip(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// EndSession handles DELETE /api/v1/chat/sessions/:id
func (h *ChatHandler) EndSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.service.EndSession(c.Request.Context(), id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session ended"})
}

// Stream handles GET /api/v1/chat/sessions/:id/stream
// It sends a "session" snapshot, then a "turn" event for every turn whose
// visible text changed, and "end" when the session is closed.
func (h *ChatHandler) Stream(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	changes, cancel, err := h.service.Subscribe(ctx, id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	defer cancel()

	snapshot, err := h.service.Transcript(ctx, id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	sent := make(map[uuid.UUID]models.TurnResponse, len(snapshot.Turns))
	for _, t := range snapshot.Turns {
		sent[t.ID] = t
	}
	c.SSEvent("session", snapshot)

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case _, open := <-changes:
			if !open {
				c.SSEvent("end", gin.H{"session_id": id})
				return false
			}
			current, err := h.service.Transcript(ctx, id)
			if err != nil {
				c.SSEvent("end", gin.H{"session_id": id})
				return false
			}
			for _, t := range current.Turns {
				prev, seen := sent[t.ID]
				if seen && prev.RevealedLength == t.RevealedLength && prev.IsRevealing == t.IsRevealing {
					continue
				}
				sent[t.ID] = t
				c.SSEvent("turn", t)
			}
			return true
		}
	})
}
