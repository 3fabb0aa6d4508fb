package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mediconnect-backend/internal/apps/chat/models"
	"mediconnect-backend/internal/apps/chat/service"
	"mediconnect-backend/internal/common/clock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInference struct{}

func (echoInference) Complete(_ context.Context, _, user string) (string, error) {
	return "You said: " + user, nil
}

func setup() (*gin.Engine, service.ChatService, *clock.Mock) {
	gin.SetMode(gin.TestMode)
	m := clock.NewMock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := service.NewChatService(service.Options{Clock: m, Inference: echoInference{}})
	r := gin.New()
	RegisterChatRoutes(r.Group("/api/v1"), NewChatHandler(svc))
	return r, svc, m
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(streamRecorder{rec}, req)
	return rec
}

// streamRecorder lets c.Stream run against a recorder
type streamRecorder struct {
	*httptest.ResponseRecorder
}

func (streamRecorder) CloseNotify() <-chan bool {
	return make(chan bool)
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) models.SessionResponse {
	t.Helper()
	var body struct {
		Data models.SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestStartAndSend(t *testing.T) {
	r, _, m := setup()

	rec := do(r, http.MethodPost, "/api/v1/chat/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	sess := sessionFrom(t, rec)
	assert.Equal(t, "User", sess.DisplayName)

	rec = do(r, http.MethodPost, "/api/v1/chat/sessions/"+sess.ID.String()+"/messages", `{"text":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := sessionFrom(t, rec)
	require.Len(t, got.Turns, 3)
	assert.Equal(t, "hi", got.Turns[1].Text)

	m.Add(time.Second)
	rec = do(r, http.MethodGet, "/api/v1/chat/sessions/"+sess.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "You said: hi", sessionFrom(t, rec).Turns[2].Text)
}

func TestStartSession_WithName(t *testing.T) {
	r, _, _ := setup()

	rec := do(r, http.MethodPost, "/api/v1/chat/sessions", `{"display_name":"Meera"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Meera", sessionFrom(t, rec).DisplayName)
}

func TestSkip(t *testing.T) {
	r, _, _ := setup()
	sess := sessionFrom(t, do(r, http.MethodPost, "/api/v1/chat/sessions", `{"display_name":"Meera"}`))

	rec := do(r, http.MethodPost, "/api/v1/chat/sessions/"+sess.ID.String()+"/skip", "")
	require.Equal(t, http.StatusOK, rec.Code)
	turn := sessionFrom(t, rec).Turns[0]
	assert.Equal(t, service.WelcomeMessage("Meera"), turn.Text)
	assert.False(t, turn.IsRevealing)
}

func TestErrors(t *testing.T) {
	r, _, _ := setup()
	sess := sessionFrom(t, do(r, http.MethodPost, "/api/v1/chat/sessions", ""))

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/chat/sessions/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/chat/sessions/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/chat/sessions/"+sess.ID.String()+"/messages", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/chat/sessions/"+sess.ID.String()+"/messages", `{"text":"  "}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/v1/chat/sessions/"+uuid.NewString()+"/skip", "").Code)
}

func TestEndSession(t *testing.T) {
	r, _, m := setup()
	sess := sessionFrom(t, do(r, http.MethodPost, "/api/v1/chat/sessions", ""))

	rec := do(r, http.MethodDelete, "/api/v1/chat/sessions/"+sess.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, m.Pending())

	rec = do(r, http.MethodDelete, "/api/v1/chat/sessions/"+sess.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStream_SendsSnapshotTurnsAndEnd(t *testing.T) {
	r, svc, m := setup()
	sess := sessionFrom(t, do(r, http.MethodPost, "/api/v1/chat/sessions", ""))

	go func() {
		time.Sleep(20 * time.Millisecond)
		m.Add(50 * time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		_ = svc.EndSession(context.Background(), sess.ID)
	}()

	rec := do(r, http.MethodGet, "/api/v1/chat/sessions/"+sess.ID.String()+"/stream", "")

	body := rec.Body.String()
	assert.Contains(t, body, "event:session")
	assert.Contains(t, body, "event:end")
}

func TestStream_UnknownSession(t *testing.T) {
	r, _, _ := setup()
	rec := do(r, http.MethodGet, "/api/v1/chat/sessions/"+uuid.NewString()+"/stream", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
