package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"mediconnect-backend/internal/apps/chat/models"
	"mediconnect-backend/internal/apps/chat/repository"
	"mediconnect-backend/internal/common/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDisplayName greets sessions that carry no name
const DefaultDisplayName = "User"

const persistTimeout = 5 * time.Second

// UserDirectory resolves a linked user's name for the welcome banner
type UserDirectory interface {
	DisplayName(ctx context.Context, userID uuid.UUID) (string, error)
}

// ChatService defines business logic for assistant chat sessions
type ChatService interface {
	StartSession(ctx context.Context, req models.StartSessionRequest) (*models.SessionResponse, error)
	SendMessage(ctx context.Context, sessionID uuid.UUID, req models.SendMessageRequest) (*models.SessionResponse, error)
	Skip(ctx context.Context, sessionID uuid.UUID) (*models.SessionResponse, error)
	Transcript(ctx context.Context, sessionID uuid.UUID) (*models.SessionResponse, error)
	Subscribe(ctx context.Context, sessionID uuid.UUID) (<-chan struct{}, func(), error)
	EndSession(ctx context.Context, sessionID uuid.UUID) error
	Close()
}

// Options configures a ChatService. Repo and Users are optional.
type Options struct {
	Clock     clock.Clock
	Inference InferenceClient
	Repo      repository.ChatTurnRepository
	Users     UserDirectory
	Logger    *zap.Logger
}

type session struct {
	id          uuid.UUID
	userID      *uuid.UUID
	displayName string
	createdAt   time.Time
	transcript  *Transcript
}

// chatService implements ChatService
type chatService struct {
	clock     clock.Clock
	inference InferenceClient
	repo      repository.ChatTurnRepository
	users     UserDirectory
	logger    *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// NewChatService creates a new instance of ChatService
func NewChatService(opts Options) ChatService {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &chatService{
		clock:     opts.Clock,
		inference: opts.Inference,
		repo:      opts.Repo,
		users:     opts.Users,
		logger:    opts.Logger,
		sessions:  make(map[uuid.UUID]*session),
	}
}

// WelcomeMessage is the banner revealed when a session opens
func WelcomeMessage(name string) string {
	return fmt.Sprintf("Hello %s! I'm Baymax, your personal healthcare companion. How can I help you today?", name)
}

// StartSession opens a session and starts revealing the welcome banner
func (s *chatService) StartSession(ctx context.Context, req models.StartSessionRequest) (*models.SessionResponse, error) {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" && req.UserID != nil && s.users != nil {
		resolved, err := s.users.DisplayName(ctx, *req.UserID)
		if err != nil {
			s.logger.Warn("could not resolve display name", zap.String("user_id", req.UserID.String()), zap.Error(err))
		}
		name = strings.TrimSpace(resolved)
	}
	if name == "" {
		name = DefaultDisplayName
	}

	sess := &session{
		id:          uuid.New(),
		userID:      req.UserID,
		displayName: name,
		createdAt:   s.clock.Now(),
	}
	sess.transcript = NewTranscript(s.clock, sess.id, s.persist)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	sess.transcript.BeginReveal(models.RoleAssistant, WelcomeMessage(name), WelcomeRevealInterval)
	s.logger.Info("chat session started", zap.String("session_id", sess.id.String()))

	return sess.toResponse(), nil
}

// SendMessage records the user's message, asks the inference endpoint for a
// reply and starts revealing it. Inference failures reveal FallbackReply.
func (s *chatService) SendMessage(ctx context.Context, sessionID uuid.UUID, req models.SendMessageRequest) (*models.SessionResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrValidation)
	}

	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.transcript.Append(models.RoleUser, text)

	reply, err := s.complete(ctx, text)
	if err != nil {
		s.logger.Warn("inference failed, using fallback reply",
			zap.String("session_id", sessionID.String()), zap.Error(err))
		reply = FallbackReply
	}

	sess.transcript.BeginReveal(models.RoleAssistant, reply, AssistantRevealInterval)
	return sess.toResponse(), nil
}

func (s *chatService) complete(ctx context.Context, text string) (string, error) {
	if s.inference == nil {
		return "", ErrInferenceUnavailable
	}
	return s.inference.Complete(ctx, SystemPrompt, text)
}

// Skip jumps the active reveal to its full text; no-op when none is running
func (s *chatService) Skip(_ context.Context, sessionID uuid.UUID) (*models.SessionResponse, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.transcript.SkipActive()
	return sess.toResponse(), nil
}

// Transcript returns the live transcript, or the persisted turns of an ended session
func (s *chatService) Transcript(ctx context.Context, sessionID uuid.UUID) (*models.SessionResponse, error) {
	sess, err := s.get(sessionID)
	if err == nil {
		return sess.toResponse(), nil
	}
	if s.repo == nil {
		return nil, err
	}

	turns, rerr := s.repo.FindBySession(ctx, sessionID)
	if rerr != nil {
		return nil, rerr
	}
	if len(turns) == 0 {
		return nil, ErrSessionNotFound
	}
	resp := &models.SessionResponse{ID: sessionID, Turns: make([]models.TurnResponse, len(turns)), CreatedAt: turns[0].CreatedAt}
	for i := range turns {
		resp.Turns[i] = turns[i].ToResponse()
	}
	return resp, nil
}

func (s *chatService) Subscribe(_ context.Context, sessionID uuid.UUID) (<-chan struct{}, func(), error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := sess.transcript.Subscribe()
	return ch, cancel, nil
}

// EndSession stops the session's timers and forgets it
func (s *chatService) EndSession(_ context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.transcript.Close()
	s.logger.Info("chat session ended", zap.String("session_id", sessionID.String()))
	return nil
}

// Close ends every session
func (s *chatService) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[uuid.UUID]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.transcript.Close()
	}
}

func (s *chatService) get(id uuid.UUID) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// persist stores a finalized turn; runs on the reveal timer
func (s *chatService) persist(turn models.ChatTurn) {
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.repo.Create(ctx, &turn); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("failed to persist chat turn",
			zap.String("session_id", turn.SessionID.String()), zap.Int("seq", turn.Seq), zap.Error(err))
	}
}

func (sess *session) toResponse() *models.SessionResponse {
	turns := sess.transcript.Turns()
	resp := &models.SessionResponse{
		ID:          sess.id,
		UserID:      sess.userID,
		DisplayName: sess.displayName,
		Turns:       make([]models.TurnResponse, len(turns)),
		CreatedAt:   sess.createdAt,
	}
	for i := range turns {
		resp.Turns[i] = turns[i].ToResponse()
	}
	return resp
}
