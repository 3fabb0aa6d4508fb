package repository

import (
	"context"

	"mediconnect-backend/internal/apps/chat/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatTurnRepository persists finalized turns
type ChatTurnRepository interface {
	Create(ctx context.Context, turn *models.ChatTurn) error
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]models.ChatTurn, error)
}

// chatTurnRepository implements ChatTurnRepository
type chatTurnRepository struct {
	db *gorm.DB
}

// NewChatTurnRepository creates a new instance of ChatTurnRepository
func NewChatTurnRepository(db *gorm.DB) ChatTurnRepository {
	return &chatTurnRepository{db: db}
}

func (r *chatTurnRepository) Create(ctx context.Context, turn *models.ChatTurn) error {
	return r.db.WithContext(ctx).Create(turn).Error
}

// FindBySession returns the session's turns in transcript order
func (r *chatTurnRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]models.ChatTurn, error) {
	var turns []models.ChatTurn
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("seq ASC").Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}
