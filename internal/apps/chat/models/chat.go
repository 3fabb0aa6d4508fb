package models

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies who authored a turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SkipThreshold is the revealed length a turn must exceed before skip is offered
const SkipThreshold = 40

// ChatTurn is one message in a session transcript. RevealedLength counts
// runes of FullText currently shown to the user.
type ChatTurn struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID      uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	Seq            int       `gorm:"not null" json:"seq"`
	Role           Role      `gorm:"size:16;not null" json:"role"`
	FullText       string    `gorm:"type:text;not null" json:"full_text"`
	RevealedLength int       `gorm:"not null" json:"revealed_length"`
	IsRevealing    bool      `gorm:"-" json:"is_revealing"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName sets the table name to 'chat_turns'
func (ChatTurn) TableName() string { return "chat_turns" }

// BeforeCreate hook to generate UUID before creating record
func (t *ChatTurn) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Length returns the length of FullText in runes
func (t *ChatTurn) Length() int {
	return utf8.RuneCountInString(t.FullText)
}

// RevealedText returns the prefix of FullText currently shown
func (t *ChatTurn) RevealedText() string {
	if t.RevealedLength >= t.Length() {
		return t.FullText
	}
	return string([]rune(t.FullText)[:t.RevealedLength])
}

// TurnResponse is the client view of a turn
type TurnResponse struct {
	ID             uuid.UUID `json:"id"`
	Seq            int       `json:"seq"`
	Role           Role      `json:"role"`
	Text           string    `json:"text"`
	RevealedLength int       `json:"revealed_length"`
	Length         int       `json:"length"`
	IsRevealing    bool      `json:"is_revealing"`
	CanSkip        bool      `json:"can_skip"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse converts ChatTurn to TurnResponse
func (t *ChatTurn) ToResponse() TurnResponse {
	return TurnResponse{
		ID:             t.ID,
		Seq:            t.Seq,
		Role:           t.Role,
		Text:           t.RevealedText(),
		RevealedLength: t.RevealedLength,
		Length:         t.Length(),
		IsRevealing:    t.IsRevealing,
		CanSkip:        t.IsRevealing && t.RevealedLength > SkipThreshold,
		CreatedAt:      t.CreatedAt,
	}
}

// StartSessionRequest opens a chat session. DisplayName is used for the
// welcome banner when no user is linked.
type StartSessionRequest struct {
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
}

// SendMessageRequest is a user message
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// SessionResponse is the client view of a session and its transcript
type SessionResponse struct {
	ID          uuid.UUID      `json:"id"`
	UserID      *uuid.UUID     `json:"user_id,omitempty"`
	DisplayName string         `json:"display_name"`
	Turns       []TurnResponse `json:"turns"`
	CreatedAt   time.Time      `json:"created_at"`
}
