package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimingOptions are the slots a dose can be taken in
var TimingOptions = []string{"Morning", "Afternoon", "Evening", "Night"}

// CategoryOptions lists the medicine categories offered to users
var CategoryOptions = []string{"Diabetes", "Blood Pressure", "Heart", "Supplements", "Pain Relief", "Antibiotics"}

// Timings is a JSONB list of dose slots
type Timings []string

// Scan implements the sql.Scanner interface for Timings
func (t *Timings) Scan(value interface{}) error {
	if value == nil {
		*t = Timings{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for timings")
	}
	return json.Unmarshal(bytes, t)
}

// Value implements the driver.Valuer interface for Timings
func (t Timings) Value() (driver.Value, error) {
	if t == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(t))
}

// Medicine is a prescription a user tracks
type Medicine struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name            string         `gorm:"not null;size:255" json:"name"`
	Dosage          string         `gorm:"not null;size:100" json:"dosage"`
	Timing          Timings        `gorm:"type:jsonb;not null;default:'[]'" json:"timing"`
	Category        string         `gorm:"not null;size:50;index" json:"category"`
	Instructions    *string        `gorm:"type:text" json:"instructions,omitempty"`
	RemainingDays   int            `gorm:"not null;default:0" json:"remaining_days"`
	ReminderEnabled bool           `gorm:"not null;default:true" json:"reminder_enabled"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate UUID before creating record
func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CreateMedicineRequest represents the request body for adding a medicine
type CreateMedicineRequest struct {
	UserID          uuid.UUID `json:"user_id" binding:"required"`
	Name            string    `json:"name" binding:"required,min=1,max=255"`
	Dosage          string    `json:"dosage" binding:"required,min=1,max=100"`
	Timing          []string  `json:"timing" binding:"required,min=1"`
	Category        string    `json:"category" binding:"required"`
	Instructions    *string   `json:"instructions,omitempty"`
	RemainingDays   int       `json:"remaining_days" binding:"gte=0"`
	ReminderEnabled *bool     `json:"reminder_enabled,omitempty"`
}

// UpdateMedicineRequest represents the request body for editing a medicine
type UpdateMedicineRequest struct {
	Name          *string  `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Dosage        *string  `json:"dosage,omitempty" binding:"omitempty,min=1,max=100"`
	Timing        []string `json:"timing,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Instructions  *string  `json:"instructions,omitempty"`
	RemainingDays *int     `json:"remaining_days,omitempty" binding:"omitempty,gte=0"`
}

// ReminderRequest toggles reminders for a medicine
type ReminderRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// MedicineResponse represents the response payload for medicine operations
type MedicineResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	Dosage          string    `json:"dosage"`
	Timing          []string  `json:"timing"`
	Category        string    `json:"category"`
	Instructions    *string   `json:"instructions,omitempty"`
	RemainingDays   int       `json:"remaining_days"`
	ReminderEnabled bool      `json:"reminder_enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToResponse converts Medicine model to MedicineResponse
func (m *Medicine) ToResponse() MedicineResponse {
	timing := []string(m.Timing)
	if timing == nil {
		timing = []string{}
	}
	return MedicineResponse{
		ID:              m.ID,
		UserID:          m.UserID,
		Name:            m.Name,
		Dosage:          m.Dosage,
		Timing:          timing,
		Category:        m.Category,
		Instructions:    m.Instructions,
		RemainingDays:   m.RemainingDays,
		ReminderEnabled: m.ReminderEnabled,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
