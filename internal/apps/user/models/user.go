package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Metadata is a custom type for JSONB fields
type Metadata map[string]interface{}

// Scan implements the sql.Scanner interface for Metadata
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = make(Metadata)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Value implements the driver.Valuer interface for Metadata
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(make(map[string]interface{}))
	}
	return json.Marshal(m)
}

// User is a patient profile. Phone is a 10-digit mobile number and
// MobileVerified flips once an OTP for it is verified.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName       string         `gorm:"not null;size:255" json:"full_name"`
	Email          *string        `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Phone          *string        `gorm:"size:10;index" json:"phone,omitempty"`
	MobileVerified bool           `gorm:"not null;default:false" json:"mobile_verified"`
	Metadata       Metadata       `gorm:"type:jsonb;not null;default:'{}';" json:"metadata"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate UUID before creating record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CreateUserRequest represents the request body for signup
type CreateUserRequest struct {
	FullName string   `json:"full_name" binding:"required,min=1,max=255"`
	Email    *string  `json:"email,omitempty" binding:"omitempty,email"`
	Phone    *string  `json:"phone,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// UpdateUserRequest represents the request body for updating a profile.
// Changing the phone clears MobileVerified.
type UpdateUserRequest struct {
	FullName *string  `json:"full_name,omitempty" binding:"omitempty,min=1,max=255"`
	Email    *string  `json:"email,omitempty" binding:"omitempty,email"`
	Phone    *string  `json:"phone,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// UserResponse represents the response payload for user operations
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	MobileVerified bool      `json:"mobile_verified"`
	Metadata       Metadata  `json:"metadata"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToResponse converts User model to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		Phone:          u.Phone,
		MobileVerified: u.MobileVerified,
		Metadata:       u.Metadata,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// PaginatedUsersResponse represents a page of users
type PaginatedUsersResponse struct {
	Data       []UserResponse `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"total_pages"`
	NextPage   *int           `json:"next_page"`
	PrevPage   *int           `json:"prev_page"`
}
