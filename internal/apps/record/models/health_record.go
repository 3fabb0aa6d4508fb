package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the calendar-date format records are exchanged in
const DateLayout = "2006-01-02"

// CategoryOptions lists the record categories offered to users
var CategoryOptions = []string{"Blood Tests", "Imaging", "Signals", "Reports", "Prescriptions"}

// FileTypeOptions are the attachment kinds a record can carry
var FileTypeOptions = []string{"pdf", "image", "signal"}

// ResultStatusOptions grade a measured value against its reference range
var ResultStatusOptions = []string{"normal", "high", "low"}

// TestResult is one measured parameter of a lab report
type TestResult struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
	Unit      string `json:"unit"`
	Status    string `json:"status"`
}

// TestResults is a JSONB list of measured parameters
type TestResults []TestResult

// Scan implements the sql.Scanner interface for TestResults
func (r *TestResults) Scan(value interface{}) error {
	if value == nil {
		*r = TestResults{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for test results")
	}
	return json.Unmarshal(bytes, r)
}

// Value implements the driver.Valuer interface for TestResults
func (r TestResults) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal([]TestResult{})
	}
	return json.Marshal([]TestResult(r))
}

// HealthRecord is a medical document a user keeps on file
type HealthRecord struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string         `gorm:"not null;size:100" json:"type"`
	Category    string         `gorm:"not null;size:50;index" json:"category"`
	RecordDate  time.Time      `gorm:"type:date;not null" json:"record_date"`
	Title       string         `gorm:"not null;size:255" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	FileType    string         `gorm:"not null;size:20" json:"file_type"`
	FileURL     string         `gorm:"size:1024" json:"file_url"`
	Results     TestResults    `gorm:"type:jsonb;not null;default:'[]'" json:"results"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate hook to generate UUID before creating record
func (h *HealthRecord) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// CreateRecordRequest represents the request body for filing a record
type CreateRecordRequest struct {
	UserID      uuid.UUID    `json:"user_id" binding:"required"`
	Type        string       `json:"type" binding:"required,min=1,max=100"`
	Category    string       `json:"category" binding:"required"`
	RecordDate  string       `json:"record_date" binding:"required"`
	Title       string       `json:"title" binding:"required,min=1,max=255"`
	Description string       `json:"description"`
	FileType    string       `json:"file_type" binding:"required"`
	FileURL     string       `json:"file_url" binding:"omitempty,url"`
	Results     []TestResult `json:"results,omitempty"`
}

// RecordResponse represents the response payload for record operations
type RecordResponse struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Type        string       `json:"type"`
	Category    string       `json:"category"`
	RecordDate  string       `json:"record_date"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	FileType    string       `json:"file_type"`
	FileURL     string       `json:"file_url,omitempty"`
	Results     []TestResult `json:"results"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ToResponse converts HealthRecord model to RecordResponse
func (h *HealthRecord) ToResponse() RecordResponse {
	results := []TestResult(h.Results)
	if results == nil {
		results = []TestResult{}
	}
	return RecordResponse{
		ID:          h.ID,
		UserID:      h.UserID,
		Type:        h.Type,
		Category:    h.Category,
		RecordDate:  h.RecordDate.Format(DateLayout),
		Title:       h.Title,
		Description: h.Description,
		FileType:    h.FileType,
		FileURL:     h.FileURL,
		Results:     results,
		CreatedAt:   h.CreatedAt,
	}
}
