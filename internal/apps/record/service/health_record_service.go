package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediconnect-backend/internal/apps/record/models"
	"mediconnect-backend/internal/apps/record/repository"
	userRepository "mediconnect-backend/internal/apps/user/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound is returned when no health record matches
	ErrRecordNotFound = errors.New("health record not found")
	// ErrUserNotFound is returned when the owning user does not exist
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRecord marks request values that fail validation
	ErrInvalidRecord = errors.New("invalid health record")
)

// HealthRecordService defines the interface for health record business logic
type HealthRecordService interface {
	CreateRecord(ctx context.Context, req models.CreateRecordRequest) (*models.RecordResponse, error)
	GetRecordByID(ctx context.Context, id uuid.UUID) (*models.RecordResponse, error)
	ListRecordsByUserID(ctx context.Context, userID uuid.UUID, category string) ([]models.RecordResponse, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
}

type healthRecordService struct {
	repo     repository.HealthRecordRepository
	userRepo userRepository.UserRepository
}

// NewHealthRecordService creates a new instance of HealthRecordService
func NewHealthRecordService(repo repository.HealthRecordRepository, userRepo userRepository.UserRepository) HealthRecordService {
	return &healthRecordService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// canonical matches value case-insensitively against options and returns the listed spelling
func canonical(value string, options []string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, opt := range options {
		if strings.EqualFold(opt, value) {
			return opt, true
		}
	}
	return "", false
}

func normalizeResults(in []models.TestResult) (models.TestResults, error) {
	out := make(models.TestResults, 0, len(in))
	for _, r := range in {
		param := strings.TrimSpace(r.Parameter)
		if param == "" {
			return nil, fmt.Errorf("%w: result parameter is required", ErrInvalidRecord)
		}
		status, ok := canonical(r.Status, models.ResultStatusOptions)
		if !ok {
			return nil, fmt.Errorf("%w: unknown result status %q for %s", ErrInvalidRecord, r.Status, param)
		}
		out = append(out, models.TestResult{
			Parameter: param,
			Value:     strings.TrimSpace(r.Value),
			Unit:      strings.TrimSpace(r.Unit),
			Status:    status,
		})
	}
	return out, nil
}

// CreateRecord files a health record for an existing user
func (s *healthRecordService) CreateRecord(ctx context.Context, req models.CreateRecordRequest) (*models.RecordResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required and cannot be empty", ErrInvalidRecord)
	}
	category, ok := canonical(req.Category, models.CategoryOptions)
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidRecord, req.Category)
	}
	fileType, ok := canonical(req.FileType, models.FileTypeOptions)
	if !ok {
		return nil, fmt.Errorf("%w: unknown file type %q", ErrInvalidRecord, req.FileType)
	}
	date, err := time.Parse(models.DateLayout, strings.TrimSpace(req.RecordDate))
	if err != nil {
		return nil, fmt.Errorf("%w: record_date must be YYYY-MM-DD", ErrInvalidRecord)
	}
	results, err := normalizeResults(req.Results)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	record := &models.HealthRecord{
		UserID:      req.UserID,
		Type:        strings.TrimSpace(req.Type),
		Category:    category,
		RecordDate:  date,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		FileType:    fileType,
		FileURL:     strings.TrimSpace(req.FileURL),
		Results:     results,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	resp := record.ToResponse()
	return &resp, nil
}

// GetRecordByID retrieves a health record by ID
func (s *healthRecordService) GetRecordByID(ctx context.Context, id uuid.UUID) (*models.RecordResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	resp := record.ToResponse()
	return &resp, nil
}

// ListRecordsByUserID lists a user's records; an empty or "all" category lists everything
func (s *healthRecordService) ListRecordsByUserID(ctx context.Context, userID uuid.UUID, category string) ([]models.RecordResponse, error) {
	filter := ""
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, "all") {
		normalized, ok := canonical(c, models.CategoryOptions)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidRecord, category)
		}
		filter = normalized
	}

	records, err := s.repo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]models.RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, records[i].ToResponse())
	}
	return responses, nil
}

// DeleteRecord removes a health record
func (s *healthRecordService) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}
