package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediconnect-backend/internal/apps/medicine/models"
	"mediconnect-backend/internal/apps/medicine/repository"
	userRepository "mediconnect-backend/internal/apps/user/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrMedicineNotFound is returned when no medicine matches
	ErrMedicineNotFound = errors.New("medicine not found")
	// ErrUserNotFound is returned when the owning user does not exist
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidMedicine marks request values that fail validation
	ErrInvalidMedicine = errors.New("invalid medicine")
)

// MedicineService defines the interface for medicine business logic
type MedicineService interface {
	CreateMedicine(ctx context.Context, req models.CreateMedicineRequest) (*models.MedicineResponse, error)
	UpdateMedicine(ctx context.Context, id uuid.UUID, req models.UpdateMedicineRequest) (*models.MedicineResponse, error)
	GetMedicineByID(ctx context.Context, id uuid.UUID) (*models.MedicineResponse, error)
	ListMedicinesByUserID(ctx context.Context, userID uuid.UUID, category string) ([]models.MedicineResponse, error)
	SetReminder(ctx context.Context, id uuid.UUID, enabled bool) (*models.MedicineResponse, error)
	DeleteMedicine(ctx context.Context, id uuid.UUID) error
}

// medicineService implements MedicineService
type medicineService struct {
	repo     repository.MedicineRepository
	userRepo userRepository.UserRepository
}

// NewMedicineService creates a new instance of MedicineService
func NewMedicineService(repo repository.MedicineRepository, userRepo userRepository.UserRepository) MedicineService {
	return &medicineService{
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

// normalizeTiming validates slots and drops duplicates, keeping first-seen order
func normalizeTiming(timing []string) (models.Timings, error) {
	if len(timing) == 0 {
		return nil, fmt.Errorf("%w: at least one timing is required", ErrInvalidMedicine)
	}
	seen := make(map[string]bool, len(timing))
	out := make(models.Timings, 0, len(timing))
	for _, t := range timing {
		slot, ok := canonical(t, models.TimingOptions)
		if !ok {
			return nil, fmt.Errorf("%w: unknown timing %q", ErrInvalidMedicine, t)
		}
		if !seen[slot] {
			seen[slot] = true
			out = append(out, slot)
		}
	}
	return out, nil
}

func normalizeCategory(category string) (string, error) {
	c, ok := canonical(category, models.CategoryOptions)
	if !ok {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidMedicine, category)
	}
	return c, nil
}

func (s *medicineService) find(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	medicine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}
	return medicine, nil
}

// CreateMedicine adds a medicine for an existing user
func (s *medicineService) CreateMedicine(ctx context.Context, req models.CreateMedicineRequest) (*models.MedicineResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required and cannot be empty", ErrInvalidMedicine)
	}
	timing, err := normalizeTiming(req.Timing)
	if err != nil {
		return nil, err
	}
	category, err := normalizeCategory(req.Category)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	reminder := true
	if req.ReminderEnabled != nil {
		reminder = *req.ReminderEnabled
	}

	medicine := &models.Medicine{
		UserID:          req.UserID,
		Name:            name,
		Dosage:          strings.TrimSpace(req.Dosage),
		Timing:          timing,
		Category:        category,
		Instructions:    req.Instructions,
		RemainingDays:   req.RemainingDays,
		ReminderEnabled: reminder,
	}

	if err := s.repo.Create(ctx, medicine); err != nil {
		return nil, err
	}
	resp := medicine.ToResponse()
	return &resp, nil
}

// UpdateMedicine applies a partial update
func (s *medicineService) UpdateMedicine(ctx context.Context, id uuid.UUID, req models.UpdateMedicineRequest) (*models.MedicineResponse, error) {
	medicine, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply updates if provided
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidMedicine)
		}
		medicine.Name = name
	}
	if req.Dosage != nil {
		medicine.Dosage = strings.TrimSpace(*req.Dosage)
	}
	if req.Timing != nil {
		timing, err := normalizeTiming(req.Timing)
		if err != nil {
			return nil, err
		}
		medicine.Timing = timing
	}
	if req.Category != nil {
		category, err := normalizeCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		medicine.Category = category
	}
	if req.Instructions != nil {
		medicine.Instructions = req.Instructions
	}
	if req.RemainingDays != nil {
		medicine.RemainingDays = *req.RemainingDays
	}

	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, err
	}
	resp := medicine.ToResponse()
	return &resp, nil
}

// GetMedicineByID retrieves a medicine by ID
func (s *medicineService) GetMedicineByID(ctx context.Context, id uuid.UUID) (*models.MedicineResponse, error) {
	medicine, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := medicine.ToResponse()
	return &resp, nil
}

// ListMedicinesByUserID lists a user's medicines; an empty or "all" category lists everything
func (s *medicineService) ListMedicinesByUserID(ctx context.Context, userID uuid.UUID, category string) ([]models.MedicineResponse, error) {
	filter := ""
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, "all") {
		normalized, err := normalizeCategory(c)
		if err != nil {
			return nil, err
		}
		filter = normalized
	}

	medicines, err := s.repo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]models.MedicineResponse, 0, len(medicines))
	for i := range medicines {
		responses = append(responses, medicines[i].ToResponse())
	}
	return responses, nil
}

// SetReminder turns dose reminders on or off
func (s *medicineService) SetReminder(ctx context.Context, id uuid.UUID, enabled bool) (*models.MedicineResponse, error) {
	medicine, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	medicine.ReminderEnabled = enabled
	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, err
	}
	resp := medicine.ToResponse()
	return &resp, nil
}

// DeleteMedicine removes a medicine
func (s *medicineService) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMedicineNotFound
		}
		return err
	}
	return nil
}
