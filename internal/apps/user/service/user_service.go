package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediconnect-backend/internal/apps/user/models"
	"mediconnect-backend/internal/apps/user/repository"
	"mediconnect-backend/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when no user matches
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidUser marks request values that fail validation
	ErrInvalidUser = errors.New("invalid user")
)

// UserService defines the interface for user business logic
type UserService interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req models.UpdateUserRequest) (*models.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.UserResponse, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.UserResponse, error)
	ListUsers(ctx context.Context, page, pageSize int) (*models.PaginatedUsersResponse, error)
	MarkMobileVerified(ctx context.Context, id uuid.UUID, phone string) error
	DisplayName(ctx context.Context, id uuid.UUID) (string, error)
}

// userService implements UserService
type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new instance of UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// validatePhone normalizes an optional phone number in place
func validatePhone(phone *string) error {
	if phone == nil {
		return nil
	}
	normalized, ok := utils.NormalizePhone(*phone)
	if !ok {
		return fmt.Errorf("%w: phone must be exactly 10 digits", ErrInvalidUser)
	}
	*phone = normalized
	return nil
}

func (s *userService) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateUser creates a new user
func (s *userService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.UserResponse, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, fmt.Errorf("%w: full_name cannot be empty", ErrInvalidUser)
	}
	if err := validatePhone(req.Phone); err != nil {
		return nil, err
	}

	// Build model
	user := &models.User{
		FullName: name,
		Email:    req.Email,
		Phone:    req.Phone,
		Metadata: req.Metadata,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// GetUserByPhone retrieves a user by 10-digit phone
func (s *userService) GetUserByPhone(ctx context.Context, phone string) (*models.UserResponse, error) {
	if err := validatePhone(&phone); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// ListUsers returns a page of users, newest first
func (s *userService) ListUsers(ctx context.Context, page, pageSize int) (*models.PaginatedUsersResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	users, total, err := s.repo.FindAllPaginated(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := &models.PaginatedUsersResponse{
		Data:       make([]models.UserResponse, 0, len(users)),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
	for i := range users {
		resp.Data = append(resp.Data, users[i].ToResponse())
	}
	if page < totalPages {
		next := page + 1
		resp.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		resp.PrevPage = &prev
	}
	return resp, nil
}

// UpdateUser updates an existing user
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req models.UpdateUserRequest) (*models.UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply updates if provided
	if req.FullName != nil {
		trimmed := strings.TrimSpace(*req.FullName)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: full_name cannot be empty", ErrInvalidUser)
		}
		user.FullName = trimmed
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Phone != nil {
		if err := validatePhone(req.Phone); err != nil {
			return nil, err
		}
		if user.Phone == nil || *user.Phone != *req.Phone {
			user.MobileVerified = false
		}
		user.Phone = req.Phone
	}
	// Merge metadata if provided (partial update)
	if len(req.Metadata) > 0 {
		if user.Metadata == nil {
			user.Metadata = make(models.Metadata)
		}
		for key, value := range req.Metadata {
			user.Metadata[key] = value
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// MarkMobileVerified records that the user proved possession of phone
func (s *userService) MarkMobileVerified(ctx context.Context, id uuid.UUID, phone string) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	user.Phone = &phone
	user.MobileVerified = true
	return s.repo.Update(ctx, user)
}

// DisplayName returns the user's full name for greetings
func (s *userService) DisplayName(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	return user.FullName, nil
}
