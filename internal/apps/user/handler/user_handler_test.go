package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediconnect-backend/internal/apps/user/models"
	"mediconnect-backend/internal/apps/user/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubUserService struct {
	service.UserService
	user *models.UserResponse
	err  error
}

func (s *stubUserService) CreateUser(context.Context, models.CreateUserRequest) (*models.UserResponse, error) {
	return s.user, s.err
}

func (s *stubUserService) GetUserByID(context.Context, uuid.UUID) (*models.UserResponse, error) {
	return s.user, s.err
}

func (s *stubUserService) GetUserByPhone(context.Context, string) (*models.UserResponse, error) {
	return s.user, s.err
}

func (s *stubUserService) UpdateUser(context.Context, uuid.UUID, models.UpdateUserRequest) (*models.UserResponse, error) {
	return s.user, s.err
}

func newRouter(svc service.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterUserRoutes(r.Group("/api/v1"), NewUserHandler(svc))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateUser(t *testing.T) {
	r := newRouter(&stubUserService{user: &models.UserResponse{ID: uuid.New(), FullName: "Asha"}})

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/users", `{"full_name":"Asha"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/users", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/users", `{"full_name":"A","email":"nope"}`).Code)
}

func TestCreateUser_InvalidPhone(t *testing.T) {
	r := newRouter(&stubUserService{err: fmt.Errorf("%w: phone must be exactly 10 digits", service.ErrInvalidUser)})

	rec := do(r, http.MethodPost, "/api/v1/users", `{"full_name":"Asha","phone":"12"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "10 digits")
}

func TestGetUser(t *testing.T) {
	r := newRouter(&stubUserService{user: &models.UserResponse{FullName: "Asha"}})
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/users/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/users/xyz", "").Code)

	r = newRouter(&stubUserService{err: service.ErrUserNotFound})
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/users/"+uuid.NewString(), "").Code)
}

func TestGetUserByPhone(t *testing.T) {
	r := newRouter(&stubUserService{user: &models.UserResponse{FullName: "Asha"}})
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/users/by-phone?phone=9876543210", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/users/by-phone", "").Code)
}

func TestUpdateUser(t *testing.T) {
	r := newRouter(&stubUserService{user: &models.UserResponse{FullName: "Asha R"}})
	rec := do(r, http.MethodPut, "/api/v1/users/"+uuid.NewString(), `{"full_name":"Asha R"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Asha R")
}
