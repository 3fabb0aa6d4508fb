package service

import (
	"context"
	"testing"

	"mediconnect-backend/internal/apps/medicine/models"
	userModels "mediconnect-backend/internal/apps/user/models"
	userRepository "mediconnect-backend/internal/apps/user/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memMedicineRepo struct {
	items map[uuid.UUID]*models.Medicine
	order []uuid.UUID
}

func newMemMedicineRepo() *memMedicineRepo {
	return &memMedicineRepo{items: make(map[uuid.UUID]*models.Medicine)}
}

func (r *memMedicineRepo) Create(_ context.Context, m *models.Medicine) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	r.items[m.ID] = &cp
	r.order = append(r.order, m.ID)
	return nil
}

func (r *memMedicineRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Medicine, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMedicineRepo) FindByUserID(_ context.Context, userID uuid.UUID, category string) ([]models.Medicine, error) {
	var out []models.Medicine
	for i := len(r.order) - 1; i >= 0; i-- {
		m, ok := r.items[r.order[i]]
		if !ok || m.UserID != userID {
			continue
		}
		if category != "" && m.Category != category {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *memMedicineRepo) Update(_ context.Context, m *models.Medicine) error {
	cp := *m
	r.items[m.ID] = &cp
	return nil
}

func (r *memMedicineRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

type knownUsers struct {
	userRepository.UserRepository
	ids map[uuid.UUID]bool
}

func (k knownUsers) FindByID(_ context.Context, id uuid.UUID) (*userModels.User, error) {
	if !k.ids[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &userModels.User{ID: id}, nil
}

func newService() (MedicineService, uuid.UUID) {
	userID := uuid.New()
	return NewMedicineService(newMemMedicineRepo(), knownUsers{ids: map[uuid.UUID]bool{userID: true}}), userID
}

func metformin(userID uuid.UUID) models.CreateMedicineRequest {
	return models.CreateMedicineRequest{
		UserID:        userID,
		Name:          " Metformin ",
		Dosage:        "500mg",
		Timing:        []string{"morning", "Night", "Morning"},
		Category:      "diabetes",
		RemainingDays: 15,
	}
}

func TestCreateMedicine(t *testing.T) {
	svc, userID := newService()

	resp, err := svc.CreateMedicine(context.Background(), metformin(userID))
	require.NoError(t, err)
	assert.Equal(t, "Metformin", resp.Name)
	assert.Equal(t, []string{"Morning", "Night"}, resp.Timing)
	assert.Equal(t, "Diabetes", resp.Category)
	assert.True(t, resp.ReminderEnabled)
}

func TestCreateMedicine_Validation(t *testing.T) {
	svc, userID := newService()
	ctx := context.Background()

	req := metformin(userID)
	req.Timing = []string{"Midnight"}
	_, err := svc.CreateMedicine(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidMedicine)

	req = metformin(userID)
	req.Category = "Vitamins"
	_, err = svc.CreateMedicine(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidMedicine)

	req = metformin(userID)
	req.Name = "  "
	_, err = svc.CreateMedicine(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidMedicine)

	_, err = svc.CreateMedicine(ctx, metformin(uuid.New()))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListMedicines_CategoryFilter(t *testing.T) {
	svc, userID := newService()
	ctx := context.Background()

	_, err := svc.CreateMedicine(ctx, metformin(userID))
	require.NoError(t, err)
	_, err = svc.CreateMedicine(ctx, models.CreateMedicineRequest{
		UserID: userID, Name: "Amlodipine", Dosage: "5mg", Timing: []string{"Morning"}, Category: "Blood Pressure",
	})
	require.NoError(t, err)

	all, err := svc.ListMedicinesByUserID(ctx, userID, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Amlodipine", all[0].Name)

	bp, err := svc.ListMedicinesByUserID(ctx, userID, "blood pressure")
	require.NoError(t, err)
	require.Len(t, bp, 1)
	assert.Equal(t, "Amlodipine", bp[0].Name)

	_, err = svc.ListMedicinesByUserID(ctx, userID, "Unknown")
	assert.ErrorIs(t, err, ErrInvalidMedicine)

	none, err := svc.ListMedicinesByUserID(ctx, uuid.New(), "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateAndReminder(t *testing.T) {
	svc, userID := newService()
	ctx := context.Background()
	created, _ := svc.CreateMedicine(ctx, metformin(userID))

	days := 7
	updated, err := svc.UpdateMedicine(ctx, created.ID, models.UpdateMedicineRequest{
		Timing:        []string{"Evening"},
		RemainingDays: &days,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Evening"}, updated.Timing)
	assert.Equal(t, 7, updated.RemainingDays)
	assert.Equal(t, "Metformin", updated.Name)

	off, err := svc.SetReminder(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, off.ReminderEnabled)

	got, _ := svc.GetMedicineByID(ctx, created.ID)
	assert.False(t, got.ReminderEnabled)

	_, err = svc.SetReminder(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ErrMedicineNotFound)
}

func TestDeleteMedicine(t *testing.T) {
	svc, userID := newService()
	ctx := context.Background()
	created, _ := svc.CreateMedicine(ctx, metformin(userID))

	require.NoError(t, svc.DeleteMedicine(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteMedicine(ctx, created.ID), ErrMedicineNotFound)
	_, err := svc.GetMedicineByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrMedicineNotFound)
}

func TestTimingsValue(t *testing.T) {
	v, err := models.Timings(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	var ts models.Timings
	require.NoError(t, ts.Scan([]byte(`["Morning","Night"]`)))
	assert.Equal(t, models.Timings{"Morning", "Night"}, ts)
}
