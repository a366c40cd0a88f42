package handler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"claimflow-system/internal/apperr"
	"claimflow-system/internal/database/models"
	usershandler "claimflow-system/internal/services/users/handler"
)

func newTestHandler(t *testing.T) (*HRHandler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.Principal{},
		&models.EmployeeProfile{},
		&models.Claim{},
		&models.UploadDocument{},
	))

	for _, name := range []string{"HR", "Lecturer", "Coordinator", "Manager"} {
		require.NoError(t, db.Create(&models.Role{RoleName: name}).Error)
	}

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := zap.NewNop()

	users := usershandler.NewUserHandler(db, redisClient, log, time.Hour)
	return NewHRHandler(db, redisClient, users, log), db
}

func employeeRequest() EmployeeRequest {
	return EmployeeRequest{
		Name:              "Bob",
		Surname:           "Builder",
		Department:        "Masonry",
		Email:             "worker@site.com",
		Password:          "Worker@123!",
		DefaultRatePerJob: "200",
		RoleName:          "Lecturer",
	}
}

func TestCreateEmployeeProvisionsIdentity(t *testing.T) {
	h, db := newTestHandler(t)

	profile, err := h.CreateEmployee(context.Background(), employeeRequest())
	require.NoError(t, err)
	assert.Equal(t, "200.00", profile.DefaultRatePerJob)
	assert.Equal(t, "Lecturer", profile.RoleName)
	require.NotEmpty(t, profile.PrincipalID)

	var principal models.Principal
	require.NoError(t, db.Preload("Role").First(&principal, "id = ?", profile.PrincipalID).Error)
	assert.Equal(t, "worker@site.com", principal.Email)
	assert.Equal(t, "Lecturer", principal.Role.RoleName)
	assert.True(t, principal.IsActive)
}

func TestCreateEmployeeValidation(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*EmployeeRequest)
	}{
		{"missing name", func(r *EmployeeRequest) { r.Name = "  " }},
		{"missing password", func(r *EmployeeRequest) { r.Password = "" }},
		{"negative rate", func(r *EmployeeRequest) { r.DefaultRatePerJob = "-1" }},
		{"rate too large", func(r *EmployeeRequest) { r.DefaultRatePerJob = "1000000" }},
		{"unparseable rate", func(r *EmployeeRequest) { r.DefaultRatePerJob = "lots" }},
		{"unknown role", func(r *EmployeeRequest) { r.RoleName = "Astronaut" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := employeeRequest()
			tt.mutate(&req)
			_, err := h.CreateEmployee(ctx, req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	// No partial writes survive a failed provision.
	var count int64
	require.NoError(t, db.Model(&models.Principal{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateEmployeeRoleChangeSyncsPrincipal(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	profile, err := h.CreateEmployee(ctx, employeeRequest())
	require.NoError(t, err)

	req := employeeRequest()
	req.RoleName = "Coordinator"
	updated, err := h.UpdateEmployee(ctx, profile.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Coordinator", updated.RoleName)

	var principal models.Principal
	require.NoError(t, db.Preload("Role").First(&principal, "id = ?", profile.PrincipalID).Error)
	assert.Equal(t, "Coordinator", principal.Role.RoleName)
}

func TestUpdateEmployeeMissing(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.UpdateEmployee(context.Background(), 4242, employeeRequest())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteEmployeeRemovesPrincipal(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	profile, err := h.CreateEmployee(ctx, employeeRequest())
	require.NoError(t, err)

	require.NoError(t, h.DeleteEmployee(ctx, profile.ID))

	_, err = h.GetEmployee(ctx, profile.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Principal{}).Where("id = ?", profile.PrincipalID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListEmployeesPagination(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req := employeeRequest()
		req.Email = string(rune('a'+i)) + "@site.com"
		_, err := h.CreateEmployee(ctx, req)
		require.NoError(t, err)
	}

	page1, total, err := h.ListEmployees(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page1, 2)
	assert.Equal(t, "2", NextPageToken(1, 2, total))

	page2, _, err := h.ListEmployees(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 1)
	assert.Equal(t, "", NextPageToken(2, 2, total))
}
