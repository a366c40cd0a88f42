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
	"claimflow-system/internal/utils"
)

func newTestHandler(t *testing.T) (*UserHandler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.Principal{}, &models.EmployeeProfile{}))

	for _, name := range []string{"HR", "Lecturer", "Coordinator", "Manager"} {
		require.NoError(t, db.Create(&models.Role{RoleName: name}).Error)
	}

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return NewUserHandler(db, redisClient, zap.NewNop(), time.Hour), db
}

func TestAuthenticate(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	id, err := h.CreatePrincipalTx(db, "worker@site.com", "Worker@123!", "Lecturer")
	require.NoError(t, err)

	res, err := h.Authenticate(ctx, "worker@site.com", "Worker@123!")
	require.NoError(t, err)
	assert.Equal(t, id, res.Principal.ID)
	assert.Equal(t, "Lecturer", res.Principal.Role.RoleName)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	claims, err := utils.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.PrincipalID)
	assert.Equal(t, "Lecturer", claims.Role)

	var reloaded models.Principal
	require.NoError(t, db.First(&reloaded, "id = ?", id).Error)
	assert.NotNil(t, reloaded.LastLogin)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	h, db := newTestHandler(t)

	_, err := h.CreatePrincipalTx(db, "worker@site.com", "Worker@123!", "Lecturer")
	require.NoError(t, err)

	_, err = h.Authenticate(context.Background(), "worker@site.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Authenticate(context.Background(), "nobody@site.com", "whatever")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAuthenticateMissingCredentials(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Authenticate(context.Background(), "", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreatePrincipalRejectsDuplicateEmail(t *testing.T) {
	h, db := newTestHandler(t)

	_, err := h.CreatePrincipalTx(db, "worker@site.com", "Worker@123!", "Lecturer")
	require.NoError(t, err)

	_, err = h.CreatePrincipalTx(db, "worker@site.com", "Other@123!", "Lecturer")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreatePrincipalUnknownRole(t *testing.T) {
	h, db := newTestHandler(t)

	_, err := h.CreatePrincipalTx(db, "worker@site.com", "Worker@123!", "Astronaut")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAssignRoleReplaces(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	id, err := h.CreatePrincipalTx(db, "worker@site.com", "Worker@123!", "Lecturer")
	require.NoError(t, err)

	require.NoError(t, h.AssignRoleTx(db, id, "Coordinator"))

	role, err := h.RoleOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Coordinator", role)
}

func TestAssignRoleMissingPrincipal(t *testing.T) {
	h, db := newTestHandler(t)

	err := h.AssignRoleTx(db, "no-such-id", "Coordinator")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemovePrincipal(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	id, err := h.CreatePrincipalTx(db, "worker@site.com", "Worker@123!", "Lecturer")
	require.NoError(t, err)

	require.NoError(t, h.RemovePrincipalTx(db, id))

	_, err = h.RoleOf(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = h.Authenticate(ctx, "worker@site.com", "Worker@123!")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListRoles(t *testing.T) {
	h, _ := newTestHandler(t)

	roles, err := h.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 4)
	assert.Equal(t, "Coordinator", roles[0].RoleName)
}
