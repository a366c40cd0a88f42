package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"claimflow-system/internal/database/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	return db
}

func TestSeedCreatesRolesAndAccounts(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Seed(db))

	var roleCount int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roleCount).Error)
	assert.EqualValues(t, 4, roleCount)

	var worker models.Principal
	require.NoError(t, db.Preload("Role").Where("email = ?", "worker@site.com").First(&worker).Error)
	assert.Equal(t, "Lecturer", worker.Role.RoleName)
	assert.True(t, worker.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(worker.Password), []byte("Worker@123!")))

	var profile models.EmployeeProfile
	require.NoError(t, db.Where("principal_id = ?", worker.ID).First(&profile).Error)
	assert.Equal(t, "Masonry", profile.Department)
	assert.Equal(t, "200.00", profile.DefaultRatePerJob)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var principalCount int64
	require.NoError(t, db.Model(&models.Principal{}).Count(&principalCount).Error)
	assert.EqualValues(t, 4, principalCount)

	var profileCount int64
	require.NoError(t, db.Model(&models.EmployeeProfile{}).Count(&profileCount).Error)
	assert.EqualValues(t, 4, profileCount)
}
