package handler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"claimflow-system/internal/apperr"
	"claimflow-system/internal/database/models"
)

func newTestHandler(t *testing.T) (*DocumentHandler, *gorm.DB, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Claim{}, &models.UploadDocument{}))

	dir := t.TempDir()
	store, err := NewLocalContentStore(dir)
	require.NoError(t, err)

	return NewDocumentHandler(db, store, zap.NewNop()), db, dir
}

func seedClaim(t *testing.T, db *gorm.DB) models.Claim {
	t.Helper()
	claim := models.Claim{
		WorkerID:     "worker-1",
		Name:         "Bob",
		Surname:      "Builder",
		Department:   "Masonry",
		RatePerJob:   "200.00",
		NumberOfJobs: 1,
		TotalAmount:  "200.00",
		Status:       "Pending",
	}
	require.NoError(t, db.Create(&claim).Error)
	return claim
}

func TestLocalContentStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalContentStore(dir)
	require.NoError(t, err)

	ref1, err := store.Store([]byte("invoice"), "receipt.pdf")
	require.NoError(t, err)
	ref2, err := store.Store([]byte("invoice"), "receipt.pdf")
	require.NoError(t, err)

	assert.NotEqual(t, ref1, ref2)
	assert.True(t, strings.HasSuffix(ref1, "_receipt.pdf"))

	data, err := os.ReadFile(filepath.Join(dir, ref1))
	require.NoError(t, err)
	assert.Equal(t, []byte("invoice"), data)

	require.NoError(t, store.Delete(ref1))
	_, err = os.Stat(filepath.Join(dir, ref1))
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing blob is not an error.
	require.NoError(t, store.Delete(ref1))
}

func TestLocalContentStoreStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalContentStore(dir)
	require.NoError(t, err)

	ref, err := store.Store([]byte("x"), "../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, "_passwd"))
	assert.NotContains(t, ref, "/")
}

func TestUpload(t *testing.T) {
	h, db, dir := newTestHandler(t)
	claim := seedClaim(t, db)

	doc, err := h.Upload(context.Background(), claim.ID, "receipt.pdf", []byte("invoice"))
	require.NoError(t, err)
	assert.Equal(t, claim.ID, doc.ClaimID)
	assert.Equal(t, "receipt.pdf", doc.FileName)

	_, err = os.Stat(filepath.Join(dir, doc.StoredRef))
	require.NoError(t, err)
}

func TestUploadMissingClaim(t *testing.T) {
	h, _, _ := newTestHandler(t)

	_, err := h.Upload(context.Background(), 4242, "receipt.pdf", []byte("invoice"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUploadEmptyFile(t *testing.T) {
	h, db, _ := newTestHandler(t)
	claim := seedClaim(t, db)

	_, err := h.Upload(context.Background(), claim.ID, "receipt.pdf", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListByClaim(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx := context.Background()
	claim := seedClaim(t, db)
	other := seedClaim(t, db)

	_, err := h.Upload(ctx, claim.ID, "a.pdf", []byte("a"))
	require.NoError(t, err)
	_, err = h.Upload(ctx, claim.ID, "b.pdf", []byte("b"))
	require.NoError(t, err)
	_, err = h.Upload(ctx, other.ID, "c.pdf", []byte("c"))
	require.NoError(t, err)

	docs, err := h.ListByClaim(ctx, claim.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDeleteRemovesRecordAndBlob(t *testing.T) {
	h, db, dir := newTestHandler(t)
	ctx := context.Background()
	claim := seedClaim(t, db)

	doc, err := h.Upload(ctx, claim.ID, "receipt.pdf", []byte("invoice"))
	require.NoError(t, err)

	require.NoError(t, h.Delete(ctx, doc.ID))

	_, err = h.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = os.Stat(filepath.Join(dir, doc.StoredRef))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteMissingDocument(t *testing.T) {
	h, _, _ := newTestHandler(t)

	err := h.Delete(context.Background(), 4242)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
