package handler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"claimflow-system/internal/apperr"
	"claimflow-system/internal/database/models"
)

type DocumentHandler struct {
	db    *gorm.DB
	store ContentStore
	log   *zap.Logger
}

func NewDocumentHandler(db *gorm.DB, store ContentStore, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		db:    db,
		store: store,
		log:   log,
	}
}

// Upload stores the blob and creates the document record for an existing
// claim. If the record write fails the blob is removed again, so no blob is
// ever left without a row pointing at it.
func (h *DocumentHandler) Upload(ctx context.Context, claimID int64, fileName string, data []byte) (models.UploadDocument, error) {
	if len(data) == 0 {
		return models.UploadDocument{}, apperr.NewFieldError("file", "file is empty")
	}
	if fileName == "" {
		return models.UploadDocument{}, apperr.NewFieldError("file", "file name is required")
	}

	var claim models.Claim
	if err := h.db.WithContext(ctx).First(&claim, claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.UploadDocument{}, fmt.Errorf("claim %d: %w", claimID, apperr.ErrNotFound)
		}
		return models.UploadDocument{}, fmt.Errorf("load claim %d: %w", claimID, err)
	}

	ref, err := h.store.Store(data, fileName)
	if err != nil {
		return models.UploadDocument{}, fmt.Errorf("store blob: %w", err)
	}

	doc := models.UploadDocument{
		ClaimID:   claimID,
		FileName:  fileName,
		StoredRef: ref,
	}
	if err := h.db.WithContext(ctx).Create(&doc).Error; err != nil {
		if delErr := h.store.Delete(ref); delErr != nil {
			h.log.Error("failed to clean up blob after record failure", zap.String("ref", ref), zap.Error(delErr))
		}
		return models.UploadDocument{}, fmt.Errorf("create document record: %w", err)
	}

	h.log.Info("document uploaded",
		zap.Int64("claim_id", claimID),
		zap.Int64("document_id", doc.ID),
		zap.String("file_name", fileName))

	return doc, nil
}

func (h *DocumentHandler) GetDocument(ctx context.Context, documentID int64) (models.UploadDocument, error) {
	var doc models.UploadDocument
	if err := h.db.WithContext(ctx).First(&doc, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.UploadDocument{}, fmt.Errorf("document %d: %w", documentID, apperr.ErrNotFound)
		}
		return models.UploadDocument{}, fmt.Errorf("load document %d: %w", documentID, err)
	}
	return doc, nil
}

func (h *DocumentHandler) ListByClaim(ctx context.Context, claimID int64) ([]models.UploadDocument, error) {
	var docs []models.UploadDocument
	err := h.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("created_at asc").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list documents for claim %d: %w", claimID, err)
	}
	return docs, nil
}

// Delete removes the record and the backing blob.
func (h *DocumentHandler) Delete(ctx context.Context, documentID int64) error {
	var doc models.UploadDocument
	if err := h.db.WithContext(ctx).First(&doc, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("document %d: %w", documentID, apperr.ErrNotFound)
		}
		return fmt.Errorf("load document %d: %w", documentID, err)
	}

	if err := h.db.WithContext(ctx).Delete(&models.UploadDocument{}, documentID).Error; err != nil {
		return fmt.Errorf("delete document record %d: %w", documentID, err)
	}

	if err := h.store.Delete(doc.StoredRef); err != nil {
		return fmt.Errorf("delete blob for document %d: %w", documentID, err)
	}

	h.log.Info("document deleted", zap.Int64("document_id", documentID), zap.Int64("claim_id", doc.ClaimID))
	return nil
}
