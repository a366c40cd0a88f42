package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"claimflow-system/internal/apperr"
	"claimflow-system/internal/database/models"
)

const (
	CLAIM_CACHE_PREFIX   = "claim:"
	CLAIM_SUMMARY_CACHE  = "claims:summary"
	CACHE_TTL_SHORT      = 5 * time.Minute
	CACHE_TTL_MEDIUM     = 30 * time.Minute
)

type ClaimHandler struct {
	db    *gorm.DB
	redis *redis.Client
	log   *zap.Logger
}

func NewClaimHandler(db *gorm.DB, redisClient *redis.Client, log *zap.Logger) *ClaimHandler {
	return &ClaimHandler{
		db:    db,
		redis: redisClient,
		log:   log,
	}
}

func (h *ClaimHandler) InvalidateClaimCaches(ctx context.Context, claimIDs ...int64) {
	_ = h.redis.Del(ctx, CLAIM_SUMMARY_CACHE)
	for _, id := range claimIDs {
		_ = h.redis.Del(ctx, fmt.Sprintf("%s%d", CLAIM_CACHE_PREFIX, id))
	}
}

type CreateClaimRequest struct {
	NumberOfJobs int32
}

// CreateClaim creates a claim for the calling worker. Name, surname,
// department and rate come from the worker's employee profile, never from the
// request, and the total is recomputed server-side.
func (h *ClaimHandler) CreateClaim(ctx context.Context, principalID string, req CreateClaimRequest) (models.Claim, error) {
	if req.NumberOfJobs <= 0 {
		return models.Claim{}, apperr.NewFieldError("number_of_jobs", "must be greater than zero")
	}

	var profile models.EmployeeProfile
	if err := h.db.WithContext(ctx).Where("principal_id = ?", principalID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Claim{}, fmt.Errorf("employee profile for caller: %w", apperr.ErrNotFound)
		}
		return models.Claim{}, fmt.Errorf("load employee profile: %w", err)
	}

	rate, err := decimal.NewFromString(profile.DefaultRatePerJob)
	if err != nil {
		return models.Claim{}, fmt.Errorf("parse default rate for %s: %w", principalID, err)
	}
	total := rate.Mul(decimal.NewFromInt(int64(req.NumberOfJobs)))

	claim := models.Claim{
		WorkerID:     principalID,
		Name:         profile.Name,
		Surname:      profile.Surname,
		Department:   profile.Department,
		RatePerJob:   rate.StringFixed(2),
		NumberOfJobs: req.NumberOfJobs,
		TotalAmount:  total.StringFixed(2),
		Status:       string(StatusPending),
	}

	if err := h.db.WithContext(ctx).Create(&claim).Error; err != nil {
		return models.Claim{}, fmt.Errorf("create claim: %w", err)
	}

	h.InvalidateClaimCaches(ctx)
	h.log.Info("claim created",
		zap.Int64("claim_id", claim.ID),
		zap.String("worker_id", principalID),
		zap.String("total", claim.TotalAmount))

	return claim, nil
}

// SubmitClaim moves the caller's Pending claim into the verification queue.
func (h *ClaimHandler) SubmitClaim(ctx context.Context, principalID string, claimID int64) (models.Claim, error) {
	claim, err := h.transitionClaim(ctx, claimID, StatusPending, StatusSubmitted, nil, func(c models.Claim) error {
		if c.WorkerID != principalID {
			return fmt.Errorf("claim %d: %w", claimID, apperr.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return models.Claim{}, err
	}

	h.log.Info("claim submitted", zap.Int64("claim_id", claimID), zap.String("worker_id", principalID))
	return claim, nil
}

// GetClaim returns one claim with its documents preloaded, via a read-through
// cache.
func (h *ClaimHandler) GetClaim(ctx context.Context, claimID int64) (models.Claim, error) {
	cacheKey := fmt.Sprintf("%s%d", CLAIM_CACHE_PREFIX, claimID)

	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var cached models.Claim
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		h.log.Warn("redis get failed, falling back to DB", zap.String("key", cacheKey), zap.Error(err))
	}

	var claim models.Claim
	if err := h.db.WithContext(ctx).Preload("Documents").First(&claim, claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Claim{}, fmt.Errorf("claim %d: %w", claimID, apperr.ErrNotFound)
		}
		return models.Claim{}, fmt.Errorf("load claim %d: %w", claimID, err)
	}

	if data, err := json.Marshal(&claim); err == nil {
		if err := h.redis.Set(ctx, cacheKey, data, CACHE_TTL_MEDIUM).Err(); err != nil {
			h.log.Warn("failed to set claim cache", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return claim, nil
}

// ListClaimsByOwner returns the worker's own claims, newest first.
func (h *ClaimHandler) ListClaimsByOwner(ctx context.Context, principalID string) ([]models.Claim, error) {
	var claims []models.Claim
	err := h.db.WithContext(ctx).
		Where("worker_id = ?", principalID).
		Order("created_at desc").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("list claims for %s: %w", principalID, err)
	}
	return claims, nil
}

// ListClaimsByStatus feeds the verification and approval queues.
func (h *ClaimHandler) ListClaimsByStatus(ctx context.Context, status Status) ([]models.Claim, error) {
	var claims []models.Claim
	err := h.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at asc").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("list claims with status %s: %w", status, err)
	}
	return claims, nil
}
