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

// rejection carries the reason fields written alongside a rejecting
// transition. The boolean defends against empty-string reasons passing as
// "no reason given".
type rejection struct {
	Reason string
}

func (r rejection) updates() map[string]interface{} {
	reason := r.Reason
	return map[string]interface{}{
		"reject_reason":   &reason,
		"reason_required": reason != "",
	}
}

// transitionClaim applies a single guarded status move. The claim is loaded
// inside the transaction, checked against the expected source state and then
// written with a compare-and-swap on status, so a concurrent writer makes the
// operation fail with ErrConflict instead of silently overwriting.
func (h *ClaimHandler) transitionClaim(ctx context.Context, claimID int64, from, to Status, rej *rejection, guard func(models.Claim) error) (models.Claim, error) {
	if !CanTransition(from, to) {
		return models.Claim{}, fmt.Errorf("transition %s -> %s: %w", from, to, apperr.ErrConflict)
	}

	var claim models.Claim
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&claim, claimID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("claim %d: %w", claimID, apperr.ErrNotFound)
			}
			return fmt.Errorf("load claim %d: %w", claimID, err)
		}

		if guard != nil {
			if err := guard(claim); err != nil {
				return err
			}
		}

		if Status(claim.Status) != from {
			return fmt.Errorf("claim %d is %s, expected %s: %w", claimID, claim.Status, from, apperr.ErrConflict)
		}

		updates := map[string]interface{}{"status": string(to)}
		if rej != nil {
			for k, v := range rej.updates() {
				updates[k] = v
			}
		}

		res := tx.Model(&models.Claim{}).
			Where("id = ? AND status = ?", claimID, string(from)).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update claim %d: %w", claimID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("claim %d moved out of %s: %w", claimID, from, apperr.ErrConflict)
		}

		return tx.First(&claim, claimID).Error
	})
	if err != nil {
		return models.Claim{}, err
	}

	h.InvalidateClaimCaches(ctx, claimID)
	return claim, nil
}

// autoTransition evaluates every claim in the source state against the
// guidelines and moves the passing subset, all in one transaction. Claims
// whose status changed since the snapshot are skipped, not failed. Returns
// the number of claims durably transitioned.
func (h *ClaimHandler) autoTransition(ctx context.Context, from, to Status) (int, error) {
	var candidates []models.Claim
	if err := h.db.WithContext(ctx).Where("status = ?", string(from)).Find(&candidates).Error; err != nil {
		return 0, fmt.Errorf("load %s claims: %w", from, err)
	}

	count := 0
	transitioned := make([]int64, 0, len(candidates))
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, claim := range candidates {
			if !MeetsGuidelines(claim) {
				continue
			}
			res := tx.Model(&models.Claim{}).
				Where("id = ? AND status = ?", claim.ID, string(from)).
				Update("status", string(to))
			if res.Error != nil {
				return fmt.Errorf("update claim %d: %w", claim.ID, res.Error)
			}
			if res.RowsAffected > 0 {
				count++
				transitioned = append(transitioned, claim.ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	h.InvalidateClaimCaches(ctx, transitioned...)
	return count, nil
}

// AutoVerify moves every Submitted claim that meets the guidelines to
// Verified. Failing claims stay Submitted for manual handling; that is an
// expected outcome, not an error.
func (h *ClaimHandler) AutoVerify(ctx context.Context) (int, error) {
	count, err := h.autoTransition(ctx, StatusSubmitted, StatusVerified)
	if err != nil {
		return 0, err
	}
	h.log.Info("auto-verify completed", zap.Int("verified", count))
	return count, nil
}

// AutoApprove is the same gate at the Verified -> PM Approved stage.
func (h *ClaimHandler) AutoApprove(ctx context.Context) (int, error) {
	count, err := h.autoTransition(ctx, StatusVerified, StatusPMApproved)
	if err != nil {
		return 0, err
	}
	h.log.Info("auto-approve completed", zap.Int("approved", count))
	return count, nil
}

// ManualVerify records a coordinator's decision on one Submitted claim.
// approve=false rejects with the reason stored verbatim.
func (h *ClaimHandler) ManualVerify(ctx context.Context, claimID int64, approve bool, reason string) (models.Claim, error) {
	if approve {
		claim, err := h.transitionClaim(ctx, claimID, StatusSubmitted, StatusVerified, nil, nil)
		if err != nil {
			return models.Claim{}, err
		}
		h.log.Info("claim verified", zap.Int64("claim_id", claimID))
		return claim, nil
	}

	claim, err := h.transitionClaim(ctx, claimID, StatusSubmitted, StatusRejected, &rejection{Reason: reason}, nil)
	if err != nil {
		return models.Claim{}, err
	}
	h.log.Info("claim rejected", zap.Int64("claim_id", claimID), zap.String("reason", reason))
	return claim, nil
}

// ManualApprove records a manager's decision on one Verified claim at the PM
// stage.
func (h *ClaimHandler) ManualApprove(ctx context.Context, claimID int64, approve bool, reason string) (models.Claim, error) {
	if approve {
		claim, err := h.transitionClaim(ctx, claimID, StatusVerified, StatusPMApproved, nil, nil)
		if err != nil {
			return models.Claim{}, err
		}
		h.log.Info("claim PM approved", zap.Int64("claim_id", claimID))
		return claim, nil
	}

	claim, err := h.transitionClaim(ctx, claimID, StatusVerified, StatusPMRejected, &rejection{Reason: reason}, nil)
	if err != nil {
		return models.Claim{}, err
	}
	h.log.Info("claim PM rejected", zap.Int64("claim_id", claimID), zap.String("reason", reason))
	return claim, nil
}
