package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	claimshandler "claimflow-system/internal/services/claims/handler"
)

// ApprovalHTTPHandler serves the manager's PM-stage review of verified
// claims.
type ApprovalHTTPHandler struct {
	claims *claimshandler.ClaimHandler
}

func NewApprovalHTTPHandler(claims *claimshandler.ClaimHandler) *ApprovalHTTPHandler {
	return &ApprovalHTTPHandler{claims: claims}
}

func (h *ApprovalHTTPHandler) Queue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	claims, err := h.claims.ListClaimsByStatus(ctx, claimshandler.StatusVerified)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Approval queue retrieved", claims))
}

func (h *ApprovalHTTPHandler) Approve(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	claim, err := h.claims.ManualApprove(ctx, id, true, "")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Claim approved", claim))
}

func (h *ApprovalHTTPHandler) Reject(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	claim, err := h.claims.ManualApprove(ctx, id, false, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Claim rejected", claim))
}

func (h *ApprovalHTTPHandler) AutoApprove(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	count, err := h.claims.AutoApprove(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Auto-approve completed", map[string]interface{}{
		"approved_count": count,
	}))
}
