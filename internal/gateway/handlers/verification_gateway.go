package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	claimshandler "claimflow-system/internal/services/claims/handler"
)

// VerificationHTTPHandler serves the coordinator's first-stage review of
// submitted claims.
type VerificationHTTPHandler struct {
	claims *claimshandler.ClaimHandler
}

func NewVerificationHTTPHandler(claims *claimshandler.ClaimHandler) *VerificationHTTPHandler {
	return &VerificationHTTPHandler{claims: claims}
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (h *VerificationHTTPHandler) Queue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	claims, err := h.claims.ListClaimsByStatus(ctx, claimshandler.StatusSubmitted)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Verification queue retrieved", claims))
}

func (h *VerificationHTTPHandler) Verify(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	claim, err := h.claims.ManualVerify(ctx, id, true, "")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Claim verified", claim))
}

func (h *VerificationHTTPHandler) Reject(c *gin.Context) {
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

	claim, err := h.claims.ManualVerify(ctx, id, false, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Claim rejected", claim))
}

func (h *VerificationHTTPHandler) AutoVerify(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	count, err := h.claims.AutoVerify(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Auto-verify completed", map[string]interface{}{
		"verified_count": count,
	}))
}
