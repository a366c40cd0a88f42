package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"claimflow-system/internal/gateway/middleware"
	claimshandler "claimflow-system/internal/services/claims/handler"
)

type ClaimsHTTPHandler struct {
	claims *claimshandler.ClaimHandler
}

func NewClaimsHTTPHandler(claims *claimshandler.ClaimHandler) *ClaimsHTTPHandler {
	return &ClaimsHTTPHandler{claims: claims}
}

type CreateClaimRequest struct {
	NumberOfJobs int32 `json:"number_of_jobs" binding:"required"`
}

func claimID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid claim ID"))
		return 0, false
	}
	return id, true
}

func (h *ClaimsHTTPHandler) CreateClaim(c *gin.Context) {
	var req CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	claim, err := h.claims.CreateClaim(ctx, c.GetString(middleware.ContextPrincipalID), claimshandler.CreateClaimRequest{
		NumberOfJobs: req.NumberOfJobs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Claim created successfully", claim))
}

func (h *ClaimsHTTPHandler) ListMyClaims(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	claims, err := h.claims.ListClaimsByOwner(ctx, c.GetString(middleware.ContextPrincipalID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Claims retrieved successfully", claims))
}

func (h *ClaimsHTTPHandler) GetClaim(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	claim, err := h.claims.GetClaim(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Workers only see their own claims.
	if claim.WorkerID != c.GetString(middleware.ContextPrincipalID) {
		c.JSON(http.StatusNotFound, errorResponse("Resource not found"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Claim retrieved successfully", claim))
}

func (h *ClaimsHTTPHandler) SubmitClaim(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	claim, err := h.claims.SubmitClaim(ctx, c.GetString(middleware.ContextPrincipalID), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Claim submitted successfully", claim))
}
