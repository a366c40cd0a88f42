package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"claimflow-system/internal/gateway/handlers"
	"claimflow-system/internal/gateway/middleware"
)

type routerDeps struct {
	Auth         *handlers.AuthHTTPHandler
	Claims       *handlers.ClaimsHTTPHandler
	Verification *handlers.VerificationHTTPHandler
	Approval     *handlers.ApprovalHTTPHandler
	Documents    *handlers.DocumentsHTTPHandler
	HR           *handlers.HRHTTPHandler
}

func setupRouter(deps routerDeps) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit())

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.Auth.Login)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		claims := protected.Group("/claims")
		claims.Use(middleware.RequireRole("Lecturer"))
		{
			claims.POST("", deps.Claims.CreateClaim)
			claims.GET("", deps.Claims.ListMyClaims)
			claims.GET("/:id", deps.Claims.GetClaim)
			claims.POST("/:id/submit", deps.Claims.SubmitClaim)
		}

		claimDocs := protected.Group("/claims/:id/documents")
		claimDocs.Use(middleware.RequireRole("Lecturer", "HR"))
		{
			claimDocs.POST("", deps.Documents.Upload)
			claimDocs.GET("", deps.Documents.ListByClaim)
		}

		documents := protected.Group("/documents")
		documents.Use(middleware.RequireRole("Lecturer", "HR"))
		{
			documents.DELETE("/:id", deps.Documents.Delete)
		}

		verification := protected.Group("/verification")
		verification.Use(middleware.RequireRole("Coordinator"))
		{
			verification.GET("/queue", deps.Verification.Queue)
			verification.POST("/claims/:id/verify", deps.Verification.Verify)
			verification.POST("/claims/:id/reject", deps.Verification.Reject)
			verification.POST("/auto", deps.Verification.AutoVerify)
		}

		approval := protected.Group("/approval")
		approval.Use(middleware.RequireRole("Manager"))
		{
			approval.GET("/queue", deps.Approval.Queue)
			approval.POST("/claims/:id/approve", deps.Approval.Approve)
			approval.POST("/claims/:id/reject", deps.Approval.Reject)
			approval.POST("/auto", deps.Approval.AutoApprove)
		}

		hr := protected.Group("/hr")
		hr.Use(middleware.RequireRole("HR"))
		{
			hr.POST("/employees", deps.HR.CreateEmployee)
			hr.GET("/employees", deps.HR.ListEmployees)
			hr.GET("/employees/:id", deps.HR.GetEmployee)
			hr.PUT("/employees/:id", deps.HR.UpdateEmployee)
			hr.DELETE("/employees/:id", deps.HR.DeleteEmployee)
			hr.GET("/summary", deps.HR.Summary)
			hr.GET("/export/csv", deps.HR.ExportCSV)
			hr.GET("/export/xlsx", deps.HR.ExportXLSX)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})

	return r
}
