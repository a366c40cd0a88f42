package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	hrhandler "claimflow-system/internal/services/hr/handler"
)

type HRHTTPHandler struct {
	hr *hrhandler.HRHandler
}

func NewHRHTTPHandler(hr *hrhandler.HRHandler) *HRHTTPHandler {
	return &HRHTTPHandler{hr: hr}
}

type CreateEmployeeRequest struct {
	Name              string `json:"name" binding:"required"`
	Surname           string `json:"surname" binding:"required"`
	Department        string `json:"department" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=6"`
	DefaultRatePerJob string `json:"default_rate_per_job" binding:"required"`
	RoleName          string `json:"role_name" binding:"required"`
}

type UpdateEmployeeRequest struct {
	Name              string `json:"name" binding:"required"`
	Surname           string `json:"surname" binding:"required"`
	Department        string `json:"department" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	DefaultRatePerJob string `json:"default_rate_per_job" binding:"required"`
	RoleName          string `json:"role_name" binding:"required"`
}

type ListEmployeesQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=10"`
}

func employeeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid employee ID"))
		return 0, false
	}
	return id, true
}

func (h *HRHTTPHandler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	profile, err := h.hr.CreateEmployee(ctx, hrhandler.EmployeeRequest{
		Name:              req.Name,
		Surname:           req.Surname,
		Department:        req.Department,
		Email:             req.Email,
		Password:          req.Password,
		DefaultRatePerJob: req.DefaultRatePerJob,
		RoleName:          req.RoleName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Employee created successfully", profile))
}

func (h *HRHTTPHandler) GetEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.hr.GetEmployee(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Employee retrieved successfully", profile))
}

func (h *HRHTTPHandler) UpdateEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	profile, err := h.hr.UpdateEmployee(ctx, id, hrhandler.EmployeeRequest{
		Name:              req.Name,
		Surname:           req.Surname,
		Department:        req.Department,
		Email:             req.Email,
		DefaultRatePerJob: req.DefaultRatePerJob,
		RoleName:          req.RoleName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Employee updated successfully", profile))
}

func (h *HRHTTPHandler) DeleteEmployee(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.hr.DeleteEmployee(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Employee deleted successfully", nil))
}

func (h *HRHTTPHandler) ListEmployees(c *gin.Context) {
	var query ListEmployeesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	profiles, total, err := h.hr.ListEmployees(ctx, query.Page, query.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Employees retrieved successfully", profiles, map[string]interface{}{
		"next_page_token": hrhandler.NextPageToken(query.Page, query.PageSize, total),
		"total_count":     total,
	}))
}

func (h *HRHTTPHandler) Summary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	summary, err := h.hr.Summary(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Summary retrieved successfully", summary))
}

func (h *HRHTTPHandler) ExportCSV(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	data, err := h.hr.ExportCSV(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="claims_export.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *HRHTTPHandler) ExportXLSX(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	data, err := h.hr.ExportXLSX(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="claims_export.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
