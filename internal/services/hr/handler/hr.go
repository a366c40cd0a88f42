package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"claimflow-system/internal/apperr"
	"claimflow-system/internal/database/models"
	usershandler "claimflow-system/internal/services/users/handler"
)

const (
	SUMMARY_CACHE_KEY = "hr:summary"
	CACHE_TTL_SHORT   = 5 * time.Minute
)

var maxDefaultRate = decimal.NewFromInt(999999)

type HRHandler struct {
	db    *gorm.DB
	redis *redis.Client
	users *usershandler.UserHandler
	log   *zap.Logger
}

func NewHRHandler(db *gorm.DB, redisClient *redis.Client, users *usershandler.UserHandler, log *zap.Logger) *HRHandler {
	return &HRHandler{
		db:    db,
		redis: redisClient,
		users: users,
		log:   log,
	}
}

type EmployeeRequest struct {
	Name              string
	Surname           string
	Department        string
	Email             string
	Password          string
	DefaultRatePerJob string
	RoleName          string
}

func validateEmployee(req EmployeeRequest, requirePassword bool) error {
	for field, value := range map[string]string{
		"name":       req.Name,
		"surname":    req.Surname,
		"department": req.Department,
		"role_name":  req.RoleName,
	} {
		if strings.TrimSpace(value) == "" {
			return apperr.NewFieldError(field, "is required")
		}
		if len(value) > 50 {
			return apperr.NewFieldError(field, "must be at most 50 characters")
		}
	}
	if strings.TrimSpace(req.Email) == "" {
		return apperr.NewFieldError("email", "is required")
	}
	if requirePassword && req.Password == "" {
		return apperr.NewFieldError("password", "is required")
	}
	rate, err := decimal.NewFromString(req.DefaultRatePerJob)
	if err != nil {
		return apperr.NewFieldError("default_rate_per_job", "must be a decimal number")
	}
	if rate.IsNegative() || rate.GreaterThan(maxDefaultRate) {
		return apperr.NewFieldError("default_rate_per_job", "must be between 0 and 999999")
	}
	return nil
}

// CreateEmployee provisions the identity principal, its role assignment and
// the profile row in a single transaction.
func (h *HRHandler) CreateEmployee(ctx context.Context, req EmployeeRequest) (models.EmployeeProfile, error) {
	if err := validateEmployee(req, true); err != nil {
		return models.EmployeeProfile{}, err
	}

	rate, _ := decimal.NewFromString(req.DefaultRatePerJob)

	var profile models.EmployeeProfile
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		principalID, err := h.users.CreatePrincipalTx(tx, req.Email, req.Password, req.RoleName)
		if err != nil {
			return err
		}

		profile = models.EmployeeProfile{
			PrincipalID:       principalID,
			Name:              req.Name,
			Surname:           req.Surname,
			Department:        req.Department,
			Email:             req.Email,
			DefaultRatePerJob: rate.StringFixed(2),
			RoleName:          req.RoleName,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return models.EmployeeProfile{}, err
	}

	h.log.Info("employee provisioned",
		zap.Int64("employee_id", profile.ID),
		zap.String("principal_id", profile.PrincipalID),
		zap.String("role", profile.RoleName))

	return profile, nil
}

// UpdateEmployee edits the profile. A role change writes the denormalized
// RoleName and the principal's role assignment in the same transaction.
func (h *HRHandler) UpdateEmployee(ctx context.Context, id int64, req EmployeeRequest) (models.EmployeeProfile, error) {
	if err := validateEmployee(req, false); err != nil {
		return models.EmployeeProfile{}, err
	}

	rate, _ := decimal.NewFromString(req.DefaultRatePerJob)

	var profile models.EmployeeProfile
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("employee %d: %w", id, apperr.ErrNotFound)
			}
			return fmt.Errorf("load employee %d: %w", id, err)
		}

		if req.RoleName != profile.RoleName {
			if err := h.users.AssignRoleTx(tx, profile.PrincipalID, req.RoleName); err != nil {
				return err
			}
		}

		profile.Name = req.Name
		profile.Surname = req.Surname
		profile.Department = req.Department
		profile.Email = req.Email
		profile.DefaultRatePerJob = rate.StringFixed(2)
		profile.RoleName = req.RoleName

		return tx.Save(&profile).Error
	})
	if err != nil {
		return models.EmployeeProfile{}, err
	}

	h.log.Info("employee updated", zap.Int64("employee_id", id), zap.String("role", profile.RoleName))
	return profile, nil
}

// DeleteEmployee removes the profile and its identity principal together.
func (h *HRHandler) DeleteEmployee(ctx context.Context, id int64) error {
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.EmployeeProfile
		if err := tx.First(&profile, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("employee %d: %w", id, apperr.ErrNotFound)
			}
			return fmt.Errorf("load employee %d: %w", id, err)
		}

		if err := h.users.RemovePrincipalTx(tx, profile.PrincipalID); err != nil {
			return err
		}

		return tx.Delete(&models.EmployeeProfile{}, id).Error
	})
	if err != nil {
		return err
	}

	h.log.Info("employee deprovisioned", zap.Int64("employee_id", id))
	return nil
}

func (h *HRHandler) GetEmployee(ctx context.Context, id int64) (models.EmployeeProfile, error) {
	var profile models.EmployeeProfile
	if err := h.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.EmployeeProfile{}, fmt.Errorf("employee %d: %w", id, apperr.ErrNotFound)
		}
		return models.EmployeeProfile{}, fmt.Errorf("load employee %d: %w", id, err)
	}
	return profile, nil
}

func (h *HRHandler) ListEmployees(ctx context.Context, page, pageSize int) ([]models.EmployeeProfile, int64, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	if page <= 0 {
		page = 1
	}

	var total int64
	if err := h.db.WithContext(ctx).Model(&models.EmployeeProfile{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	var profiles []models.EmployeeProfile
	err := h.db.WithContext(ctx).
		Order("id asc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	return profiles, total, nil
}

// NextPageToken mirrors the pagination envelope used by list endpoints.
func NextPageToken(page, pageSize int, total int64) string {
	if int64(page*pageSize) < total {
		return strconv.Itoa(page + 1)
	}
	return ""
}
