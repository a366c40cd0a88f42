package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"claimflow-system/internal/apperr"
	"claimflow-system/internal/database/models"
	"claimflow-system/internal/utils"
)

const (
	ROLE_CACHE_KEY = "roles:list"
	CACHE_TTL_LONG = 2 * time.Hour
)

// UserHandler is the identity and role provider. It is the only component
// that writes principal rows; other services needing identity writes inside
// their own transactions use the *Tx methods.
type UserHandler struct {
	db       *gorm.DB
	redis    *redis.Client
	log      *zap.Logger
	tokenTTL time.Duration
}

func NewUserHandler(db *gorm.DB, redisClient *redis.Client, log *zap.Logger, tokenTTL time.Duration) *UserHandler {
	return &UserHandler{
		db:       db,
		redis:    redisClient,
		log:      log,
		tokenTTL: tokenTTL,
	}
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Principal models.Principal
}

// Authenticate checks credentials and issues a signed token carrying the
// principal id and role.
func (s *UserHandler) Authenticate(ctx context.Context, email, password string) (AuthResult, error) {
	if email == "" || password == "" {
		return AuthResult{}, apperr.NewFieldError("email", "email and password are required")
	}

	var principal models.Principal
	err := s.db.WithContext(ctx).Preload("Role").
		Where("email = ? AND is_active = ?", email, true).
		First(&principal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResult{}, fmt.Errorf("principal %s: %w", email, apperr.ErrNotFound)
		}
		return AuthResult{}, fmt.Errorf("load principal: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(principal.Password), []byte(password)); err != nil {
		return AuthResult{}, fmt.Errorf("principal %s: %w", email, apperr.ErrNotFound)
	}

	token, exp, err := utils.GenerateToken(principal.ID, principal.Email, principal.Role.RoleName, s.tokenTTL)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate token: %w", err)
	}

	now := time.Now()
	principal.LastLogin = &now
	if err := s.db.WithContext(ctx).Save(&principal).Error; err != nil {
		s.log.Warn("failed to record last login", zap.String("principal_id", principal.ID), zap.Error(err))
	}

	s.log.Info("principal authenticated", zap.String("principal_id", principal.ID), zap.String("role", principal.Role.RoleName))

	return AuthResult{Token: token, ExpiresAt: exp, Principal: principal}, nil
}

// RoleOf returns the current role assignment for a principal.
func (s *UserHandler) RoleOf(ctx context.Context, principalID string) (string, error) {
	var principal models.Principal
	err := s.db.WithContext(ctx).Preload("Role").First(&principal, "id = ?", principalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("principal %s: %w", principalID, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("load principal: %w", err)
	}
	return principal.Role.RoleName, nil
}

// CreatePrincipalTx creates a principal with the given role inside the
// caller's transaction. Returns the new principal id.
func (s *UserHandler) CreatePrincipalTx(tx *gorm.DB, email, password, roleName string) (string, error) {
	var existing models.Principal
	if err := tx.Where("email = ?", email).First(&existing).Error; err == nil {
		return "", apperr.NewFieldError("email", "already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("check existing principal: %w", err)
	}

	role, err := findRole(tx, roleName)
	if err != nil {
		return "", err
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	principal := models.Principal{
		ID:       uuid.New().String(),
		Email:    email,
		Password: string(pwHash),
		RoleID:   role.ID,
		IsActive: true,
	}
	if err := tx.Create(&principal).Error; err != nil {
		return "", fmt.Errorf("create principal: %w", err)
	}

	return principal.ID, nil
}

// AssignRoleTx replaces the principal's role inside the caller's transaction.
// Single role per principal, replace semantics.
func (s *UserHandler) AssignRoleTx(tx *gorm.DB, principalID, roleName string) error {
	role, err := findRole(tx, roleName)
	if err != nil {
		return err
	}

	res := tx.Model(&models.Principal{}).Where("id = ?", principalID).Update("role_id", role.ID)
	if res.Error != nil {
		return fmt.Errorf("assign role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("principal %s: %w", principalID, apperr.ErrNotFound)
	}
	return nil
}

// RemovePrincipalTx deletes a principal inside the caller's transaction.
func (s *UserHandler) RemovePrincipalTx(tx *gorm.DB, principalID string) error {
	res := tx.Delete(&models.Principal{}, "id = ?", principalID)
	if res.Error != nil {
		return fmt.Errorf("remove principal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("principal %s: %w", principalID, apperr.ErrNotFound)
	}
	return nil
}

func findRole(tx *gorm.DB, roleName string) (models.Role, error) {
	var role models.Role
	if err := tx.Where("role_name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Role{}, apperr.NewFieldError("role_name", "no such role")
		}
		return models.Role{}, fmt.Errorf("load role %s: %w", roleName, err)
	}
	return role, nil
}

// ListRoles returns the fixed role set, cached with a long TTL since roles
// never change at runtime.
func (s *UserHandler) ListRoles(ctx context.Context) ([]models.Role, error) {
	if val, err := s.redis.Get(ctx, ROLE_CACHE_KEY).Result(); err == nil {
		var cached []models.Role
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		s.log.Warn("redis get failed, falling back to DB", zap.String("key", ROLE_CACHE_KEY), zap.Error(err))
	}

	var roles []models.Role
	if err := s.db.WithContext(ctx).Order("role_name asc").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	if data, err := json.Marshal(roles); err == nil {
		if err := s.redis.Set(ctx, ROLE_CACHE_KEY, data, CACHE_TTL_LONG).Err(); err != nil {
			s.log.Warn("failed to set role cache", zap.Error(err))
		}
	}

	return roles, nil
}
