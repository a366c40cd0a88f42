package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"claimflow-system/internal/database/models"
)

type seedAccount struct {
	Email      string
	Password   string
	Role       string
	Name       string
	Surname    string
	Department string
	Rate       string
}

var seedAccounts = []seedAccount{
	{Email: "hr@site.com", Password: "Hr@123!", Role: "HR", Name: "HR", Surname: "Manager", Department: "Admin", Rate: "0.00"},
	{Email: "pm@site.com", Password: "Pm@1234!", Role: "Coordinator", Name: "Project", Surname: "Manager", Department: "Projects", Rate: "0.00"},
	{Email: "cm@site.com", Password: "Cm@123!", Role: "Manager", Name: "Construction", Surname: "Manager", Department: "Construction", Rate: "0.00"},
	{Email: "worker@site.com", Password: "Worker@123!", Role: "Lecturer", Name: "John", Surname: "Builder", Department: "Masonry", Rate: "200.00"},
}

// Seed creates the fixed role set and the default accounts. It is idempotent:
// existing roles and accounts are left untouched.
func Seed(db *gorm.DB) error {
	for _, name := range []string{"HR", "Lecturer", "Coordinator", "Manager"} {
		var role models.Role
		err := db.Where("role_name = ?", name).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&models.Role{RoleName: name}).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", name, err)
			}
		} else if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}

	for _, acc := range seedAccounts {
		var existing models.Principal
		err := db.Where("email = ?", acc.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed account %s: %w", acc.Email, err)
		}

		var role models.Role
		if err := db.Where("role_name = ?", acc.Role).First(&role).Error; err != nil {
			return fmt.Errorf("seed account %s: %w", acc.Email, err)
		}

		pwHash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", acc.Email, err)
		}

		principal := models.Principal{
			ID:       uuid.New().String(),
			Email:    acc.Email,
			Password: string(pwHash),
			RoleID:   role.ID,
			IsActive: true,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&principal).Error; err != nil {
				return err
			}
			profile := models.EmployeeProfile{
				PrincipalID:       principal.ID,
				Name:              acc.Name,
				Surname:           acc.Surname,
				Department:        acc.Department,
				Email:             acc.Email,
				DefaultRatePerJob: acc.Rate,
				RoleName:          acc.Role,
			}
			return tx.Create(&profile).Error
		})
		if err != nil {
			return fmt.Errorf("seed account %s: %w", acc.Email, err)
		}
	}

	return nil
}
