package models

import "time"

// Principal is an authenticated identity. The ID is an opaque string assigned
// at creation; application rows reference principals by this id, never by the
// profile's own surrogate key.
type Principal struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	RoleID    int32  `gorm:"not null" json:"role_id"`
	Role      Role   `gorm:"foreignKey:RoleID" json:"role"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Role struct {
	ID        int32      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName  string     `gorm:"uniqueIndex;not null;size:50" json:"role_name"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EmployeeProfile is the HR-managed record for a principal. RoleName is a
// denormalized copy of the principal's role; the two are only ever written
// together in one transaction.
type EmployeeProfile struct {
	ID                int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PrincipalID       string `gorm:"uniqueIndex;not null" json:"principal_id"`
	Name              string `gorm:"not null;size:50" json:"name"`
	Surname           string `gorm:"not null;size:50" json:"surname"`
	Department        string `gorm:"not null;size:50" json:"department"`
	Email             string `gorm:"not null" json:"email"`
	DefaultRatePerJob string `gorm:"type:decimal(18,2);not null" json:"default_rate_per_job"`
	RoleName          string `gorm:"not null;size:50" json:"role_name"`
	CreatedAt         *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
