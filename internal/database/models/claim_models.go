package models

import "time"

// Claim is a worker's request for payment for a number of completed jobs at a
// given rate. Money columns are decimal strings; arithmetic goes through
// shopspring/decimal, never float.
type Claim struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkerID       string `gorm:"index;not null" json:"worker_id"`
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Department     string `json:"department"`
	RatePerJob     string `gorm:"type:decimal(18,2);not null" json:"rate_per_job"`
	NumberOfJobs   int32  `gorm:"not null" json:"number_of_jobs"`
	TotalAmount    string `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	Status         string `gorm:"index;not null" json:"status"`
	RejectReason   *string `gorm:"type:text" json:"reject_reason,omitempty"`
	ReasonRequired bool    `gorm:"default:false" json:"reason_required"`
	CreatedAt      *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Documents []UploadDocument `gorm:"foreignKey:ClaimID" json:"documents,omitempty"`
}

// UploadDocument is a supporting file attached to a claim. StoredRef is the
// collision-free name assigned by the content store.
type UploadDocument struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClaimID   int64      `gorm:"index;not null" json:"claim_id"`
	FileName  string     `gorm:"not null" json:"file_name"`
	StoredRef string     `gorm:"uniqueIndex;not null" json:"stored_ref"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at"`
}
