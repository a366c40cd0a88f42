package handler

import (
	"strings"

	"github.com/shopspring/decimal"

	"claimflow-system/internal/database/models"
)

// MeetsGuidelines is the fixed predicate that lets a well-formed claim skip
// manual review. The total check is exact decimal equality: the total is
// derived, so any mismatch is a data-entry error a human should see.
func MeetsGuidelines(c models.Claim) bool {
	if strings.TrimSpace(c.Name) == "" ||
		strings.TrimSpace(c.Surname) == "" ||
		strings.TrimSpace(c.Department) == "" {
		return false
	}

	rate, err := decimal.NewFromString(c.RatePerJob)
	if err != nil || !rate.IsPositive() {
		return false
	}
	if c.NumberOfJobs <= 0 {
		return false
	}

	total, err := decimal.NewFromString(c.TotalAmount)
	if err != nil {
		return false
	}

	return total.Equal(rate.Mul(decimal.NewFromInt(int64(c.NumberOfJobs))))
}
