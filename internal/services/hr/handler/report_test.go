package handler

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"claimflow-system/internal/database/models"
)

func seedClaimWithStatus(t *testing.T, db *gorm.DB, status string, mutate func(*models.Claim)) models.Claim {
	t.Helper()
	claim := models.Claim{
		WorkerID:     "worker-1",
		Name:         "Bob",
		Surname:      "Builder",
		Department:   "Masonry",
		RatePerJob:   "200.00",
		NumberOfJobs: 2,
		TotalAmount:  "400.00",
		Status:       status,
	}
	if mutate != nil {
		mutate(&claim)
	}
	require.NoError(t, db.Create(&claim).Error)
	return claim
}

func TestSummary(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	seedClaimWithStatus(t, db, "Submitted", nil)
	seedClaimWithStatus(t, db, "Submitted", nil)
	seedClaimWithStatus(t, db, "PM Rejected", nil)
	seedClaimWithStatus(t, db, "CM Approved", nil)
	seedClaimWithStatus(t, db, "Paid", func(c *models.Claim) { c.TotalAmount = "100.00" })

	summary, err := h.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalCount)
	assert.Equal(t, "1700.00", summary.TotalAmount)
	assert.Equal(t, 2, summary.SubmittedCount)
	assert.Equal(t, 1, summary.PmRejectedCount)
	assert.Equal(t, 0, summary.CmRejectedCount)
	assert.Equal(t, 1, summary.CmApprovedCount)
	assert.Equal(t, 1, summary.PaidCount)
}

func TestSummaryServedFromCache(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	seedClaimWithStatus(t, db, "Submitted", nil)

	first, err := h.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalCount)

	seedClaimWithStatus(t, db, "Submitted", nil)

	second, err := h.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, second.TotalCount)
}

func TestExportCSV(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	reason := "missing receipt, resubmit"
	seedClaimWithStatus(t, db, "Rejected", func(c *models.Claim) { c.RejectReason = &reason })

	out, err := h.ExportCSV(ctx)
	require.NoError(t, err)

	lines := strings.Split(string(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Id,Date,Name,Surname,Department,RatePerJob,NumberOfJobs,TotalAmount,Status,RejectReason", lines[0])

	fields := strings.Split(lines[1], ",")
	require.Len(t, fields, 10)
	assert.Equal(t, "Bob", fields[2])
	assert.Equal(t, "200.00", fields[5])
	assert.Equal(t, "Rejected", fields[8])
	// Commas in the reason are replaced so the row stays 10 fields wide.
	assert.Equal(t, "missing receipt  resubmit", fields[9])
}

func TestExportCSVEmpty(t *testing.T) {
	h, _ := newTestHandler(t)

	out, err := h.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Id,Date,Name,Surname,Department,RatePerJob,NumberOfJobs,TotalAmount,Status,RejectReason", string(out))
}

func TestExportXLSX(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := context.Background()

	seedClaimWithStatus(t, db, "Submitted", nil)

	out, err := h.ExportXLSX(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Claims")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "Bob", rows[1][2])
	assert.Equal(t, "Submitted", rows[1][8])
}
