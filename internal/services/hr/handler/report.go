package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"claimflow-system/internal/database/models"
	claimshandler "claimflow-system/internal/services/claims/handler"
)

// exportHeader is the fixed export column set. Order is part of the file
// contract consumed downstream; do not reorder.
var exportHeader = []string{
	"Id", "Date", "Name", "Surname", "Department",
	"RatePerJob", "NumberOfJobs", "TotalAmount", "Status", "RejectReason",
}

type ClaimSummary struct {
	TotalCount      int    `json:"total_count"`
	TotalAmount     string `json:"total_amount"`
	SubmittedCount  int    `json:"submitted_count"`
	PmRejectedCount int    `json:"pm_rejected_count"`
	CmRejectedCount int    `json:"cm_rejected_count"`
	CmApprovedCount int    `json:"cm_approved_count"`
	PaidCount       int    `json:"paid_count"`
}

// Summary aggregates all claims into the HR dashboard counts, cached with a
// short TTL.
func (h *HRHandler) Summary(ctx context.Context) (ClaimSummary, error) {
	if val, err := h.redis.Get(ctx, SUMMARY_CACHE_KEY).Result(); err == nil {
		var cached ClaimSummary
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		h.log.Warn("redis get failed, falling back to DB", zap.String("key", SUMMARY_CACHE_KEY), zap.Error(err))
	}

	var claims []models.Claim
	if err := h.db.WithContext(ctx).Find(&claims).Error; err != nil {
		return ClaimSummary{}, fmt.Errorf("load claims: %w", err)
	}

	total := decimal.Zero
	summary := ClaimSummary{TotalCount: len(claims)}
	for _, c := range claims {
		amount, err := decimal.NewFromString(c.TotalAmount)
		if err == nil {
			total = total.Add(amount)
		}
		switch claimshandler.Status(c.Status) {
		case claimshandler.StatusSubmitted:
			summary.SubmittedCount++
		case claimshandler.StatusPMRejected:
			summary.PmRejectedCount++
		case claimshandler.StatusCMRejected:
			summary.CmRejectedCount++
		case claimshandler.StatusCMApproved:
			summary.CmApprovedCount++
		case claimshandler.StatusPaid:
			summary.PaidCount++
		}
	}
	summary.TotalAmount = total.StringFixed(2)

	if data, err := json.Marshal(summary); err == nil {
		if err := h.redis.Set(ctx, SUMMARY_CACHE_KEY, data, CACHE_TTL_SHORT).Err(); err != nil {
			h.log.Warn("failed to set summary cache", zap.Error(err))
		}
	}

	return summary, nil
}

func (h *HRHandler) exportRows(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	if err := h.db.WithContext(ctx).Order("id asc").Find(&claims).Error; err != nil {
		return nil, fmt.Errorf("load claims for export: %w", err)
	}
	return claims, nil
}

func claimRow(c models.Claim) []string {
	date := ""
	if c.CreatedAt != nil {
		date = c.CreatedAt.Format("2006-01-02")
	}
	reason := ""
	if c.RejectReason != nil {
		// Commas would corrupt the delimited format; the reason field is the
		// only free-text column.
		reason = strings.ReplaceAll(*c.RejectReason, ",", " ")
	}
	return []string{
		fmt.Sprintf("%d", c.ID),
		date,
		c.Name,
		c.Surname,
		c.Department,
		c.RatePerJob,
		fmt.Sprintf("%d", c.NumberOfJobs),
		c.TotalAmount,
		c.Status,
		reason,
	}
}

// ExportCSV renders all claims as the flat delimited export.
func (h *HRHandler) ExportCSV(ctx context.Context) ([]byte, error) {
	claims, err := h.exportRows(ctx)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	for _, c := range claims {
		b.WriteString("\n")
		b.WriteString(strings.Join(claimRow(c), ","))
	}

	return []byte(b.String()), nil
}

// ExportXLSX renders the same rows as a spreadsheet.
func (h *HRHandler) ExportXLSX(ctx context.Context) ([]byte, error) {
	claims, err := h.exportRows(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Claims"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("style header: %w", err)
		}
	}

	for rowIdx, c := range claims {
		for colIdx, value := range claimRow(c) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("write row %d: %w", rowIdx+1, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}

	return buf.Bytes(), nil
}
