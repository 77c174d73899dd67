package balance

import (
	"github.com/hosana-alex/leave-management/internal"
)

// AdjustDTO sets a new total allotment for one leave type.
type AdjustDTO struct {
	LeaveType string `json:"leave_type"`
	TotalDays int    `json:"total_days"`
}

func (d *AdjustDTO) Validate() error {
	if d.LeaveType == "" {
		return internal.NewValidationError("leave_type is required", internal.ErrCodeMissingField)
	}
	if d.TotalDays < 0 {
		return internal.NewValidationError("total_days must not be negative", internal.ErrCodeInvalidFormat)
	}
	return nil
}
