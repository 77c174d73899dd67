package leave

import (
	"time"

	"github.com/hosana-alex/leave-management/internal"
	leavedm "github.com/hosana-alex/leave-management/internal/core/datamodel/leave"
)

// SubmitDTO carries a new leave application. Dates use YYYY-MM-DD.
type SubmitDTO struct {
	LeaveTypes        []string `json:"leave_types"`
	FromDate          string   `json:"from_date"`
	ToDate            string   `json:"to_date"`
	Reason            string   `json:"reason"`
	EmployeeSignature string   `json:"employee_signature"`
	ImportantComments string   `json:"important_comments"`
}

const dateLayout = "2006-01-02"

func (d *SubmitDTO) Validate() (from, to time.Time, err error) {
	if len(d.LeaveTypes) == 0 {
		return from, to, internal.NewValidationError("at least one leave type is required", internal.ErrCodeMissingField)
	}
	for _, lt := range d.LeaveTypes {
		if !IsKnownType(lt) {
			return from, to, internal.NewValidationError("unknown leave type: "+lt, internal.ErrCodeInvalidFormat)
		}
	}
	if d.FromDate == "" || d.ToDate == "" {
		return from, to, internal.NewValidationError("from_date and to_date are required", internal.ErrCodeMissingField)
	}
	from, err = time.Parse(dateLayout, d.FromDate)
	if err != nil {
		return from, to, internal.NewValidationError("from_date must use YYYY-MM-DD format", internal.ErrCodeInvalidFormat)
	}
	to, err = time.Parse(dateLayout, d.ToDate)
	if err != nil {
		return from, to, internal.NewValidationError("to_date must use YYYY-MM-DD format", internal.ErrCodeInvalidFormat)
	}
	if to.Before(from) {
		return from, to, internal.NewValidationError("to_date must not be before from_date", internal.ErrCodeInvalidDateRange)
	}
	if d.Reason == "" {
		return from, to, internal.NewValidationError("reason is required", internal.ErrCodeMissingField)
	}
	return from, to, nil
}

// DecideDTO carries an admin decision on a pending application.
type DecideDTO struct {
	Status        string `json:"status"`
	AdminComments string `json:"admin_comments"`
}

func (d *DecideDTO) Validate() error {
	switch d.Status {
	case leavedm.StatusApproved:
	case leavedm.StatusRejected:
		if d.AdminComments == "" {
			return internal.NewValidationError("admin_comments is required when rejecting", internal.ErrCodeMissingField)
		}
	default:
		return internal.NewValidationError("status must be approved or rejected", internal.ErrCodeInvalidFormat)
	}
	return nil
}

// BulkDecideDTO applies one decision to several applications. AdminComments
// is required for bulk rejection.
type BulkDecideDTO struct {
	ApplicationIDs []int64 `json:"application_ids"`
	AdminComments  string  `json:"admin_comments"`
}

func (d *BulkDecideDTO) Validate() error {
	if len(d.ApplicationIDs) == 0 {
		return internal.NewValidationError("application_ids is required", internal.ErrCodeMissingField)
	}
	return nil
}

// ListFilter narrows application listings. Zero values mean no filtering.
// Search matches the denormalized employee name; From/To bound the
// application's date range.
type ListFilter struct {
	EmployeeID int64
	Status     string
	Department string
	Search     string
	Year       int
	From       time.Time
	To         time.Time
}

// BulkFailure reports a single failed item within a bulk decision.
type BulkFailure struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// BulkResult reports the per-item outcome of a bulk decision.
type BulkResult struct {
	Succeeded []int64       `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}
