package leave

import (
	"strings"
	"time"
)

// Application workflow states. pending -> approved|rejected, both terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Application is the persistence model for a leave application. Employee
// identity fields are denormalized at submit time: the application is a
// snapshot of what was requested, not a live join against the user record.
type Application struct {
	ID                int64      `json:"id" gorm:"primaryKey"`
	EmployeeID        int64      `json:"employee_id" gorm:"column:employee_id;not null;index"`
	EmployeeName      string     `json:"employee_name" gorm:"not null"`
	Department        string     `json:"department" gorm:"not null"`
	Designation       string     `json:"designation"`
	Contacts          string     `json:"contacts"`
	LeaveTypes        string     `json:"-" gorm:"column:leave_types;not null"`
	FromDate          time.Time  `json:"from_date" gorm:"column:from_date;type:date;not null"`
	ToDate            time.Time  `json:"to_date" gorm:"column:to_date;type:date;not null"`
	Reason            string     `json:"reason" gorm:"not null"`
	EmployeeSignature string     `json:"employee_signature"`
	ImportantComments string     `json:"important_comments"`
	Status            string     `json:"status" gorm:"default:pending;index"`
	AdminComments     string     `json:"admin_comments"`
	DecidedBy         *int64     `json:"decided_by,omitempty" gorm:"column:decided_by"`
	DecidedAt         *time.Time `json:"decided_at,omitempty" gorm:"column:decided_at"`
	SubmittedAt       time.Time  `json:"submitted_at" gorm:"column:submitted_at;default:now()"`
	CreatedAt         time.Time  `json:"created_at" gorm:"default:now()"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"default:now()"`
}

// TableName returns the table name for GORM
func (Application) TableName() string {
	return "leave_applications"
}

// Types splits the stored comma-joined leave type tags.
func (a *Application) Types() []string {
	if a.LeaveTypes == "" {
		return nil
	}
	parts := strings.Split(a.LeaveTypes, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func JoinTypes(types []string) string {
	return strings.Join(types, ",")
}

// DayCount is the inclusive length of the requested range.
func (a *Application) DayCount() int {
	return int(a.ToDate.Sub(a.FromDate).Hours()/24) + 1
}

func (a *Application) IsTerminal() bool {
	return a.Status == StatusApproved || a.Status == StatusRejected
}
