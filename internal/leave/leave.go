package leave

import (
	"time"

	leavedm "github.com/hosana-alex/leave-management/internal/core/datamodel/leave"
)

// The leave type catalogue. Unpaid Leave and Other are accepted on
// applications but never tracked in the balance ledger.
const (
	TypeSick        = "Sick Leave"
	TypePersonal    = "Personal Leave"
	TypeMaternity   = "Maternity Leave/Paternity Leave"
	TypeStudy       = "Study Leave"
	TypeBereavement = "Bereavement"
	TypeUnpaid      = "Unpaid Leave"
	TypeOther       = "Other"
)

var knownTypes = map[string]bool{
	TypeSick:        true,
	TypePersonal:    true,
	TypeMaternity:   true,
	TypeStudy:       true,
	TypeBereavement: true,
	TypeUnpaid:      true,
	TypeOther:       true,
}

var trackedTypes = map[string]bool{
	TypeSick:        true,
	TypePersonal:    true,
	TypeMaternity:   true,
	TypeStudy:       true,
	TypeBereavement: true,
}

func IsKnownType(leaveType string) bool {
	return knownTypes[leaveType]
}

// IsTrackedType reports whether approvals of this type debit the ledger.
func IsTrackedType(leaveType string) bool {
	return trackedTypes[leaveType]
}

// Application is the workflow's domain view of a leave application.
type Application struct {
	ID                int64      `json:"id"`
	EmployeeID        int64      `json:"employee_id"`
	EmployeeName      string     `json:"employee_name"`
	Department        string     `json:"department"`
	Designation       string     `json:"designation"`
	Contacts          string     `json:"contacts"`
	LeaveTypes        []string   `json:"leave_types"`
	FromDate          time.Time  `json:"from_date"`
	ToDate            time.Time  `json:"to_date"`
	Reason            string     `json:"reason"`
	EmployeeSignature string     `json:"employee_signature,omitempty"`
	ImportantComments string     `json:"important_comments,omitempty"`
	Status            string     `json:"status"`
	AdminComments     string     `json:"admin_comments,omitempty"`
	DecidedBy         *int64     `json:"decided_by,omitempty"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"`
	SubmittedAt       time.Time  `json:"submitted_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (a *Application) CanBeDecided() bool {
	return a.Status == leavedm.StatusPending
}

// DayCount is the inclusive length of the requested range.
func (a *Application) DayCount() int {
	return int(a.ToDate.Sub(a.FromDate).Hours()/24) + 1
}

func ToDataModel(a *Application) *leavedm.Application {
	return &leavedm.Application{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeName:      a.EmployeeName,
		Department:        a.Department,
		Designation:       a.Designation,
		Contacts:          a.Contacts,
		LeaveTypes:        leavedm.JoinTypes(a.LeaveTypes),
		FromDate:          a.FromDate,
		ToDate:            a.ToDate,
		Reason:            a.Reason,
		EmployeeSignature: a.EmployeeSignature,
		ImportantComments: a.ImportantComments,
		Status:            a.Status,
		AdminComments:     a.AdminComments,
		DecidedBy:         a.DecidedBy,
		DecidedAt:         a.DecidedAt,
		SubmittedAt:       a.SubmittedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func FromDataModel(a *leavedm.Application) *Application {
	return &Application{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeName:      a.EmployeeName,
		Department:        a.Department,
		Designation:       a.Designation,
		Contacts:          a.Contacts,
		LeaveTypes:        a.Types(),
		FromDate:          a.FromDate,
		ToDate:            a.ToDate,
		Reason:            a.Reason,
		EmployeeSignature: a.EmployeeSignature,
		ImportantComments: a.ImportantComments,
		Status:            a.Status,
		AdminComments:     a.AdminComments,
		DecidedBy:         a.DecidedBy,
		DecidedAt:         a.DecidedAt,
		SubmittedAt:       a.SubmittedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func FromDataModelSlice(apps []*leavedm.Application) []*Application {
	result := make([]*Application, len(apps))
	for i, a := range apps {
		result[i] = FromDataModel(a)
	}
	return result
}
