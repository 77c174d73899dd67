package analytics

import "time"

// DashboardStats is the admin overview: workflow volume, outcome ratios and
// registry pressure in one payload.
type DashboardStats struct {
	TotalApplications    int64   `json:"total_applications"`
	PendingApplications  int64   `json:"pending_applications"`
	ApprovedApplications int64   `json:"approved_applications"`
	RejectedApplications int64   `json:"rejected_applications"`
	ApprovalRate         float64 `json:"approval_rate"`
	AverageDurationDays  float64 `json:"average_duration_days"`
	ActiveToday          int64   `json:"active_today"`
	TotalUsers           int64   `json:"total_users"`
	PendingUsers         int64   `json:"pending_users"`
}

// DepartmentStat aggregates workflow volume per department.
type DepartmentStat struct {
	Department   string `db:"department" json:"department"`
	Applications int64  `db:"applications" json:"applications"`
	ApprovedDays int64  `db:"approved_days" json:"approved_days"`
}

// MonthlyTrend is one month's submission and approval volume. Month uses
// YYYY-MM.
type MonthlyTrend struct {
	Month     string `db:"month" json:"month"`
	Submitted int64  `db:"submitted" json:"submitted"`
	Approved  int64  `db:"approved" json:"approved"`
}

// TypeCount is one leave type's share of approved applications.
type TypeCount struct {
	LeaveType string `json:"leave_type"`
	Count     int64  `json:"count"`
}

// UpcomingLeave is one approved absence starting within the lookahead
// window.
type UpcomingLeave struct {
	ApplicationID int64     `db:"id" json:"application_id"`
	EmployeeName  string    `db:"employee_name" json:"employee_name"`
	Department    string    `db:"department" json:"department"`
	FromDate      time.Time `db:"from_date" json:"from_date"`
	ToDate        time.Time `db:"to_date" json:"to_date"`
}

// Report is the full analytics payload for the admin dashboard.
type Report struct {
	Stats            DashboardStats   `json:"stats"`
	DepartmentStats  []DepartmentStat `json:"department_stats"`
	MonthlyTrends    []MonthlyTrend   `json:"monthly_trends"`
	TypeDistribution []TypeCount      `json:"type_distribution"`
	UpcomingLeaves   []UpcomingLeave  `json:"upcoming_leaves"`
}

// EmployeeStats is the lightweight self-service dashboard payload.
type EmployeeStats struct {
	TotalApplications    int64 `json:"total_applications"`
	PendingApplications  int64 `json:"pending_applications"`
	ApprovedApplications int64 `json:"approved_applications"`
	RejectedApplications int64 `json:"rejected_applications"`
}
