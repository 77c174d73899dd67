package analytics

import (
	"context"
	"log/slog"
	"time"

	leavedm "github.com/hosana-alex/leave-management/internal/core/datamodel/leave"
	"github.com/hosana-alex/leave-management/internal/leave"
)

// ApprovedSpan is one approved application's shape, enough to derive
// durations and the per-type distribution in memory.
type ApprovedSpan struct {
	LeaveTypes string    `db:"leave_types"`
	FromDate   time.Time `db:"from_date"`
	ToDate     time.Time `db:"to_date"`
}

// Repository defines the read queries behind the analytics views.
type Repository interface {
	ApplicationStatusCounts(ctx context.Context) (map[string]int64, error)
	EmployeeStatusCounts(ctx context.Context, employeeID int64) (map[string]int64, error)
	UserStatusCounts(ctx context.Context) (map[string]int64, error)
	DepartmentStats(ctx context.Context, year int) ([]DepartmentStat, error)
	MonthlyTrends(ctx context.Context, months int) ([]MonthlyTrend, error)
	ApprovedSpans(ctx context.Context, year int) ([]ApprovedSpan, error)
	ActiveOn(ctx context.Context, day time.Time) (int64, error)
	UpcomingBetween(ctx context.Context, from, to time.Time) ([]UpcomingLeave, error)
}

const (
	trendMonths       = 6
	upcomingLookahead = 7 * 24 * time.Hour
)

// Service assembles the analytics views. Every number is derived from the
// workflow tables at read time; nothing is precomputed or estimated.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Dashboard builds the full admin report for the given year (zero means the
// current year).
func (s *Service) Dashboard(ctx context.Context, year int) (*Report, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	appCounts, err := s.repo.ApplicationStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	userCounts, err := s.repo.UserStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	departmentStats, err := s.repo.DepartmentStats(ctx, year)
	if err != nil {
		return nil, err
	}
	trends, err := s.repo.MonthlyTrends(ctx, trendMonths)
	if err != nil {
		return nil, err
	}
	spans, err := s.repo.ApprovedSpans(ctx, year)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	activeToday, err := s.repo.ActiveOn(ctx, now)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.repo.UpcomingBetween(ctx, now, now.Add(upcomingLookahead))
	if err != nil {
		return nil, err
	}

	stats := DashboardStats{
		PendingApplications:  appCounts[leavedm.StatusPending],
		ApprovedApplications: appCounts[leavedm.StatusApproved],
		RejectedApplications: appCounts[leavedm.StatusRejected],
		ActiveToday:          activeToday,
	}
	for _, c := range appCounts {
		stats.TotalApplications += c
	}
	for _, c := range userCounts {
		stats.TotalUsers += c
	}
	stats.PendingUsers = userCounts["pending"]
	if decided := stats.ApprovedApplications + stats.RejectedApplications; decided > 0 {
		stats.ApprovalRate = float64(stats.ApprovedApplications) / float64(decided)
	}
	stats.AverageDurationDays = averageDuration(spans)

	return &Report{
		Stats:            stats,
		DepartmentStats:  departmentStats,
		MonthlyTrends:    trends,
		TypeDistribution: typeDistribution(spans),
		UpcomingLeaves:   upcoming,
	}, nil
}

// EmployeeDashboard returns the caller's own application counts.
func (s *Service) EmployeeDashboard(ctx context.Context, employeeID int64) (*EmployeeStats, error) {
	counts, err := s.repo.EmployeeStatusCounts(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	stats := &EmployeeStats{
		PendingApplications:  counts[leavedm.StatusPending],
		ApprovedApplications: counts[leavedm.StatusApproved],
		RejectedApplications: counts[leavedm.StatusRejected],
	}
	for _, c := range counts {
		stats.TotalApplications += c
	}
	return stats, nil
}

// typeDistribution counts approved applications per leave type. The stored
// tags are comma-joined, so the split happens here rather than in SQL.
func typeDistribution(spans []ApprovedSpan) []TypeCount {
	counts := make(map[string]int64)
	for _, span := range spans {
		app := leavedm.Application{LeaveTypes: span.LeaveTypes}
		for _, lt := range app.Types() {
			counts[lt]++
		}
	}

	// Stable order: the catalogue first, then anything unexpected.
	ordered := []string{
		leave.TypeSick, leave.TypePersonal, leave.TypeMaternity,
		leave.TypeStudy, leave.TypeBereavement, leave.TypeUnpaid, leave.TypeOther,
	}
	out := make([]TypeCount, 0, len(counts))
	for _, lt := range ordered {
		if c, ok := counts[lt]; ok {
			out = append(out, TypeCount{LeaveType: lt, Count: c})
			delete(counts, lt)
		}
	}
	for lt, c := range counts {
		out = append(out, TypeCount{LeaveType: lt, Count: c})
	}
	return out
}

func averageDuration(spans []ApprovedSpan) float64 {
	if len(spans) == 0 {
		return 0
	}
	var total int64
	for _, span := range spans {
		total += int64(span.ToDate.Sub(span.FromDate).Hours()/24) + 1
	}
	return float64(total) / float64(len(spans))
}
