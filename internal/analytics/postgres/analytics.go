package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hosana-alex/leave-management/internal/analytics"
)

// AnalyticsRepository implements the analytics.Repository interface with raw
// read queries over the workflow tables.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *sqlx.DB) analytics.Repository {
	return &AnalyticsRepository{db: db}
}

type statusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

func (r *AnalyticsRepository) statusCounts(ctx context.Context, query string, args ...interface{}) (map[string]int64, error) {
	var rows []statusCount
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("status counts query: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *AnalyticsRepository) ApplicationStatusCounts(ctx context.Context) (map[string]int64, error) {
	return r.statusCounts(ctx,
		`SELECT status, COUNT(*) AS count FROM leave_applications GROUP BY status`)
}

func (r *AnalyticsRepository) EmployeeStatusCounts(ctx context.Context, employeeID int64) (map[string]int64, error) {
	return r.statusCounts(ctx,
		`SELECT status, COUNT(*) AS count FROM leave_applications WHERE employee_id = $1 GROUP BY status`,
		employeeID)
}

func (r *AnalyticsRepository) UserStatusCounts(ctx context.Context) (map[string]int64, error) {
	return r.statusCounts(ctx,
		`SELECT status, COUNT(*) AS count FROM users GROUP BY status`)
}

func (r *AnalyticsRepository) DepartmentStats(ctx context.Context, year int) ([]analytics.DepartmentStat, error) {
	query := `
SELECT department,
       COUNT(*) AS applications,
       COALESCE(SUM(CASE WHEN status = 'approved' THEN (to_date - from_date) + 1 ELSE 0 END), 0) AS approved_days
FROM leave_applications
WHERE EXTRACT(YEAR FROM from_date) = $1
GROUP BY department
ORDER BY applications DESC
`
	var rows []analytics.DepartmentStat
	if err := r.db.SelectContext(ctx, &rows, query, year); err != nil {
		return nil, fmt.Errorf("department stats query: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) MonthlyTrends(ctx context.Context, months int) ([]analytics.MonthlyTrend, error) {
	query := `
SELECT to_char(date_trunc('month', submitted_at), 'YYYY-MM') AS month,
       COUNT(*) AS submitted,
       COUNT(*) FILTER (WHERE status = 'approved') AS approved
FROM leave_applications
WHERE submitted_at >= date_trunc('month', now()) - ($1 - 1) * INTERVAL '1 month'
GROUP BY date_trunc('month', submitted_at)
ORDER BY month
`
	var rows []analytics.MonthlyTrend
	if err := r.db.SelectContext(ctx, &rows, query, months); err != nil {
		return nil, fmt.Errorf("monthly trends query: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) ApprovedSpans(ctx context.Context, year int) ([]analytics.ApprovedSpan, error) {
	query := `
SELECT leave_types, from_date, to_date
FROM leave_applications
WHERE status = 'approved' AND EXTRACT(YEAR FROM from_date) = $1
`
	var rows []analytics.ApprovedSpan
	if err := r.db.SelectContext(ctx, &rows, query, year); err != nil {
		return nil, fmt.Errorf("approved spans query: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) ActiveOn(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	query := `
SELECT COUNT(*) FROM leave_applications
WHERE status = 'approved' AND from_date <= $1 AND to_date >= $1
`
	if err := r.db.GetContext(ctx, &count, query, day); err != nil {
		return 0, fmt.Errorf("active leaves query: %w", err)
	}
	return count, nil
}

func (r *AnalyticsRepository) UpcomingBetween(ctx context.Context, from, to time.Time) ([]analytics.UpcomingLeave, error) {
	query := `
SELECT id, employee_name, department, from_date, to_date
FROM leave_applications
WHERE status = 'approved' AND from_date >= $1 AND from_date <= $2
ORDER BY from_date ASC
`
	var rows []analytics.UpcomingLeave
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("upcoming leaves query: %w", err)
	}
	return rows, nil
}
