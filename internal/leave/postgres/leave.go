package postgres

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hosana-alex/leave-management/internal"
	leavedm "github.com/hosana-alex/leave-management/internal/core/datamodel/leave"
	"github.com/hosana-alex/leave-management/internal/leave"
)

// LeaveRepository implements the leave.Repository interface using GORM
type LeaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository creates a new leave application repository
func NewLeaveRepository(db *gorm.DB) leave.Repository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(app *leavedm.Application) error {
	return r.db.Create(app).Error
}

func (r *LeaveRepository) GetByID(id int64) (*leavedm.Application, error) {
	var dm leavedm.Application
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrApplicationNotFound
		}
		return nil, err
	}
	return &dm, nil
}

func (r *LeaveRepository) List(filter leave.ListFilter) ([]*leavedm.Application, error) {
	var dms []*leavedm.Application
	q := r.db.Order("submitted_at DESC")
	if filter.EmployeeID != 0 {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(employee_name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if !filter.From.IsZero() {
		q = q.Where("to_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("from_date <= ?", filter.To)
	}
	if filter.Year != 0 {
		start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(filter.Year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		q = q.Where("from_date >= ? AND from_date < ?", start, end)
	}
	if err := q.Find(&dms).Error; err != nil {
		return nil, err
	}
	return dms, nil
}

// FindOverlapping uses the standard interval intersection test: two ranges
// overlap when each one starts before the other ends.
func (r *LeaveRepository) FindOverlapping(employeeID int64, from, to time.Time) ([]*leavedm.Application, error) {
	var dms []*leavedm.Application
	err := r.db.
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{leavedm.StatusPending, leavedm.StatusApproved}).
		Where("from_date <= ? AND to_date >= ?", to, from).
		Order("from_date ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return dms, nil
}

// Decide is the workflow's compare-and-swap: the WHERE clause pins the
// pending status so two concurrent decisions cannot both win.
func (r *LeaveRepository) Decide(id int64, status string, adminID int64, comments string, decidedAt time.Time) (bool, error) {
	res := r.db.Model(&leavedm.Application{}).
		Where("id = ? AND status = ?", id, leavedm.StatusPending).
		Updates(map[string]interface{}{
			"status":         status,
			"admin_comments": comments,
			"decided_by":     adminID,
			"decided_at":     decidedAt,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *LeaveRepository) ListBetween(from, to time.Time, statuses []string) ([]*leavedm.Application, error) {
	var dms []*leavedm.Application
	err := r.db.
		Where("status IN ?", statuses).
		Where("from_date <= ? AND to_date >= ?", to, from).
		Order("from_date ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return dms, nil
}
