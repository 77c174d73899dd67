package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hosana-alex/leave-management/internal"
	"github.com/hosana-alex/leave-management/internal/balance"
	balancedm "github.com/hosana-alex/leave-management/internal/core/datamodel/balance"
)

// BalanceRepository implements the balance.Repository interface using GORM
type BalanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *gorm.DB) balance.Repository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) ListByUserYear(userID int64, year int) ([]*balancedm.Balance, error) {
	var dms []*balancedm.Balance
	err := r.db.
		Where("user_id = ? AND year = ?", userID, year).
		Order("leave_type ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return dms, nil
}

func (r *BalanceRepository) Get(userID int64, year int, leaveType string) (*balancedm.Balance, error) {
	var dm balancedm.Balance
	err := r.db.
		Where("user_id = ? AND year = ? AND leave_type = ?", userID, year, leaveType).
		First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBalanceNotFound
		}
		return nil, err
	}
	return &dm, nil
}

// EnsureRow relies on the unique index over (user_id, year, leave_type):
// conflicting inserts are dropped so racing callers both succeed.
func (r *BalanceRepository) EnsureRow(userID int64, year int, leaveType string, totalDays int) error {
	dm := &balancedm.Balance{
		UserID:    userID,
		Year:      year,
		LeaveType: leaveType,
		TotalDays: totalDays,
		UsedDays:  0,
	}
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(dm).Error
}

// AddUsed increments used_days in a single UPDATE so concurrent debits never
// lose a day. The capped variant pins the sum under total_days.
func (r *BalanceRepository) AddUsed(userID int64, year int, leaveType string, days int, capped bool) (bool, error) {
	q := r.db.Model(&balancedm.Balance{}).
		Where("user_id = ? AND year = ? AND leave_type = ?", userID, year, leaveType)
	if capped {
		q = q.Where("used_days + ? <= total_days", days)
	}
	res := q.Updates(map[string]interface{}{
		"used_days":  gorm.Expr("used_days + ?", days),
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BalanceRepository) SetAllocation(userID int64, year int, leaveType string, totalDays int) error {
	return r.db.Model(&balancedm.Balance{}).
		Where("user_id = ? AND year = ? AND leave_type = ?", userID, year, leaveType).
		Updates(map[string]interface{}{
			"total_days": totalDays,
			"updated_at": time.Now(),
		}).Error
}

func (r *BalanceRepository) ResetUsed(userID int64, year int) error {
	return r.db.Model(&balancedm.Balance{}).
		Where("user_id = ? AND year = ?", userID, year).
		Updates(map[string]interface{}{
			"used_days":  0,
			"updated_at": time.Now(),
		}).Error
}
