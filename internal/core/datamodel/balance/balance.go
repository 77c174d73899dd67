package balance

import "time"

// Balance is one ledger row: a user's allocation and consumption for a single
// leave type in a single calendar year. remaining is never stored; it is
// recomputed from total - used on every read so the two cannot drift.
type Balance struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_balance_user_year_type"`
	Year      int       `json:"year" gorm:"not null;uniqueIndex:idx_balance_user_year_type"`
	LeaveType string    `json:"leave_type" gorm:"column:leave_type;not null;uniqueIndex:idx_balance_user_year_type"`
	TotalDays int       `json:"total_days" gorm:"column:total_days;not null"`
	UsedDays  int       `json:"used_days" gorm:"column:used_days;not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"default:now()"`
	UpdatedAt time.Time `json:"updated_at" gorm:"default:now()"`
}

// TableName returns the table name for GORM
func (Balance) TableName() string {
	return "leave_balances"
}

// Remaining is floored at zero; overdraw is reported through Exceeded.
func (b *Balance) Remaining() int {
	if b.UsedDays >= b.TotalDays {
		return 0
	}
	return b.TotalDays - b.UsedDays
}

func (b *Balance) Exceeded() bool {
	return b.UsedDays > b.TotalDays
}
