package notification

import "time"

const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

// Notification is addressed to exactly one user; broadcasts to admins are
// materialized as one row per admin so read-state stays per-addressee.
type Notification struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	UserID    int64      `json:"user_id" gorm:"column:user_id;not null;index"`
	Title     string     `json:"title" gorm:"not null"`
	Message   string     `json:"message" gorm:"not null"`
	Type      string     `json:"type" gorm:"default:info"`
	Read      bool       `json:"read" gorm:"default:false;index"`
	ActionURL string     `json:"action_url,omitempty" gorm:"column:action_url"`
	ExtraData string     `json:"-" gorm:"column:extra_data"`
	CreatedAt time.Time  `json:"created_at" gorm:"default:now()"`
	ReadAt    *time.Time `json:"read_at,omitempty" gorm:"column:read_at"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}
