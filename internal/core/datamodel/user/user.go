package user

import "time"

// Account lifecycle states. pending -> approved|rejected at review time;
// approved <-> deactivated afterwards. Accounts are never hard-deleted.
const (
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusDeactivated = "deactivated"
)

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Account is the persistence model for a user record.
type Account struct {
	ID                    int64     `json:"id" gorm:"primaryKey"`
	Email                 string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash          string    `json:"-" gorm:"column:password_hash;not null"`
	Name                  string    `json:"name" gorm:"not null"`
	Department            string    `json:"department" gorm:"not null"`
	Designation           string    `json:"designation"`
	Contacts              string    `json:"contacts"`
	EmergencyContact      string    `json:"emergency_contact"`
	EmergencyPhone        string    `json:"emergency_phone"`
	Role                  string    `json:"role" gorm:"default:employee"`
	Status                string    `json:"status" gorm:"default:pending;index"`
	PasswordResetRequired bool      `json:"password_reset_required" gorm:"column:password_reset_required;default:false"`
	CreatedAt             time.Time `json:"created_at" gorm:"default:now()"`
	UpdatedAt             time.Time `json:"updated_at" gorm:"default:now()"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "users"
}

func (a *Account) IsPending() bool     { return a.Status == StatusPending }
func (a *Account) IsApproved() bool    { return a.Status == StatusApproved }
func (a *Account) IsDeactivated() bool { return a.Status == StatusDeactivated }
