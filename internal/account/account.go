package account

import (
	"time"

	userdm "github.com/hosana-alex/leave-management/internal/core/datamodel/user"
)

// Account is the registry's domain view of a user record.
type Account struct {
	ID                    int64     `json:"id"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"`
	Name                  string    `json:"name"`
	Department            string    `json:"department"`
	Designation           string    `json:"designation"`
	Contacts              string    `json:"contacts"`
	EmergencyContact      string    `json:"emergency_contact"`
	EmergencyPhone        string    `json:"emergency_phone"`
	Role                  string    `json:"role"`
	Status                string    `json:"status"`
	PasswordResetRequired bool      `json:"password_reset_required"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (a *Account) CanBeApproved() bool {
	return a.Status == userdm.StatusPending
}

func (a *Account) CanBeRejected() bool {
	return a.Status == userdm.StatusPending
}

func (a *Account) CanBeDeactivated() bool {
	return a.Status == userdm.StatusApproved
}

func (a *Account) CanBeReactivated() bool {
	return a.Status == userdm.StatusDeactivated
}

func ToDataModel(a *Account) *userdm.Account {
	return &userdm.Account{
		ID:                    a.ID,
		Email:                 a.Email,
		PasswordHash:          a.PasswordHash,
		Name:                  a.Name,
		Department:            a.Department,
		Designation:           a.Designation,
		Contacts:              a.Contacts,
		EmergencyContact:      a.EmergencyContact,
		EmergencyPhone:        a.EmergencyPhone,
		Role:                  a.Role,
		Status:                a.Status,
		PasswordResetRequired: a.PasswordResetRequired,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

func FromDataModel(a *userdm.Account) *Account {
	return &Account{
		ID:                    a.ID,
		Email:                 a.Email,
		PasswordHash:          a.PasswordHash,
		Name:                  a.Name,
		Department:            a.Department,
		Designation:           a.Designation,
		Contacts:              a.Contacts,
		EmergencyContact:      a.EmergencyContact,
		EmergencyPhone:        a.EmergencyPhone,
		Role:                  a.Role,
		Status:                a.Status,
		PasswordResetRequired: a.PasswordResetRequired,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

func FromDataModelSlice(accounts []*userdm.Account) []*Account {
	result := make([]*Account, len(accounts))
	for i, a := range accounts {
		result[i] = FromDataModel(a)
	}
	return result
}
