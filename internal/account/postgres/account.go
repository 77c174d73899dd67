package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hosana-alex/leave-management/internal"
	"github.com/hosana-alex/leave-management/internal/account"
	userdm "github.com/hosana-alex/leave-management/internal/core/datamodel/user"
)

// AccountRepository implements the account.Repository interface using GORM
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) account.Repository {
	return &AccountRepository{db: db}
}

// Create saves a new account, mapping unique-index violations onto the
// duplicate-email error so racing registrations fail cleanly.
func (r *AccountRepository) Create(acct *account.Account) error {
	dm := account.ToDataModel(acct)
	if err := r.db.Create(dm).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrDuplicateEmail
		}
		return err
	}
	acct.ID = dm.ID
	return nil
}

func (r *AccountRepository) GetByID(id int64) (*account.Account, error) {
	var dm userdm.Account
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return account.FromDataModel(&dm), nil
}

func (r *AccountRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&userdm.Account{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *AccountRepository) List(status string) ([]*account.Account, error) {
	var dms []*userdm.Account
	q := r.db.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&dms).Error; err != nil {
		return nil, err
	}
	return account.FromDataModelSlice(dms), nil
}

// TransitionStatus is the registry's compare-and-swap: the WHERE clause pins
// the current status so two concurrent transitions cannot both win.
func (r *AccountRepository) TransitionStatus(id int64, from []string, to string) (bool, error) {
	res := r.db.Model(&userdm.Account{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AccountRepository) UpdateProfile(id int64, fields map[string]interface{}) error {
	return r.db.Model(&userdm.Account{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *AccountRepository) UpdatePassword(id int64, passwordHash string, resetRequired bool) error {
	return r.db.Model(&userdm.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":           passwordHash,
			"password_reset_required": resetRequired,
			"updated_at":              time.Now(),
		}).Error
}
