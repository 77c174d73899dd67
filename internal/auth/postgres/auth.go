package postgres

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hosana-alex/leave-management/internal"
	userdm "github.com/hosana-alex/leave-management/internal/core/datamodel/user"
)

// Repository implements auth.UserRepository using GORM
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(email string) (*userdm.Account, error) {
	var account userdm.Account
	err := r.db.Where("email = ?", strings.ToLower(email)).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *Repository) GetByID(userID int64) (*userdm.Account, error) {
	var account userdm.Account
	err := r.db.Where("id = ?", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *Repository) UpdatePassword(userID int64, passwordHash string, resetRequired bool) error {
	return r.db.Model(&userdm.Account{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash":           passwordHash,
			"password_reset_required": resetRequired,
			"updated_at":              time.Now(),
		}).Error
}
