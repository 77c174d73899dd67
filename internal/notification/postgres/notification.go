package postgres

import (
	"time"

	"gorm.io/gorm"

	notifdm "github.com/hosana-alex/leave-management/internal/core/datamodel/notification"
	userdm "github.com/hosana-alex/leave-management/internal/core/datamodel/user"
	"github.com/hosana-alex/leave-management/internal/notification"
)

// NotificationRepository implements the notification.Repository interface
// using GORM
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notifdm.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListByUser(userID int64, filter notification.ListFilter) ([]*notifdm.Notification, error) {
	var dms []*notifdm.Notification
	q := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset)
	if filter.UnreadOnly {
		q = q.Where("read = ?", false)
	}
	if err := q.Find(&dms).Error; err != nil {
		return nil, err
	}
	return dms, nil
}

func (r *NotificationRepository) UnreadCount(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notifdm.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead scopes the update to the addressee so one user can never flip
// another's notification.
func (r *NotificationRepository) MarkRead(id, userID int64) (bool, error) {
	res := r.db.Model(&notifdm.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *NotificationRepository) MarkAllRead(userID int64) error {
	return r.db.Model(&notifdm.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": time.Now(),
		}).Error
}

// Delete is scoped to the addressee, matching MarkRead.
func (r *NotificationRepository) Delete(id, userID int64) (bool, error) {
	res := r.db.
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&notifdm.Notification{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *NotificationRepository) ListAdminIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&userdm.Account{}).
		Where("role = ? AND status = ?", userdm.RoleAdmin, userdm.StatusApproved).
		Pluck("id", &ids).Error
	return ids, err
}
