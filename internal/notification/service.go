package notification

import (
	"encoding/json"
	"log/slog"

	"github.com/hosana-alex/leave-management/internal"
	notifdm "github.com/hosana-alex/leave-management/internal/core/datamodel/notification"
)

// ListFilter narrows a user's notification listing.
type ListFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

const defaultListLimit = 50

// Repository defines the data access methods for notifications.
type Repository interface {
	Create(n *notifdm.Notification) error
	ListByUser(userID int64, filter ListFilter) ([]*notifdm.Notification, error)
	UnreadCount(userID int64) (int64, error)
	// MarkRead only touches rows addressed to userID. Returns false when no
	// row matched.
	MarkRead(id, userID int64) (bool, error)
	MarkAllRead(userID int64) error
	// Delete only removes rows addressed to userID. Returns false when no
	// row matched.
	Delete(id, userID int64) (bool, error)
	// ListAdminIDs returns the ids of approved admin accounts, the fan-out
	// set for broadcast notifications.
	ListAdminIDs() ([]int64, error)
}

// Service implements per-addressee notifications with admin broadcast
// fan-out.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Notify creates one notification addressed to a single user.
func (s *Service) Notify(userID int64, title, message, notifType, actionURL string, extra map[string]interface{}) error {
	n := &notifdm.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		ActionURL: actionURL,
	}
	if len(extra) > 0 {
		raw, err := json.Marshal(extra)
		if err == nil {
			n.ExtraData = string(raw)
		}
	}
	return s.repo.Create(n)
}

// NotifyAdmins materializes one row per approved admin so each keeps their
// own read state.
func (s *Service) NotifyAdmins(title, message, notifType, actionURL string, extra map[string]interface{}) error {
	adminIDs, err := s.repo.ListAdminIDs()
	if err != nil {
		return err
	}
	for _, id := range adminIDs {
		if err := s.Notify(id, title, message, notifType, actionURL, extra); err != nil {
			s.logger.Warn("failed to create admin notification", "admin_id", id, "error", err)
		}
	}
	return nil
}

func (s *Service) List(userID int64, filter ListFilter) ([]*notifdm.Notification, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListByUser(userID, filter)
}

func (s *Service) UnreadCount(userID int64) (int64, error) {
	return s.repo.UnreadCount(userID)
}

// MarkRead flips one notification to read. Only the addressee may do it;
// anyone else sees not-found rather than a hint the row exists.
func (s *Service) MarkRead(id, userID int64) error {
	marked, err := s.repo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if !marked {
		return internal.ErrNotificationMissing
	}
	return nil
}

func (s *Service) MarkAllRead(userID int64) error {
	return s.repo.MarkAllRead(userID)
}

// Delete removes one notification. Same addressee scoping as MarkRead.
func (s *Service) Delete(id, userID int64) error {
	deleted, err := s.repo.Delete(id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return internal.ErrNotificationMissing
	}
	return nil
}
