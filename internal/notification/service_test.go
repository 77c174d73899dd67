package notification

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hosana-alex/leave-management/internal"
	notifdm "github.com/hosana-alex/leave-management/internal/core/datamodel/notification"
	"github.com/hosana-alex/leave-management/internal/core/events"
)

func TestNotification(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Notification Module Suite")
}

// Mock Repository for testing
type mockNotificationRepository struct {
	notifications []*notifdm.Notification
	nextID        int64
	adminIDs      []int64
	lastFilter    ListFilter
	returnError   error
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{nextID: 1, adminIDs: []int64{10, 11}}
}

func (m *mockNotificationRepository) Create(n *notifdm.Notification) error {
	if m.returnError != nil {
		return m.returnError
	}
	n.ID = m.nextID
	m.nextID++
	n.CreatedAt = time.Now()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepository) ListByUser(userID int64, filter ListFilter) ([]*notifdm.Notification, error) {
	m.lastFilter = filter
	var out []*notifdm.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *mockNotificationRepository) UnreadCount(userID int64) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) MarkRead(id, userID int64) (bool, error) {
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID && !n.Read {
			now := time.Now()
			n.Read = true
			n.ReadAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationRepository) MarkAllRead(userID int64) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (m *mockNotificationRepository) Delete(id, userID int64) (bool, error) {
	for i, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationRepository) ListAdminIDs() ([]int64, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.adminIDs, nil
}

func (m *mockNotificationRepository) forUser(userID int64) []*notifdm.Notification {
	var out []*notifdm.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

var _ = ginkgo.Describe("Notification Service", func() {
	var (
		repo    *mockNotificationRepository
		service *Service
	)

	ginkgo.BeforeEach(func() {
		repo = newMockNotificationRepository()
		service = NewService(repo, slog.Default())
	})

	ginkgo.Describe("NotifyAdmins", func() {
		ginkgo.It("materializes one row per approved admin", func() {
			err := service.NotifyAdmins("Title", "Message", notifdm.TypeInfo, "/admin", nil)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.notifications).To(gomega.HaveLen(2))
			gomega.Expect(repo.forUser(10)).To(gomega.HaveLen(1))
			gomega.Expect(repo.forUser(11)).To(gomega.HaveLen(1))
		})
	})

	ginkgo.Describe("Notify", func() {
		ginkgo.It("serializes the extra payload", func() {
			err := service.Notify(1, "Title", "Message", notifdm.TypeInfo, "/x", map[string]interface{}{"application_id": 7})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.notifications[0].ExtraData).To(gomega.ContainSubstring(`"application_id":7`))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("applies the default limit when none is given", func() {
			_, err := service.List(1, ListFilter{})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.lastFilter.Limit).To(gomega.Equal(defaultListLimit))
		})

		ginkgo.It("clamps oversized limits", func() {
			_, err := service.List(1, ListFilter{Limit: 10000})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.lastFilter.Limit).To(gomega.Equal(defaultListLimit))
		})

		ginkgo.It("filters to unread when asked", func() {
			gomega.Expect(service.Notify(1, "A", "a", notifdm.TypeInfo, "", nil)).To(gomega.Succeed())
			gomega.Expect(service.Notify(1, "B", "b", notifdm.TypeInfo, "", nil)).To(gomega.Succeed())
			gomega.Expect(service.MarkRead(repo.notifications[0].ID, 1)).To(gomega.Succeed())

			list, err := service.List(1, ListFilter{UnreadOnly: true})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(list).To(gomega.HaveLen(1))
			gomega.Expect(list[0].Title).To(gomega.Equal("B"))
		})
	})

	ginkgo.Describe("MarkRead", func() {
		ginkgo.It("flips the addressee's notification to read", func() {
			gomega.Expect(service.Notify(1, "A", "a", notifdm.TypeInfo, "", nil)).To(gomega.Succeed())

			err := service.MarkRead(repo.notifications[0].ID, 1)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.notifications[0].Read).To(gomega.BeTrue())
			gomega.Expect(repo.notifications[0].ReadAt).NotTo(gomega.BeNil())
		})

		ginkgo.It("reports not-found for someone else's notification", func() {
			gomega.Expect(service.Notify(1, "A", "a", notifdm.TypeInfo, "", nil)).To(gomega.Succeed())

			err := service.MarkRead(repo.notifications[0].ID, 99)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotificationMissing))
			gomega.Expect(repo.notifications[0].Read).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("removes the addressee's notification", func() {
			gomega.Expect(service.Notify(1, "A", "a", notifdm.TypeInfo, "", nil)).To(gomega.Succeed())

			err := service.Delete(repo.notifications[0].ID, 1)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.forUser(1)).To(gomega.BeEmpty())
		})

		ginkgo.It("reports not-found for someone else's notification", func() {
			gomega.Expect(service.Notify(1, "A", "a", notifdm.TypeInfo, "", nil)).To(gomega.Succeed())

			err := service.Delete(repo.notifications[0].ID, 99)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrNotificationMissing))
			gomega.Expect(repo.forUser(1)).To(gomega.HaveLen(1))
		})
	})

	ginkgo.Describe("UnreadCount", func() {
		ginkgo.It("counts only unread rows for the user", func() {
			gomega.Expect(service.Notify(1, "A", "a", notifdm.TypeInfo, "", nil)).To(gomega.Succeed())
			gomega.Expect(service.Notify(1, "B", "b", notifdm.TypeInfo, "", nil)).To(gomega.Succeed())
			gomega.Expect(service.Notify(2, "C", "c", notifdm.TypeInfo, "", nil)).To(gomega.Succeed())
			gomega.Expect(service.MarkRead(repo.notifications[0].ID, 1)).To(gomega.Succeed())

			count, err := service.UnreadCount(1)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(count).To(gomega.Equal(int64(1)))
		})
	})
})

var _ = ginkgo.Describe("Notification Dispatcher", func() {
	var (
		repo       *mockNotificationRepository
		dispatcher *Dispatcher
		bus        *events.EventBus
		ctx        context.Context
	)

	ginkgo.BeforeEach(func() {
		repo = newMockNotificationRepository()
		dispatcher = NewDispatcher(NewService(repo, slog.Default()), slog.Default())
		bus = events.NewEventBus(slog.Default())
		dispatcher.RegisterHandlers(bus)
		ctx = context.Background()
	})

	ginkgo.Describe("leave.submitted", func() {
		ginkgo.It("notifies every admin with the application summary", func() {
			event := events.NewLeaveSubmittedEvent(7, 1, "Jane Wanjiku", "Editorial", "2026-03-02", "2026-03-06")

			err := bus.PublishSync(ctx, event)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.notifications).To(gomega.HaveLen(2))
			n := repo.notifications[0]
			gomega.Expect(n.Title).To(gomega.Equal("New Leave Application"))
			gomega.Expect(n.Type).To(gomega.Equal(notifdm.TypeInfo))
			gomega.Expect(n.Message).To(gomega.Equal("Jane Wanjiku (Editorial) applied for leave from 2026-03-02 to 2026-03-06"))
			gomega.Expect(n.ActionURL).To(gomega.Equal("/admin/leave-applications/7"))
		})
	})

	ginkgo.Describe("leave.decided", func() {
		ginkgo.It("congratulates the employee on approval", func() {
			event := events.NewLeaveDecidedEvent(7, 1, "approved", "", "2026-03-02", "2026-03-06")

			err := bus.PublishSync(ctx, event)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.notifications).To(gomega.HaveLen(1))
			n := repo.notifications[0]
			gomega.Expect(n.UserID).To(gomega.Equal(int64(1)))
			gomega.Expect(n.Title).To(gomega.Equal("Leave Application Approved"))
			gomega.Expect(n.Type).To(gomega.Equal(notifdm.TypeSuccess))
			gomega.Expect(n.ActionURL).To(gomega.Equal("/leave-applications"))
		})

		ginkgo.It("appends the admin comments on rejection", func() {
			event := events.NewLeaveDecidedEvent(7, 1, "rejected", "short staffed", "2026-03-02", "2026-03-06")

			err := bus.PublishSync(ctx, event)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			n := repo.notifications[0]
			gomega.Expect(n.Title).To(gomega.Equal("Leave Application Rejected"))
			gomega.Expect(n.Type).To(gomega.Equal(notifdm.TypeWarning))
			gomega.Expect(n.Message).To(gomega.HaveSuffix(": short staffed"))
		})
	})

	ginkgo.Describe("account.registered", func() {
		ginkgo.It("points admins at the pending queue", func() {
			event := events.NewAccountRegisteredEvent(5, "Peter Otieno", "Sales", "peter@example.com")

			err := bus.PublishSync(ctx, event)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.notifications).To(gomega.HaveLen(2))
			n := repo.notifications[0]
			gomega.Expect(n.Title).To(gomega.Equal("New User Registration"))
			gomega.Expect(n.ActionURL).To(gomega.Equal("/admin/users?status=pending"))
			gomega.Expect(n.Message).To(gomega.ContainSubstring("Peter Otieno"))
		})
	})

	ginkgo.Describe("account.approved", func() {
		ginkgo.It("welcomes the new employee", func() {
			event := events.NewAccountApprovedEvent(5, "Peter Otieno")

			err := bus.PublishSync(ctx, event)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.notifications).To(gomega.HaveLen(1))
			n := repo.notifications[0]
			gomega.Expect(n.UserID).To(gomega.Equal(int64(5)))
			gomega.Expect(n.Title).To(gomega.Equal("Account Approved"))
			gomega.Expect(n.ActionURL).To(gomega.Equal("/dashboard"))
		})
	})

	ginkgo.Describe("account.password_reset", func() {
		ginkgo.It("tells the user to change the password at next login", func() {
			event := events.NewAccountPasswordResetEvent(5, "Peter Otieno")

			err := bus.PublishSync(ctx, event)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			n := repo.notifications[0]
			gomega.Expect(n.Title).To(gomega.Equal("Password Reset"))
			gomega.Expect(n.Message).To(gomega.ContainSubstring("change it at your next login"))
		})
	})
})
