package notification

import (
	"context"
	"fmt"
	"log/slog"

	notifdm "github.com/hosana-alex/leave-management/internal/core/datamodel/notification"
	"github.com/hosana-alex/leave-management/internal/core/events"
)

// Dispatcher translates domain events into notifications. It runs on the
// event bus, off the request path, so a slow insert never delays the caller.
type Dispatcher struct {
	svc    *Service
	logger *slog.Logger
}

func NewDispatcher(svc *Service, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{svc: svc, logger: logger}
}

// RegisterHandlers subscribes the dispatcher to every event it materializes
// notifications for.
func (d *Dispatcher) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventLeaveSubmitted, d.handleLeaveSubmitted)
	bus.Subscribe(events.EventLeaveDecided, d.handleLeaveDecided)
	bus.Subscribe(events.EventAccountRegistered, d.handleAccountRegistered)
	bus.Subscribe(events.EventAccountApproved, d.handleAccountApproved)
	bus.Subscribe(events.EventAccountRejected, d.handleAccountRejected)
	bus.Subscribe(events.EventAccountPasswordReset, d.handleAccountPasswordReset)
}

func payloadMap(event events.Event) map[string]interface{} {
	if m, ok := event.Payload().(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func payloadInt64(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func payloadString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func (d *Dispatcher) handleLeaveSubmitted(ctx context.Context, event events.Event) error {
	m := payloadMap(event)
	applicationID := payloadInt64(m, "application_id")
	message := fmt.Sprintf("%s (%s) applied for leave from %s to %s",
		payloadString(m, "employee_name"),
		payloadString(m, "department"),
		payloadString(m, "from_date"),
		payloadString(m, "to_date"))

	return d.svc.NotifyAdmins(
		"New Leave Application",
		message,
		notifdm.TypeInfo,
		fmt.Sprintf("/admin/leave-applications/%d", applicationID),
		m)
}

func (d *Dispatcher) handleLeaveDecided(ctx context.Context, event events.Event) error {
	m := payloadMap(event)
	employeeID := payloadInt64(m, "employee_id")
	decision := payloadString(m, "decision")
	fromDate := payloadString(m, "from_date")
	toDate := payloadString(m, "to_date")

	title := "Leave Application Approved"
	notifType := notifdm.TypeSuccess
	message := fmt.Sprintf("Your leave from %s to %s has been approved", fromDate, toDate)
	if decision != "approved" {
		title = "Leave Application Rejected"
		notifType = notifdm.TypeWarning
		message = fmt.Sprintf("Your leave from %s to %s has been rejected", fromDate, toDate)
		if comments := payloadString(m, "admin_comments"); comments != "" {
			message += ": " + comments
		}
	}

	return d.svc.Notify(employeeID, title, message, notifType, "/leave-applications", m)
}

func (d *Dispatcher) handleAccountRegistered(ctx context.Context, event events.Event) error {
	m := payloadMap(event)
	message := fmt.Sprintf("%s (%s) registered and is awaiting approval",
		payloadString(m, "name"),
		payloadString(m, "department"))

	return d.svc.NotifyAdmins(
		"New User Registration",
		message,
		notifdm.TypeInfo,
		"/admin/users?status=pending",
		m)
}

func (d *Dispatcher) handleAccountApproved(ctx context.Context, event events.Event) error {
	m := payloadMap(event)
	return d.svc.Notify(
		payloadInt64(m, "user_id"),
		"Account Approved",
		"Your account has been approved. Welcome aboard!",
		notifdm.TypeSuccess,
		"/dashboard",
		nil)
}

func (d *Dispatcher) handleAccountRejected(ctx context.Context, event events.Event) error {
	m := payloadMap(event)
	return d.svc.Notify(
		payloadInt64(m, "user_id"),
		"Account Rejected",
		"Your registration was not approved. Contact an administrator for details.",
		notifdm.TypeWarning,
		"",
		nil)
}

func (d *Dispatcher) handleAccountPasswordReset(ctx context.Context, event events.Event) error {
	m := payloadMap(event)
	return d.svc.Notify(
		payloadInt64(m, "user_id"),
		"Password Reset",
		"An administrator reset your password. You must change it at your next login.",
		notifdm.TypeWarning,
		"",
		nil)
}
