package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the account registry and the leave workflow. The
// notification dispatcher subscribes to all of them; the balance ledger
// subscribes to account approval.
const (
	EventLeaveSubmitted       = "leave.submitted"
	EventLeaveDecided         = "leave.decided"
	EventAccountRegistered    = "account.registered"
	EventAccountApproved      = "account.approved"
	EventAccountRejected      = "account.rejected"
	EventAccountPasswordReset = "account.password_reset"
)

func newBaseEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewLeaveSubmittedEvent(applicationID, employeeID int64, employeeName, department string, fromDate, toDate string) BaseEvent {
	return newBaseEvent(EventLeaveSubmitted, map[string]interface{}{
		"application_id": applicationID,
		"employee_id":    employeeID,
		"employee_name":  employeeName,
		"department":     department,
		"from_date":      fromDate,
		"to_date":        toDate,
	})
}

func NewLeaveDecidedEvent(applicationID, employeeID int64, decision, adminComments, fromDate, toDate string) BaseEvent {
	return newBaseEvent(EventLeaveDecided, map[string]interface{}{
		"application_id": applicationID,
		"employee_id":    employeeID,
		"decision":       decision,
		"admin_comments": adminComments,
		"from_date":      fromDate,
		"to_date":        toDate,
	})
}

func NewAccountRegisteredEvent(userID int64, name, department, email string) BaseEvent {
	return newBaseEvent(EventAccountRegistered, map[string]interface{}{
		"user_id":    userID,
		"name":       name,
		"department": department,
		"email":      email,
	})
}

func NewAccountApprovedEvent(userID int64, name string) BaseEvent {
	return newBaseEvent(EventAccountApproved, map[string]interface{}{
		"user_id": userID,
		"name":    name,
	})
}

func NewAccountRejectedEvent(userID int64, name string) BaseEvent {
	return newBaseEvent(EventAccountRejected, map[string]interface{}{
		"user_id": userID,
		"name":    name,
	})
}

func NewAccountPasswordResetEvent(userID int64, name string) BaseEvent {
	return newBaseEvent(EventAccountPasswordReset, map[string]interface{}{
		"user_id": userID,
		"name":    name,
	})
}
