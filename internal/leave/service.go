package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/hosana-alex/leave-management/internal"
	"github.com/hosana-alex/leave-management/internal/account"
	"github.com/hosana-alex/leave-management/internal/auth"
	leavedm "github.com/hosana-alex/leave-management/internal/core/datamodel/leave"
	"github.com/hosana-alex/leave-management/internal/core/events"
)

// Repository defines the data access methods for leave applications.
type Repository interface {
	Create(app *leavedm.Application) error
	GetByID(id int64) (*leavedm.Application, error)
	List(filter ListFilter) ([]*leavedm.Application, error)
	// FindOverlapping returns the employee's pending and approved
	// applications whose date ranges intersect [from, to].
	FindOverlapping(employeeID int64, from, to time.Time) ([]*leavedm.Application, error)
	// Decide performs a compare-and-swap: the row moves to the terminal
	// status only if it is still pending. Returns false when no row matched.
	Decide(id int64, status string, adminID int64, comments string, decidedAt time.Time) (bool, error)
	// ListBetween returns applications in the given statuses whose ranges
	// intersect [from, to], for calendar views.
	ListBetween(from, to time.Time, statuses []string) ([]*leavedm.Application, error)
}

// Accounts is the slice of the registry the workflow needs: the submitting
// employee's profile snapshot.
type Accounts interface {
	GetByID(userID int64) (*account.Account, error)
}

// Ledger is the slice of the balance ledger the workflow needs. PrecheckDebit
// only fails when the ledger enforces a hard cap.
type Ledger interface {
	PrecheckDebit(userID int64, year int, leaveType string, days int) error
	Debit(userID int64, year int, leaveType string, days int) error
}

// EventPublisher decouples the workflow from notification fan-out.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service implements the leave application workflow: submission with a
// profile snapshot and the single pending to terminal decision step.
type Service struct {
	repo     Repository
	accounts Accounts
	ledger   Ledger
	bus      EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, accounts Accounts, ledger Ledger, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		ledger:   ledger,
		bus:      bus,
		logger:   logger,
	}
}

// Submit files a new application for the given employee. The employee's
// name, department, designation and contacts are copied onto the application
// so the record stays readable after profile changes.
func (s *Service) Submit(ctx context.Context, employeeID int64, dto SubmitDTO) (*Application, error) {
	from, to, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	acct, err := s.accounts.GetByID(employeeID)
	if err != nil {
		return nil, err
	}
	if acct.Department == "" {
		return nil, internal.NewValidationError("Department is missing on your profile. Update your profile before applying for leave.", internal.ErrCodeMissingField)
	}

	now := time.Now()
	app := &Application{
		EmployeeID:        acct.ID,
		EmployeeName:      acct.Name,
		Department:        acct.Department,
		Designation:       acct.Designation,
		Contacts:          acct.Contacts,
		LeaveTypes:        dto.LeaveTypes,
		FromDate:          from,
		ToDate:            to,
		Reason:            dto.Reason,
		EmployeeSignature: dto.EmployeeSignature,
		ImportantComments: dto.ImportantComments,
		Status:            leavedm.StatusPending,
		SubmittedAt:       now,
	}

	dm := ToDataModel(app)
	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create leave application", "employee_id", employeeID, "error", err)
		return nil, err
	}
	app.ID = dm.ID
	app.CreatedAt = dm.CreatedAt
	app.UpdatedAt = dm.UpdatedAt

	if err := s.bus.Publish(ctx, events.NewLeaveSubmittedEvent(
		app.ID, app.EmployeeID, app.EmployeeName, app.Department,
		app.FromDate.Format(dateLayout), app.ToDate.Format(dateLayout))); err != nil {
		s.logger.Warn("failed to publish leave submitted event", "application_id", app.ID, "error", err)
	}

	s.logger.Info("leave application submitted",
		"application_id", app.ID,
		"employee_id", app.EmployeeID,
		"days", app.DayCount())
	return app, nil
}

// CheckOverlap returns the employee's pending and approved applications that
// intersect the requested range. Overlaps are advisory and never block a
// submission.
func (s *Service) CheckOverlap(employeeID int64, fromDate, toDate string) ([]*Application, error) {
	from, err := time.Parse(dateLayout, fromDate)
	if err != nil {
		return nil, internal.NewValidationError("from_date must use YYYY-MM-DD format", internal.ErrCodeInvalidFormat)
	}
	to, err := time.Parse(dateLayout, toDate)
	if err != nil {
		return nil, internal.NewValidationError("to_date must use YYYY-MM-DD format", internal.ErrCodeInvalidFormat)
	}
	if to.Before(from) {
		return nil, internal.NewValidationError("to_date must not be before from_date", internal.ErrCodeInvalidDateRange)
	}

	dms, err := s.repo.FindOverlapping(employeeID, from, to)
	if err != nil {
		return nil, err
	}
	return FromDataModelSlice(dms), nil
}

// GetByID returns a single application. Employees may only read their own.
func (s *Service) GetByID(id int64, user *auth.User) (*Application, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dm.EmployeeID != user.ID && !user.HasPermission(auth.PermViewAllApplications) {
		return nil, internal.ErrForbidden
	}
	return FromDataModel(dm), nil
}

// List returns applications matching the filter. Non-admin callers are
// always scoped to their own applications regardless of the filter.
func (s *Service) List(user *auth.User, filter ListFilter) ([]*Application, error) {
	if !user.HasPermission(auth.PermViewAllApplications) {
		filter.EmployeeID = user.ID
		filter.Department = ""
	}
	dms, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}
	return FromDataModelSlice(dms), nil
}

// Calendar returns the applications overlapping the given year. Non-admin
// callers see approved leave only; admins also see pending requests.
func (s *Service) Calendar(user *auth.User, year int) ([]*Application, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	statuses := []string{leavedm.StatusApproved}
	if user.HasPermission(auth.PermViewAllApplications) {
		statuses = append(statuses, leavedm.StatusPending)
	}
	dms, err := s.repo.ListBetween(from, to, statuses)
	if err != nil {
		return nil, err
	}
	return FromDataModelSlice(dms), nil
}

// Decide moves a pending application to approved or rejected. The transition
// is a compare-and-swap so concurrent decisions on the same application
// cannot both take effect, and an approval debits the ledger exactly once.
func (s *Service) Decide(ctx context.Context, id int64, adminID int64, dto DecideDTO) (*Application, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dm.IsTerminal() {
		return nil, internal.NewInvalidTransitionError("application has already been " + dm.Status)
	}

	app := FromDataModel(dm)
	if dto.Status == leavedm.StatusApproved {
		year := app.FromDate.Year()
		days := app.DayCount()
		for _, lt := range app.LeaveTypes {
			if !IsTrackedType(lt) {
				continue
			}
			if err := s.ledger.PrecheckDebit(app.EmployeeID, year, lt, days); err != nil {
				return nil, err
			}
		}
	}

	decidedAt := time.Now()
	moved, err := s.repo.Decide(id, dto.Status, adminID, dto.AdminComments, decidedAt)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, internal.NewInvalidTransitionError("application is no longer pending")
	}

	app.Status = dto.Status
	app.AdminComments = dto.AdminComments
	app.DecidedBy = &adminID
	app.DecidedAt = &decidedAt

	if dto.Status == leavedm.StatusApproved {
		year := app.FromDate.Year()
		days := app.DayCount()
		for _, lt := range app.LeaveTypes {
			if !IsTrackedType(lt) {
				continue
			}
			if err := s.ledger.Debit(app.EmployeeID, year, lt, days); err != nil {
				s.logger.Error("failed to debit leave balance after approval",
					"application_id", app.ID,
					"employee_id", app.EmployeeID,
					"leave_type", lt,
					"error", err)
			}
		}
	}

	if err := s.bus.Publish(ctx, events.NewLeaveDecidedEvent(
		app.ID, app.EmployeeID, app.Status, app.AdminComments,
		app.FromDate.Format(dateLayout), app.ToDate.Format(dateLayout))); err != nil {
		s.logger.Warn("failed to publish leave decided event", "application_id", app.ID, "error", err)
	}

	s.logger.Info("leave application decided",
		"application_id", app.ID,
		"status", app.Status,
		"decided_by", adminID)
	return app, nil
}

// BulkApprove approves each application independently. A failure on one
// application never aborts the rest.
func (s *Service) BulkApprove(ctx context.Context, adminID int64, dto BulkDecideDTO) (*BulkResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.bulkDecide(ctx, adminID, dto.ApplicationIDs, DecideDTO{
		Status:        leavedm.StatusApproved,
		AdminComments: dto.AdminComments,
	}), nil
}

// BulkReject rejects each application independently. AdminComments is
// required, as for a single rejection.
func (s *Service) BulkReject(ctx context.Context, adminID int64, dto BulkDecideDTO) (*BulkResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	decision := DecideDTO{Status: leavedm.StatusRejected, AdminComments: dto.AdminComments}
	if err := decision.Validate(); err != nil {
		return nil, err
	}
	return s.bulkDecide(ctx, adminID, dto.ApplicationIDs, decision), nil
}

func (s *Service) bulkDecide(ctx context.Context, adminID int64, ids []int64, decision DecideDTO) *BulkResult {
	result := &BulkResult{Succeeded: []int64{}, Failed: []BulkFailure{}}
	for _, id := range ids {
		if _, err := s.Decide(ctx, id, adminID, decision); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}
