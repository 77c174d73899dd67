package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hosana-alex/leave-management/internal"
	userdm "github.com/hosana-alex/leave-management/internal/core/datamodel/user"
	"github.com/hosana-alex/leave-management/internal/core/events"
)

// Repository defines the data access methods for accounts.
type Repository interface {
	Create(acct *Account) error
	GetByID(id int64) (*Account, error)
	EmailExists(email string) (bool, error)
	List(status string) ([]*Account, error)
	// TransitionStatus performs a compare-and-swap: the row moves to the
	// target status only if its current status is in from. Returns false when
	// no row matched.
	TransitionStatus(id int64, from []string, to string) (bool, error)
	UpdateProfile(id int64, fields map[string]interface{}) error
	UpdatePassword(id int64, passwordHash string, resetRequired bool) error
}

// Ledger is the slice of the balance ledger the registry needs: first-year
// initialization when an account becomes approved.
type Ledger interface {
	EnsureYear(userID int64, year int) error
}

// EventPublisher decouples the registry from notification fan-out.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service implements the account registry: registration with domain-based
// auto-approval and the admin status transitions.
type Service struct {
	repo               Repository
	ledger             Ledger
	bus                EventPublisher
	logger             *slog.Logger
	autoApproveDomains []string
	bcryptCost         int
}

func NewService(repo Repository, ledger Ledger, bus EventPublisher, logger *slog.Logger, autoApproveDomains []string, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:               repo,
		ledger:             ledger,
		bus:                bus,
		logger:             logger,
		autoApproveDomains: autoApproveDomains,
		bcryptCost:         bcryptCost,
	}
}

// isAutoApproveEmail reports whether the address matches the organization's
// allow-list. Entries may be bare domains ("example.com") or full address
// suffixes (".ewordpublishers@gmail.com").
func (s *Service) isAutoApproveEmail(email string) bool {
	lowered := strings.ToLower(email)
	for _, entry := range s.autoApproveDomains {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "@") {
			if strings.HasSuffix(lowered, entry) {
				return true
			}
			continue
		}
		if strings.HasSuffix(lowered, "@"+entry) {
			return true
		}
	}
	return false
}

// Register creates a new account. Allow-listed addresses skip the review
// queue entirely: they come out approved with a first-year balance already
// initialized.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*RegisterResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if exists {
		return nil, internal.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	autoApproved := s.isAutoApproveEmail(email)
	status := userdm.StatusPending
	if autoApproved {
		status = userdm.StatusApproved
	}

	now := time.Now()
	acct := &Account{
		Email:            email,
		PasswordHash:     string(hash),
		Name:             dto.Name,
		Department:       dto.Department,
		Designation:      dto.Designation,
		Contacts:         dto.Contacts,
		EmergencyContact: dto.EmergencyContact,
		EmergencyPhone:   dto.EmergencyPhone,
		Role:             userdm.RoleEmployee,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(acct); err != nil {
		return nil, err
	}

	message := "Registration successful. Your account is pending admin approval."
	if autoApproved {
		message = "Registration successful. You can now log in."
		if err := s.ledger.EnsureYear(acct.ID, now.Year()); err != nil {
			s.logger.Error("failed to initialize leave balance", "user_id", acct.ID, "error", err)
		}
		s.bus.Publish(ctx, events.NewAccountApprovedEvent(acct.ID, acct.Name))
	} else {
		s.bus.Publish(ctx, events.NewAccountRegisteredEvent(acct.ID, acct.Name, acct.Department, acct.Email))
	}

	s.logger.Info("account registered",
		"user_id", acct.ID,
		"email", acct.Email,
		"status", status,
		"auto_approved", autoApproved)

	return &RegisterResult{
		Message:      message,
		Status:       status,
		User:         acct,
		AutoApproved: autoApproved,
	}, nil
}

func (s *Service) GetByID(userID int64) (*Account, error) {
	return s.repo.GetByID(userID)
}

// List returns accounts for the admin user screen, optionally filtered by
// status.
func (s *Service) List(status string) ([]*Account, error) {
	return s.repo.List(status)
}

// Approve moves a pending account to approved and initializes its first-year
// leave balance.
func (s *Service) Approve(ctx context.Context, userID int64) error {
	acct, err := s.transition(userID, []string{userdm.StatusPending}, userdm.StatusApproved, "approve")
	if err != nil {
		return err
	}

	if err := s.ledger.EnsureYear(userID, time.Now().Year()); err != nil {
		s.logger.Error("failed to initialize leave balance", "user_id", userID, "error", err)
	}

	s.bus.Publish(ctx, events.NewAccountApprovedEvent(userID, acct.Name))
	s.logger.Info("account approved", "user_id", userID)
	return nil
}

// Reject moves a pending account to rejected.
func (s *Service) Reject(ctx context.Context, userID int64) error {
	acct, err := s.transition(userID, []string{userdm.StatusPending}, userdm.StatusRejected, "reject")
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewAccountRejectedEvent(userID, acct.Name))
	s.logger.Info("account rejected", "user_id", userID)
	return nil
}

// Deactivate blocks an approved account from authenticating. The user's
// pending leave applications are left pending: deactivation revokes access,
// not history, and admins keep full discretion over the queued requests.
func (s *Service) Deactivate(ctx context.Context, userID int64) error {
	if _, err := s.transition(userID, []string{userdm.StatusApproved}, userdm.StatusDeactivated, "deactivate"); err != nil {
		return err
	}
	s.logger.Info("account deactivated", "user_id", userID)
	return nil
}

// Reactivate restores a deactivated account to approved.
func (s *Service) Reactivate(ctx context.Context, userID int64) error {
	if _, err := s.transition(userID, []string{userdm.StatusDeactivated}, userdm.StatusApproved, "reactivate"); err != nil {
		return err
	}
	s.logger.Info("account reactivated", "user_id", userID)
	return nil
}

func (s *Service) transition(userID int64, from []string, to, action string) (*Account, error) {
	acct, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	moved, err := s.repo.TransitionStatus(userID, from, to)
	if err != nil {
		return nil, internal.NewInternalError("failed to update account status", err)
	}
	if !moved {
		s.logger.Warn("invalid account transition",
			"user_id", userID,
			"action", action,
			"current_status", acct.Status)
		return nil, internal.NewInvalidTransitionError("cannot " + action + " account in status " + acct.Status)
	}
	return acct, nil
}

// ResetPassword generates a temporary credential, stores its hash and flags
// the account for a forced password change. The credential is delivered out
// of band; it never appears in the event payload or the response.
func (s *Service) ResetPassword(ctx context.Context, userID int64) error {
	acct, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}

	temp, err := generateTempPassword()
	if err != nil {
		return internal.NewInternalError("failed to generate temporary password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(temp), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash temporary password", err)
	}

	if err := s.repo.UpdatePassword(userID, string(hash), true); err != nil {
		return internal.NewInternalError("failed to store temporary password", err)
	}

	s.bus.Publish(ctx, events.NewAccountPasswordResetEvent(userID, acct.Name))
	s.logger.Info("password reset issued", "user_id", userID)
	return nil
}

// UpdateProfile applies self-service edits. Email is immutable through this
// path.
func (s *Service) UpdateProfile(userID int64, dto UpdateProfileDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	fields := dto.Fields()
	if len(fields) == 0 {
		return s.repo.GetByID(userID)
	}
	fields["updated_at"] = time.Now()

	if _, err := s.repo.GetByID(userID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(userID, fields); err != nil {
		return nil, internal.NewInternalError("failed to update profile", err)
	}

	return s.repo.GetByID(userID)
}

// BulkApprove applies Approve per id, isolating failures.
func (s *Service) BulkApprove(ctx context.Context, userIDs []int64) *BulkResult {
	return s.bulk(userIDs, func(id int64) error { return s.Approve(ctx, id) })
}

// BulkReject applies Reject per id, isolating failures.
func (s *Service) BulkReject(ctx context.Context, userIDs []int64) *BulkResult {
	return s.bulk(userIDs, func(id int64) error { return s.Reject(ctx, id) })
}

// BulkDeactivate applies Deactivate per id, isolating failures.
func (s *Service) BulkDeactivate(ctx context.Context, userIDs []int64) *BulkResult {
	return s.bulk(userIDs, func(id int64) error { return s.Deactivate(ctx, id) })
}

// generateTempPassword returns a short random credential for admin-driven
// password resets.
func generateTempPassword() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// bulk runs op per id as independent transactions. One failure never aborts
// the rest; the result reports both lists.
func (s *Service) bulk(userIDs []int64, op func(int64) error) *BulkResult {
	result := &BulkResult{
		Succeeded: make([]int64, 0, len(userIDs)),
		Failed:    make([]BulkFailure, 0),
	}
	for _, id := range userIDs {
		if err := op(id); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}
