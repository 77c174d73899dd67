package balance

import (
	"log/slog"
	"sort"
	"time"

	"github.com/hosana-alex/leave-management/internal"
	balancedm "github.com/hosana-alex/leave-management/internal/core/datamodel/balance"
)

// Repository defines the data access methods for the balance ledger.
type Repository interface {
	ListByUserYear(userID int64, year int) ([]*balancedm.Balance, error)
	Get(userID int64, year int, leaveType string) (*balancedm.Balance, error)
	// EnsureRow inserts the row if it does not exist yet. Concurrent callers
	// racing on the same key must both succeed.
	EnsureRow(userID int64, year int, leaveType string, totalDays int) error
	// AddUsed atomically increments used_days. When capped is true the
	// increment only applies while it stays within total_days; returns false
	// when the guarded update matched no row.
	AddUsed(userID int64, year int, leaveType string, days int, capped bool) (bool, error)
	SetAllocation(userID int64, year int, leaveType string, totalDays int) error
	ResetUsed(userID int64, year int) error
}

// Service implements the leave balance ledger: per user, year and leave type
// allotments with lazily created default rows.
type Service struct {
	repo     Repository
	defaults map[string]int
	hardCap  bool
	logger   *slog.Logger
}

func NewService(repo Repository, defaults map[string]int, hardCap bool, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		hardCap:  hardCap,
		logger:   logger,
	}
}

// EnsureYear creates the default allocation rows for every tracked leave
// type. Existing rows are left untouched, so the call is idempotent.
func (s *Service) EnsureYear(userID int64, year int) error {
	for leaveType, days := range s.defaults {
		if err := s.repo.EnsureRow(userID, year, leaveType, days); err != nil {
			return err
		}
	}
	return nil
}

// GetBalance returns the employee's ledger for the year. A year with no rows
// yet is not an error: the response carries the default allocations with zero
// usage and initialized=false, so callers can tell no-data from zero usage.
func (s *Service) GetBalance(userID int64, year int) (*YearBalance, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	dms, err := s.repo.ListByUserYear(userID, year)
	if err != nil {
		return nil, err
	}

	result := &YearBalance{UserID: userID, Year: year, Initialized: len(dms) > 0}
	if len(dms) == 0 {
		for leaveType, days := range s.defaults {
			result.Balances = append(result.Balances, TypeBalance{
				LeaveType: leaveType,
				TotalDays: days,
				Remaining: days,
			})
		}
		sort.Slice(result.Balances, func(i, j int) bool {
			return result.Balances[i].LeaveType < result.Balances[j].LeaveType
		})
		return result, nil
	}

	result.Balances = make([]TypeBalance, 0, len(dms))
	for _, dm := range dms {
		result.Balances = append(result.Balances, typeBalanceFromDataModel(dm))
	}
	sort.Slice(result.Balances, func(i, j int) bool {
		return result.Balances[i].LeaveType < result.Balances[j].LeaveType
	})
	return result, nil
}

// PrecheckDebit validates a prospective debit. It only fails when the hard
// cap is enabled and the debit would push used days past the allotment.
func (s *Service) PrecheckDebit(userID int64, year int, leaveType string, days int) error {
	if !s.hardCap {
		return nil
	}
	defaultDays, tracked := s.defaults[leaveType]
	if !tracked {
		return internal.ErrBalanceNotFound
	}
	if err := s.repo.EnsureRow(userID, year, leaveType, defaultDays); err != nil {
		return err
	}
	dm, err := s.repo.Get(userID, year, leaveType)
	if err != nil {
		return err
	}
	if dm.UsedDays+days > dm.TotalDays {
		return internal.NewValidationError("approving this application would exceed the "+leaveType+" allotment", internal.ErrCodeBalanceExceeded)
	}
	return nil
}

// Debit records used days against the employee's allotment. Without the hard
// cap, balances may go past the allotment and surface as exceeded.
func (s *Service) Debit(userID int64, year int, leaveType string, days int) error {
	defaultDays, tracked := s.defaults[leaveType]
	if !tracked {
		return internal.ErrBalanceNotFound
	}
	if err := s.repo.EnsureRow(userID, year, leaveType, defaultDays); err != nil {
		return err
	}

	applied, err := s.repo.AddUsed(userID, year, leaveType, days, s.hardCap)
	if err != nil {
		return err
	}
	if !applied {
		return internal.NewValidationError("approving this application would exceed the "+leaveType+" allotment", internal.ErrCodeBalanceExceeded)
	}

	s.logger.Info("leave balance debited",
		"user_id", userID,
		"year", year,
		"leave_type", leaveType,
		"days", days)
	return nil
}

// SetAllocation overrides the total allotment for one leave type. Used days
// are preserved.
func (s *Service) SetAllocation(userID int64, year int, dto AdjustDTO) (*YearBalance, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if year == 0 {
		year = time.Now().Year()
	}
	defaultDays, tracked := s.defaults[dto.LeaveType]
	if !tracked {
		return nil, internal.ErrBalanceNotFound
	}
	if err := s.repo.EnsureRow(userID, year, dto.LeaveType, defaultDays); err != nil {
		return nil, err
	}
	if err := s.repo.SetAllocation(userID, year, dto.LeaveType, dto.TotalDays); err != nil {
		return nil, err
	}

	s.logger.Info("leave allocation adjusted",
		"user_id", userID,
		"year", year,
		"leave_type", dto.LeaveType,
		"total_days", dto.TotalDays)
	return s.GetBalance(userID, year)
}

// ResetYear zeroes the used days for every leave type in the year.
func (s *Service) ResetYear(userID int64, year int) (*YearBalance, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	if err := s.EnsureYear(userID, year); err != nil {
		return nil, err
	}
	if err := s.repo.ResetUsed(userID, year); err != nil {
		return nil, err
	}

	s.logger.Info("leave balances reset", "user_id", userID, "year", year)
	return s.GetBalance(userID, year)
}
