package balance

import (
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hosana-alex/leave-management/internal"
	balancedm "github.com/hosana-alex/leave-management/internal/core/datamodel/balance"
	"github.com/hosana-alex/leave-management/internal/leave"
)

func TestBalance(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Balance Module Suite")
}

var testDefaults = map[string]int{
	leave.TypeSick:     10,
	leave.TypePersonal: 5,
}

type balanceKey struct {
	userID    int64
	year      int
	leaveType string
}

// Mock Repository for testing
type mockBalanceRepository struct {
	rows        map[balanceKey]*balancedm.Balance
	ensureCalls int
	returnError error
}

func newMockBalanceRepository() *mockBalanceRepository {
	return &mockBalanceRepository{rows: make(map[balanceKey]*balancedm.Balance)}
}

func (m *mockBalanceRepository) ListByUserYear(userID int64, year int) ([]*balancedm.Balance, error) {
	var out []*balancedm.Balance
	for key, row := range m.rows {
		if key.userID == userID && key.year == year {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockBalanceRepository) Get(userID int64, year int, leaveType string) (*balancedm.Balance, error) {
	if row, ok := m.rows[balanceKey{userID, year, leaveType}]; ok {
		return row, nil
	}
	return nil, internal.ErrBalanceNotFound
}

func (m *mockBalanceRepository) EnsureRow(userID int64, year int, leaveType string, totalDays int) error {
	if m.returnError != nil {
		return m.returnError
	}
	m.ensureCalls++
	key := balanceKey{userID, year, leaveType}
	if _, exists := m.rows[key]; exists {
		return nil
	}
	m.rows[key] = &balancedm.Balance{UserID: userID, Year: year, LeaveType: leaveType, TotalDays: totalDays}
	return nil
}

func (m *mockBalanceRepository) AddUsed(userID int64, year int, leaveType string, days int, capped bool) (bool, error) {
	row, ok := m.rows[balanceKey{userID, year, leaveType}]
	if !ok {
		return false, nil
	}
	if capped && row.UsedDays+days > row.TotalDays {
		return false, nil
	}
	row.UsedDays += days
	return true, nil
}

func (m *mockBalanceRepository) SetAllocation(userID int64, year int, leaveType string, totalDays int) error {
	row, ok := m.rows[balanceKey{userID, year, leaveType}]
	if !ok {
		return internal.ErrBalanceNotFound
	}
	row.TotalDays = totalDays
	return nil
}

func (m *mockBalanceRepository) ResetUsed(userID int64, year int) error {
	for key, row := range m.rows {
		if key.userID == userID && key.year == year {
			row.UsedDays = 0
		}
	}
	return nil
}

var _ = ginkgo.Describe("Balance Service", func() {
	var (
		repo    *mockBalanceRepository
		service *Service
	)

	newService := func(hardCap bool) *Service {
		return NewService(repo, testDefaults, hardCap, slog.Default())
	}

	ginkgo.BeforeEach(func() {
		repo = newMockBalanceRepository()
		service = newService(false)
	})

	ginkgo.Describe("EnsureYear", func() {
		ginkgo.It("creates one row per tracked leave type", func() {
			err := service.EnsureYear(1, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.rows).To(gomega.HaveLen(len(testDefaults)))
			gomega.Expect(repo.rows[balanceKey{1, 2026, leave.TypeSick}].TotalDays).To(gomega.Equal(10))
		})

		ginkgo.It("leaves existing rows untouched on repeat calls", func() {
			gomega.Expect(service.EnsureYear(1, 2026)).To(gomega.Succeed())
			repo.rows[balanceKey{1, 2026, leave.TypeSick}].UsedDays = 3

			gomega.Expect(service.EnsureYear(1, 2026)).To(gomega.Succeed())

			gomega.Expect(repo.rows).To(gomega.HaveLen(len(testDefaults)))
			gomega.Expect(repo.rows[balanceKey{1, 2026, leave.TypeSick}].UsedDays).To(gomega.Equal(3))
		})
	})

	ginkgo.Describe("GetBalance", func() {
		ginkgo.It("reports a year with no rows as uninitialized defaults", func() {
			result, err := service.GetBalance(1, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.Year).To(gomega.Equal(2026))
			gomega.Expect(result.Initialized).To(gomega.BeFalse())
			gomega.Expect(result.Balances).To(gomega.HaveLen(len(testDefaults)))
			gomega.Expect(repo.rows).To(gomega.BeEmpty())
		})

		ginkgo.It("marks the year initialized once rows exist", func() {
			gomega.Expect(service.EnsureYear(1, 2026)).To(gomega.Succeed())

			result, err := service.GetBalance(1, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.Initialized).To(gomega.BeTrue())
		})

		ginkgo.It("derives remaining instead of reading it", func() {
			gomega.Expect(service.EnsureYear(1, 2026)).To(gomega.Succeed())
			repo.rows[balanceKey{1, 2026, leave.TypeSick}].UsedDays = 4

			result, err := service.GetBalance(1, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			sick := findType(result, leave.TypeSick)
			gomega.Expect(sick.Remaining).To(gomega.Equal(6))
			gomega.Expect(sick.Exceeded).To(gomega.BeFalse())
		})

		ginkgo.It("reports overdrawn balances as exceeded with zero remaining", func() {
			gomega.Expect(service.EnsureYear(1, 2026)).To(gomega.Succeed())
			repo.rows[balanceKey{1, 2026, leave.TypeSick}].UsedDays = 13

			result, err := service.GetBalance(1, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			sick := findType(result, leave.TypeSick)
			gomega.Expect(sick.Remaining).To(gomega.Equal(0))
			gomega.Expect(sick.Exceeded).To(gomega.BeTrue())
		})

		ginkgo.It("sorts balances by leave type for stable output", func() {
			result, err := service.GetBalance(1, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.Balances[0].LeaveType <= result.Balances[1].LeaveType).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Debit", func() {
		ginkgo.Context("without the hard cap", func() {
			ginkgo.It("records used days against the allotment", func() {
				err := service.Debit(1, 2026, leave.TypeSick, 4)

				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(repo.rows[balanceKey{1, 2026, leave.TypeSick}].UsedDays).To(gomega.Equal(4))
			})

			ginkgo.It("allows a debit past the allotment", func() {
				err := service.Debit(1, 2026, leave.TypeSick, 14)

				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				result, _ := service.GetBalance(1, 2026)
				sick := findType(result, leave.TypeSick)
				gomega.Expect(sick.UsedDays).To(gomega.Equal(14))
				gomega.Expect(sick.Exceeded).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("with the hard cap", func() {
			ginkgo.BeforeEach(func() {
				service = newService(true)
			})

			ginkgo.It("rejects a debit past the allotment", func() {
				err := service.Debit(1, 2026, leave.TypeSick, 14)

				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeBalanceExceeded))
				gomega.Expect(repo.rows[balanceKey{1, 2026, leave.TypeSick}].UsedDays).To(gomega.BeZero())
			})

			ginkgo.It("accepts a debit that exactly exhausts the allotment", func() {
				err := service.Debit(1, 2026, leave.TypeSick, 10)

				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(repo.rows[balanceKey{1, 2026, leave.TypeSick}].UsedDays).To(gomega.Equal(10))
			})
		})

		ginkgo.It("refuses untracked leave types", func() {
			err := service.Debit(1, 2026, leave.TypeUnpaid, 3)

			gomega.Expect(err).To(gomega.MatchError(internal.ErrBalanceNotFound))
		})
	})

	ginkgo.Describe("PrecheckDebit", func() {
		ginkgo.It("is a no-op without the hard cap", func() {
			err := service.PrecheckDebit(1, 2026, leave.TypeSick, 100)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.Context("with the hard cap", func() {
			ginkgo.BeforeEach(func() {
				service = newService(true)
			})

			ginkgo.It("rejects a debit that would exceed the allotment", func() {
				gomega.Expect(service.Debit(1, 2026, leave.TypeSick, 8)).To(gomega.Succeed())

				err := service.PrecheckDebit(1, 2026, leave.TypeSick, 3)

				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeBalanceExceeded))
			})

			ginkgo.It("accepts a debit that fits", func() {
				err := service.PrecheckDebit(1, 2026, leave.TypeSick, 10)
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
			})

			ginkgo.It("refuses untracked leave types", func() {
				err := service.PrecheckDebit(1, 2026, leave.TypeUnpaid, 1)
				gomega.Expect(err).To(gomega.MatchError(internal.ErrBalanceNotFound))
			})
		})
	})

	ginkgo.Describe("SetAllocation", func() {
		ginkgo.It("overrides the allotment and preserves used days", func() {
			gomega.Expect(service.Debit(1, 2026, leave.TypeSick, 4)).To(gomega.Succeed())

			result, err := service.SetAllocation(1, 2026, AdjustDTO{LeaveType: leave.TypeSick, TotalDays: 20})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			sick := findType(result, leave.TypeSick)
			gomega.Expect(sick.TotalDays).To(gomega.Equal(20))
			gomega.Expect(sick.UsedDays).To(gomega.Equal(4))
			gomega.Expect(sick.Remaining).To(gomega.Equal(16))
		})

		ginkgo.It("rejects a negative allotment", func() {
			_, err := service.SetAllocation(1, 2026, AdjustDTO{LeaveType: leave.TypeSick, TotalDays: -1})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidFormat))
		})

		ginkgo.It("refuses untracked leave types", func() {
			_, err := service.SetAllocation(1, 2026, AdjustDTO{LeaveType: leave.TypeUnpaid, TotalDays: 5})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrBalanceNotFound))
		})
	})

	ginkgo.Describe("ResetYear", func() {
		ginkgo.It("zeroes used days for every type in the year", func() {
			gomega.Expect(service.Debit(1, 2026, leave.TypeSick, 4)).To(gomega.Succeed())
			gomega.Expect(service.Debit(1, 2026, leave.TypePersonal, 2)).To(gomega.Succeed())
			gomega.Expect(service.Debit(1, 2025, leave.TypeSick, 7)).To(gomega.Succeed())

			result, err := service.ResetYear(1, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			for _, b := range result.Balances {
				gomega.Expect(b.UsedDays).To(gomega.BeZero())
			}
			gomega.Expect(repo.rows[balanceKey{1, 2025, leave.TypeSick}].UsedDays).To(gomega.Equal(7))
		})
	})
})

func findType(result *YearBalance, leaveType string) TypeBalance {
	for _, b := range result.Balances {
		if b.LeaveType == leaveType {
			return b
		}
	}
	ginkgo.Fail("leave type not found: " + leaveType)
	return TypeBalance{}
}
