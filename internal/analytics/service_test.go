package analytics

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hosana-alex/leave-management/internal/leave"
)

func TestAnalytics(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Analytics Module Suite")
}

// Mock Repository for testing
type mockAnalyticsRepository struct {
	appCounts      map[string]int64
	employeeCounts map[string]int64
	userCounts     map[string]int64
	departments    []DepartmentStat
	trends         []MonthlyTrend
	spans          []ApprovedSpan
	activeToday    int64
	upcoming       []UpcomingLeave
}

func (m *mockAnalyticsRepository) ApplicationStatusCounts(_ context.Context) (map[string]int64, error) {
	return m.appCounts, nil
}

func (m *mockAnalyticsRepository) EmployeeStatusCounts(_ context.Context, _ int64) (map[string]int64, error) {
	return m.employeeCounts, nil
}

func (m *mockAnalyticsRepository) UserStatusCounts(_ context.Context) (map[string]int64, error) {
	return m.userCounts, nil
}

func (m *mockAnalyticsRepository) DepartmentStats(_ context.Context, _ int) ([]DepartmentStat, error) {
	return m.departments, nil
}

func (m *mockAnalyticsRepository) MonthlyTrends(_ context.Context, _ int) ([]MonthlyTrend, error) {
	return m.trends, nil
}

func (m *mockAnalyticsRepository) ApprovedSpans(_ context.Context, _ int) ([]ApprovedSpan, error) {
	return m.spans, nil
}

func (m *mockAnalyticsRepository) ActiveOn(_ context.Context, _ time.Time) (int64, error) {
	return m.activeToday, nil
}

func (m *mockAnalyticsRepository) UpcomingBetween(_ context.Context, _, _ time.Time) ([]UpcomingLeave, error) {
	return m.upcoming, nil
}

func span(types, from, to string) ApprovedSpan {
	fromDate, _ := time.Parse("2006-01-02", from)
	toDate, _ := time.Parse("2006-01-02", to)
	return ApprovedSpan{LeaveTypes: types, FromDate: fromDate, ToDate: toDate}
}

var _ = ginkgo.Describe("Analytics Service", func() {
	var (
		repo    *mockAnalyticsRepository
		service *Service
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		repo = &mockAnalyticsRepository{
			appCounts:      map[string]int64{"pending": 3, "approved": 6, "rejected": 2},
			employeeCounts: map[string]int64{"pending": 1, "approved": 4},
			userCounts:     map[string]int64{"approved": 12, "pending": 2, "deactivated": 1},
			departments:    []DepartmentStat{{Department: "Editorial", Applications: 5, ApprovedDays: 17}},
			trends:         []MonthlyTrend{{Month: "2026-07", Submitted: 4, Approved: 3}},
			activeToday:    2,
		}
		service = NewService(repo, slog.Default())
		ctx = context.Background()
	})

	ginkgo.Describe("Dashboard", func() {
		ginkgo.It("totals applications and users across statuses", func() {
			report, err := service.Dashboard(ctx, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Stats.TotalApplications).To(gomega.Equal(int64(11)))
			gomega.Expect(report.Stats.PendingApplications).To(gomega.Equal(int64(3)))
			gomega.Expect(report.Stats.TotalUsers).To(gomega.Equal(int64(15)))
			gomega.Expect(report.Stats.PendingUsers).To(gomega.Equal(int64(2)))
			gomega.Expect(report.Stats.ActiveToday).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("computes the approval rate over decided applications only", func() {
			report, err := service.Dashboard(ctx, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Stats.ApprovalRate).To(gomega.BeNumerically("~", 0.75, 0.001))
		})

		ginkgo.It("reports a zero approval rate when nothing is decided", func() {
			repo.appCounts = map[string]int64{"pending": 5}

			report, err := service.Dashboard(ctx, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Stats.ApprovalRate).To(gomega.BeZero())
		})

		ginkgo.It("averages approved durations inclusively", func() {
			repo.spans = []ApprovedSpan{
				span(leave.TypeSick, "2026-03-02", "2026-03-06"),
				span(leave.TypePersonal, "2026-04-01", "2026-04-01"),
			}

			report, err := service.Dashboard(ctx, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Stats.AverageDurationDays).To(gomega.BeNumerically("~", 3.0, 0.001))
		})

		ginkgo.It("splits comma-joined tags into the type distribution", func() {
			repo.spans = []ApprovedSpan{
				span(leave.TypeSick+","+leave.TypeUnpaid, "2026-03-02", "2026-03-06"),
				span(leave.TypeSick, "2026-04-01", "2026-04-01"),
			}

			report, err := service.Dashboard(ctx, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.TypeDistribution).To(gomega.Equal([]TypeCount{
				{LeaveType: leave.TypeSick, Count: 2},
				{LeaveType: leave.TypeUnpaid, Count: 1},
			}))
		})

		ginkgo.It("passes department stats and trends through", func() {
			report, err := service.Dashboard(ctx, 2026)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.DepartmentStats).To(gomega.HaveLen(1))
			gomega.Expect(report.DepartmentStats[0].ApprovedDays).To(gomega.Equal(int64(17)))
			gomega.Expect(report.MonthlyTrends).To(gomega.HaveLen(1))
		})
	})

	ginkgo.Describe("EmployeeDashboard", func() {
		ginkgo.It("returns the caller's own counts", func() {
			stats, err := service.EmployeeDashboard(ctx, 1)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(stats.TotalApplications).To(gomega.Equal(int64(5)))
			gomega.Expect(stats.PendingApplications).To(gomega.Equal(int64(1)))
			gomega.Expect(stats.ApprovedApplications).To(gomega.Equal(int64(4)))
			gomega.Expect(stats.RejectedApplications).To(gomega.BeZero())
		})
	})
})
