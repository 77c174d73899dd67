package leave

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hosana-alex/leave-management/internal/auth"
	leavedm "github.com/hosana-alex/leave-management/internal/core/datamodel/leave"
)

// Mock ServiceAPI for testing the decision handlers
type mockDecideService struct {
	ServiceAPI
	decideCalls []DecideDTO
}

func (m *mockDecideService) Decide(ctx context.Context, id int64, adminID int64, dto DecideDTO) (*Application, error) {
	m.decideCalls = append(m.decideCalls, dto)
	return &Application{ID: id, Status: dto.Status}, nil
}

func decisionRequest(user *auth.User, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/admin/leave-applications/7/status", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "7")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, auth.ContextUserKey, user)
	return req.WithContext(ctx)
}

var _ = ginkgo.Describe("Leave Decision Handler", func() {
	var (
		service *mockDecideService
		handler *Handler
	)

	approver := &auth.User{
		ID:          2,
		Name:        "Grace Muthoni",
		Role:        "admin",
		Permissions: []string{auth.PermApproveLeave, auth.PermViewAllApplications},
	}
	fullAdmin := &auth.User{
		ID:          3,
		Name:        "Samuel Kiprop",
		Role:        "admin",
		Permissions: []string{auth.PermAdmin},
	}

	ginkgo.BeforeEach(func() {
		service = &mockDecideService{}
		handler = NewHandler(service)
	})

	ginkgo.Describe("DecideApplication", func() {
		ginkgo.It("lets an approver approve through the status endpoint", func() {
			w := httptest.NewRecorder()

			handler.DecideApplication(w, decisionRequest(approver, `{"status":"approved"}`))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(service.decideCalls).To(gomega.HaveLen(1))
			gomega.Expect(service.decideCalls[0].Status).To(gomega.Equal(leavedm.StatusApproved))
		})

		ginkgo.It("refuses a rejection payload from a user without the reject capability", func() {
			w := httptest.NewRecorder()

			handler.DecideApplication(w, decisionRequest(approver, `{"status":"rejected","admin_comments":"short staffed"}`))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(service.decideCalls).To(gomega.BeEmpty())
		})

		ginkgo.It("lets a full admin reject through the status endpoint", func() {
			w := httptest.NewRecorder()

			handler.DecideApplication(w, decisionRequest(fullAdmin, `{"status":"rejected","admin_comments":"short staffed"}`))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(service.decideCalls).To(gomega.HaveLen(1))
			gomega.Expect(service.decideCalls[0].Status).To(gomega.Equal(leavedm.StatusRejected))
		})
	})
})
