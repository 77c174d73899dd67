package analytics

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hosana-alex/leave-management/internal/auth"
	"github.com/hosana-alex/leave-management/internal/transport"
	"github.com/hosana-alex/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Dashboard(ctx context.Context, year int) (*Report, error)
	EmployeeDashboard(ctx context.Context, employeeID int64) (*EmployeeStats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Dashboard handles GET /analytics/dashboard with an optional year.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	year := 0
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}

	report, err := h.Service.Dashboard(r.Context(), year)
	if err != nil {
		h.Logger.Error("Dashboard: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

// EmployeeDashboard handles GET /dashboard/stats for the authenticated user.
func (h *Handler) EmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.Service.EmployeeDashboard(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}
