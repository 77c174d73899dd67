package leave

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/hosana-alex/leave-management/internal"
	"github.com/hosana-alex/leave-management/internal/auth"
	leavedm "github.com/hosana-alex/leave-management/internal/core/datamodel/leave"
	"github.com/hosana-alex/leave-management/internal/transport"
	"github.com/hosana-alex/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Submit(ctx context.Context, employeeID int64, dto SubmitDTO) (*Application, error)
	CheckOverlap(employeeID int64, fromDate, toDate string) ([]*Application, error)
	GetByID(id int64, user *auth.User) (*Application, error)
	List(user *auth.User, filter ListFilter) ([]*Application, error)
	Calendar(user *auth.User, year int) ([]*Application, error)
	Decide(ctx context.Context, id int64, adminID int64, dto DecideDTO) (*Application, error)
	BulkApprove(ctx context.Context, adminID int64, dto BulkDecideDTO) (*BulkResult, error)
	BulkReject(ctx context.Context, adminID int64, dto BulkDecideDTO) (*BulkResult, error)
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

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}

func (h *Handler) applicationIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid application ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var dto SubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	app, err := h.Service.Submit(r.Context(), user.ID, dto)
	if err != nil {
		h.Logger.Warn("Submit: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Leave application submitted successfully",
		"application": app,
	})
}

// CheckOverlap handles GET /leave-applications/check-overlap. Overlaps are
// reported for awareness; they never block submission.
func (h *Handler) CheckOverlap(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	overlaps, err := h.Service.CheckOverlap(user.ID, q.Get("from_date"), q.Get("to_date"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"has_overlap":  len(overlaps) > 0,
		"applications": overlaps,
	})
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := h.applicationIDParam(w, r)
	if !ok {
		return
	}

	app, err := h.Service.GetByID(id, user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"application": app})
}

// ListApplications handles GET /leave-applications. Admins may filter by
// employee, status, department and year; everyone else sees their own.
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		Status:     q.Get("status"),
		Department: q.Get("department"),
		Search:     q.Get("search"),
	}
	if v := q.Get("employee_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.EmployeeID = id
		}
	}
	if v := q.Get("year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			filter.Year = year
		}
	}
	if v := q.Get("from_date"); v != "" {
		if from, err := time.Parse(dateLayout, v); err == nil {
			filter.From = from
		}
	}
	if v := q.Get("to_date"); v != "" {
		if to, err := time.Parse(dateLayout, v); err == nil {
			filter.To = to
		}
	}

	apps, err := h.Service.List(user, filter)
	if err != nil {
		h.Logger.Error("ListApplications: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"applications": apps})
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	year := 0
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}

	apps, err := h.Service.Calendar(user, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"applications": apps})
}

// DecideApplication handles PUT /admin/leave-applications/{id}/status.
func (h *Handler) DecideApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := h.applicationIDParam(w, r)
	if !ok {
		return
	}

	var dto DecideDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The route guard only proves approve_leave; the payload picks the
	// decision, so a rejection still needs reject_leave.
	if dto.Status == leavedm.StatusRejected && !user.HasAnyPermission([]string{auth.PermRejectLeave, auth.PermAdmin}) {
		h.HandleServiceError(w, internal.ErrForbidden)
		return
	}

	app, err := h.Service.Decide(r.Context(), id, user.ID, dto)
	if err != nil {
		h.Logger.Warn("DecideApplication: service error", "error", err, "application_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Leave application " + app.Status,
		"application": app,
	})
}

// ApproveApplication is the shorthand for PUT /leave-applications/{id}/approve.
// The request body only carries optional admin comments.
func (h *Handler) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	h.decideShorthand(w, r, leavedm.StatusApproved)
}

// RejectApplication is the shorthand for PUT /leave-applications/{id}/reject.
func (h *Handler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	h.decideShorthand(w, r, leavedm.StatusRejected)
}

func (h *Handler) decideShorthand(w http.ResponseWriter, r *http.Request, status string) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := h.applicationIDParam(w, r)
	if !ok {
		return
	}

	var body struct {
		AdminComments string `json:"admin_comments"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	app, err := h.Service.Decide(r.Context(), id, user.ID, DecideDTO{Status: status, AdminComments: body.AdminComments})
	if err != nil {
		h.Logger.Warn("decideShorthand: service error", "error", err, "application_id", id, "status", status)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Leave application " + app.Status,
		"application": app,
	})
}

func (h *Handler) bulkDecide(op func(context.Context, int64, BulkDecideDTO) (*BulkResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.requireUser(w, r)
		if !ok {
			return
		}

		var dto BulkDecideDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := op(r.Context(), user.ID, dto)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, result)
	}
}

func (h *Handler) BulkApproveApplications(w http.ResponseWriter, r *http.Request) {
	h.bulkDecide(h.Service.BulkApprove)(w, r)
}

func (h *Handler) BulkRejectApplications(w http.ResponseWriter, r *http.Request) {
	h.bulkDecide(h.Service.BulkReject)(w, r)
}
