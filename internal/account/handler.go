package account

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/hosana-alex/leave-management/internal/auth"
	"github.com/hosana-alex/leave-management/internal/transport"
	"github.com/hosana-alex/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*RegisterResult, error)
	GetByID(userID int64) (*Account, error)
	List(status string) ([]*Account, error)
	Approve(ctx context.Context, userID int64) error
	Reject(ctx context.Context, userID int64) error
	Deactivate(ctx context.Context, userID int64) error
	Reactivate(ctx context.Context, userID int64) error
	ResetPassword(ctx context.Context, userID int64) error
	UpdateProfile(userID int64, dto UpdateProfileDTO) (*Account, error)
	BulkApprove(ctx context.Context, userIDs []int64) *BulkResult
	BulkReject(ctx context.Context, userIDs []int64) *BulkResult
	BulkDeactivate(ctx context.Context, userIDs []int64) *BulkResult
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

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("Register: service error", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	acct, err := h.Service.GetByID(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": acct})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := h.Service.UpdateProfile(user.ID, dto)
	if err != nil {
		h.Logger.Warn("UpdateProfile: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    acct,
	})
}

// ListUsers handles GET /admin/users with an optional status filter.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "all" {
		status = ""
	}

	accounts, err := h.Service.List(status)
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": accounts})
}

func (h *Handler) userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) statusAction(name string, op func(context.Context, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.userIDParam(w, r)
		if !ok {
			return
		}

		if err := op(r.Context(), id); err != nil {
			h.Logger.Warn("account action failed", "action", name, "user_id", id, "error", err)
			h.HandleServiceError(w, err)
			return
		}

		h.Logger.Info("account action applied", "action", name, "user_id", id)
		h.WriteJSON(w, http.StatusOK, map[string]string{"status": name})
	}
}

func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	h.statusAction("approved", h.Service.Approve)(w, r)
}

func (h *Handler) RejectUser(w http.ResponseWriter, r *http.Request) {
	h.statusAction("rejected", h.Service.Reject)(w, r)
}

func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	h.statusAction("deactivated", h.Service.Deactivate)(w, r)
}

func (h *Handler) ReactivateUser(w http.ResponseWriter, r *http.Request) {
	h.statusAction("activated", h.Service.Reactivate)(w, r)
}

// ResetUserPassword issues a temporary credential. The response deliberately
// omits it.
func (h *Handler) ResetUserPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.ResetPassword(r.Context(), id); err != nil {
		h.Logger.Warn("ResetUserPassword: service error", "user_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Temporary password issued and sent to the user",
	})
}

func (h *Handler) bulkAction(op func(context.Context, []int64) *BulkResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dto BulkActionDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := dto.Validate(); err != nil {
			h.HandleServiceError(w, err)
			return
		}

		result := op(r.Context(), dto.UserIDs)
		h.WriteJSON(w, http.StatusOK, result)
	}
}

func (h *Handler) BulkApproveUsers(w http.ResponseWriter, r *http.Request) {
	h.bulkAction(h.Service.BulkApprove)(w, r)
}

func (h *Handler) BulkRejectUsers(w http.ResponseWriter, r *http.Request) {
	h.bulkAction(h.Service.BulkReject)(w, r)
}

func (h *Handler) BulkDeactivateUsers(w http.ResponseWriter, r *http.Request) {
	h.bulkAction(h.Service.BulkDeactivate)(w, r)
}
