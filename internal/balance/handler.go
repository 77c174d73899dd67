package balance

import (
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
	GetBalance(userID int64, year int) (*YearBalance, error)
	SetAllocation(userID int64, year int, dto AdjustDTO) (*YearBalance, error)
	ResetYear(userID int64, year int) (*YearBalance, error)
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

func (h *Handler) yearQuery(r *http.Request) (int, bool) {
	v := r.URL.Query().Get("year")
	if v == "" {
		return 0, true
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return year, true
}

// GetMyBalance handles GET /user/leave-balance for the authenticated user.
func (h *Handler) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	year, ok := h.yearQuery(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}

	result, err := h.Service.GetBalance(user.ID, year)
	if err != nil {
		h.Logger.Error("GetMyBalance: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
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

// GetUserBalance handles GET /admin/users/{id}/leave-balance.
func (h *Handler) GetUserBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	year, ok := h.yearQuery(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}

	result, err := h.Service.GetBalance(id, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// AdjustUserBalance handles PUT /admin/users/{id}/leave-balance.
func (h *Handler) AdjustUserBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	year, ok := h.yearQuery(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}

	var dto AdjustDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.SetAllocation(id, year, dto)
	if err != nil {
		h.Logger.Warn("AdjustUserBalance: service error", "error", err, "user_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Leave allocation updated",
		"balance": result,
	})
}

// ResetUserBalance handles POST /admin/users/{id}/leave-balance/reset.
func (h *Handler) ResetUserBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	year, ok := h.yearQuery(r)
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}

	result, err := h.Service.ResetYear(id, year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Leave balances reset",
		"balance": result,
	})
}
