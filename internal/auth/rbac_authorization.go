package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization guards admin route groups. Checks run against the
// capability table resolved at the auth gate, never against role strings.
type RBACAuthorization struct {
	checker PermissionChecker
	logger  *slog.Logger
}

func NewRBACAuthorization(checker PermissionChecker, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		checker: checker,
		logger:  logger,
	}
}

func (ra *RBACAuthorization) require(check func([]string) bool, label string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context", "capability", label)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !check(user.Permissions) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", user.ID,
					"capability", label,
					"user_permissions", user.Permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireManageUsers() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanManageUsers, PermManageUsers)
}

func (ra *RBACAuthorization) RequireApproveLeave() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanApproveLeave, PermApproveLeave)
}

func (ra *RBACAuthorization) RequireRejectLeave() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanRejectLeave, PermRejectLeave)
}

func (ra *RBACAuthorization) RequireViewAllApplications() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanViewAllApplications, PermViewAllApplications)
}

func (ra *RBACAuthorization) RequireViewAnalytics() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanViewAnalytics, PermViewAnalytics)
}

func (ra *RBACAuthorization) RequireManageBalances() func(http.Handler) http.Handler {
	return ra.require(ra.checker.CanManageBalances, PermManageBalances)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.require(ra.checker.IsAdmin, PermAdmin)
}
