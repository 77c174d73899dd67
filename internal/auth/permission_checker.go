package auth

// The capability table. Roles are mapped to enumerated permissions once, at
// the gate; route guards and services check capabilities, never role strings.
const (
	PermAdmin               = "admin"
	PermManageUsers         = "manage_users"
	PermApproveUsers        = "approve_users"
	PermApproveLeave        = "approve_leave"
	PermRejectLeave         = "reject_leave"
	PermViewAllApplications = "view_all_applications"
	PermViewAnalytics       = "view_analytics"
	PermManageBalances      = "manage_balances"
	PermSubmitLeave         = "submit_leave"
	PermViewOwn             = "view_own"
)

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

var rolePermissions = map[string][]string{
	RoleEmployee: {
		PermSubmitLeave,
		PermViewOwn,
	},
	RoleAdmin: {
		PermAdmin,
		PermManageUsers,
		PermApproveUsers,
		PermApproveLeave,
		PermRejectLeave,
		PermViewAllApplications,
		PermViewAnalytics,
		PermManageBalances,
		PermSubmitLeave,
		PermViewOwn,
	},
}

// PermissionsForRole returns a copy so callers cannot mutate the table.
func PermissionsForRole(role string) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

type PermissionChecker interface {
	CanApproveLeave(userPermissions []string) bool
	CanRejectLeave(userPermissions []string) bool
	CanManageUsers(userPermissions []string) bool
	CanViewAllApplications(userPermissions []string) bool
	CanViewAnalytics(userPermissions []string) bool
	CanManageBalances(userPermissions []string) bool
	HasAnyPermission(userPermissions []string, requiredPermissions []string) bool
	IsAdmin(userPermissions []string) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) CanApproveLeave(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermApproveLeave, PermAdmin})
}

func (c *DefaultPermissionChecker) CanRejectLeave(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermRejectLeave, PermAdmin})
}

func (c *DefaultPermissionChecker) CanManageUsers(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermManageUsers, PermApproveUsers, PermAdmin})
}

func (c *DefaultPermissionChecker) CanViewAllApplications(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermViewAllApplications, PermApproveLeave, PermRejectLeave, PermAdmin})
}

func (c *DefaultPermissionChecker) CanViewAnalytics(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermViewAnalytics, PermAdmin})
}

func (c *DefaultPermissionChecker) CanManageBalances(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermManageBalances, PermAdmin})
}

func (c *DefaultPermissionChecker) HasAnyPermission(userPermissions []string, requiredPermissions []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range requiredPermissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

func (c *DefaultPermissionChecker) IsAdmin(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{PermAdmin})
}
