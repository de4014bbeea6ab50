package domain

// Role is the coarse access level assigned to a user account.
type Role string

const (
	RoleUser  Role = "user"
	RolePro   Role = "pro"
	RoleAdmin Role = "admin"
)

// Permission names a single capability gate.
type Permission string

const (
	// PermUnlimitedVerdicts removes the daily verdict quota.
	PermUnlimitedVerdicts Permission = "unlimited_verdicts"
	// PermBypassRateLimit skips the rate-limit denial while still
	// recording usage.
	PermBypassRateLimit Permission = "bypass_rate_limit"
	// PermViewAnalytics grants access to aggregate model analytics.
	PermViewAnalytics Permission = "view_analytics"
)

// rolePermissions is the closed role-to-capability mapping.
var rolePermissions = map[Role][]Permission{
	RoleUser:  {},
	RolePro:   {PermUnlimitedVerdicts, PermBypassRateLimit},
	RoleAdmin: {PermUnlimitedVerdicts, PermBypassRateLimit, PermViewAnalytics},
}

// User is the subset of an account record the core needs for gating.
type User struct {
	// Tier is the legacy billing tier, kept for accounts created before
	// roles existed.
	Tier string
	// Role is the explicit role, empty for legacy accounts.
	Role Role
}

// EffectiveRole resolves the role for permission checks. A nil user is an
// anonymous visitor. Legacy pro-tier accounts without an explicit role
// resolve to RolePro.
func EffectiveRole(u *User) Role {
	if u == nil {
		return RoleUser
	}
	if u.Role != "" {
		return u.Role
	}
	if u.Tier == "pro" {
		return RolePro
	}
	return RoleUser
}

// HasPermission reports whether the user's effective role grants the
// given permission.
func HasPermission(u *User, p Permission) bool {
	for _, granted := range rolePermissions[EffectiveRole(u)] {
		if granted == p {
			return true
		}
	}
	return false
}

// HasUnlimitedVerdicts reports whether the user may exceed daily quotas.
func HasUnlimitedVerdicts(u *User) bool {
	return HasPermission(u, PermUnlimitedVerdicts)
}

// CanBypassRateLimit reports whether rate-limit denials are skipped for
// the user. Usage is still recorded for bypassing users.
func CanBypassRateLimit(u *User) bool {
	return HasPermission(u, PermBypassRateLimit)
}
