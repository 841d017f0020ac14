package identity

import "strings"

// Decision is the outcome of an access check for a page path.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
	RedirectInventory
)

// Well-known page paths used by the policy
const (
	PathHome      = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
	PathInventory = "/inventory"
)

// Location returns the redirect target of d, or "" for Allow.
func (d Decision) Location() string {
	switch d {
	case RedirectLogin:
		return PathLogin
	case RedirectHome:
		return PathHome
	case RedirectInventory:
		return PathInventory
	default:
		return ""
	}
}

// String returns a readable decision name
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	case RedirectInventory:
		return "redirect_inventory"
	default:
		return "unknown"
	}
}

// AccessRequest is the input to a policy rule.
// Role is empty when Authenticated is false.
type AccessRequest struct {
	Authenticated bool
	Role          Role
	Path          string
}

// AccessRule is one row of the policy table.
type AccessRule struct {
	Name     string
	Matches  func(r AccessRequest) bool
	Decision Decision
}

// AccessPolicy evaluates its rules in order; the first matching rule wins.
// A request no rule matches is allowed.
type AccessPolicy struct {
	rules []AccessRule
}

// NewAccessPolicy builds a policy from an ordered rule table
func NewAccessPolicy(rules []AccessRule) *AccessPolicy {
	return &AccessPolicy{rules: rules}
}

// DefaultAccessPolicy returns the role-aware page policy.
func DefaultAccessPolicy() *AccessPolicy {
	return NewAccessPolicy(DefaultAccessRules())
}

// DefaultAccessRules returns the role-aware page rule table.
func DefaultAccessRules() []AccessRule {
	return []AccessRule{
		{
			Name:     "unauthenticated",
			Matches:  func(r AccessRequest) bool { return !r.Authenticated && r.Path != PathLogin },
			Decision: RedirectLogin,
		},
		{
			Name:     "already_logged_in",
			Matches:  func(r AccessRequest) bool { return r.Authenticated && r.Path == PathLogin },
			Decision: RedirectHome,
		},
		{
			Name:     "dashboard_requires_staff",
			Matches:  func(r AccessRequest) bool { return r.Path == PathDashboard && r.Role == RoleUser },
			Decision: RedirectHome,
		},
		{
			Name:     "users_admin_only",
			Matches:  func(r AccessRequest) bool { return strings.HasPrefix(r.Path, "/users") && r.Role != RoleAdmin },
			Decision: RedirectHome,
		},
		{
			Name: "inventory_manage_admin_only",
			Matches: func(r AccessRequest) bool {
				return strings.HasPrefix(r.Path, "/inventory/manage") && r.Role != RoleAdmin
			},
			Decision: RedirectInventory,
		},
		{
			Name: "validator_scope",
			Matches: func(r AccessRequest) bool {
				return r.Role == RoleValidator && !strings.HasPrefix(r.Path, "/transactions") && r.Path != PathDashboard
			},
			Decision: RedirectHome,
		},
	}
}

// Decide returns the decision for the given authentication state, role and path.
func (p *AccessPolicy) Decide(authenticated bool, role Role, path string) Decision {
	d, _ := p.Evaluate(AccessRequest{Authenticated: authenticated, Role: role, Path: path})
	return d
}

// Evaluate returns the decision and the name of the rule that produced it.
// The rule name is empty when no rule matched.
func (p *AccessPolicy) Evaluate(r AccessRequest) (Decision, string) {
	if !r.Authenticated {
		r.Role = ""
	}
	for _, rule := range p.rules {
		if rule.Matches(r) {
			return rule.Decision, rule.Name
		}
	}
	return Allow, ""
}
