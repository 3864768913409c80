package routeguard

import "strings"

// loginFile is the public entry point document name. The path to it is always
// computed relative to the current path depth, never as an absolute prefix.
const loginFile = "home.html"

// Rule maps a protected path prefix to the role required to enter it.
type Rule struct {
	Prefix string
	Role   Role
}

// DefaultRules returns the protected-area table of the 5ive Trackr webapp.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/pages/league-manager/", Role: RoleLeagueManager},
		{Prefix: "/pages/referee/", Role: RoleReferee},
		{Prefix: "/pages/team-captain/", Role: RoleTeamCaptain},
		{Prefix: "/pages/admin/", Role: RoleAdmin},
	}
}

// Classification is the per-check result of matching a path against the rule
// table. It is ephemeral and recomputed on every navigation.
type Classification struct {
	Protected    bool
	RequiredRole Role
}

// DenyReason classifies why [Guard.Authorize] denied a navigation.
type DenyReason uint8

const (
	// DenyNone means the navigation was allowed.
	DenyNone DenyReason = iota
	// DenyNotAuthenticated means no authenticated session exists.
	DenyNotAuthenticated
	// DenyRoleMismatch means the session's role does not satisfy the rule.
	DenyRoleMismatch
)

func (r DenyReason) String() string {
	switch r {
	case DenyNone:
		return "none"
	case DenyNotAuthenticated:
		return "not_authenticated"
	case DenyRoleMismatch:
		return "role_mismatch"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a single authorize check. Denials always resolve
// to the same action: redirect to RedirectTo, the public entry point.
type Decision struct {
	Allowed      bool
	Reason       DenyReason
	RequiredRole Role
	ActualRole   Role
	RedirectTo   string
}

// Guard holds the immutable rule table. A nil Guard behaves as if it had an
// empty table, allowing everything.
type Guard struct {
	rules []Rule
}

// NewGuard builds a Guard from the given rules. Rules with an empty prefix or
// an invalid role are dropped.
func NewGuard(rules []Rule) *Guard {
	kept := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Prefix == "" || !rule.Role.Valid() {
			continue
		}
		kept = append(kept, rule)
	}
	return &Guard{rules: kept}
}

// Classify matches path against the rule table. First match wins.
func (g *Guard) Classify(path string) Classification {
	if g == nil {
		return Classification{}
	}
	for _, rule := range g.rules {
		if strings.Contains(path, rule.Prefix) {
			return Classification{Protected: true, RequiredRole: rule.Role}
		}
	}
	return Classification{}
}

// Authorize decides whether a session with the given role may enter path.
// authenticated reports whether any validated session exists at all; role is
// ignored when authenticated is false. Role match is exact: an admin visiting
// a referee area is denied like anyone else.
func (g *Guard) Authorize(path string, role Role, authenticated bool) Decision {
	c := g.Classify(path)
	if !c.Protected {
		return Decision{Allowed: true}
	}
	if !authenticated {
		return Decision{
			Reason:       DenyNotAuthenticated,
			RequiredRole: c.RequiredRole,
			RedirectTo:   LoginPath(path),
		}
	}
	if role != c.RequiredRole {
		return Decision{
			Reason:       DenyRoleMismatch,
			RequiredRole: c.RequiredRole,
			ActualRole:   role,
			RedirectTo:   LoginPath(path),
		}
	}
	return Decision{Allowed: true, RequiredRole: c.RequiredRole, ActualRole: role}
}

// LoginPath computes the relative path from path back to the public entry
// point. The depth is derived from the number of directory segments so links
// stay correct wherever the app is mounted.
//
//	/home.html                      -> ./home.html
//	/pages/dashboard.html           -> ../home.html
//	/pages/referee/dashboard.html   -> ../../home.html
func LoginPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	depth := strings.Count(trimmed, "/")
	if depth == 0 {
		return "./" + loginFile
	}
	return strings.Repeat("../", depth) + loginFile
}
