package routeguard

// Role is the enumerated permission tier attached to a user record. The zero
// value is not a valid role.
type Role string

const (
	// RoleAdmin is a role tier recognized by the route guard.
	RoleAdmin Role = "admin"
	// RoleLeagueManager is a role tier recognized by the route guard.
	RoleLeagueManager Role = "league_manager"
	// RoleTenantManager is a role tier recognized by the route guard.
	RoleTenantManager Role = "tenant_manager"
	// RoleAssistantManager is a role tier recognized by the route guard.
	RoleAssistantManager Role = "assistant_manager"
	// RoleReferee is a role tier recognized by the route guard.
	RoleReferee Role = "referee"
	// RoleTeamManager is a role tier recognized by the route guard.
	RoleTeamManager Role = "team_manager"
	// RoleTeamCaptain is a role tier recognized by the route guard.
	RoleTeamCaptain Role = "team_captain"
	// RoleVenueManager is a role tier recognized by the route guard.
	RoleVenueManager Role = "venue_manager"
	// RoleUser is a role tier recognized by the route guard.
	RoleUser Role = "user"
)

var roleDisplayNames = map[Role]string{
	RoleAdmin:            "Administrator",
	RoleLeagueManager:    "League Manager",
	RoleTenantManager:    "Tenant Manager",
	RoleAssistantManager: "Assistant Manager",
	RoleReferee:          "Referee",
	RoleTeamManager:      "Team Manager",
	RoleTeamCaptain:      "Team Captain",
	RoleVenueManager:     "Venue Manager",
	RoleUser:             "User",
}

// Valid reports whether r is one of the recognized role tiers.
func (r Role) Valid() bool {
	_, ok := roleDisplayNames[r]
	return ok
}

// DisplayName returns the user-facing name for the role. Unrecognized roles
// are returned verbatim so a newer authority-side role still renders.
func (r Role) DisplayName() string {
	if name, ok := roleDisplayNames[r]; ok {
		return name
	}
	return string(r)
}

// ParseRole converts a wire-format role string into a [Role]. The second
// return reports whether the role is recognized.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}
