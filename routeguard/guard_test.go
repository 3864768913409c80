package routeguard

import "testing"

func TestClassify(t *testing.T) {
	g := NewGuard(DefaultRules())

	tests := []struct {
		name      string
		path      string
		protected bool
		role      Role
	}{
		{name: "public entry", path: "/home.html", protected: false},
		{name: "public page", path: "/pages/about.html", protected: false},
		{name: "league manager area", path: "/pages/league-manager/league-manager.html", protected: true, role: RoleLeagueManager},
		{name: "referee dashboard", path: "/pages/referee/dashboard.html", protected: true, role: RoleReferee},
		{name: "team captain area", path: "/pages/team-captain/fixtures.html", protected: true, role: RoleTeamCaptain},
		{name: "admin area", path: "/pages/admin/users.html", protected: true, role: RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := g.Classify(tt.path)
			if c.Protected != tt.protected {
				t.Fatalf("Classify(%q).Protected = %v, want %v", tt.path, c.Protected, tt.protected)
			}
			if c.RequiredRole != tt.role {
				t.Fatalf("Classify(%q).RequiredRole = %q, want %q", tt.path, c.RequiredRole, tt.role)
			}
		})
	}
}

func TestAuthorizeRoleMismatch(t *testing.T) {
	g := NewGuard(DefaultRules())

	d := g.Authorize("/pages/league-manager/dashboard.html", RoleReferee, true)
	if d.Allowed {
		t.Fatal("referee allowed into league manager area")
	}
	if d.Reason != DenyRoleMismatch {
		t.Fatalf("Reason = %v, want %v", d.Reason, DenyRoleMismatch)
	}
	if d.RequiredRole != RoleLeagueManager || d.ActualRole != RoleReferee {
		t.Fatalf("roles = required %q actual %q", d.RequiredRole, d.ActualRole)
	}
	if d.RedirectTo != "../../home.html" {
		t.Fatalf("RedirectTo = %q", d.RedirectTo)
	}
}

func TestAuthorizeMatchingRole(t *testing.T) {
	g := NewGuard(DefaultRules())

	d := g.Authorize("/pages/referee/dashboard.html", RoleReferee, true)
	if !d.Allowed {
		t.Fatalf("referee denied own dashboard: %+v", d)
	}
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	g := NewGuard(DefaultRules())

	d := g.Authorize("/pages/referee/dashboard.html", "", false)
	if d.Allowed {
		t.Fatal("unauthenticated session allowed into protected area")
	}
	if d.Reason != DenyNotAuthenticated {
		t.Fatalf("Reason = %v, want %v", d.Reason, DenyNotAuthenticated)
	}
}

func TestAuthorizeAdminHasNoOverride(t *testing.T) {
	g := NewGuard(DefaultRules())

	if d := g.Authorize("/pages/referee/dashboard.html", RoleAdmin, true); d.Allowed {
		t.Fatal("admin should not bypass exact role match")
	}
}

func TestLoginPathDepth(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/home.html", want: "./home.html"},
		{path: "/pages/dashboard.html", want: "../home.html"},
		{path: "/pages/referee/dashboard.html", want: "../../home.html"},
		{path: "/pages/league-manager/league-manager.html", want: "../../home.html"},
	}

	for _, tt := range tests {
		if got := LoginPath(tt.path); got != tt.want {
			t.Fatalf("LoginPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("league_manager"); !ok || r != RoleLeagueManager {
		t.Fatalf("ParseRole(league_manager) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Fatal("unknown role parsed as valid")
	}
	if got := RoleLeagueManager.DisplayName(); got != "League Manager" {
		t.Fatalf("DisplayName = %q", got)
	}
}
