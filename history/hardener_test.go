package history

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/FiveTrackr/goSession/routeguard"
)

type navCall struct {
	op   string
	path string
}

type fakeNav struct {
	calls []navCall
}

func (f *fakeNav) ReplaceState(_ Entry, path string) {
	f.calls = append(f.calls, navCall{op: "replace", path: path})
}

func (f *fakeNav) PushState(_ Entry, path string) {
	f.calls = append(f.calls, navCall{op: "push", path: path})
}

func (f *fakeNav) Redirect(path string) {
	f.calls = append(f.calls, navCall{op: "redirect", path: path})
}

type fakeCache struct {
	cleared int
}

func (f *fakeCache) Clear() { f.cleared++ }

func allow(role routeguard.Role) DecideFunc {
	return func(path string) routeguard.Decision {
		return routeguard.Decision{Allowed: true, RequiredRole: role, ActualRole: role}
	}
}

func deny(role routeguard.Role, redirect string) DecideFunc {
	return func(path string) routeguard.Decision {
		return routeguard.Decision{
			Allowed:      false,
			Reason:       routeguard.DenyNotAuthenticated,
			RequiredRole: role,
			RedirectTo:   redirect,
		}
	}
}

func public() DecideFunc {
	return func(path string) routeguard.Decision {
		return routeguard.Decision{Allowed: true}
	}
}

func TestArmReplacesProtectedEntryInPlace(t *testing.T) {
	nav := &fakeNav{}
	h := New(nav, nil, allow(routeguard.RoleReferee), zerolog.Nop())

	h.Arm("/pages/referee/dashboard.html")

	if len(nav.calls) != 1 || nav.calls[0].op != "replace" {
		t.Fatalf("calls = %+v, want a single replace", nav.calls)
	}
}

func TestArmPublicPageLeavesHistoryAlone(t *testing.T) {
	nav := &fakeNav{}
	h := New(nav, nil, public(), zerolog.Nop())

	h.Arm("/home.html")

	if len(nav.calls) != 0 {
		t.Fatalf("calls = %+v, want none", nav.calls)
	}
}

func TestArmDeniedRedirectsWithoutPinning(t *testing.T) {
	nav := &fakeNav{}
	h := New(nav, nil, deny(routeguard.RoleAdmin, "../../home.html"), zerolog.Nop())

	h.Arm("/pages/admin/users.html")

	if len(nav.calls) != 1 || nav.calls[0].op != "redirect" {
		t.Fatalf("calls = %+v, want a single redirect", nav.calls)
	}
	if nav.calls[0].path != "../../home.html" {
		t.Fatalf("redirect path = %q", nav.calls[0].path)
	}
}

func TestOnPopRepinsProtectedEntry(t *testing.T) {
	nav := &fakeNav{}
	h := New(nav, nil, allow(routeguard.RoleTeamCaptain), zerolog.Nop())

	h.OnPop("/pages/team-captain/squad.html")

	if len(nav.calls) != 1 || nav.calls[0].op != "push" {
		t.Fatalf("calls = %+v, want a single push", nav.calls)
	}
	if h.Neutralized() != 1 {
		t.Fatalf("neutralized = %d", h.Neutralized())
	}
}

func TestOnPopDeniedRepinsThenRedirects(t *testing.T) {
	nav := &fakeNav{}
	h := New(nav, nil, deny(routeguard.RoleLeagueManager, "../../home.html"), zerolog.Nop())

	h.OnPop("/pages/league-manager/fixtures.html")

	if len(nav.calls) != 2 {
		t.Fatalf("calls = %+v, want push then redirect", nav.calls)
	}
	if nav.calls[0].op != "push" || nav.calls[1].op != "redirect" {
		t.Fatalf("order = %+v", nav.calls)
	}
}

func TestOnPopPublicPageIsUntouched(t *testing.T) {
	nav := &fakeNav{}
	h := New(nav, nil, public(), zerolog.Nop())

	h.OnPop("/home.html")

	if len(nav.calls) != 0 || h.Neutralized() != 0 {
		t.Fatalf("calls = %+v neutralized = %d", nav.calls, h.Neutralized())
	}
}

func TestWakeRecheckRedirectsRevokedSession(t *testing.T) {
	for _, trigger := range []string{"visible", "focus"} {
		t.Run(trigger, func(t *testing.T) {
			nav := &fakeNav{}
			h := New(nav, nil, deny(routeguard.RoleReferee, "../../home.html"), zerolog.Nop())

			if trigger == "visible" {
				h.OnVisible("/pages/referee/matches.html")
			} else {
				h.OnFocus("/pages/referee/matches.html")
			}

			if len(nav.calls) != 1 || nav.calls[0].op != "redirect" {
				t.Fatalf("calls = %+v, want a single redirect", nav.calls)
			}
		})
	}
}

func TestWakeRecheckLeavesValidSessionAlone(t *testing.T) {
	nav := &fakeNav{}
	h := New(nav, nil, allow(routeguard.RoleReferee), zerolog.Nop())

	h.OnVisible("/pages/referee/matches.html")
	h.OnFocus("/pages/referee/matches.html")

	if len(nav.calls) != 0 {
		t.Fatalf("calls = %+v, want none", nav.calls)
	}
}

func TestBeforeUnloadPurgesCacheWhenUnentitled(t *testing.T) {
	cache := &fakeCache{}
	h := New(&fakeNav{}, cache, deny(routeguard.RoleAdmin, "../../home.html"), zerolog.Nop())

	h.OnBeforeUnload("/pages/admin/users.html")

	if cache.cleared != 1 {
		t.Fatalf("cleared = %d", cache.cleared)
	}
}

func TestBeforeUnloadKeepsCacheForValidSession(t *testing.T) {
	cache := &fakeCache{}
	h := New(&fakeNav{}, cache, allow(routeguard.RoleAdmin), zerolog.Nop())

	h.OnBeforeUnload("/pages/admin/users.html")

	if cache.cleared != 0 {
		t.Fatalf("cleared = %d", cache.cleared)
	}
}
