// Package history hardens navigation history around protected pages so that
// back/forward traversal can never resurface a page the current session is no
// longer allowed to see.
//
// The hardener never grows the history stack itself: arming a protected page
// replaces the current entry in place rather than pushing a new one, so the
// back button always leaves the protected area instead of cycling inside it.
// A backward traversal onto a protected entry is neutralized by re-pinning
// the entry and immediately re-checking access; on denial the user is
// redirected to the login page computed for the current depth.
//
// This is a UX hardening layer, not a security boundary. Authority over the
// session lives server side; the hardener only decides what a stale or
// signed-out context is shown.
package history
