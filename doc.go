// Package goSession is the session and access-control core for the 5ive
// Trackr client tier. It keeps one authoritative session snapshot per
// execution context, restores it from the token store at boot, revalidates
// it against the remote authority on a fixed cadence, and gates every
// protected page visit through a role-aware route guard.
//
// The package is assembled through a builder:
//
//	manager, err := goSession.New().
//		WithRedis(client).
//		WithAuthority("https://api.5ivetrackr.com").
//		WithLogger(log).
//		Build()
//
// A Manager owns the full lifecycle: Login and Logout mutate the session,
// Visit classifies and authorizes a path, StartRevalidation drives the
// periodic checks and the cross-context convergence loop, and OnChange
// delivers snapshots to interested subscribers.
//
// Network failure is never treated as session invalidity. Only an explicit
// verdict from the authority, a locally expired token, or a logout observed
// anywhere tears a session down.
package goSession
