// Package tokenstore provides durable, origin-scoped persistence for the
// access/refresh token pair, plus write-based change signaling so other
// execution contexts sharing the store observe logins and logouts.
//
// # Key schema
//
// Storage key names are owned exclusively by [Schema]; no other package spells
// out a storage key literal. The access-token key holding a value means "a
// login was attempted", never "the session is valid" — validity requires a
// successful active-session check against the remote authority.
//
// # Concurrency
//
// A store shared between contexts is a single-writer-wins register: there is
// no transactional update, and two contexts writing concurrently leave the
// store in the state of whichever write lands last. [Watcher] events let the
// losing writer detect the divergence and self-correct.
//
// # What this package must NOT do
//
//   - Import goSession or authclient (no upward imports).
//   - Interpret token contents or decide session validity.
//   - Treat an absent key as an error; Get reports absence, Clear is
//     idempotent.
package tokenstore
