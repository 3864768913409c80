// Package routeguard classifies navigation targets and decides whether the
// current session may reach them.
//
// Classification is a pure function of the path: a [Guard] holds an ordered
// rule table mapping protected path prefixes to required roles and recomputes
// the classification on every check. Nothing in this package is persisted.
//
// # Architecture boundaries
//
// routeguard knows roles and paths. It does NOT read token storage, call the
// remote authority, or hold session state. Callers pass the current role and
// authentication flag into [Guard.Authorize] on every navigation.
//
// # What this package must NOT do
//
//   - Import goSession, tokenstore, or authclient (no upward imports).
//   - Perform I/O of any kind.
//   - Treat an Allow decision as a security guarantee; the authority enforces
//     access server-side on every bearer-token request.
package routeguard
