// Package authclient is the stateless HTTP boundary to the remote
// authentication authority. It exposes exactly three operations — login,
// active-session validation, and best-effort logout — and translates
// transport and HTTP failures into typed sentinel errors.
//
// # Failure taxonomy
//
//   - [ErrInvalidCredentials]: the authority rejected the login (401).
//   - [ErrNetwork]: the request never produced a definitive answer
//     (transport failure or client-side timeout). Callers treat the session
//     as unknown, never as invalid.
//   - [ErrServer]: any other non-2xx answer.
//
// A 401 from the active-session endpoint is NOT an error: it is the
// definitive answer "this token no longer has a session" and comes back as
// SessionCheck{Active: false}.
//
// # What this package must NOT do
//
//   - Touch the token store or session state; it is a pure boundary adapter.
//   - Retry, cache, or interpret beyond status classification.
//   - Let a call hang: every request carries the configured client-side
//     timeout.
package authclient
