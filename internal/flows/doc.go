// Package flows contains pure-function orchestrators for every Manager
// operation: login, logout, and session validation (boot and periodic). Each
// flow receives its collaborators through a dependency struct and returns a
// classified result; the root package maps those classifications onto its
// sentinel errors, metrics, and notifications.
//
// # What this package must NOT do
//
//   - Import goSession (no upward imports).
//   - Hold state between calls; flows are pure given their deps.
//   - Decide redirect or broadcast policy; that belongs to the Manager.
package flows
