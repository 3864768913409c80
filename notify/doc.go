// Package notify propagates session transitions to every interested party:
// synchronously to subscribers in the same execution context, and
// asynchronously over Redis pub/sub to other same-origin contexts.
//
// Delivery across contexts is at-least-once with no ordering guarantee beyond
// eventual convergence: after a logout anywhere, every context ends up
// unauthenticated. A context filters out its own broadcasts by origin ID so
// it never replays a transition it already applied.
//
// The pub/sub channel is a secondary signal; the primary cross-context
// logout signal is the token store clear event itself (write-based
// signaling, see tokenstore).
package notify
