package internaldefs

import (
	goSession "github.com/FiveTrackr/goSession"
)

// CounterDef defines a public type used by goSession APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goSession APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session manager.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricLoginSuccess, Name: "gosession_login_success_total", Help: "Successful login attempts."},
	{ID: goSession.MetricLoginRejected, Name: "gosession_login_rejected_total", Help: "Logins rejected by the authority."},
	{ID: goSession.MetricLoginNetworkError, Name: "gosession_login_network_error_total", Help: "Logins that failed to reach the authority."},
	{ID: goSession.MetricLoginServerError, Name: "gosession_login_server_error_total", Help: "Logins that failed on the authority side."},
	{ID: goSession.MetricValidateActive, Name: "gosession_validate_active_total", Help: "Validation passes confirming a live session."},
	{ID: goSession.MetricValidateInvalid, Name: "gosession_validate_invalid_total", Help: "Validation passes invalidating the session."},
	{ID: goSession.MetricValidateNetworkError, Name: "gosession_validate_network_error_total", Help: "Validation passes with no definitive answer."},
	{ID: goSession.MetricValidateSkipped, Name: "gosession_validate_skipped_total", Help: "Validation passes skipped because one was in flight."},
	{ID: goSession.MetricValidateDiscarded, Name: "gosession_validate_discarded_total", Help: "Validation resolutions discarded as stale."},
	{ID: goSession.MetricLogout, Name: "gosession_logout_total", Help: "Logout operations."},
	{ID: goSession.MetricLogoutRemoteError, Name: "gosession_logout_remote_error_total", Help: "Logouts where the remote call failed and only local teardown ran."},
	{ID: goSession.MetricGuardAllow, Name: "gosession_guard_allow_total", Help: "Navigations allowed by the route guard."},
	{ID: goSession.MetricGuardDenyUnauthenticated, Name: "gosession_guard_deny_unauthenticated_total", Help: "Navigations denied for missing authentication."},
	{ID: goSession.MetricGuardDenyRoleMismatch, Name: "gosession_guard_deny_role_mismatch_total", Help: "Navigations denied for role mismatch."},
	{ID: goSession.MetricRedirectIssued, Name: "gosession_redirect_issued_total", Help: "Redirects to the public entry point."},
	{ID: goSession.MetricPopNeutralized, Name: "gosession_pop_neutralized_total", Help: "History traversals re-pinned on protected pages."},
	{ID: goSession.MetricCrossContextLogout, Name: "gosession_cross_context_logout_total", Help: "Logouts observed from another context."},
	{ID: goSession.MetricStoreDivergence, Name: "gosession_store_divergence_total", Help: "Foreign token writes that marked the snapshot stale."},
}

// HistogramDefs is an exported constant or variable used by the session manager.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricValidateLatency, Name: "gosession_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session manager.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session manager.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
