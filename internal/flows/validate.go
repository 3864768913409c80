package flows

import "context"

// UserRecord is the flow-local user model shared by login and validation.
type UserRecord struct {
	ID          int64
	Email       string
	DisplayName string
	Role        string
}

// SessionProbe is the authority's answer to an active-session check.
type SessionProbe struct {
	Active bool
	User   *UserRecord
}

// ValidateOutcome classifies a validation pass for root-level mapping.
type ValidateOutcome int

const (
	// ValidateNoToken means the store holds no pair; nothing to validate.
	ValidateNoToken ValidateOutcome = iota
	// ValidateActive means the authority confirmed a live session.
	ValidateActive
	// ValidateInvalid means the token no longer backs a session; the pair
	// has already been cleared when this outcome is returned.
	ValidateInvalid
	// ValidateNetwork means no definitive answer was obtained; prior state
	// must be retained optimistically.
	ValidateNetwork
	// ValidateError means an unclassified failure (store or server).
	ValidateError
)

// ValidateResult carries the classified outcome of one validation pass.
type ValidateResult struct {
	Outcome ValidateOutcome
	User    *UserRecord
	Err     error
}

// ValidateDeps captures session-validation dependencies.
type ValidateDeps struct {
	ReadPair       func(ctx context.Context) (access string, ok bool, err error)
	Check          func(ctx context.Context, access string) (*SessionProbe, error)
	ClearPair      func(ctx context.Context) error
	ExpiredLocally func(access string) bool
	IsNetworkErr   func(error) bool
}

// RunValidate executes one validation pass: read the stored pair, optionally
// short-circuit on locally provable expiry, ask the authority, and clear the
// pair atomically with an invalid outcome. It never clears on a network
// failure.
func RunValidate(ctx context.Context, deps ValidateDeps) ValidateResult {
	access, ok, err := deps.ReadPair(ctx)
	if err != nil {
		if deps.IsNetworkErr != nil && deps.IsNetworkErr(err) {
			return ValidateResult{Outcome: ValidateNetwork, Err: err}
		}
		return ValidateResult{Outcome: ValidateError, Err: err}
	}
	if !ok {
		return ValidateResult{Outcome: ValidateNoToken}
	}

	if deps.ExpiredLocally != nil && deps.ExpiredLocally(access) {
		if err := deps.ClearPair(ctx); err != nil {
			return ValidateResult{Outcome: ValidateError, Err: err}
		}
		return ValidateResult{Outcome: ValidateInvalid}
	}

	probe, err := deps.Check(ctx, access)
	if err != nil {
		if deps.IsNetworkErr != nil && deps.IsNetworkErr(err) {
			return ValidateResult{Outcome: ValidateNetwork, Err: err}
		}
		return ValidateResult{Outcome: ValidateError, Err: err}
	}

	if !probe.Active || probe.User == nil {
		if err := deps.ClearPair(ctx); err != nil {
			return ValidateResult{Outcome: ValidateError, Err: err}
		}
		return ValidateResult{Outcome: ValidateInvalid}
	}

	return ValidateResult{Outcome: ValidateActive, User: probe.User}
}
