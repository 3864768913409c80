package flows

import "context"

// LoginPayload is the flow-local successful login shape.
type LoginPayload struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         UserRecord
}

// LoginFailureKind classifies login failures for root-level mapping.
type LoginFailureKind int

const (
	// LoginFailureNone means the login succeeded.
	LoginFailureNone LoginFailureKind = iota
	// LoginFailureInvalidCredentials means the authority rejected the input.
	LoginFailureInvalidCredentials
	// LoginFailureNetwork means the authority was unreachable.
	LoginFailureNetwork
	// LoginFailureServer means the authority answered with a failure.
	LoginFailureServer
	// LoginFailureStore means the pair could not be persisted after a
	// successful authentication; the session is NOT established.
	LoginFailureStore
)

// LoginResult carries the classified outcome of a login attempt.
type LoginResult struct {
	Failure LoginFailureKind
	Err     error
	Payload *LoginPayload
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	Authenticate         func(ctx context.Context, email, password string) (*LoginPayload, error)
	WritePair            func(ctx context.Context, access, refresh string) error
	IsInvalidCredentials func(error) bool
	IsNetworkErr         func(error) bool
}

// RunLogin authenticates and, on success, persists the token pair BEFORE the
// caller installs the user record, so the session invariant (user implies
// stored pair) holds at every observable point.
func RunLogin(ctx context.Context, email, password string, deps LoginDeps) LoginResult {
	if email == "" || password == "" {
		return LoginResult{Failure: LoginFailureInvalidCredentials}
	}

	payload, err := deps.Authenticate(ctx, email, password)
	if err != nil {
		switch {
		case deps.IsInvalidCredentials != nil && deps.IsInvalidCredentials(err):
			return LoginResult{Failure: LoginFailureInvalidCredentials, Err: err}
		case deps.IsNetworkErr != nil && deps.IsNetworkErr(err):
			return LoginResult{Failure: LoginFailureNetwork, Err: err}
		default:
			return LoginResult{Failure: LoginFailureServer, Err: err}
		}
	}

	if err := deps.WritePair(ctx, payload.AccessToken, payload.RefreshToken); err != nil {
		return LoginResult{Failure: LoginFailureStore, Err: err}
	}

	return LoginResult{Payload: payload}
}
