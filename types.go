package goSession

import (
	"context"
	"time"

	"github.com/FiveTrackr/goSession/authclient"
	"github.com/FiveTrackr/goSession/routeguard"
	"github.com/FiveTrackr/goSession/tokenstore"
)

// State represents the lifecycle position of the local session snapshot.
type State uint8

const (
	// StateUnauthenticated is an exported constant or variable used by the session manager.
	StateUnauthenticated State = iota
	// StateValidating is an exported constant or variable used by the session manager.
	StateValidating
	// StateAuthenticated is an exported constant or variable used by the session manager.
	StateAuthenticated
)

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateValidating:
		return "validating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// User is the session-local user identity derived from the authority's
// login and active-session responses.
type User struct {
	ID          int64
	Email       string
	DisplayName string
	Role        routeguard.Role
}

// Snapshot is a point-in-time copy of the session state. Stale marks a
// snapshot whose tokens were replaced by another context and not yet
// re-validated here.
type Snapshot struct {
	State           State
	User            *User
	LastValidatedAt time.Time
	TokenExpiresAt  time.Time
	Stale           bool
}

// Authenticated reports whether the snapshot carries a live session.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// TokenPair is the access/refresh pair persisted in the token store.
type TokenPair = tokenstore.Pair

// AuthClient is the remote authority surface the Manager depends on.
// [authclient.Client] is the production implementation.
type AuthClient interface {
	Login(ctx context.Context, creds authclient.Credentials) (*authclient.LoginResult, error)
	ActiveSession(ctx context.Context, accessToken string) (*authclient.SessionCheck, error)
	Logout(ctx context.Context, accessToken string) error
}
