package goSession

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the session manager.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNetworkUnavailable is an exported constant or variable used by the session manager.
	ErrNetworkUnavailable = errors.New("authority unreachable")
	// ErrServerFailure is an exported constant or variable used by the session manager.
	ErrServerFailure = errors.New("authority returned a failure")
	// ErrTokenInvalid is an exported constant or variable used by the session manager.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrNotAuthenticated is an exported constant or variable used by the session manager.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrRoleMismatch is an exported constant or variable used by the session manager.
	ErrRoleMismatch = errors.New("role not entitled to area")
	// ErrStoreUnavailable is an exported constant or variable used by the session manager.
	ErrStoreUnavailable = errors.New("token store unavailable")
	// ErrManagerClosed is an exported constant or variable used by the session manager.
	ErrManagerClosed = errors.New("manager closed")
	// ErrManagerNotReady is an exported constant or variable used by the session manager.
	ErrManagerNotReady = errors.New("manager not initialized")
)
