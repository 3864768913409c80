package flows

import "context"

// LogoutResult reports the two independent halves of a logout. RemoteErr is
// advisory; ClearErr is the only failure that leaves residue behind.
type LogoutResult struct {
	RemoteErr error
	ClearErr  error
}

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	ReadPair     func(ctx context.Context) (access string, ok bool, err error)
	RemoteLogout func(ctx context.Context, access string) error
	ClearPair    func(ctx context.Context) error
}

// RunLogout attempts a best-effort remote logout, then unconditionally clears
// the stored pair. A remote failure never blocks local teardown.
func RunLogout(ctx context.Context, deps LogoutDeps) LogoutResult {
	var result LogoutResult

	access, ok, err := deps.ReadPair(ctx)
	if err == nil && ok && access != "" {
		result.RemoteErr = deps.RemoteLogout(ctx, access)
	}

	result.ClearErr = deps.ClearPair(ctx)
	return result
}
