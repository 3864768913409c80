package flows

import "context"

// Deps groups flow dependency sets. The root Manager builds this once and
// delegates operation methods to the matching flow implementation.
type Deps struct {
	Login    LoginDeps
	Logout   LogoutDeps
	Validate ValidateDeps
}

// Service is the centralized flow runner built once by the root Manager.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Validate.Check != nil
}

func (s Service) Login(ctx context.Context, email, password string) LoginResult {
	return RunLogin(ctx, email, password, s.deps.Login)
}

func (s Service) Logout(ctx context.Context) LogoutResult {
	return RunLogout(ctx, s.deps.Logout)
}

func (s Service) Validate(ctx context.Context) ValidateResult {
	return RunValidate(ctx, s.deps.Validate)
}
