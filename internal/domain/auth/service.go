package auth

import "context"

// AuthService verifies local credentials and issues the token pair the
// transport layer uses. The rest of the system only ever sees the resulting
// EmployeeContext.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// Refresh exchanges a valid refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error)

	// Logout revokes the given refresh token.
	Logout(ctx context.Context, refreshToken string) error
}
