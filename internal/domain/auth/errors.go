package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidToken           = errors.New("invalid or missing token")
	ErrTokenExpired           = errors.New("token expired")
	ErrRefreshTokenRevoked    = errors.New("refresh token revoked")
	ErrAdminPrivilegeRequired = errors.New("administrator privilege required")
	ErrNotResourceOwner       = errors.New("not allowed to access another employee's records")
)
