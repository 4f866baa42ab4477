package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrTokenExpired       = errors.New("Token expired")
	ErrTokenRevoked       = errors.New("Refresh token revoked")
	ErrUserInactive       = errors.New("User account is inactive")
	ErrOAuthDisabled      = errors.New("Google login is not configured")
)
