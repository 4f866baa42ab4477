package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tempohq/tempo-backend-go/internal/domain/auth"
	"github.com/tempohq/tempo-backend-go/internal/domain/user"
	"github.com/tempohq/tempo-backend-go/internal/pkg/database"
	"github.com/tempohq/tempo-backend-go/internal/pkg/jwt"
	"github.com/tempohq/tempo-backend-go/internal/pkg/oauth"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	db     *database.DB
	users  user.UserRepository
	tokens jwt.Service
	google oauth.GoogleService // nil when Google login is not configured
}

func NewAuthService(db *database.DB, userRepository user.UserRepository, jwtService jwt.Service, googleService oauth.GoogleService) auth.AuthService {
	return &AuthServiceImpl{
		db:     db,
		users:  userRepository,
		tokens: jwtService,
		google: googleService,
	}
}

func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(userData)
}

func (a *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (auth.TokenResponse, error) {
	if a.tokens.IsTokenRevoked(refreshToken) {
		return auth.TokenResponse{}, auth.ErrTokenRevoked
	}

	userID, err := a.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidToken
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	// Rotate: the presented refresh token is single-use.
	a.tokens.RevokeToken(refreshToken)

	return a.issueTokens(userData)
}

func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		a.tokens.RevokeToken(refreshToken)
	}
	return nil
}

func (a *AuthServiceImpl) GoogleLoginURL(userAgent string) (string, string, error) {
	if a.google == nil {
		return "", "", auth.ErrOAuthDisabled
	}
	state := a.google.GenerateState(userAgent)
	return a.google.RedirectURL(state), state, nil
}

// LoginWithGoogle signs in an existing account by its verified Google email.
// Unknown emails are rejected; provisioning happens elsewhere.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, code string) (auth.TokenResponse, error) {
	if a.google == nil {
		return auth.TokenResponse{}, auth.ErrOAuthDisabled
	}

	token, err := a.google.Exchange(ctx, code)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	profile, err := a.google.FetchUser(ctx, token)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to fetch Google profile: %w", err)
	}
	if !profile.VerifiedEmail {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	userData, err := a.users.GetByEmail(ctx, profile.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, user.ErrUserNotFound
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return a.issueTokens(userData)
}

func (a *AuthServiceImpl) issueTokens(userData user.User) (auth.TokenResponse, error) {
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrUserInactive
	}

	accessToken, expiresAt, err := a.tokens.GenerateAccessToken(userData.ID, userData.Email, userData.CompanyID, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := a.tokens.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User: auth.UserClaim{
			ID:        userData.ID,
			Email:     userData.Email,
			FullName:  userData.FullName,
			CompanyID: userData.CompanyID,
			Role:      userData.Role,
		},
	}, nil
}
