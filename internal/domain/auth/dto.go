package auth

import (
	"context"

	"github.com/tempohq/tempo-backend-go/internal/domain/user"
	"github.com/tempohq/tempo-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"-"`
	ExpiresAt    int64     `json:"expires_at"`
	User         UserClaim `json:"user"`
}

type UserClaim struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CompanyID string    `json:"company_id"`
	Role      user.Role `json:"role"`
}

// AuthService is the authentication entry point consumed by the HTTP layer.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GoogleLoginURL(userAgent string) (url string, state string, err error)
	LoginWithGoogle(ctx context.Context, code string) (TokenResponse, error)
}
