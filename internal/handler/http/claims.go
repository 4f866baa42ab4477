package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/tempohq/tempo-backend-go/internal/domain/user"
)

// requestClaims pulls the caller's identity out of the verified access
// token. AuthRequired runs before every handler that calls this, so a
// failure here means the middleware chain is misconfigured.
func requestClaims(r *http.Request) (userID string, companyID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", "", err
	}

	userID, _ = claims["user_id"].(string)
	companyID, _ = claims["company_id"].(string)
	roleStr, _ := claims["role"].(string)

	return userID, companyID, user.Role(roleStr), nil
}
