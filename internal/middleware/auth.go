package middleware

import (
	"net/http"
	"strings"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/dukerupert/qkart/internal/service"
)

// RequireAuth verifies the bearer access token, loads its user and stores
// it in the request context. Missing, invalid or expired tokens and tokens
// for deleted users get a 401.
func RequireAuth(tokens service.TokenService, users service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondUnauthorized(w, r)
				return
			}

			userID, err := tokens.VerifyAccessToken(token)
			if err != nil {
				respondUnauthorized(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if domain.IsCode(err, domain.ENOTFOUND) {
					respondUnauthorized(w, r)
					return
				}
				respondInternalError(w, r, err)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			ctx = withUserLogger(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
