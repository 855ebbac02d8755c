package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const adminClaimsKey contextKey = "adminClaims"

// AdminJWT guards the clinic staff endpoints with an HMAC-signed JWT.
// With no secret configured the whole admin surface stays closed.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "admin auth disabled", http.StatusUnauthorized)
				return
			}
			claims, err := parseAdminToken(r.Header.Get("Authorization"), secret)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseAdminToken(header, secret string) (jwt.RegisteredClaims, error) {
	claims := jwt.RegisteredClaims{}
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return claims, errMissingToken
	}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return claims, errInvalidToken
	}
	return claims, nil
}

var (
	errMissingToken = &authError{"missing authorization header"}
	errInvalidToken = &authError{"invalid token"}
)

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }

// AdminClaimsFromContext returns admin JWT claims if present.
func AdminClaimsFromContext(ctx context.Context) (jwt.RegisteredClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(jwt.RegisteredClaims)
	return claims, ok
}
