package middleware

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
)

// Revoker checks whether a uid's credentials have been tombstoned.
type Revoker interface {
	IsRevoked(ctx context.Context, uid string) (bool, error)
}

// Auth validates the JWT, rejects revoked credentials, and injects the
// caller identity (uid, user_role) into the echo context.
func Auth(jwtSecret string, revoker Revoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return domain.E(domain.KindUnauthenticated, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.E(domain.KindUnauthenticated, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return domain.E(domain.KindUnauthenticated, "invalid token")
			}

			uid, _ := claims["sub"].(string)
			role, _ := claims["user_role"].(string)

			if revoker != nil && uid != "" {
				revoked, err := revoker.IsRevoked(c.Request().Context(), uid)
				if err == nil && revoked {
					return domain.E(domain.KindUnauthenticated, "credentials revoked")
				}
			}

			c.Set("uid", uid)
			c.Set("user_role", role)

			return next(c)
		}
	}
}
