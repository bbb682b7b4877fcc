package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/ports"
)

// AuthService issues caller credentials against the identity provider.
type AuthService struct {
	identity  ports.IdentityProvider
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(identity ports.IdentityProvider, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{identity: identity, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login verifies the credentials and returns a signed HS256 token carrying
// the uid as subject plus the user_role claim.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.E(domain.KindInvalidArgument, "missing email or password")
	}

	uid, accountClaims, err := s.identity.VerifyPassword(ctx, email, password)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sub":               uid,
		ports.ClaimUserRole: accountClaims[ports.ClaimUserRole],
		"exp":               time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
