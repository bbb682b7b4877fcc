package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
)

const testSecret = "test-secret"

type stubRevoker struct {
	revoked map[string]bool
}

func (s *stubRevoker) IsRevoked(_ context.Context, uid string) (bool, error) {
	return s.revoked[uid], nil
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, authHeader string, revoker Revoker) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(testSecret, revoker)(func(c echo.Context) error {
		called = true
		return nil
	})
	return c, called, handler(c)
}

func TestAuth_ValidTokenInjectsCaller(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":       "uid-1",
		"user_role": "admin",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	c, called, err := runAuth(t, "Bearer "+token, nil)
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if c.Get("uid") != "uid-1" {
		t.Fatalf("expected uid in context, got %v", c.Get("uid"))
	}
	if c.Get("user_role") != "admin" {
		t.Fatalf("expected user_role in context, got %v", c.Get("user_role"))
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, called, err := runAuth(t, "", nil)
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if called {
		t.Fatalf("next handler must not be called")
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	_, called, err := runAuth(t, "Token abc", nil)
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if called {
		t.Fatalf("next handler must not be called")
	}
}

func TestAuth_BadSignature(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "uid-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, called, err := runAuth(t, "Bearer "+token, nil)
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if called {
		t.Fatalf("next handler must not be called")
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "uid-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, _, err := runAuth(t, "Bearer "+token, nil)
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuth_RevokedCredentials(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":       "uid-gone",
		"user_role": "tenant",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	revoker := &stubRevoker{revoked: map[string]bool{"uid-gone": true}}

	_, called, err := runAuth(t, "Bearer "+token, revoker)
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if called {
		t.Fatalf("next handler must not be called")
	}
}
