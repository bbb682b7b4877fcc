package ports

import "context"

// ClaimUserRole is the claim key carrying the role on an identity account.
const ClaimUserRole = "user_role"

// IdentityProvider is the account-lifecycle collaborator. It owns
// credentials and claims; the gateway only orchestrates it.
type IdentityProvider interface {
	// CreateAccount provisions an account and returns its uid.
	// Fails with kind already_exists when the email is taken.
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
	// SetClaims replaces the custom claims on an account.
	SetClaims(ctx context.Context, uid string, claims map[string]string) error
	// DeleteAccount removes an account. Fails with kind not_found when no
	// such account exists.
	DeleteAccount(ctx context.Context, uid string) error
	// VerifyPassword checks email+password and returns the account uid and
	// claims on success. Used by the login flow, not the admin operations.
	VerifyPassword(ctx context.Context, email, password string) (string, map[string]string, error)
}
