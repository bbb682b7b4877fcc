package ports

import "context"

// AuthService issues caller credentials. The admin operations never mint
// tokens themselves; they only read the claims the middleware extracted.
type AuthService interface {
	// Login verifies credentials against the identity provider and returns a
	// signed token carrying the uid and user_role claims.
	Login(ctx context.Context, email, password string) (string, error)
}

// AuditSink accepts audit entries for asynchronous persistence. Recording is
// fire-and-forget: a full queue or failed insert never fails the operation
// that produced the entry.
type AuditSink interface {
	Record(actorUID, action, targetUID, detail string)
}
