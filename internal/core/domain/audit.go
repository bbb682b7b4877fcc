package domain

import "time"

// AuditEntry records a single administrative mutation for the audit trail.
type AuditEntry struct {
	ActorUID  string
	Action    string
	TargetUID string
	Detail    string
	Timestamp time.Time
}

// Audit actions.
const (
	AuditUserCreated    = "user_created"
	AuditRoleChanged    = "role_changed"
	AuditUserDeleted    = "user_deleted"
	AuditProfileUpdated = "profile_updated"
)
