package ports

import (
	"context"
	"time"
)

// Audit actions recorded by the auth and admin services.
const (
	AuditRegister      = "register"
	AuditLogin         = "login"
	AuditLoginFailed   = "login_failed"
	AuditAccountLocked = "account_locked"
	AuditTokenRefresh  = "token_refresh"
	AuditProfileUpdate = "profile_update"
	AuditAccountDelete = "account_delete"
	AuditAdminRole     = "admin_set_role"
	AuditAdminLock     = "admin_lock"
	AuditAdminUnlock   = "admin_unlock"
	AuditAdminDelete   = "admin_delete"
)

// AuditEvent is a single security-relevant occurrence tied to a username.
type AuditEvent struct {
	Username  string
	Action    string
	Detail    string
	Timestamp time.Time
}

// AuditSink accepts events for asynchronous recording. Record must not block
// the request path beyond queueing.
type AuditSink interface {
	Record(event AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event AuditEvent) error
}
