package usecase

import "context"

// Audit action names shared by the use cases and whatever trail backs them.
const (
	ActionRegister     = "user.register"
	ActionLogin        = "user.login"
	ActionLoginDenied  = "user.login_denied"
	ActionTaskCreate   = "task.create"
	ActionTaskUpdate   = "task.update"
	ActionTaskComplete = "task.complete"
	ActionTaskDelete   = "task.delete"
)

// AuditTrail records security-relevant events. Recording is best-effort:
// implementations log failures instead of returning them, so an audit
// problem never fails a request.
type AuditTrail interface {
	Record(ctx context.Context, actor, action, entityID, detail string)
}
