// Package audit records security-relevant account events on a dedicated
// "audit" logger so they can be routed apart from request logs.
package audit

import (
	"context"

	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

type Event string

const (
	LoginSucceeded   Event = "login.succeeded"
	LoginFailed      Event = "login.failed"
	AccountCreated   Event = "account.created"
	AccountLinked    Event = "account.linked"
	UserCreated      Event = "admin.user_created"
	UserUpdated      Event = "admin.user_updated"
	UserDeactivated  Event = "admin.user_deactivated"
	UserDeleted      Event = "admin.user_deleted"
	SuperuserCreated Event = "bootstrap.superuser_created"
)

// Log writes event with fields. The request id and any other fields already
// bound to the context logger are carried over.
func Log(ctx context.Context, event Event, fields ...logger.Field) {
	logger.From(ctx).Named("audit").Info(string(event), append(fields, logger.String("event", string(event)))...)
}
