package ports

import (
	"context"

	"github.com/pitwall/tourney-system/internal/core/domain"
)

// AuditSink receives audit notifications. Delivery is best effort: failures
// are logged by the dispatcher and never reach business-logic error paths.
type AuditSink interface {
	Notify(ctx context.Context, event domain.AuditEvent) error
}

// AuditNotifier is the enqueue side handed to services. Implementations must
// never block business logic on delivery.
type AuditNotifier interface {
	Emit(event domain.AuditEvent)
}

// AuditLog serves the stored audit trail for the root-only logs view.
type AuditLog interface {
	Recent(ctx context.Context, limit int64) ([]domain.AuditEvent, error)
}
