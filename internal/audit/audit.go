// Package audit writes administrative changes to the structured log.
package audit

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/docdraft/internal/core/events"
	"github.com/frahmantamala/docdraft/pkg/logger"
)

type Subscriber struct {
	logger *slog.Logger
}

func NewSubscriber(lg *slog.Logger) *Subscriber {
	return &Subscriber{logger: lg.With("component", "audit")}
}

// Register subscribes to every audit event type on bus.
func (s *Subscriber) Register(bus *events.EventBus) {
	bus.SubscribeAll(events.AuditEventTypes, s.Handle)
}

func (s *Subscriber) Handle(ctx context.Context, event events.Event) error {
	attrs := []any{
		"event_id", event.EventID(),
		"event_type", event.EventType(),
		"occurred_at", event.OccurredAt(),
	}
	if ae, ok := event.(*events.AuditEvent); ok {
		attrs = append(attrs,
			"actor_id", ae.ActorID,
			"org_id", ae.OrgID,
			"target_type", ae.TargetType,
			"target_id", ae.TargetID,
		)
	}
	if traceID := logger.TraceID(ctx); traceID != "" {
		attrs = append(attrs, "trace_id", traceID)
	}
	attrs = append(attrs, "data", event.Payload())

	s.logger.InfoContext(ctx, "audit", attrs...)
	return nil
}
