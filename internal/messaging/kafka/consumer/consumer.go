package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-traindesk/internal/auditlog"
	"go-traindesk/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// AuditConsumer folds domain events back into the per-tenant system log so
// the audit trail is complete even when the in-process append was skipped.
type AuditConsumer struct {
	reader *kafkago.Reader
	repo   auditlog.Repository
	logger *zap.Logger
}

func NewAuditConsumer(brokers []string, topic string, repo auditlog.Repository, logger *zap.Logger) *AuditConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: "traindesk-audit",
	})
	return &AuditConsumer{
		reader: reader,
		repo:   repo,
		logger: logger.Named("kafka.audit_consumer"),
	}
}

// Run blocks until ctx is cancelled. Individual message failures are logged
// and skipped; the loop itself only exits on context cancellation.
func (c *AuditConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("read message failed", zap.Error(err))
			continue
		}

		if err := c.handle(ctx, msg.Value); err != nil {
			c.logger.Warn("handle event failed",
				zap.String("key", string(msg.Key)),
				zap.Error(err),
			)
		}
	}
}

func (c *AuditConsumer) handle(ctx context.Context, payload []byte) error {
	var event events.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	if event.OwnerID == "" {
		return fmt.Errorf("event without owner id: %s", event.EventType)
	}

	entry := auditlog.Entry{
		ID:        eventEntryID(event),
		OwnerID:   event.OwnerID,
		Type:      auditlog.TypeSystem,
		Message:   fmt.Sprintf("%s %s", event.EventType, event.ResourceID),
		CreatedAt: event.OccurredAt,
	}
	return c.repo.Append(ctx, entry)
}

// eventEntryID is deterministic so a redelivered message collides on _id
// instead of duplicating a log line.
func eventEntryID(event events.Event) string {
	return fmt.Sprintf("%s:%s:%d", event.EventType, event.ResourceID, event.OccurredAt.UnixNano())
}

func (c *AuditConsumer) Close() error {
	return c.reader.Close()
}
