package auditlog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder is the best-effort side channel services call for the audit
// trail. Failures are logged and isolated; they never fail the request that
// produced them.
type Recorder interface {
	Record(ctx context.Context, ownerID, typ, message string)
}

type recorder struct {
	repo   Repository
	logger *zap.Logger
}

func NewRecorder(repo Repository, logger *zap.Logger) Recorder {
	return &recorder{
		repo:   repo,
		logger: logger.Named("auditlog.recorder"),
	}
}

func (r *recorder) Record(_ context.Context, ownerID, typ, message string) {
	entry := Entry{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Type:      typ,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	// Detached from the request lifecycle: the append must not extend or
	// fail the primary transaction.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := r.repo.Append(ctx, entry); err != nil {
			r.logger.Warn("audit append failed",
				zap.String("owner_id", ownerID),
				zap.String("type", typ),
				zap.Error(err),
			)
		}
	}()
}

// NopRecorder discards everything; used in tests.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, string, string, string) {}
