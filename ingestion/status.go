package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/graphrag/core"
	"github.com/poiesic/graphrag/storage"
)

// statusTracker records lifecycle transitions on the stored object.
// Each transition is a single synchronous write; a failed status write is
// logged and surfaced but never retried, since the pipeline outcome itself
// is already decided by the time the status is recorded.
type statusTracker struct {
	objects storage.ObjectStore
	logger  *slog.Logger
}

func newStatusTracker(objects storage.ObjectStore, logger *slog.Logger) *statusTracker {
	return &statusTracker{
		objects: objects,
		logger:  logger.With("component", "status-tracker"),
	}
}

// set writes the status for the document key.
func (t *statusTracker) set(ctx context.Context, key string, status core.DocumentStatus) error {
	if err := t.objects.SetStatus(ctx, key, status); err != nil {
		t.logger.Error("failed to record document status", "key", key, "status", status, "err", err)
		return err
	}
	t.logger.Info("document status", "key", key, "status", status)
	return nil
}
