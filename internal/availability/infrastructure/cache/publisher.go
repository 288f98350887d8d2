package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// InvalidationPublisher publishes a best-effort notice whenever the
// dirty-set is marked, so a cache sweeper or warmer can react without
// polling ListDirty. Publish failures are logged and swallowed — they
// must never fail the call that dirtied the cache.
type InvalidationPublisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
}

// invalidationNotice is the payload published on mark-dirty.
type invalidationNotice struct {
	OrganizerID              uuid.UUID `json:"organizer_id"`
	CacheType                string    `json:"cache_type"`
	RequiresFullInvalidation bool      `json:"requires_full_invalidation"`
	MarkedAt                 time.Time `json:"marked_at"`
}

// NotifyingDirtySet decorates a DirtySet so every MarkDirty call also
// publishes a best-effort notice over the given publisher.
type NotifyingDirtySet struct {
	*DirtySet
	publisher InvalidationPublisher
	logger    *slog.Logger
}

// NewNotifyingDirtySet wraps set with notice publishing.
func NewNotifyingDirtySet(set *DirtySet, publisher InvalidationPublisher, logger *slog.Logger) *NotifyingDirtySet {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotifyingDirtySet{DirtySet: set, publisher: publisher, logger: logger}
}

// MarkDirty marks the cache dirty and then attempts to publish a notice.
// A publish failure is logged at warn level and otherwise ignored.
func (n *NotifyingDirtySet) MarkDirty(ctx context.Context, organizerID uuid.UUID, cacheType string, requiresFullInvalidation bool, extras map[string]any, now time.Time) error {
	if err := n.DirtySet.MarkDirty(ctx, organizerID, cacheType, requiresFullInvalidation, extras, now); err != nil {
		return err
	}

	notice := invalidationNotice{
		OrganizerID:              organizerID,
		CacheType:                cacheType,
		RequiresFullInvalidation: requiresFullInvalidation,
		MarkedAt:                 now,
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		n.logger.Warn("failed to encode invalidation notice", "organizer_id", organizerID, "error", err)
		return nil
	}

	routingKey := fmt.Sprintf("cache.dirty.%s", cacheType)
	if err := n.publisher.Publish(ctx, routingKey, payload); err != nil {
		n.logger.Warn("failed to publish invalidation notice", "organizer_id", organizerID, "error", err)
	}
	return nil
}
