package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slotforge/availability/internal/availability/domain"
)

const dirtyTTL = time.Hour

const dirtyListKey = "dirty_cache_list"

// DirtyChange is one append-only entry in an organizer's dirty record.
type DirtyChange struct {
	Timestamp time.Time      `json:"timestamp"`
	CacheType string         `json:"cache_type"`
	Extras    map[string]any `json:"extras,omitempty"`
}

// DirtyRecord is the value stored at dirty_cache:{organizer_id}. Once
// RequiresFullInvalidation is set it stays set (sticky-OR semantics) until
// ClearDirty removes the record entirely.
type DirtyRecord struct {
	RequiresFullInvalidation bool          `json:"requires_full_invalidation"`
	Changes                  []DirtyChange `json:"changes"`
}

// DirtyMarker is the surface adapters need from a dirty-tracking cache:
// a plain *DirtySet, or a *NotifyingDirtySet that additionally publishes
// invalidation notices on every mark.
type DirtyMarker interface {
	MarkDirty(ctx context.Context, organizerID uuid.UUID, cacheType string, requiresFullInvalidation bool, extras map[string]any, now time.Time) error
	ListDirty(ctx context.Context) ([]uuid.UUID, error)
	ClearDirty(ctx context.Context, organizerID uuid.UUID) error
}

// DirtySet tracks which organizers have stale cached availability,
// purely through the generic Cache interface — no Redis-specific set
// type is used, mirroring how the original stored a plain dirty-record
// value and a plain dirty-organizer-list value behind django.core.cache
// rather than native Redis SADD/SMEMBERS.
type DirtySet struct {
	store Cache
}

// NewDirtySet constructs a DirtySet over the given cache.
func NewDirtySet(store Cache) *DirtySet {
	return &DirtySet{store: store}
}

func dirtyRecordKey(organizerID uuid.UUID) string {
	return fmt.Sprintf("dirty_cache:%s", organizerID)
}

// MarkDirty upserts the organizer's dirty record, OR-ing in
// requiresFullInvalidation (once true, it stays true) and appending a
// change entry, then adds the organizer to the dirty list. Both entries
// are refreshed with a 1-hour TTL on every call.
func (d *DirtySet) MarkDirty(ctx context.Context, organizerID uuid.UUID, cacheType string, requiresFullInvalidation bool, extras map[string]any, now time.Time) error {
	key := dirtyRecordKey(organizerID)

	record := DirtyRecord{}
	if raw, found, err := d.store.Get(ctx, key); err == nil && found {
		_ = json.Unmarshal(raw, &record)
	}

	record.RequiresFullInvalidation = record.RequiresFullInvalidation || requiresFullInvalidation
	record.Changes = append(record.Changes, DirtyChange{Timestamp: now, CacheType: cacheType, Extras: extras})

	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encoding dirty record: %w", domain.ErrCache, err)
	}
	if err := d.store.Set(ctx, key, encoded, dirtyTTL); err != nil {
		return fmt.Errorf("%w: writing dirty record: %w", domain.ErrCache, err)
	}

	if err := d.addToDirtyList(ctx, organizerID); err != nil {
		return err
	}
	return nil
}

func (d *DirtySet) addToDirtyList(ctx context.Context, organizerID uuid.UUID) error {
	var ids []uuid.UUID
	if raw, found, err := d.store.Get(ctx, dirtyListKey); err == nil && found {
		_ = json.Unmarshal(raw, &ids)
	}

	for _, id := range ids {
		if id == organizerID {
			encoded, err := json.Marshal(ids)
			if err != nil {
				return fmt.Errorf("%w: encoding dirty list: %w", domain.ErrCache, err)
			}
			return d.store.Set(ctx, dirtyListKey, encoded, dirtyTTL)
		}
	}

	ids = append(ids, organizerID)
	encoded, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("%w: encoding dirty list: %w", domain.ErrCache, err)
	}
	return d.store.Set(ctx, dirtyListKey, encoded, dirtyTTL)
}

// ListDirty returns every organizer currently marked dirty.
func (d *DirtySet) ListDirty(ctx context.Context) ([]uuid.UUID, error) {
	raw, found, err := d.store.Get(ctx, dirtyListKey)
	if err != nil || !found {
		return nil, nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("%w: decoding dirty list: %w", domain.ErrCache, err)
	}
	return ids, nil
}

// ClearDirty removes both the organizer's dirty record and its membership
// in the dirty list.
func (d *DirtySet) ClearDirty(ctx context.Context, organizerID uuid.UUID) error {
	if err := d.store.Delete(ctx, dirtyRecordKey(organizerID)); err != nil {
		return err
	}

	ids, err := d.ListDirty(ctx)
	if err != nil {
		return err
	}
	remaining := ids[:0]
	for _, id := range ids {
		if id != organizerID {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		return d.store.Delete(ctx, dirtyListKey)
	}
	encoded, err := json.Marshal(remaining)
	if err != nil {
		return fmt.Errorf("%w: encoding dirty list: %w", domain.ErrCache, err)
	}
	return d.store.Set(ctx, dirtyListKey, encoded, dirtyTTL)
}
