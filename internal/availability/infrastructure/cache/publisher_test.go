package cache

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	published  [][]byte
	routingKey string
	err        error
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.routingKey = routingKey
	p.published = append(p.published, payload)
	return nil
}

func TestNotifyingDirtySet_PublishesOnMark(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryCache()
	publisher := &fakePublisher{}
	set := NewNotifyingDirtySet(NewDirtySet(store), publisher, slog.Default())
	organizerID := uuid.New()

	require.NoError(t, set.MarkDirty(ctx, organizerID, "availability", true, nil, time.Now()))

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "cache.dirty.availability", publisher.routingKey)
}

func TestNotifyingDirtySet_MarksEvenWhenPublishFails(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryCache()
	publisher := &fakePublisher{err: errors.New("broker unreachable")}
	set := NewNotifyingDirtySet(NewDirtySet(store), publisher, slog.Default())
	organizerID := uuid.New()

	err := set.MarkDirty(ctx, organizerID, "availability", false, nil, time.Now())
	require.NoError(t, err, "a publish failure must never fail the call that dirtied the cache")

	ids, err := set.ListDirty(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{organizerID}, ids)
}

func TestNotifyingDirtySet_SatisfiesDirtyMarker(t *testing.T) {
	var _ DirtyMarker = (*DirtySet)(nil)
	var _ DirtyMarker = (*NotifyingDirtySet)(nil)
}
