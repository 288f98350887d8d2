package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultBufferTime(t *testing.T) {
	organizerID := uuid.New()
	buffer := NewDefaultBufferTime(organizerID)

	assert.Equal(t, organizerID, buffer.OrganizerID)
	assert.Equal(t, DefaultBufferBeforeMinutes, buffer.BufferBefore)
	assert.Equal(t, DefaultBufferAfterMinutes, buffer.BufferAfter)
	assert.Equal(t, DefaultMinimumGapMinutes, buffer.MinimumGap)
	assert.Equal(t, DefaultSlotIntervalMinutes, buffer.SlotInterval)
}
