package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkReadRecordsFirstReadTime(t *testing.T) {
	first := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	n := NewReservationDeclined("n-1", "alice", "ad-1", "Old bike", first)
	assert.False(t, n.IsRead)
	assert.True(t, n.ReadAt.IsZero())

	n.MarkRead(first)
	assert.True(t, n.IsRead)
	assert.Equal(t, first, n.ReadAt)

	n.MarkRead(first.Add(time.Hour))
	assert.Equal(t, first, n.ReadAt)
}
