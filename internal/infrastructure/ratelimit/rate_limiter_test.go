package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSendMessageBucket(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter()
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		ok, _ := rl.Allow("u1", ActionSendMessage)
		assert.True(t, ok, "message %d", i)
	}

	ok, wait := rl.Allow("u1", ActionSendMessage)
	assert.False(t, ok)
	assert.Equal(t, 6*time.Second, wait)

	ok, _ = rl.Allow("u2", ActionSendMessage)
	assert.True(t, ok, "other users have their own bucket")

	now = now.Add(6 * time.Second)
	ok, _ = rl.Allow("u1", ActionSendMessage)
	assert.True(t, ok)
}

func TestCleanupDropsIdleBuckets(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter()
	rl.now = func() time.Time { return now }

	rl.Allow("u1", ActionUpload)
	now = now.Add(2 * time.Hour)
	rl.Allow("u2", ActionUpload)

	rl.Cleanup(time.Hour)

	assert.Len(t, rl.buckets, 1)
	_, ok := rl.buckets["u2:"+ActionUpload]
	assert.True(t, ok)
}
