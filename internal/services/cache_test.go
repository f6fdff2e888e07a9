package services

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "roster:123456:4", RosterCacheKey("123456", 4))
	assert.Equal(t, "valuation:RB:150.0", ValuationCacheKey("RB", 150))
	assert.Equal(t, "valuation:QB:210.4", ValuationCacheKey("QB", 210.4))
	assert.Equal(t, "selected_team:123456", SelectedTeamCacheKey("123456"))
}

func TestSetWithRetryExhaustsRetries(t *testing.T) {
	// Unreachable redis: every attempt fails and the last error surfaces.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	cache := NewCacheService(client)
	err := cache.SetWithRetry(context.Background(), "key", "value", time.Minute, 2)
	assert.Error(t, err)
}
