package sharding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetShard(t *testing.T) {
	router := NewShardRouter(3)

	assert.Equal(t, 0, router.GetShard(0))
	assert.Equal(t, 1, router.GetShard(1))
	assert.Equal(t, 2, router.GetShard(2))
	assert.Equal(t, 0, router.GetShard(3))
	assert.Equal(t, 1, router.GetShard(1000))

	// Same store always lands on the same shard.
	for storeID := 0; storeID < 100; storeID++ {
		shard := router.GetShard(storeID)
		assert.Equal(t, shard, router.GetShard(storeID))
		assert.GreaterOrEqual(t, shard, 0)
		assert.Less(t, shard, 3)
	}
}

func TestNewShardRouterClampsCount(t *testing.T) {
	router := NewShardRouter(0)

	// A misconfigured count falls back to a single shard instead of
	// dividing by zero on every lookup.
	assert.Equal(t, 0, router.GetShard(42))
}
