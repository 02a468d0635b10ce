package sharding

// ShardRouter maps a store to the database shard that owns all of its
// commerce data (products, flash sales, orders). Keeping a store's rows
// on one shard lets order placement run in a single transaction.
type ShardRouter struct {
	shardCount int
}

func NewShardRouter(shardCount int) *ShardRouter {
	if shardCount < 1 {
		shardCount = 1
	}
	return &ShardRouter{shardCount: shardCount}
}

// GetShard returns the shard index owning the given store.
func (r *ShardRouter) GetShard(storeID int) int {
	return storeID % r.shardCount
}
