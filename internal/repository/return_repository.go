package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/sharding"
)

type ReturnRepository struct {
	dbShards []*sql.DB
	router   *sharding.ShardRouter
}

func NewReturnRepository(dbShards []*sql.DB, router *sharding.ShardRouter) *ReturnRepository {
	return &ReturnRepository{dbShards, router}
}

// CreateReturn stores the request on the shard of the order's store so the
// return and its order stay co-located.
func (r *ReturnRepository) CreateReturn(ctx context.Context, storeID int, ret *entity.ReturnRequest) (*entity.ReturnRequest, error) {
	db := r.dbShards[r.router.GetShard(storeID)]

	query := `INSERT INTO returns (order_id, order_item_id, rma_number, reason, status, refund_amount)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query, ret.OrderID, ret.OrderItemID, ret.RMANumber,
		ret.Reason, ret.Status, ret.RefundAmount)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	ret.ID = int(id)
	return ret, nil
}

// GetReturnByID fans out over the shards, like order lookup by id.
func (r *ReturnRepository) GetReturnByID(ctx context.Context, id int) (*entity.ReturnRequest, error) {
	query := `SELECT id, order_id, order_item_id, rma_number, reason, status, refund_amount, created_at, updated_at
		FROM returns WHERE id = ?`

	for _, db := range r.dbShards {
		ret := &entity.ReturnRequest{}
		err := db.QueryRowContext(ctx, query, id).Scan(&ret.ID, &ret.OrderID, &ret.OrderItemID,
			&ret.RMANumber, &ret.Reason, &ret.Status, &ret.RefundAmount, &ret.CreatedAt, &ret.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return ret, nil
	}
	return nil, entity.ErrNotFound
}

func (r *ReturnRepository) UpdateReturnStatus(ctx context.Context, storeID, id int, status entity.ReturnStatus) error {
	db := r.dbShards[r.router.GetShard(storeID)]

	query := `UPDATE returns SET status = ? WHERE id = ?`
	res, err := db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
