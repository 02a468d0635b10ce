package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/sharding"
)

type CouponRepository struct {
	dbShards []*sql.DB
	router   *sharding.ShardRouter
}

func NewCouponRepository(dbShards []*sql.DB, router *sharding.ShardRouter) *CouponRepository {
	return &CouponRepository{dbShards, router}
}

func (r *CouponRepository) shardFor(storeID int) *sql.DB {
	return r.dbShards[r.router.GetShard(storeID)]
}

func (r *CouponRepository) CreateCoupon(ctx context.Context, coupon *entity.Coupon) (*entity.Coupon, error) {
	query := `INSERT INTO coupons (store_id, code, discount, min_order_value, expires_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.shardFor(coupon.StoreID).ExecContext(ctx, query, coupon.StoreID, coupon.Code,
		coupon.Discount, coupon.MinOrderValue, coupon.ExpiresAt, coupon.IsActive)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	coupon.ID = int(id)
	return coupon, nil
}

func (r *CouponRepository) GetCouponByCode(ctx context.Context, storeID int, code string) (*entity.Coupon, error) {
	coupon := &entity.Coupon{}

	query := `SELECT id, store_id, code, discount, min_order_value, expires_at, is_active
		FROM coupons WHERE store_id = ? AND code = ?`
	err := r.shardFor(storeID).QueryRowContext(ctx, query, storeID, code).Scan(&coupon.ID, &coupon.StoreID,
		&coupon.Code, &coupon.Discount, &coupon.MinOrderValue, &coupon.ExpiresAt, &coupon.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return coupon, nil
}
