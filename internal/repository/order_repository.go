package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/sharding"
)

const mysqlDuplicateEntry = 1062

type OrderRepository struct {
	dbShards []*sql.DB
	router   *sharding.ShardRouter
}

func NewOrderRepository(dbShards []*sql.DB, router *sharding.ShardRouter) *OrderRepository {
	return &OrderRepository{dbShards, router}
}

func (r *OrderRepository) shardFor(storeID int) *sql.DB {
	return r.dbShards[r.router.GetShard(storeID)]
}

// CreateOrder persists the order, its items, the stock decrements and the
// flash-sale allocations in one transaction on the store's shard. Any
// insufficient item rolls the whole thing back: no partial orders.
// The returned changes carry the post-decrement quantities so the caller
// can emit out-of-stock notifications.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, []StockChange, error) {
	db := r.shardFor(order.StoreID)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}

	var changes []StockChange
	for _, item := range order.Items {
		change, err := decrementStockTx(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			tx.Rollback()
			return nil, nil, err
		}
		changes = append(changes, change)
	}

	orderQuery := `INSERT INTO orders (store_id, user_id, address_id, total, status, is_paid, payment_method, coupon_code, coupon_discount, idempotent_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, order.StoreID, order.UserID, order.AddressID,
		order.Total, order.Status, order.IsPaid, order.PaymentMethod,
		order.CouponCode, order.CouponDiscount, order.IdempotentKey)
	if err != nil {
		tx.Rollback()
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return nil, nil, entity.ErrDuplicateOrder
		}
		return nil, nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	// Insert order items with batch
	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, price, shipment_id, status) VALUES `

	var values []interface{}
	for _, item := range order.Items {
		itemQuery += "(?, ?, ?, ?, ?, ?),"
		values = append(values, orderID, item.ProductID, item.Quantity, item.Price, item.ShipmentID, order.Status)
	}
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err = tx.ExecContext(ctx, itemQuery, values...)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	now := time.Now()
	for _, item := range order.Items {
		if err := allocateFlashSalesTx(ctx, tx, item.ProductID, item.Quantity, now); err != nil {
			tx.Rollback()
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	order.ID = int(orderID)
	order.CreatedAt = now
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].Status = order.Status
	}
	return order, changes, nil
}

// GetOrderByID fans out over the shards. Orders are routed by store, so a
// lookup that only has the order id probes each shard in turn.
func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	for _, db := range r.dbShards {
		order, err := getOrder(ctx, db, id)
		if errors.Is(err, entity.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return order, nil
	}
	return nil, entity.ErrNotFound
}

func getOrder(ctx context.Context, db *sql.DB, id int) (*entity.Order, error) {
	orderQuery := `SELECT id, store_id, user_id, address_id, total, status, is_paid, payment_method,
		coupon_code, coupon_discount, created_at, updated_at FROM orders WHERE id = ?`

	order := &entity.Order{}
	err := db.QueryRowContext(ctx, orderQuery, id).Scan(&order.ID, &order.StoreID, &order.UserID,
		&order.AddressID, &order.Total, &order.Status, &order.IsPaid, &order.PaymentMethod,
		&order.CouponCode, &order.CouponDiscount, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	itemQuery := `SELECT id, order_id, product_id, quantity, price, shipment_id, status,
		tracking_number, estimated_delivery, delivered_at FROM order_items WHERE order_id = ?`
	rows, err := db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&item.ShipmentID, &item.Status, &item.TrackingNumber, &item.EstimatedDelivery, &item.DeliveredAt)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	return order, rows.Err()
}

// UpdateOrderStatus moves the order through its state machine. When the
// transition enters the reversal set, the same transaction restores the
// stock ledger and the flash-sale pools for every item. The previous-status
// guard makes a repeated reversal a plain status update, never a second restock.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, status entity.OrderStatus) (entity.OrderStatus, []StockChange, error) {
	order, err := r.GetOrderByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	db := r.shardFor(order.StoreID)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", nil, err
	}

	// Re-read under lock; the fan-out read above was only for shard routing.
	var prev entity.OrderStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ? FOR UPDATE`, id).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return "", nil, entity.ErrNotFound
	}
	if err != nil {
		tx.Rollback()
		return "", nil, err
	}

	if !entity.CanTransition(prev, status) {
		tx.Rollback()
		return prev, nil, entity.ErrInvalidTransition
	}

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id); err != nil {
		tx.Rollback()
		return prev, nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE order_items SET status = ? WHERE order_id = ?`, status, id); err != nil {
		tx.Rollback()
		return prev, nil, err
	}

	var changes []StockChange
	if entity.Reversing(prev, status) {
		for _, item := range order.Items {
			change, err := incrementStockTx(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				tx.Rollback()
				return prev, nil, err
			}
			changes = append(changes, change)

			if err := releaseFlashSalesTx(ctx, tx, item.ProductID, item.Quantity); err != nil {
				tx.Rollback()
				return prev, nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return prev, nil, err
	}

	return prev, changes, nil
}

// UpdateItemTracking sets shipment tracking details on a single order item.
func (r *OrderRepository) UpdateItemTracking(ctx context.Context, orderID, itemID int, trackingNumber string, estimatedDelivery *time.Time) error {
	order, err := r.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	db := r.shardFor(order.StoreID)

	query := `UPDATE order_items SET tracking_number = ?, estimated_delivery = ? WHERE id = ? AND order_id = ?`
	res, err := db.ExecContext(ctx, query, trackingNumber, estimatedDelivery, itemID, orderID)
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
