package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/sharding"
)

type FlashSaleRepository struct {
	dbShards []*sql.DB
	router   *sharding.ShardRouter
}

func NewFlashSaleRepository(dbShards []*sql.DB, router *sharding.ShardRouter) *FlashSaleRepository {
	return &FlashSaleRepository{dbShards, router}
}

func (r *FlashSaleRepository) shardFor(storeID int) *sql.DB {
	return r.dbShards[r.router.GetShard(storeID)]
}

func (r *FlashSaleRepository) CreateSale(ctx context.Context, sale *entity.FlashSale) (*entity.FlashSale, error) {
	db := r.shardFor(sale.StoreID)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	saleQuery := `INSERT INTO flash_sales (store_id, title, discount, max_quantity, start_time, end_time, is_active, sold)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)`
	res, err := tx.ExecContext(ctx, saleQuery, sale.StoreID, sale.Title, sale.Discount,
		sale.MaxQuantity, sale.StartTime, sale.EndTime, sale.IsActive)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	saleID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Batch insert the per-product pools. A pool without an explicit size
	// starts at the sale-wide max_quantity; an explicit zero stays zero.
	if len(sale.Products) > 0 {
		productQuery := `INSERT INTO flash_sale_products (sale_id, product_id, remaining, discount) VALUES `

		var values []interface{}
		for _, p := range sale.Products {
			remaining := sale.MaxQuantity
			if p.Remaining != nil {
				remaining = *p.Remaining
			}
			productQuery += "(?, ?, ?, ?),"
			values = append(values, saleID, p.ProductID, remaining, p.Discount)
		}
		productQuery = productQuery[:len(productQuery)-1]

		_, err = tx.ExecContext(ctx, productQuery, values...)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	sale.ID = int(saleID)
	return sale, nil
}

func (r *FlashSaleRepository) GetSaleByID(ctx context.Context, storeID, id int) (*entity.FlashSale, error) {
	db := r.shardFor(storeID)

	saleQuery := `SELECT id, store_id, title, discount, max_quantity, start_time, end_time, is_active, sold
		FROM flash_sales WHERE id = ? AND store_id = ?`

	sale := &entity.FlashSale{}
	err := db.QueryRowContext(ctx, saleQuery, id, storeID).Scan(&sale.ID, &sale.StoreID, &sale.Title,
		&sale.Discount, &sale.MaxQuantity, &sale.StartTime, &sale.EndTime, &sale.IsActive, &sale.Sold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	productQuery := `SELECT sale_id, product_id, remaining, discount FROM flash_sale_products WHERE sale_id = ?`
	rows, err := db.QueryContext(ctx, productQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p entity.FlashSaleProduct
		if err := rows.Scan(&p.SaleID, &p.ProductID, &p.Remaining, &p.Discount); err != nil {
			return nil, err
		}
		sale.Products = append(sale.Products, p)
	}

	return sale, rows.Err()
}

func (r *FlashSaleRepository) GetSales(ctx context.Context, storeID int) ([]*entity.FlashSale, error) {
	db := r.shardFor(storeID)

	query := `SELECT id, store_id, title, discount, max_quantity, start_time, end_time, is_active, sold
		FROM flash_sales WHERE store_id = ?`
	rows, err := db.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*entity.FlashSale
	for rows.Next() {
		sale := &entity.FlashSale{}
		err := rows.Scan(&sale.ID, &sale.StoreID, &sale.Title, &sale.Discount, &sale.MaxQuantity,
			&sale.StartTime, &sale.EndTime, &sale.IsActive, &sale.Sold)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}

	return sales, rows.Err()
}

func (r *FlashSaleRepository) UpdateSale(ctx context.Context, sale *entity.FlashSale) (*entity.FlashSale, error) {
	db := r.shardFor(sale.StoreID)

	query := `UPDATE flash_sales SET title = ?, discount = ?, max_quantity = ?, start_time = ?, end_time = ?, is_active = ?
		WHERE id = ? AND store_id = ?`
	res, err := db.ExecContext(ctx, query, sale.Title, sale.Discount, sale.MaxQuantity,
		sale.StartTime, sale.EndTime, sale.IsActive, sale.ID, sale.StoreID)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if _, err := r.GetSaleByID(ctx, sale.StoreID, sale.ID); err != nil {
			return nil, err
		}
	}

	return sale, nil
}

// DeactivateSale soft-disables a sale. Sales are never deleted so that
// completed orders keep their audit trail.
func (r *FlashSaleRepository) DeactivateSale(ctx context.Context, storeID, id int) error {
	db := r.shardFor(storeID)

	query := `UPDATE flash_sales SET is_active = FALSE WHERE id = ? AND store_id = ?`
	res, err := db.ExecContext(ctx, query, id, storeID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetSaleByID(ctx, storeID, id); err != nil {
			return err
		}
	}
	return nil
}

// allocateFlashSalesTx charges every live sale that carries the product.
// All matching pools are decremented independently; the pool never drops
// below zero even when the order quantity exceeds what is left in it.
func allocateFlashSalesTx(ctx context.Context, tx *sql.Tx, productID, qty int, now time.Time) error {
	query := `UPDATE flash_sale_products fsp
		JOIN flash_sales fs ON fs.id = fsp.sale_id
		SET fsp.remaining = GREATEST(fsp.remaining - ?, 0), fs.sold = fs.sold + ?
		WHERE fsp.product_id = ? AND fs.is_active = TRUE AND fs.start_time <= ? AND fs.end_time >= ?`
	_, err := tx.ExecContext(ctx, query, qty, qty, productID, now, now)
	return err
}

// releaseFlashSalesTx is the inverse of allocateFlashSalesTx, applied to
// every sale holding the product. sold is floored at zero.
func releaseFlashSalesTx(ctx context.Context, tx *sql.Tx, productID, qty int) error {
	query := `UPDATE flash_sale_products fsp
		JOIN flash_sales fs ON fs.id = fsp.sale_id
		SET fsp.remaining = fsp.remaining + ?, fs.sold = GREATEST(fs.sold - ?, 0)
		WHERE fsp.product_id = ?`
	_, err := tx.ExecContext(ctx, query, qty, qty, productID)
	return err
}
