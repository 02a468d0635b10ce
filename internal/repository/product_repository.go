package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/sharding"
)

// StockChange records the outcome of a ledger mutation for one product.
// NewQuantity == 0 after a decrement means the product just ran out;
// NewQuantity == Delta after an increment means it was restocked from zero.
type StockChange struct {
	ProductID   int
	Delta       int
	NewQuantity int
}

type ProductRepository struct {
	dbShards []*sql.DB
	router   *sharding.ShardRouter
}

func NewProductRepository(dbShards []*sql.DB, router *sharding.ShardRouter) *ProductRepository {
	return &ProductRepository{dbShards, router}
}

func (r *ProductRepository) shardFor(storeID int) *sql.DB {
	return r.dbShards[r.router.GetShard(storeID)]
}

func (r *ProductRepository) GetProductByID(ctx context.Context, storeID, id int) (*entity.Product, error) {
	query := `SELECT id, store_id, name, price, mrp, quantity, in_stock, created_at, updated_at FROM products WHERE id = ? AND store_id = ?`

	product := &entity.Product{}
	err := r.shardFor(storeID).QueryRowContext(ctx, query, id, storeID).Scan(
		&product.ID, &product.StoreID, &product.Name, &product.Price, &product.MRP,
		&product.Quantity, &product.InStock, &product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (store_id, name, price, mrp, quantity, in_stock) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.shardFor(product.StoreID).ExecContext(ctx, query,
		product.StoreID, product.Name, product.Price, product.MRP, product.Quantity, product.Quantity > 0)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = int(id)
	product.InStock = product.Quantity > 0
	return product, nil
}

func (r *ProductRepository) GetProducts(ctx context.Context, storeID int) ([]*entity.Product, error) {
	var products []*entity.Product

	query := `SELECT id, store_id, name, price, mrp, quantity, in_stock, created_at, updated_at FROM products WHERE store_id = ?`
	rows, err := r.shardFor(storeID).QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var product entity.Product
		err := rows.Scan(&product.ID, &product.StoreID, &product.Name, &product.Price, &product.MRP,
			&product.Quantity, &product.InStock, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}

// DecrementStock atomically takes qty units off the ledger. It fails with
// entity.ErrInsufficientStock when fewer than qty units are available,
// without ever letting the quantity go negative.
func (r *ProductRepository) DecrementStock(ctx context.Context, storeID, productID, qty int) (StockChange, error) {
	db := r.shardFor(storeID)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return StockChange{}, err
	}

	change, err := decrementStockTx(ctx, tx, productID, qty)
	if err != nil {
		tx.Rollback()
		return StockChange{}, err
	}

	if err := tx.Commit(); err != nil {
		return StockChange{}, err
	}
	return change, nil
}

// IncrementStock adds qty units back. It always succeeds for an existing product.
func (r *ProductRepository) IncrementStock(ctx context.Context, storeID, productID, qty int) (StockChange, error) {
	db := r.shardFor(storeID)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return StockChange{}, err
	}

	change, err := incrementStockTx(ctx, tx, productID, qty)
	if err != nil {
		tx.Rollback()
		return StockChange{}, err
	}

	if err := tx.Commit(); err != nil {
		return StockChange{}, err
	}
	return change, nil
}

// decrementStockTx is the single guarded statement that closes the
// read-then-write race: the quantity check and the subtraction happen in
// one UPDATE, and zero affected rows means the check failed.
// MySQL applies SET assignments left to right, so in_stock sees the new quantity.
func decrementStockTx(ctx context.Context, tx *sql.Tx, productID, qty int) (StockChange, error) {
	query := `UPDATE products SET quantity = quantity - ?, in_stock = quantity > 0 WHERE id = ? AND quantity >= ?`
	res, err := tx.ExecContext(ctx, query, qty, productID, qty)
	if err != nil {
		return StockChange{}, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return StockChange{}, err
	}
	if affected == 0 {
		// Either the product does not exist or the guard rejected the update.
		var current int
		err := tx.QueryRowContext(ctx, `SELECT quantity FROM products WHERE id = ?`, productID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return StockChange{}, entity.ErrNotFound
		}
		if err != nil {
			return StockChange{}, err
		}
		return StockChange{}, entity.ErrInsufficientStock
	}

	var newQty int
	if err := tx.QueryRowContext(ctx, `SELECT quantity FROM products WHERE id = ?`, productID).Scan(&newQty); err != nil {
		return StockChange{}, err
	}

	return StockChange{ProductID: productID, Delta: -qty, NewQuantity: newQty}, nil
}

func incrementStockTx(ctx context.Context, tx *sql.Tx, productID, qty int) (StockChange, error) {
	query := `UPDATE products SET quantity = quantity + ?, in_stock = TRUE WHERE id = ?`
	res, err := tx.ExecContext(ctx, query, qty, productID)
	if err != nil {
		return StockChange{}, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return StockChange{}, err
	}
	if affected == 0 {
		return StockChange{}, entity.ErrNotFound
	}

	var newQty int
	if err := tx.QueryRowContext(ctx, `SELECT quantity FROM products WHERE id = ?`, productID).Scan(&newQty); err != nil {
		return StockChange{}, err
	}

	return StockChange{ProductID: productID, Delta: qty, NewQuantity: newQty}, nil
}
