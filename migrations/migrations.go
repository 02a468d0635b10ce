package migrations

import (
	"database/sql"
	"time"
)

func execWithRetry(query string, retries int, dbs ...*sql.DB) error {
	for _, db := range dbs {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
		}
	}
	return nil
}

// AutoMigrateProducts creates the products table on every shard.
func AutoMigrateProducts(retries int, dbs ...*sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			store_id INT NOT NULL,
			name VARCHAR(255) NOT NULL,
			price DOUBLE NOT NULL,
			mrp DOUBLE NOT NULL,
			quantity INT NOT NULL,
			in_stock BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX store_idx (store_id)
		);
	`
	return execWithRetry(query, retries, dbs...)
}

// AutoMigrateFlashSales creates the flash sale tables on every shard.
func AutoMigrateFlashSales(retries int, dbs ...*sql.DB) error {
	sales := `
		CREATE TABLE IF NOT EXISTS flash_sales (
			id INT AUTO_INCREMENT PRIMARY KEY,
			store_id INT NOT NULL,
			title VARCHAR(255) NOT NULL,
			discount DOUBLE NOT NULL,
			max_quantity INT NOT NULL DEFAULT 100,
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			sold INT NOT NULL DEFAULT 0
		);
	`
	if err := execWithRetry(sales, retries, dbs...); err != nil {
		return err
	}

	items := `
		CREATE TABLE IF NOT EXISTS flash_sale_products (
			sale_id INT NOT NULL,
			product_id INT NOT NULL,
			remaining INT NOT NULL,
			discount DOUBLE NOT NULL DEFAULT 0,
			PRIMARY KEY (sale_id, product_id),
			FOREIGN KEY (sale_id) REFERENCES flash_sales(id) ON DELETE CASCADE,
			INDEX product_idx (product_id)
		);
	`
	return execWithRetry(items, retries, dbs...)
}

// AutoMigrateOrders creates the orders and order_items tables on every shard.
func AutoMigrateOrders(retries int, dbs ...*sql.DB) error {
	orders := `
		CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			store_id INT NOT NULL,
			user_id INT NOT NULL,
			address_id INT NOT NULL,
			total DOUBLE NOT NULL,
			status VARCHAR(20) NOT NULL,
			is_paid BOOLEAN NOT NULL DEFAULT FALSE,
			payment_method VARCHAR(20) NOT NULL,
			coupon_code VARCHAR(50) NOT NULL DEFAULT '',
			coupon_discount DOUBLE NOT NULL DEFAULT 0,
			idempotent_key VARCHAR(255) UNIQUE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);
	`
	if err := execWithRetry(orders, retries, dbs...); err != nil {
		return err
	}

	items := `
		CREATE TABLE IF NOT EXISTS order_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			quantity INT NOT NULL,
			price DOUBLE NOT NULL,
			shipment_id VARCHAR(32) NOT NULL,
			status VARCHAR(20) NOT NULL,
			tracking_number VARCHAR(64) NOT NULL DEFAULT '',
			estimated_delivery DATETIME NULL,
			delivered_at DATETIME NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		);
	`
	return execWithRetry(items, retries, dbs...)
}

// AutoMigrateReturns creates the returns table on every shard.
func AutoMigrateReturns(retries int, dbs ...*sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS returns (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			order_item_id INT NOT NULL,
			rma_number VARCHAR(20) UNIQUE NOT NULL,
			reason TEXT NOT NULL,
			status VARCHAR(20) NOT NULL,
			refund_amount DOUBLE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);
	`
	return execWithRetry(query, retries, dbs...)
}

// AutoMigrateCoupons creates the coupons table on every shard.
func AutoMigrateCoupons(retries int, dbs ...*sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS coupons (
			id INT AUTO_INCREMENT PRIMARY KEY,
			store_id INT NOT NULL,
			code VARCHAR(50) NOT NULL,
			discount DOUBLE NOT NULL,
			min_order_value DOUBLE NOT NULL DEFAULT 0,
			expires_at DATETIME NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			UNIQUE KEY store_code_idx (store_id, code)
		);
	`
	return execWithRetry(query, retries, dbs...)
}

// AutoMigrateUsers creates the users and addresses tables on the users database.
func AutoMigrateUsers(retries int, dbs ...*sql.DB) error {
	users := `
		CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(50) NOT NULL,
			email VARCHAR(50) NOT NULL,
			password VARCHAR(255) NOT NULL
		);
	`
	if err := execWithRetry(users, retries, dbs...); err != nil {
		return err
	}

	addresses := `
		CREATE TABLE IF NOT EXISTS addresses (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			line1 VARCHAR(255) NOT NULL,
			city VARCHAR(100) NOT NULL,
			postal_code VARCHAR(20) NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);
	`
	return execWithRetry(addresses, retries, dbs...)
}
