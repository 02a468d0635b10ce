package entity

import "time"

type Product struct {
	ID        int       `json:"id"`
	StoreID   int       `json:"store_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	MRP       float64   `json:"mrp"`
	Quantity  int       `json:"quantity"`
	InStock   bool      `json:"in_stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

/*
Mysql Table

CREATE TABLE products (
	id INT AUTO_INCREMENT PRIMARY KEY,
	store_id INT NOT NULL,
	name VARCHAR(255) NOT NULL,
	price DOUBLE NOT NULL,
	mrp DOUBLE NOT NULL,
	quantity INT NOT NULL,
	in_stock BOOLEAN NOT NULL
);

in_stock is kept equal to quantity > 0 by every write.
*/
