package entity

import "time"

// FlashSale is a time-windowed discount with a per-product unit pool.
type FlashSale struct {
	ID          int                `json:"id"`
	StoreID     int                `json:"store_id"`
	Title       string             `json:"title"`
	Discount    float64            `json:"discount"` // percent, 0-100
	MaxQuantity int                `json:"max_quantity"`
	StartTime   time.Time          `json:"start_time"`
	EndTime     time.Time          `json:"end_time"`
	IsActive    bool               `json:"is_active"`
	Sold        int                `json:"sold"`
	Products    []FlashSaleProduct `json:"products"`
}

type FlashSaleProduct struct {
	SaleID    int     `json:"sale_id"`
	ProductID int     `json:"product_id"`
	Remaining *int    `json:"remaining,omitempty"` // nil fills the pool to the sale's max quantity
	Discount  float64 `json:"discount"`            // per-product override, 0 means sale-level discount
}

// Live reports whether the sale is currently running.
func (s *FlashSale) Live(now time.Time) bool {
	return s.IsActive && !now.Before(s.StartTime) && !now.After(s.EndTime)
}
