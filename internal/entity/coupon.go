package entity

import "time"

type Coupon struct {
	ID            int       `json:"id"`
	StoreID       int       `json:"store_id"`
	Code          string    `json:"code"`
	Discount      float64   `json:"discount"` // percent, 0-100
	MinOrderValue float64   `json:"min_order_value"`
	ExpiresAt     time.Time `json:"expires_at"`
	IsActive      bool      `json:"is_active"`
}

// Usable reports whether the coupon can be applied to an order of the given value.
func (c *Coupon) Usable(orderValue float64, now time.Time) bool {
	return c.IsActive && now.Before(c.ExpiresAt) && orderValue >= c.MinOrderValue
}
