package events

import (
	"time"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

// Event kinds carried in the Kafka message key as "order.<kind>.<id>" or
// "product.<kind>.<id>", so consumers can route without unmarshalling.
const (
	KindCreated       = "created"
	KindStatusChanged = "status_changed"
	KindOutOfStock    = "out_of_stock"
	KindBackInStock   = "back_in_stock"
	KindReturn        = "return_requested"
)

type OrderCreatedEvent struct {
	EventID   string             `json:"event_id"`
	OrderID   int                `json:"order_id"`
	StoreID   int                `json:"store_id"`
	UserID    int                `json:"user_id"`
	Total     float64            `json:"total"`
	Items     []entity.OrderItem `json:"items"`
	Status    entity.OrderStatus `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
}

type OrderStatusChangedEvent struct {
	EventID   string             `json:"event_id"`
	OrderID   int                `json:"order_id"`
	From      entity.OrderStatus `json:"from"`
	To        entity.OrderStatus `json:"to"`
	Timestamp time.Time          `json:"timestamp"`
}

// StockEvent signals a product running out of stock or coming back.
type StockEvent struct {
	EventID   string    `json:"event_id"`
	StoreID   int       `json:"store_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

type ReturnRequestedEvent struct {
	EventID      string    `json:"event_id"`
	ReturnID     int       `json:"return_id"`
	OrderID      int       `json:"order_id"`
	RMANumber    string    `json:"rma_number"`
	RefundAmount float64   `json:"refund_amount"`
	Timestamp    time.Time `json:"timestamp"`
}
