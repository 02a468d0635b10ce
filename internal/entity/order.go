package entity

import "time"

type OrderStatus string

const (
	StatusOrderPlaced     OrderStatus = "ORDER_PLACED"
	StatusProcessing      OrderStatus = "PROCESSING"
	StatusShipped         OrderStatus = "SHIPPED"
	StatusDelivered       OrderStatus = "DELIVERED"
	StatusPaymentPending  OrderStatus = "PAYMENT_PENDING"
	StatusPaymentReceived OrderStatus = "PAYMENT_RECEIVED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusReturnAccepted  OrderStatus = "RETURN_ACCEPTED"
	StatusReturnPickedUp  OrderStatus = "RETURN_PICKED_UP"
	StatusRefundCompleted OrderStatus = "REFUND_COMPLETED"
)

// transitions is the allowed status graph. Terminal states have no entry.
var transitions = map[OrderStatus][]OrderStatus{
	StatusOrderPlaced:     {StatusProcessing, StatusPaymentPending, StatusCancelled},
	StatusPaymentPending:  {StatusPaymentReceived, StatusCancelled},
	StatusPaymentReceived: {StatusProcessing, StatusCancelled},
	StatusProcessing:      {StatusShipped, StatusCancelled},
	StatusShipped:         {StatusDelivered, StatusCancelled},
	StatusDelivered:       {StatusReturnAccepted},
	StatusReturnAccepted:  {StatusReturnPickedUp},
	StatusReturnPickedUp:  {StatusRefundCompleted},
}

// reversalSet holds the statuses whose first entry restores stock.
var reversalSet = map[OrderStatus]bool{
	StatusCancelled:       true,
	StatusReturnAccepted:  true,
	StatusReturnPickedUp:  true,
	StatusRefundCompleted: true,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	if _, ok := transitions[s]; ok {
		return true
	}
	return reversalSet[s]
}

// CanTransition reports whether an order may move from to next.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Reversing reports whether moving from to next crosses into the reversal
// set for the first time. Stock is restored exactly on that edge.
func Reversing(from, to OrderStatus) bool {
	return reversalSet[to] && !reversalSet[from]
}

type Order struct {
	ID             int         `json:"id"`
	StoreID        int         `json:"store_id"`
	UserID         int         `json:"user_id"`
	AddressID      int         `json:"address_id"`
	Total          float64     `json:"total"`
	Status         OrderStatus `json:"status"`
	IsPaid         bool        `json:"is_paid"`
	PaymentMethod  string      `json:"payment_method"`
	CouponCode     string      `json:"coupon_code,omitempty"`
	CouponDiscount float64     `json:"coupon_discount,omitempty"`
	IdempotentKey  string      `json:"idempotent_key,omitempty"`
	Items          []OrderItem `json:"items"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID                int         `json:"id"`
	OrderID           int         `json:"order_id"`
	ProductID         int         `json:"product_id"`
	Quantity          int         `json:"quantity"`
	Price             float64     `json:"price"` // unit price snapshot at purchase time
	ShipmentID        string      `json:"shipment_id"`
	Status            OrderStatus `json:"status"`
	TrackingNumber    string      `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time  `json:"estimated_delivery,omitempty"`
	DeliveredAt       *time.Time  `json:"delivered_at,omitempty"`
}

/*
Mysql Table

CREATE TABLE orders (
	id INT AUTO_INCREMENT PRIMARY KEY,
	store_id INT NOT NULL,
	user_id INT NOT NULL,
	address_id INT NOT NULL,
	total DOUBLE NOT NULL,
	status VARCHAR(20) NOT NULL,
	idempotent_key VARCHAR(255) UNIQUE NOT NULL
);

CREATE TABLE order_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL REFERENCES orders(id),
	product_id INT NOT NULL,
	quantity INT NOT NULL,
	price DOUBLE NOT NULL,
	shipment_id VARCHAR(32) NOT NULL
);
*/
