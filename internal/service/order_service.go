package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderService is a service that provides order-related operations
type OrderService struct {
	orders   OrderStore
	products ProductStore
	users    UserStore
	coupons  CouponStore
	notifier Notifier
	rdb      *redis.Client
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orders OrderStore, products ProductStore, users UserStore, coupons CouponStore, notifier Notifier, rdb *redis.Client) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		users:    users,
		coupons:  coupons,
		notifier: notifier,
		rdb:      rdb,
	}
}

// PlaceOrderRequest carries a checkout submission.
type PlaceOrderRequest struct {
	StoreID       int         `json:"store_id"`
	UserID        int         `json:"user_id"`
	AddressID     int         `json:"address_id"`
	Items         []OrderLine `json:"items"`
	PaymentMethod string      `json:"payment_method"`
	IsPaid        bool        `json:"is_paid"`
	CouponCode    string      `json:"coupon_code"`
	IdempotentKey string      `json:"-"`
}

type OrderLine struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

func (r *PlaceOrderRequest) validate() error {
	switch {
	case r.StoreID == 0:
		return &entity.ValidationError{Field: "store_id"}
	case r.UserID == 0:
		return &entity.ValidationError{Field: "user_id"}
	case r.AddressID == 0:
		return &entity.ValidationError{Field: "address_id"}
	case len(r.Items) == 0:
		return &entity.ValidationError{Field: "items"}
	case r.PaymentMethod == "":
		return &entity.ValidationError{Field: "payment_method"}
	}
	for _, line := range r.Items {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return &entity.ValidationError{Field: "items"}
		}
	}
	return nil
}

// PlaceOrder creates a new order. Stock decrements, the order row, its
// items and the flash-sale allocations commit atomically; any
// insufficient-stock item aborts everything. The confirmation event is
// best-effort and never fails the order.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*entity.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// The orders table requires a unique key, so clients that don't send
	// one get a generated key and plain retries create distinct orders.
	if req.IdempotentKey == "" {
		req.IdempotentKey = uuid.New().String()
	}
	if err := s.checkIdempotentKey(ctx, req.IdempotentKey); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", req.UserID, entity.ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.users.GetAddress(ctx, req.UserID, req.AddressID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, fmt.Errorf("address %d: %w", req.AddressID, entity.ErrNotFound)
		}
		return nil, err
	}

	order := &entity.Order{
		StoreID:       req.StoreID,
		UserID:        req.UserID,
		AddressID:     req.AddressID,
		Status:        entity.StatusOrderPlaced,
		IsPaid:        req.IsPaid,
		PaymentMethod: req.PaymentMethod,
		IdempotentKey: req.IdempotentKey,
	}

	var total float64
	for _, line := range req.Items {
		product, err := s.products.GetProductByID(ctx, req.StoreID, line.ProductID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return nil, fmt.Errorf("product %d: %w", line.ProductID, entity.ErrNotFound)
			}
			return nil, err
		}

		order.Items = append(order.Items, entity.OrderItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			Price:      product.Price, // unit price snapshot
			ShipmentID: newShipmentID(),
		})
		total += product.Price * float64(line.Quantity)
	}

	if req.CouponCode != "" {
		coupon, err := s.coupons.GetCouponByCode(ctx, req.StoreID, req.CouponCode)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return nil, &entity.ValidationError{Field: "coupon_code"}
			}
			return nil, err
		}
		if !coupon.Usable(total, time.Now()) {
			return nil, &entity.ValidationError{Field: "coupon_code"}
		}
		order.CouponCode = coupon.Code
		order.CouponDiscount = coupon.Discount
		total = total * (1 - coupon.Discount/100)
	}
	order.Total = total

	createdOrder, changes, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		if !errors.Is(err, entity.ErrInsufficientStock) && !errors.Is(err, entity.ErrDuplicateOrder) {
			logger.Error().Err(err).Msg("Error creating order")
		}
		return nil, err
	}

	s.rememberIdempotentKey(ctx, createdOrder.IdempotentKey)
	s.invalidateProductCache(ctx, createdOrder)

	// Notifications are fire-and-forget: the order stands even if they fail.
	if err := s.notifier.OrderCreated(ctx, createdOrder); err != nil {
		logger.Error().Err(err).Int("order_id", createdOrder.ID).Msg("Error publishing order created event")
	}
	for _, change := range changes {
		if change.NewQuantity == 0 {
			if err := s.notifier.OutOfStock(ctx, createdOrder.StoreID, change.ProductID); err != nil {
				logger.Error().Err(err).Int("product_id", change.ProductID).Msg("Error publishing out of stock event")
			}
		}
	}

	return createdOrder, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id int) (*entity.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting order by ID %d", id)
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus transitions an order. Entering the reversal set
// (CANCELLED, RETURN_ACCEPTED, RETURN_PICKED_UP, REFUND_COMPLETED) from
// outside it restores stock and flash-sale pools exactly once.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, status entity.OrderStatus) (*entity.Order, error) {
	if !entity.ValidStatus(status) {
		return nil, &entity.ValidationError{Field: "status"}
	}

	prev, restocked, err := s.orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) && !errors.Is(err, entity.ErrInvalidTransition) {
			logger.Error().Err(err).Msgf("Error updating status for order %d", orderID)
		}
		return nil, err
	}

	if err := s.notifier.OrderStatusChanged(ctx, orderID, prev, status); err != nil {
		logger.Error().Err(err).Int("order_id", orderID).Msg("Error publishing status changed event")
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if len(restocked) > 0 {
		s.invalidateProductCache(ctx, order)
	}

	for _, change := range restocked {
		// Delta == NewQuantity means the product came back from zero.
		if change.Delta == change.NewQuantity {
			if err := s.notifier.BackInStock(ctx, order.StoreID, change.ProductID, change.NewQuantity); err != nil {
				logger.Error().Err(err).Int("product_id", change.ProductID).Msg("Error publishing back in stock event")
			}
		}
	}

	return order, nil
}

// SetItemTracking attaches carrier tracking details to one shipment.
func (s *OrderService) SetItemTracking(ctx context.Context, orderID, itemID int, trackingNumber string, estimatedDelivery *time.Time) (*entity.Order, error) {
	if trackingNumber == "" {
		return nil, &entity.ValidationError{Field: "tracking_number"}
	}
	if err := s.orders.UpdateItemTracking(ctx, orderID, itemID, trackingNumber, estimatedDelivery); err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error setting tracking for order %d item %d", orderID, itemID)
		}
		return nil, err
	}
	return s.orders.GetOrderByID(ctx, orderID)
}

// CancelOrder cancels an existing order
func (s *OrderService) CancelOrder(ctx context.Context, id int) (*entity.Order, error) {
	return s.UpdateStatus(ctx, id, entity.StatusCancelled)
}

// checkIdempotentKey rejects keys that already produced an order.
func (s *OrderService) checkIdempotentKey(ctx context.Context, key string) error {
	if s.rdb == nil {
		return nil
	}

	val, err := s.rdb.Get(ctx, idempotentRedisKey(key)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if val != "" {
		return entity.ErrDuplicateOrder
	}
	return nil
}

// rememberIdempotentKey records the key only after the order committed, so
// a failed checkout can be retried with the same key. Concurrent duplicates
// that slip past the read are caught by the unique column on orders.
func (s *OrderService) rememberIdempotentKey(ctx context.Context, key string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, idempotentRedisKey(key), "exists", 24*time.Hour).Err(); err != nil {
		logger.Error().Err(err).Msg("Error storing idempotent key")
	}
}

func idempotentRedisKey(key string) string {
	return fmt.Sprintf("idempotent-key:%s", key)
}

func (s *OrderService) invalidateProductCache(ctx context.Context, order *entity.Order) {
	if s.rdb == nil {
		return
	}
	keys := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		keys = append(keys, productCacheKey(order.StoreID, item.ProductID))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Error().Err(err).Msg("Error invalidating product cache")
	}
}

// newShipmentID returns a short unique token. Every item gets one, also in
// single-item orders, so per-shipment tracking works uniformly.
func newShipmentID() string {
	return "SHP-" + strings.ToUpper(uuid.New().String()[:8])
}
