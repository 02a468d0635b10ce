package service

import (
	"context"
	"time"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/repository"
)

// Store interfaces are defined on the consumer side so tests can swap in
// in-memory fakes; the repository package satisfies them.

type OrderStore interface {
	CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, []repository.StockChange, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status entity.OrderStatus) (entity.OrderStatus, []repository.StockChange, error)
	UpdateItemTracking(ctx context.Context, orderID, itemID int, trackingNumber string, estimatedDelivery *time.Time) error
}

type ProductStore interface {
	GetProductByID(ctx context.Context, storeID, id int) (*entity.Product, error)
	GetProducts(ctx context.Context, storeID int) ([]*entity.Product, error)
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	DecrementStock(ctx context.Context, storeID, productID, qty int) (repository.StockChange, error)
	IncrementStock(ctx context.Context, storeID, productID, qty int) (repository.StockChange, error)
}

type FlashSaleStore interface {
	CreateSale(ctx context.Context, sale *entity.FlashSale) (*entity.FlashSale, error)
	GetSaleByID(ctx context.Context, storeID, id int) (*entity.FlashSale, error)
	GetSales(ctx context.Context, storeID int) ([]*entity.FlashSale, error)
	UpdateSale(ctx context.Context, sale *entity.FlashSale) (*entity.FlashSale, error)
	DeactivateSale(ctx context.Context, storeID, id int) error
}

type UserStore interface {
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmailAndPassword(ctx context.Context, email, password string) (*entity.User, error)
	GetAddress(ctx context.Context, userID, addressID int) (*entity.Address, error)
}

type CouponStore interface {
	GetCouponByCode(ctx context.Context, storeID int, code string) (*entity.Coupon, error)
	CreateCoupon(ctx context.Context, coupon *entity.Coupon) (*entity.Coupon, error)
}

type ReturnStore interface {
	CreateReturn(ctx context.Context, storeID int, ret *entity.ReturnRequest) (*entity.ReturnRequest, error)
	GetReturnByID(ctx context.Context, id int) (*entity.ReturnRequest, error)
	UpdateReturnStatus(ctx context.Context, storeID, id int, status entity.ReturnStatus) error
}

// Notifier is the outbound side-effect collaborator. Every call is
// best-effort: implementations report errors, callers log and move on.
type Notifier interface {
	OrderCreated(ctx context.Context, order *entity.Order) error
	OrderStatusChanged(ctx context.Context, orderID int, from, to entity.OrderStatus) error
	OutOfStock(ctx context.Context, storeID, productID int) error
	BackInStock(ctx context.Context, storeID, productID, quantity int) error
	ReturnRequested(ctx context.Context, ret *entity.ReturnRequest) error
}

var _ OrderStore = (*repository.OrderRepository)(nil)
var _ ProductStore = (*repository.ProductRepository)(nil)
var _ FlashSaleStore = (*repository.FlashSaleRepository)(nil)
var _ UserStore = (*repository.UserRepository)(nil)
var _ CouponStore = (*repository.CouponRepository)(nil)
var _ ReturnStore = (*repository.ReturnRepository)(nil)
