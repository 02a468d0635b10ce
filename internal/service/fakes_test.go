package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/repository"
)

// fakeProductStore mirrors the repository contract: the decrement guard
// and the subtraction are one atomic step under the lock, exactly like
// the conditional UPDATE.
type fakeProductStore struct {
	mu       sync.Mutex
	products map[int]*entity.Product
}

func intPtr(v int) *int {
	return &v
}

func newFakeProductStore(products ...*entity.Product) *fakeProductStore {
	s := &fakeProductStore{products: make(map[int]*entity.Product)}
	for _, p := range products {
		p.InStock = p.Quantity > 0
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeProductStore) GetProductByID(_ context.Context, _, id int) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (s *fakeProductStore) GetProducts(_ context.Context, storeID int) ([]*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Product
	for _, p := range s.products {
		if p.StoreID == storeID {
			copy := *p
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (s *fakeProductStore) CreateProduct(_ context.Context, product *entity.Product) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = len(s.products) + 1
	product.InStock = product.Quantity > 0
	s.products[product.ID] = product
	return product, nil
}

func (s *fakeProductStore) DecrementStock(_ context.Context, _, productID, qty int) (repository.StockChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decrementLocked(productID, qty)
}

func (s *fakeProductStore) decrementLocked(productID, qty int) (repository.StockChange, error) {
	p, ok := s.products[productID]
	if !ok {
		return repository.StockChange{}, entity.ErrNotFound
	}
	if p.Quantity < qty {
		return repository.StockChange{}, entity.ErrInsufficientStock
	}
	p.Quantity -= qty
	p.InStock = p.Quantity > 0
	return repository.StockChange{ProductID: productID, Delta: -qty, NewQuantity: p.Quantity}, nil
}

func (s *fakeProductStore) IncrementStock(_ context.Context, _, productID, qty int) (repository.StockChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incrementLocked(productID, qty)
}

func (s *fakeProductStore) incrementLocked(productID, qty int) (repository.StockChange, error) {
	p, ok := s.products[productID]
	if !ok {
		return repository.StockChange{}, entity.ErrNotFound
	}
	p.Quantity += qty
	p.InStock = true
	return repository.StockChange{ProductID: productID, Delta: qty, NewQuantity: p.Quantity}, nil
}

func (s *fakeProductStore) quantity(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].Quantity
}

// fakeOrderStore keeps orders in memory and replays the transactional
// contract of the order repository: decrement everything or nothing,
// charge live flash-sale pools, restore both on reversal.
type fakeOrderStore struct {
	mu       sync.Mutex
	products *fakeProductStore
	sales    []*entity.FlashSale
	orders   map[int]*entity.Order
	keys     map[string]bool
	nextID   int
	now      time.Time
}

func newFakeOrderStore(products *fakeProductStore, sales ...*entity.FlashSale) *fakeOrderStore {
	return &fakeOrderStore{
		products: products,
		sales:    sales,
		orders:   make(map[int]*entity.Order),
		keys:     make(map[string]bool),
		nextID:   1,
		now:      time.Now(),
	}
}

func (s *fakeOrderStore) CreateOrder(_ context.Context, order *entity.Order) (*entity.Order, []repository.StockChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products.mu.Lock()
	defer s.products.mu.Unlock()

	// Unique idempotent_key column.
	if s.keys[order.IdempotentKey] {
		return nil, nil, entity.ErrDuplicateOrder
	}

	// All-or-nothing: undo partial decrements on failure.
	var changes []repository.StockChange
	for i, item := range order.Items {
		change, err := s.products.decrementLocked(item.ProductID, item.Quantity)
		if err != nil {
			for _, done := range order.Items[:i] {
				s.products.incrementLocked(done.ProductID, done.Quantity)
			}
			return nil, nil, err
		}
		changes = append(changes, change)
	}

	for _, item := range order.Items {
		s.allocateLocked(item.ProductID, item.Quantity)
	}

	order.ID = s.nextID
	s.nextID++
	s.keys[order.IdempotentKey] = true
	order.CreatedAt = s.now
	for i := range order.Items {
		order.Items[i].ID = order.ID*100 + i + 1
		order.Items[i].OrderID = order.ID
		order.Items[i].Status = order.Status
	}
	stored := *order
	s.orders[order.ID] = &stored
	return order, changes, nil
}

func (s *fakeOrderStore) allocateLocked(productID, qty int) {
	for _, sale := range s.sales {
		if !sale.Live(s.now) {
			continue
		}
		for i := range sale.Products {
			if sale.Products[i].ProductID != productID {
				continue
			}
			remaining := *sale.Products[i].Remaining - qty
			if remaining < 0 {
				remaining = 0
			}
			*sale.Products[i].Remaining = remaining
			sale.Sold += qty
		}
	}
}

func (s *fakeOrderStore) releaseLocked(productID, qty int) {
	for _, sale := range s.sales {
		for i := range sale.Products {
			if sale.Products[i].ProductID != productID {
				continue
			}
			*sale.Products[i].Remaining += qty
			sale.Sold -= qty
			if sale.Sold < 0 {
				sale.Sold = 0
			}
		}
	}
}

func (s *fakeOrderStore) UpdateItemTracking(_ context.Context, orderID, itemID int, trackingNumber string, estimatedDelivery *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return entity.ErrNotFound
	}
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			order.Items[i].TrackingNumber = trackingNumber
			order.Items[i].EstimatedDelivery = estimatedDelivery
			return nil
		}
	}
	return entity.ErrNotFound
}

func (s *fakeOrderStore) GetOrderByID(_ context.Context, id int) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	copy := *order
	return &copy, nil
}

func (s *fakeOrderStore) UpdateOrderStatus(_ context.Context, id int, status entity.OrderStatus) (entity.OrderStatus, []repository.StockChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return "", nil, entity.ErrNotFound
	}

	prev := order.Status
	if !entity.CanTransition(prev, status) {
		return prev, nil, entity.ErrInvalidTransition
	}
	order.Status = status

	var changes []repository.StockChange
	if entity.Reversing(prev, status) {
		s.products.mu.Lock()
		for _, item := range order.Items {
			change, _ := s.products.incrementLocked(item.ProductID, item.Quantity)
			changes = append(changes, change)
			s.releaseLocked(item.ProductID, item.Quantity)
		}
		s.products.mu.Unlock()
	}

	return prev, changes, nil
}

// fakeUserStore answers existence checks from fixed maps.
type fakeUserStore struct {
	users     map[int]*entity.User
	addresses map[int]*entity.Address
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users: map[int]*entity.User{
			7: {ID: 7, Username: "maya", Email: "maya@example.com", Password: "pw"},
		},
		addresses: map[int]*entity.Address{
			42: {ID: 42, UserID: 7, Line1: "1 Main St", City: "Springfield", PostalCode: "12345"},
		},
	}
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id int) (*entity.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) CreateUser(_ context.Context, user *entity.User) (*entity.User, error) {
	user.ID = len(s.users) + 100
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUserStore) GetUserByEmailAndPassword(_ context.Context, email, password string) (*entity.User, error) {
	for _, user := range s.users {
		if user.Email == email && user.Password == password {
			return user, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *fakeUserStore) GetAddress(_ context.Context, userID, addressID int) (*entity.Address, error) {
	address, ok := s.addresses[addressID]
	if !ok || address.UserID != userID {
		return nil, entity.ErrNotFound
	}
	return address, nil
}

// fakeCouponStore holds coupons by code.
type fakeCouponStore struct {
	coupons map[string]*entity.Coupon
}

func newFakeCouponStore(coupons ...*entity.Coupon) *fakeCouponStore {
	s := &fakeCouponStore{coupons: make(map[string]*entity.Coupon)}
	for _, c := range coupons {
		s.coupons[c.Code] = c
	}
	return s
}

func (s *fakeCouponStore) GetCouponByCode(_ context.Context, _ int, code string) (*entity.Coupon, error) {
	coupon, ok := s.coupons[code]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return coupon, nil
}

func (s *fakeCouponStore) CreateCoupon(_ context.Context, coupon *entity.Coupon) (*entity.Coupon, error) {
	coupon.ID = len(s.coupons) + 1
	s.coupons[coupon.Code] = coupon
	return coupon, nil
}

// fakeReturnStore keeps RMA records in memory.
type fakeReturnStore struct {
	returns map[int]*entity.ReturnRequest
	nextID  int
}

func newFakeReturnStore() *fakeReturnStore {
	return &fakeReturnStore{returns: make(map[int]*entity.ReturnRequest), nextID: 1}
}

func (s *fakeReturnStore) CreateReturn(_ context.Context, _ int, ret *entity.ReturnRequest) (*entity.ReturnRequest, error) {
	ret.ID = s.nextID
	s.nextID++
	stored := *ret
	s.returns[ret.ID] = &stored
	return ret, nil
}

func (s *fakeReturnStore) GetReturnByID(_ context.Context, id int) (*entity.ReturnRequest, error) {
	ret, ok := s.returns[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	copy := *ret
	return &copy, nil
}

func (s *fakeReturnStore) UpdateReturnStatus(_ context.Context, _, id int, status entity.ReturnStatus) error {
	ret, ok := s.returns[id]
	if !ok {
		return entity.ErrNotFound
	}
	ret.Status = status
	return nil
}

// recordingNotifier captures every notification; fail makes all calls error.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (n *recordingNotifier) record(format string, args ...interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, fmt.Sprintf(format, args...))
	if n.fail {
		return fmt.Errorf("notifier down")
	}
	return nil
}

func (n *recordingNotifier) OrderCreated(_ context.Context, order *entity.Order) error {
	return n.record("order_created:%d", order.ID)
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, orderID int, from, to entity.OrderStatus) error {
	return n.record("status_changed:%d:%s->%s", orderID, from, to)
}

func (n *recordingNotifier) OutOfStock(_ context.Context, _, productID int) error {
	return n.record("out_of_stock:%d", productID)
}

func (n *recordingNotifier) BackInStock(_ context.Context, _, productID, quantity int) error {
	return n.record("back_in_stock:%d:%d", productID, quantity)
}

func (n *recordingNotifier) ReturnRequested(_ context.Context, ret *entity.ReturnRequest) error {
	return n.record("return_requested:%s", ret.RMANumber)
}

func (n *recordingNotifier) recorded() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}

func (n *recordingNotifier) count(prefix string) int {
	total := 0
	for _, e := range n.recorded() {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			total++
		}
	}
	return total
}
