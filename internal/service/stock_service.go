package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

const (
	ActionDecrease = "decrease"
	ActionIncrease = "increase"
)

// StockService is the stock ledger front: guarded decrements, increments
// with restock notifications, and a cached stock read path.
type StockService struct {
	products ProductStore
	notifier Notifier
	rdb      *redis.Client
}

func NewStockService(products ProductStore, notifier Notifier, rdb *redis.Client) *StockService {
	return &StockService{
		products: products,
		notifier: notifier,
		rdb:      rdb,
	}
}

// UpdateStock applies a manual ledger mutation. Decrease fails with
// entity.ErrInsufficientStock when the guard rejects it; increase always
// succeeds and emits a back-in-stock notification when the product
// crosses from zero.
func (s *StockService) UpdateStock(ctx context.Context, storeID, productID, qty int, action string) (*entity.Product, error) {
	if qty <= 0 {
		return nil, &entity.ValidationError{Field: "quantity"}
	}

	var err error
	switch action {
	case ActionDecrease:
		ch, derr := s.products.DecrementStock(ctx, storeID, productID, qty)
		err = derr
		if derr == nil && ch.NewQuantity == 0 {
			if nerr := s.notifier.OutOfStock(ctx, storeID, productID); nerr != nil {
				logger.Error().Err(nerr).Int("product_id", productID).Msg("Error publishing out of stock event")
			}
		}
	case ActionIncrease:
		ch, ierr := s.products.IncrementStock(ctx, storeID, productID, qty)
		err = ierr
		if ierr == nil && ch.Delta == ch.NewQuantity {
			if nerr := s.notifier.BackInStock(ctx, storeID, productID, ch.NewQuantity); nerr != nil {
				logger.Error().Err(nerr).Int("product_id", productID).Msg("Error publishing back in stock event")
			}
		}
	default:
		return nil, &entity.ValidationError{Field: "action"}
	}
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) && !errors.Is(err, entity.ErrInsufficientStock) {
			logger.Error().Err(err).Msgf("Error updating stock for product %d", productID)
		}
		return nil, err
	}

	product, err := s.products.GetProductByID(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	s.cacheProduct(ctx, product)

	return product, nil
}

// GetProductStock retrieves the stock for a product, reading through the cache.
func (s *StockService) GetProductStock(ctx context.Context, storeID, productID int) (int, error) {
	if s.rdb != nil {
		key := productCacheKey(storeID, productID)
		productCache, err := s.rdb.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting stock for product %d from cache", productID)
		}
		if productCache != "" {
			var product entity.Product
			if err := json.Unmarshal([]byte(productCache), &product); err == nil {
				return product.Quantity, nil
			}
			logger.Error().Msgf("Error unmarshalling cached product %d", productID)
		}
	}

	product, err := s.products.GetProductByID(ctx, storeID, productID)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting product by ID %d", productID)
		}
		return 0, err
	}
	s.cacheProduct(ctx, product)

	return product.Quantity, nil
}

// CreateProduct registers a new ledger entry on the store's shard.
func (s *StockService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	switch {
	case product.StoreID == 0:
		return nil, &entity.ValidationError{Field: "store_id"}
	case product.Name == "":
		return nil, &entity.ValidationError{Field: "name"}
	case product.Price <= 0:
		return nil, &entity.ValidationError{Field: "price"}
	case product.Quantity < 0:
		return nil, &entity.ValidationError{Field: "quantity"}
	}

	created, err := s.products.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}
	s.cacheProduct(ctx, created)
	return created, nil
}

// ListProducts returns a store's catalog.
func (s *StockService) ListProducts(ctx context.Context, storeID int) ([]*entity.Product, error) {
	return s.products.GetProducts(ctx, storeID)
}

func (s *StockService) cacheProduct(ctx context.Context, product *entity.Product) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	key := productCacheKey(product.StoreID, product.ID)
	if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting product %d in cache", product.ID)
	}
}

func productCacheKey(storeID, productID int) string {
	return fmt.Sprintf("product:%d:%d", storeID, productID)
}
