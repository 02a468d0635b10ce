package service

import (
	"context"
	"errors"
	"time"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

// FlashSaleService manages the per-sale product pools and their admin CRUD.
// Allocation and release run inside the order transaction; this service
// owns validation and lifecycle.
type FlashSaleService struct {
	sales FlashSaleStore
}

func NewFlashSaleService(sales FlashSaleStore) *FlashSaleService {
	return &FlashSaleService{sales: sales}
}

func validateSale(sale *entity.FlashSale) error {
	switch {
	case sale.StoreID == 0:
		return &entity.ValidationError{Field: "store_id"}
	case sale.Title == "":
		return &entity.ValidationError{Field: "title"}
	case sale.StartTime.IsZero() || sale.EndTime.IsZero():
		return &entity.ValidationError{Field: "start_time"}
	case !sale.EndTime.After(sale.StartTime):
		return &entity.ValidationError{Field: "end_time"}
	}
	if sale.Discount < 0 || sale.Discount > 100 {
		return &entity.RangeError{Field: "discount", Min: 0, Max: 100}
	}
	for _, p := range sale.Products {
		if p.Discount < 0 || p.Discount > 100 {
			return &entity.RangeError{Field: "discount", Min: 0, Max: 100}
		}
		if p.Remaining != nil && (*p.Remaining < 0 || *p.Remaining > sale.MaxQuantity) {
			return &entity.RangeError{Field: "remaining", Min: 0, Max: float64(sale.MaxQuantity)}
		}
	}
	return nil
}

func (s *FlashSaleService) CreateSale(ctx context.Context, sale *entity.FlashSale) (*entity.FlashSale, error) {
	if sale.MaxQuantity == 0 {
		sale.MaxQuantity = 100
	}
	if err := validateSale(sale); err != nil {
		return nil, err
	}
	// Pools without an explicit size fill to the sale-wide max; an
	// explicit zero is kept as an empty pool.
	for i := range sale.Products {
		if sale.Products[i].Remaining == nil {
			remaining := sale.MaxQuantity
			sale.Products[i].Remaining = &remaining
		}
	}
	sale.IsActive = true

	created, err := s.sales.CreateSale(ctx, sale)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating flash sale")
		return nil, err
	}
	return created, nil
}

func (s *FlashSaleService) GetSale(ctx context.Context, storeID, id int) (*entity.FlashSale, error) {
	return s.sales.GetSaleByID(ctx, storeID, id)
}

func (s *FlashSaleService) ListSales(ctx context.Context, storeID int) ([]*entity.FlashSale, error) {
	return s.sales.GetSales(ctx, storeID)
}

func (s *FlashSaleService) UpdateSale(ctx context.Context, sale *entity.FlashSale) (*entity.FlashSale, error) {
	current, err := s.sales.GetSaleByID(ctx, sale.StoreID, sale.ID)
	if err != nil {
		return nil, err
	}

	// Patch semantics: zero-valued fields keep their current value.
	// Deactivation goes through DisableSale, never through a patch.
	if sale.Title == "" {
		sale.Title = current.Title
	}
	if sale.Discount == 0 {
		sale.Discount = current.Discount
	}
	if sale.MaxQuantity == 0 {
		sale.MaxQuantity = current.MaxQuantity
	}
	if sale.StartTime.IsZero() {
		sale.StartTime = current.StartTime
	}
	if sale.EndTime.IsZero() {
		sale.EndTime = current.EndTime
	}
	if !sale.IsActive {
		sale.IsActive = current.IsActive
	}

	if err := validateSale(sale); err != nil {
		return nil, err
	}

	updated, err := s.sales.UpdateSale(ctx, sale)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating flash sale %d", sale.ID)
		return nil, err
	}
	return updated, nil
}

// DisableSale soft-deletes: the sale stops matching the liveness test
// immediately but its counters stay for auditing.
func (s *FlashSaleService) DisableSale(ctx context.Context, storeID, id int) error {
	if err := s.sales.DeactivateSale(ctx, storeID, id); err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error disabling flash sale %d", id)
		}
		return err
	}
	return nil
}

// SaleLive reports whether the sale would currently allocate stock.
func (s *FlashSaleService) SaleLive(ctx context.Context, storeID, id int) (bool, error) {
	sale, err := s.sales.GetSaleByID(ctx, storeID, id)
	if err != nil {
		return false, err
	}
	return sale.Live(time.Now()), nil
}
