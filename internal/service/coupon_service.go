package service

import (
	"context"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

type CouponService struct {
	coupons CouponStore
}

func NewCouponService(coupons CouponStore) *CouponService {
	return &CouponService{coupons: coupons}
}

func (s *CouponService) CreateCoupon(ctx context.Context, coupon *entity.Coupon) (*entity.Coupon, error) {
	switch {
	case coupon.StoreID == 0:
		return nil, &entity.ValidationError{Field: "store_id"}
	case coupon.Code == "":
		return nil, &entity.ValidationError{Field: "code"}
	case coupon.ExpiresAt.IsZero():
		return nil, &entity.ValidationError{Field: "expires_at"}
	}
	if coupon.Discount < 0 || coupon.Discount > 100 {
		return nil, &entity.RangeError{Field: "discount", Min: 0, Max: 100}
	}
	coupon.IsActive = true

	created, err := s.coupons.CreateCoupon(ctx, coupon)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating coupon")
		return nil, err
	}
	return created, nil
}

func (s *CouponService) GetCoupon(ctx context.Context, storeID int, code string) (*entity.Coupon, error) {
	return s.coupons.GetCouponByCode(ctx, storeID, code)
}
