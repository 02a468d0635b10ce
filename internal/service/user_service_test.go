package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybe4sent1nel/CRASHKART-sub005/internal/entity"
)

func TestLogin(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), nil, "test-secret")

	token, err := svc.Login(context.Background(), "maya@example.com", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &JwtCustomClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(*JwtCustomClaims)
	assert.Equal(t, "maya", claims.Name)
	assert.Equal(t, "maya@example.com", claims.Email)
	assert.True(t, claims.ExpiresAt.After(time.Now().Add(23*time.Hour)))
}

func TestLoginBadCredentials(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), nil, "test-secret")

	_, err := svc.Login(context.Background(), "maya@example.com", "wrong")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = svc.Login(context.Background(), "nobody@example.com", "pw")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestRegister(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, nil, "test-secret")

	created, err := svc.Register(context.Background(), &entity.User{
		Username: "sam", Email: "sam@example.com", Password: "pw",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = svc.Login(context.Background(), "sam@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &entity.User{Email: "x@example.com", Password: "pw"})
	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
}

func TestCreateCouponValidation(t *testing.T) {
	svc := NewCouponService(newFakeCouponStore())

	tests := []struct {
		name   string
		coupon *entity.Coupon
		field  string
	}{
		{"missing store", &entity.Coupon{Code: "SAVE10", ExpiresAt: time.Now().Add(time.Hour)}, "store_id"},
		{"missing code", &entity.Coupon{StoreID: 1, ExpiresAt: time.Now().Add(time.Hour)}, "code"},
		{"missing expiry", &entity.Coupon{StoreID: 1, Code: "SAVE10"}, "expires_at"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCoupon(context.Background(), tc.coupon)
			var verr *entity.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	_, err := svc.CreateCoupon(context.Background(), &entity.Coupon{
		StoreID: 1, Code: "SAVE10", Discount: 110, ExpiresAt: time.Now().Add(time.Hour),
	})
	var rerr *entity.RangeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "discount", rerr.Field)

	created, err := svc.CreateCoupon(context.Background(), &entity.Coupon{
		StoreID: 1, Code: "SAVE10", Discount: 10, ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
}
