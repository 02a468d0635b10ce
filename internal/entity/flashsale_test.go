package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlashSaleLive(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	sale := &FlashSale{IsActive: true, StartTime: start, EndTime: end}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before window", start.Add(-time.Minute), false},
		{"at start", start, true},
		{"mid window", start.Add(time.Hour), true},
		{"at end", end, true},
		{"after window", end.Add(time.Second), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sale.Live(tc.now))
		})
	}

	disabled := &FlashSale{IsActive: false, StartTime: start, EndTime: end}
	assert.False(t, disabled.Live(start.Add(time.Hour)), "disabled sale is never live")
}

func TestCouponUsable(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	coupon := &Coupon{
		Code:          "SAVE10",
		Discount:      10,
		MinOrderValue: 100,
		ExpiresAt:     now.Add(24 * time.Hour),
		IsActive:      true,
	}

	assert.True(t, coupon.Usable(150, now))
	assert.True(t, coupon.Usable(100, now), "min order value is inclusive")
	assert.False(t, coupon.Usable(99.99, now))
	assert.False(t, coupon.Usable(150, now.Add(25*time.Hour)), "expired")

	coupon.IsActive = false
	assert.False(t, coupon.Usable(150, now), "inactive")
}
