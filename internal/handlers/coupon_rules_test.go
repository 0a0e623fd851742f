package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

func activeCoupon() models.Coupon {
	return models.Coupon{
		Code:          "SAVE20",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 20,
		IsActive:      true,
	}
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "SAVE20", normalizeCouponCode("save20"))
	assert.Equal(t, "SAVE20", normalizeCouponCode(" Save20 "))
	assert.Equal(t, "20%OFF", normalizeCouponCode("20%25OFF"))
	// undecodable input falls back to the raw string
	assert.Equal(t, "50%OFF", normalizeCouponCode("50%OFF"))
}

func TestPercentageDiscountCappedAtMaxDiscount(t *testing.T) {
	coupon := activeCoupon()
	coupon.MaxDiscount = 500

	result, err := evaluateCoupon(coupon, 10000, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 500.0, result.Discount, "20%% of 10,000 is 2,000 but must cap at 500")
}

func TestPercentageDiscountUncappedWhenMaxDiscountZero(t *testing.T) {
	result, err := evaluateCoupon(activeCoupon(), 10000, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 2000.0, result.Discount)
}

func TestFixedDiscountAppliesVerbatim(t *testing.T) {
	coupon := models.Coupon{
		Code:          "FLAT300",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 300,
		MaxDiscount:   100, // ignored for fixed coupons
		IsActive:      true,
	}

	for _, total := range []float64{100, 300, 50000} {
		result, err := evaluateCoupon(coupon, total, time.Now())
		assert.NoError(t, err)
		assert.Equal(t, 300.0, result.Discount)
	}
}

func TestExpiredCouponFailsBeforeOtherChecks(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	coupon := activeCoupon()
	coupon.ExpiryDate = &expired
	coupon.UsageLimit = 5
	coupon.UsedCount = 5
	coupon.MinPurchase = 100000

	_, err := evaluateCoupon(coupon, 50, time.Now())
	assert.ErrorIs(t, err, errCouponExpired)
}

func TestUsageLimitReached(t *testing.T) {
	coupon := activeCoupon()
	coupon.UsageLimit = 5
	coupon.UsedCount = 5

	_, err := evaluateCoupon(coupon, 10000, time.Now())
	assert.ErrorIs(t, err, errCouponLimitReached)
}

func TestUsageLimitZeroMeansUnlimited(t *testing.T) {
	coupon := activeCoupon()
	coupon.UsedCount = 100000

	_, err := evaluateCoupon(coupon, 10000, time.Now())
	assert.NoError(t, err)
}

func TestBelowMinimumPurchaseSurfacesMinimum(t *testing.T) {
	coupon := activeCoupon()
	coupon.MinPurchase = 2000

	_, err := evaluateCoupon(coupon, 1500, time.Now())

	var minErr belowMinimumError
	if !errors.As(err, &minErr) {
		t.Fatalf("expected belowMinimumError, got %v", err)
	}
	assert.Equal(t, 2000.0, minErr.MinPurchase)
	assert.Contains(t, minErr.Error(), "2000")
}

func TestValidationDoesNotMutateUsage(t *testing.T) {
	coupon := activeCoupon()
	coupon.UsedCount = 3

	_, err := evaluateCoupon(coupon, 10000, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 3, coupon.UsedCount)
}
