package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

var (
	errCouponExpired      = errors.New("Coupon has expired")
	errCouponLimitReached = errors.New("Coupon usage limit reached")
)

type belowMinimumError struct {
	MinPurchase float64
}

func (e belowMinimumError) Error() string {
	return fmt.Sprintf("Minimum purchase of Rs %v required", e.MinPurchase)
}

// couponDiscount is what validation hands back to the caller; applying the
// discount (and incrementing usage) is a separate step.
type couponDiscount struct {
	Code          string  `json:"code"`
	Discount      float64 `json:"discount"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
}

// normalizeCouponCode undoes percent-encoding when the caller passed an
// encoded value, falling back to the raw string, then uppercases.
func normalizeCouponCode(raw string) string {
	code := strings.TrimSpace(raw)
	if decoded, err := url.PathUnescape(code); err == nil {
		code = decoded
	}
	return strings.ToUpper(code)
}

// evaluateCoupon runs the validation checks in their fixed order and computes
// the discount. It never mutates the coupon.
func evaluateCoupon(coupon models.Coupon, orderTotal float64, now time.Time) (couponDiscount, error) {
	if coupon.ExpiryDate != nil && coupon.ExpiryDate.Before(now) {
		return couponDiscount{}, errCouponExpired
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return couponDiscount{}, errCouponLimitReached
	}

	if coupon.MinPurchase > 0 && orderTotal < coupon.MinPurchase {
		return couponDiscount{}, belowMinimumError{MinPurchase: coupon.MinPurchase}
	}

	var discount float64
	if coupon.DiscountType == models.DiscountTypePercentage {
		discount = orderTotal * coupon.DiscountValue / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	} else {
		// fixed discounts apply verbatim, uncapped and not compared to the total
		discount = coupon.DiscountValue
	}

	return couponDiscount{
		Code:          coupon.Code,
		Discount:      discount,
		DiscountType:  coupon.DiscountType,
		DiscountValue: coupon.DiscountValue,
	}, nil
}
