package services

import (
	"math"

	"github.com/readyvery/foodie-order/apperrors"
	"github.com/readyvery/foodie-order/models"
)

// Inout selects which base price of a foodie applies.
type Inout int64

const (
	InoutDineIn  Inout = 1
	InoutTakeout Inout = 2
)

func (i Inout) Valid() bool {
	return i == InoutDineIn || i == InoutTakeout
}

// DeterminePrice returns the foodie's base price for the given inout.
func DeterminePrice(foodie models.Foodie, inout Inout) (int64, error) {
	switch inout {
	case InoutDineIn:
		return foodie.Price, nil
	case InoutTakeout:
		return foodie.TakeoutPrice, nil
	default:
		return 0, apperrors.ErrInvalidInout
	}
}

// PriceForItem is (base price + selected option prices) * count. The item's
// Foodie and Options.FoodieOption must be loaded.
func PriceForItem(item models.CartItem, inout Inout) (int64, error) {
	price, err := DeterminePrice(item.Foodie, inout)
	if err != nil {
		return 0, err
	}
	for _, option := range item.Options {
		if price, err = addAmount(price, option.FoodieOption.Price); err != nil {
			return 0, err
		}
	}
	return mulAmount(price, item.Count)
}

// TotalForCart sums PriceForItem over the cart's active items.
func TotalForCart(cart models.Cart, inout Inout) (int64, error) {
	if !inout.Valid() {
		return 0, apperrors.ErrInvalidInout
	}

	var total int64
	for _, item := range cart.ActiveItems() {
		price, err := PriceForItem(item, inout)
		if err != nil {
			return 0, err
		}
		if total, err = addAmount(total, price); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// addAmount and mulAmount fail with ErrInvalidAmount instead of wrapping.
func addAmount(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, apperrors.ErrInvalidAmount
	}
	return a + b, nil
}

func mulAmount(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, apperrors.ErrInvalidAmount
	}
	product := a * b
	if product/b != a {
		return 0, apperrors.ErrInvalidAmount
	}
	return product, nil
}
