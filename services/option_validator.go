package services

import (
	"github.com/readyvery/foodie-order/apperrors"
	"github.com/readyvery/foodie-order/models"
)

// ValidateOptions fails with ErrInvalidOption when an option id is not
// offered by any of the foodie's option categories.
func ValidateOptions(foodie models.Foodie, optionIDs []uint) error {
	allowed := make(map[uint]struct{})
	for _, category := range foodie.OptionCategories {
		for _, option := range category.Options {
			allowed[option.ID] = struct{}{}
		}
	}

	for _, id := range optionIDs {
		if _, ok := allowed[id]; !ok {
			return apperrors.ErrInvalidOption
		}
	}
	return nil
}

// ValidateRequiredOptions checks that exactly one option of every required
// category was selected. Optional categories accept any number.
func ValidateRequiredOptions(foodie models.Foodie, optionIDs []uint) error {
	selected := make(map[uint]struct{}, len(optionIDs))
	for _, id := range optionIDs {
		selected[id] = struct{}{}
	}

	for _, category := range foodie.OptionCategories {
		if !category.Required {
			continue
		}
		count := 0
		for _, option := range category.Options {
			if _, ok := selected[option.ID]; ok {
				count++
			}
		}
		if count != 1 {
			return apperrors.ErrInvalidOptionCount
		}
	}
	return nil
}
