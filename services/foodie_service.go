package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/readyvery/foodie-order/apperrors"
)

type FoodieOptionView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type FoodieOptionCategoryView struct {
	ID       uint               `json:"id"`
	Name     string             `json:"name"`
	Required bool               `json:"required"`
	Options  []FoodieOptionView `json:"options"`
}

type FoodieView struct {
	ID               uint                       `json:"id"`
	Name             string                     `json:"name"`
	Description      string                     `json:"description"`
	ImgURL           string                     `json:"img_url"`
	Price            int64                      `json:"price"`
	IsSoldOut        bool                       `json:"is_sold_out"`
	OptionCategories []FoodieOptionCategoryView `json:"option_categories"`
}

type FoodieService struct {
	db *gorm.DB
}

func NewFoodieService(db *gorm.DB) *FoodieService {
	return &FoodieService{db: db}
}

// GetFoodie returns a foodie of storeID with its base price for inout and
// the option categories a customer chooses from.
func (s *FoodieService) GetFoodie(ctx context.Context, storeID, foodieID uint, inout Inout) (*FoodieView, error) {
	foodie, err := findFoodie(s.db.WithContext(ctx), foodieID)
	if err != nil {
		return nil, err
	}
	if foodie.StoreID() != storeID {
		return nil, apperrors.ErrFoodyNotInStore
	}

	price, err := DeterminePrice(*foodie, inout)
	if err != nil {
		return nil, err
	}

	view := &FoodieView{
		ID:               foodie.ID,
		Name:             foodie.Name,
		Description:      foodie.Description,
		ImgURL:           foodie.ImgURL,
		Price:            price,
		IsSoldOut:        foodie.IsSoldOut,
		OptionCategories: make([]FoodieOptionCategoryView, 0, len(foodie.OptionCategories)),
	}
	for _, category := range foodie.OptionCategories {
		cv := FoodieOptionCategoryView{
			ID:       category.ID,
			Name:     category.Name,
			Required: category.Required,
			Options:  make([]FoodieOptionView, 0, len(category.Options)),
		}
		for _, option := range category.Options {
			cv.Options = append(cv.Options, FoodieOptionView{ID: option.ID, Name: option.Name, Price: option.Price})
		}
		view.OptionCategories = append(view.OptionCategories, cv)
	}
	return view, nil
}
