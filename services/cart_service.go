package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/readyvery/foodie-order/apperrors"
	"github.com/readyvery/foodie-order/models"
	"github.com/readyvery/foodie-order/utils"
)

// MaxItemCount is the largest quantity a single cart item can hold.
const MaxItemCount = 999

func validCount(count int64) bool {
	return count >= 1 && count <= MaxItemCount
}

type AddCartRequest struct {
	StoreID   uint
	FoodieID  uint
	Count     int64
	OptionIDs []uint
}

type CartOptionView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type CartItemView struct {
	ID       uint             `json:"id"`
	FoodieID uint             `json:"foodie_id"`
	Name     string           `json:"name"`
	ImgURL   string           `json:"img_url"`
	Count    int64            `json:"count"`
	Options  []CartOptionView `json:"options"`
	Price    int64            `json:"price"`
}

type CartView struct {
	CartID     uint           `json:"cart_id"`
	StoreID    uint           `json:"store_id"`
	StoreName  string         `json:"store_name"`
	Inout      Inout          `json:"inout"`
	Items      []CartItemView `json:"items"`
	TotalPrice int64          `json:"total_price"`
}

// CartService manages the user's active cart.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// AddToCart validates the selection and appends it to the user's active
// cart, creating the cart on first use.
func (s *CartService) AddToCart(ctx context.Context, userID uint, req AddCartRequest) (*models.CartItem, error) {
	if !validCount(req.Count) {
		return nil, apperrors.ErrInvalidCount
	}

	var item models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findUser(tx, userID); err != nil {
			return err
		}

		var store models.Store
		if err := tx.First(&store, req.StoreID).Error; err != nil {
			return notFound(err, apperrors.ErrStoreNotFound, "loading store")
		}

		foodie, err := findFoodie(tx, req.FoodieID)
		if err != nil {
			return err
		}
		if foodie.StoreID() != store.ID {
			return apperrors.ErrFoodyNotInStore
		}

		if err := ValidateOptions(*foodie, req.OptionIDs); err != nil {
			return err
		}
		if err := ValidateRequiredOptions(*foodie, req.OptionIDs); err != nil {
			return err
		}

		options, err := findOptions(tx, req.OptionIDs)
		if err != nil {
			return err
		}

		cart, err := findActiveCart(tx, userID)
		switch {
		case errors.Is(err, apperrors.ErrCartNotFound):
			cart = &models.Cart{UserID: userID, StoreID: store.ID, Status: models.CartStatusActive}
			if err := tx.Omit(clause.Associations).Create(cart).Error; err != nil {
				return fmt.Errorf("creating cart: %w", err)
			}
		case err != nil:
			return err
		}
		if cart.StoreID != store.ID {
			return apperrors.ErrItemNotSameStore
		}

		item = models.CartItem{
			CartID:   cart.ID,
			FoodieID: foodie.ID,
			Count:    req.Count,
			Status:   models.CartItemStatusActive,
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			return fmt.Errorf("creating cart item: %w", err)
		}

		cartOptions := make([]models.CartOption, 0, len(options))
		for _, option := range options {
			cartOptions = append(cartOptions, models.CartOption{
				CartItemID:     item.ID,
				FoodieOptionID: option.ID,
			})
		}
		if len(cartOptions) > 0 {
			if err := tx.Omit(clause.Associations).Create(&cartOptions).Error; err != nil {
				return fmt.Errorf("creating cart options: %w", err)
			}
		}
		for i := range cartOptions {
			cartOptions[i].FoodieOption = options[i]
		}

		item.Foodie = *foodie
		item.Options = cartOptions
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Cart item %d added for user %d (foodie=%d, count=%d)", item.ID, userID, item.FoodieID, item.Count)
	return &item, nil
}

// EditCartItem overwrites the quantity of one of the user's cart items.
func (s *CartService) EditCartItem(ctx context.Context, userID, itemID uint, count int64) (*models.CartItem, error) {
	if !validCount(count) {
		return nil, apperrors.ErrInvalidCount
	}

	var item *models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = findOwnedItem(tx, userID, itemID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.CartItem{ID: item.ID}).Update("count", count).Error; err != nil {
			return fmt.Errorf("updating cart item: %w", err)
		}
		item.Count = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteCartItem removes one item from the user's cart. The row is kept
// with status DELETED.
func (s *CartService) DeleteCartItem(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	var item *models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = findOwnedItem(tx, userID, itemID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.CartItem{ID: item.ID}).Update("status", models.CartItemStatusDeleted).Error; err != nil {
			return fmt.Errorf("deleting cart item: %w", err)
		}
		item.Status = models.CartItemStatusDeleted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ResetCart discards the user's active cart.
func (s *CartService) ResetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart *models.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findUser(tx, userID); err != nil {
			return err
		}
		var err error
		cart, err = findActiveCart(tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Cart{ID: cart.ID}).Update("status", models.CartStatusDeleted).Error; err != nil {
			return fmt.Errorf("resetting cart: %w", err)
		}
		cart.Status = models.CartStatusDeleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Cart %d reset by user %d", cart.ID, userID)
	return cart, nil
}

// GetCart returns the active cart priced for inout.
func (s *CartService) GetCart(ctx context.Context, userID uint, inout Inout) (*CartView, error) {
	if !inout.Valid() {
		return nil, apperrors.ErrInvalidInout
	}

	db := s.db.WithContext(ctx)
	if _, err := findUser(db, userID); err != nil {
		return nil, err
	}
	cart, err := findActiveCartWithItems(db, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		CartID:    cart.ID,
		StoreID:   cart.StoreID,
		StoreName: cart.Store.Name,
		Inout:     inout,
		Items:     make([]CartItemView, 0, len(cart.Items)),
	}
	for _, item := range cart.ActiveItems() {
		price, err := PriceForItem(item, inout)
		if err != nil {
			return nil, err
		}
		options := make([]CartOptionView, 0, len(item.Options))
		for _, option := range item.Options {
			options = append(options, CartOptionView{
				ID:    option.FoodieOption.ID,
				Name:  option.FoodieOption.Name,
				Price: option.FoodieOption.Price,
			})
		}
		view.Items = append(view.Items, CartItemView{
			ID:       item.ID,
			FoodieID: item.FoodieID,
			Name:     item.Foodie.Name,
			ImgURL:   item.Foodie.ImgURL,
			Count:    item.Count,
			Options:  options,
			Price:    price,
		})
	}

	view.TotalPrice, err = TotalForCart(*cart, inout)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func findUser(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound, "loading user")
	}
	return &user, nil
}

func findFoodie(db *gorm.DB, foodieID uint) (*models.Foodie, error) {
	var foodie models.Foodie
	err := db.Preload("FoodieCategory").
		Preload("OptionCategories", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("OptionCategories.Options", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&foodie, foodieID).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrFoodyNotFound, "loading foodie")
	}
	return &foodie, nil
}

// findOptions loads the options in the order they were requested.
func findOptions(db *gorm.DB, optionIDs []uint) ([]models.FoodieOption, error) {
	options := make([]models.FoodieOption, 0, len(optionIDs))
	for _, id := range optionIDs {
		var option models.FoodieOption
		if err := db.First(&option, id).Error; err != nil {
			return nil, notFound(err, apperrors.ErrOptionNotFound, "loading option")
		}
		options = append(options, option)
	}
	return options, nil
}

func findActiveCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ? AND status = ?", userID, models.CartStatusActive).
		Order("id").
		First(&cart).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrCartNotFound, "loading active cart")
	}
	return &cart, nil
}

func findActiveCartWithItems(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Store").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.CartItemStatusActive).Order("id")
		}).
		Preload("Items.Foodie").
		Preload("Items.Options", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Options.FoodieOption").
		Where("user_id = ? AND status = ?", userID, models.CartStatusActive).
		Order("id").
		First(&cart).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrCartNotFound, "loading active cart")
	}
	return &cart, nil
}

// findOwnedItem loads an active item of userID's active cart.
func findOwnedItem(db *gorm.DB, userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := db.Preload("Cart").First(&item, itemID).Error; err != nil {
		return nil, notFound(err, apperrors.ErrCartItemNotFound, "loading cart item")
	}
	if item.Status != models.CartItemStatusActive || item.Cart == nil ||
		item.Cart.UserID != userID || item.Cart.Status != models.CartStatusActive {
		return nil, apperrors.ErrCartItemNotFound
	}
	return &item, nil
}

// notFound maps gorm.ErrRecordNotFound to be and wraps anything else.
func notFound(err error, be *apperrors.BusinessError, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return be
	}
	return fmt.Errorf("%s: %w", action, err)
}
