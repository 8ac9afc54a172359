package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readyvery/foodie-order/apperrors"
	"github.com/readyvery/foodie-order/models"
	"github.com/readyvery/foodie-order/testutil"
)

func TestCartService_AddToCart(t *testing.T) {
	db := testutil.NewTestDB(t)
	menu := testutil.SeedMenu(t, db)
	svc := NewCartService(db)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, menu.User.ID, AddCartRequest{
		StoreID:   menu.Store.ID,
		FoodieID:  menu.Foodie.ID,
		Count:     2,
		OptionIDs: []uint{menu.Large.ID},
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, int64(2), item.Count)
	require.Len(t, item.Options, 1)
	assert.Equal(t, menu.Large.ID, item.Options[0].FoodieOptionID)

	var carts []models.Cart
	require.NoError(t, db.Where("user_id = ?", menu.User.ID).Find(&carts).Error)
	require.Len(t, carts, 1)
	assert.Equal(t, models.CartStatusActive, carts[0].Status)
	assert.Equal(t, menu.Store.ID, carts[0].StoreID)

	view, err := svc.GetCart(ctx, menu.User.ID, InoutDineIn)
	require.NoError(t, err)
	assert.Equal(t, int64(21000), view.TotalPrice)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Americano", view.Items[0].Name)
	assert.Equal(t, int64(21000), view.Items[0].Price)
	assert.Equal(t, "Cafe A", view.StoreName)
}

func TestCartService_AddToCart_ReusesActiveCart(t *testing.T) {
	db := testutil.NewTestDB(t)
	menu := testutil.SeedMenu(t, db)
	bagel := testutil.SeedFoodie(t, db, menu.Store.ID, "Bagel", 4000)
	svc := NewCartService(db)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, menu.User.ID, AddCartRequest{
		StoreID: menu.Store.ID, FoodieID: menu.Foodie.ID, Count: 1,
		OptionIDs: []uint{menu.Regular.ID, menu.Shot.ID, menu.Syrup.ID},
	})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, menu.User.ID, AddCartRequest{StoreID: menu.Store.ID, FoodieID: bagel.ID, Count: 2})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", menu.User.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	view, err := svc.GetCart(ctx, menu.User.ID, InoutTakeout)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, int64(9000+500+300), view.Items[0].Price)
	assert.Len(t, view.Items[0].Options, 3)
	assert.Equal(t, int64(8000), view.Items[1].Price)
	assert.Equal(t, int64(9800+8000), view.TotalPrice)
}

func TestCartService_AddToCart_Failures(t *testing.T) {
	db := testutil.NewTestDB(t)
	menu := testutil.SeedMenu(t, db)
	other := testutil.SeedStore(t, db, "Cafe B")
	svc := NewCartService(db)

	valid := func() AddCartRequest {
		return AddCartRequest{StoreID: menu.Store.ID, FoodieID: menu.Foodie.ID, Count: 1, OptionIDs: []uint{menu.Regular.ID}}
	}

	tests := []struct {
		name    string
		userID  uint
		mutate  func(*AddCartRequest)
		wantErr error
	}{
		{name: "unknown user", userID: 999, wantErr: apperrors.ErrUserNotFound},
		{name: "unknown store", userID: menu.User.ID, mutate: func(r *AddCartRequest) { r.StoreID = 999 }, wantErr: apperrors.ErrStoreNotFound},
		{name: "unknown foodie", userID: menu.User.ID, mutate: func(r *AddCartRequest) { r.FoodieID = 999 }, wantErr: apperrors.ErrFoodyNotFound},
		{name: "foodie of another store", userID: menu.User.ID, mutate: func(r *AddCartRequest) { r.StoreID = other.ID }, wantErr: apperrors.ErrFoodyNotInStore},
		{name: "option of another foodie", userID: menu.User.ID, mutate: func(r *AddCartRequest) { r.OptionIDs = append(r.OptionIDs, 999) }, wantErr: apperrors.ErrInvalidOption},
		{name: "required option missing", userID: menu.User.ID, mutate: func(r *AddCartRequest) { r.OptionIDs = []uint{menu.Shot.ID} }, wantErr: apperrors.ErrInvalidOptionCount},
		{name: "two sizes", userID: menu.User.ID, mutate: func(r *AddCartRequest) { r.OptionIDs = []uint{menu.Regular.ID, menu.Large.ID} }, wantErr: apperrors.ErrInvalidOptionCount},
		{name: "zero count", userID: menu.User.ID, mutate: func(r *AddCartRequest) { r.Count = 0 }, wantErr: apperrors.ErrInvalidCount},
		{name: "count above limit", userID: menu.User.ID, mutate: func(r *AddCartRequest) { r.Count = MaxItemCount + 1 }, wantErr: apperrors.ErrInvalidCount},
		{name: "huge count", userID: menu.User.ID, mutate: func(r *AddCartRequest) { r.Count = 1 << 62 }, wantErr: apperrors.ErrInvalidCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			if tt.mutate != nil {
				tt.mutate(&req)
			}
			_, err := svc.AddToCart(context.Background(), tt.userID, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var carts int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	assert.Zero(t, carts, "failed adds must not leave a cart behind")
}

func TestCartService_AddToCart_ItemNotSameStore(t *testing.T) {
	db := testutil.NewTestDB(t)
	menu := testutil.SeedMenu(t, db)
	other := testutil.SeedStore(t, db, "Cafe B")
	croissant := testutil.SeedFoodie(t, db, other.ID, "Croissant", 3500)
	svc := NewCartService(db)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, menu.User.ID, AddCartRequest{
		StoreID: menu.Store.ID, FoodieID: menu.Foodie.ID, Count: 1, OptionIDs: []uint{menu.Regular.ID},
	})
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, menu.User.ID, AddCartRequest{StoreID: other.ID, FoodieID: croissant.ID, Count: 1})
	assert.ErrorIs(t, err, apperrors.ErrItemNotSameStore)

	var items int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&items).Error)
	assert.Equal(t, int64(1), items)
}

func TestCartService_EditAndDeleteCartItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	menu := testutil.SeedMenu(t, db)
	stranger := models.User{Email: "stranger@readyvery.com", Role: "USER"}
	require.NoError(t, db.Create(&stranger).Error)
	svc := NewCartService(db)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, menu.User.ID, AddCartRequest{
		StoreID: menu.Store.ID, FoodieID: menu.Foodie.ID, Count: 1, OptionIDs: []uint{menu.Large.ID},
	})
	require.NoError(t, err)

	_, err = svc.EditCartItem(ctx, stranger.ID, item.ID, 5)
	assert.ErrorIs(t, err, apperrors.ErrCartItemNotFound)
	_, err = svc.EditCartItem(ctx, menu.User.ID, 999, 5)
	assert.ErrorIs(t, err, apperrors.ErrCartItemNotFound)
	_, err = svc.EditCartItem(ctx, menu.User.ID, item.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCount)
	_, err = svc.EditCartItem(ctx, menu.User.ID, item.ID, 1<<62)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCount)

	edited, err := svc.EditCartItem(ctx, menu.User.ID, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), edited.Count)

	view, err := svc.GetCart(ctx, menu.User.ID, InoutDineIn)
	require.NoError(t, err)
	assert.Equal(t, int64(10500*3), view.TotalPrice)

	_, err = svc.DeleteCartItem(ctx, stranger.ID, item.ID)
	assert.ErrorIs(t, err, apperrors.ErrCartItemNotFound)

	deleted, err := svc.DeleteCartItem(ctx, menu.User.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CartItemStatusDeleted, deleted.Status)

	var stored models.CartItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, models.CartItemStatusDeleted, stored.Status)

	view, err = svc.GetCart(ctx, menu.User.ID, InoutDineIn)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalPrice)

	_, err = svc.EditCartItem(ctx, menu.User.ID, item.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrCartItemNotFound, "deleted items cannot be edited")
}

func TestCartService_ResetCart(t *testing.T) {
	db := testutil.NewTestDB(t)
	menu := testutil.SeedMenu(t, db)
	svc := NewCartService(db)
	ctx := context.Background()

	_, err := svc.ResetCart(ctx, menu.User.ID)
	assert.ErrorIs(t, err, apperrors.ErrCartNotFound)

	_, err = svc.AddToCart(ctx, menu.User.ID, AddCartRequest{
		StoreID: menu.Store.ID, FoodieID: menu.Foodie.ID, Count: 1, OptionIDs: []uint{menu.Regular.ID},
	})
	require.NoError(t, err)

	cart, err := svc.ResetCart(ctx, menu.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CartStatusDeleted, cart.Status)

	_, err = svc.GetCart(ctx, menu.User.ID, InoutDineIn)
	assert.ErrorIs(t, err, apperrors.ErrCartNotFound)

	// A new cart is opened on the next add, possibly for another store.
	other := testutil.SeedStore(t, db, "Cafe B")
	croissant := testutil.SeedFoodie(t, db, other.ID, "Croissant", 3500)
	_, err = svc.AddToCart(ctx, menu.User.ID, AddCartRequest{StoreID: other.ID, FoodieID: croissant.ID, Count: 1})
	require.NoError(t, err)

	view, err := svc.GetCart(ctx, menu.User.ID, InoutDineIn)
	require.NoError(t, err)
	assert.NotEqual(t, cart.ID, view.CartID)
	assert.Equal(t, other.ID, view.StoreID)
}

func TestCartService_GetCart_Errors(t *testing.T) {
	db := testutil.NewTestDB(t)
	menu := testutil.SeedMenu(t, db)
	svc := NewCartService(db)
	ctx := context.Background()

	_, err := svc.GetCart(ctx, menu.User.ID, InoutDineIn)
	assert.ErrorIs(t, err, apperrors.ErrCartNotFound)

	_, err = svc.GetCart(ctx, 999, InoutDineIn)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = svc.GetCart(ctx, menu.User.ID, Inout(9))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInout)
}
