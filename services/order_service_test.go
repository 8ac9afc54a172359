package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/readyvery/foodie-order/apperrors"
	"github.com/readyvery/foodie-order/config"
	"github.com/readyvery/foodie-order/models"
	"github.com/readyvery/foodie-order/testutil"
)

type fakeConfirmer struct {
	calls   int
	payment *TossPayment
	err     error
	// during runs while the provider call is in flight.
	during func()
}

func (f *fakeConfirmer) Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*TossPayment, error) {
	f.calls++
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.payment != nil {
		return f.payment, nil
	}
	return &TossPayment{
		PaymentKey:  paymentKey,
		OrderID:     orderID,
		Method:      "카드",
		Status:      "DONE",
		TotalAmount: amount,
	}, nil
}

type fakeNotifier struct {
	orders []models.Order
}

func (f *fakeNotifier) NotifyOrderPaid(order models.Order) {
	f.orders = append(f.orders, order)
}

type orderFixture struct {
	db        *gorm.DB
	menu      *testutil.Menu
	carts     *CartService
	orders    *OrderService
	confirmer *fakeConfirmer
	notifier  *fakeNotifier
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := &orderFixture{
		db:        db,
		menu:      testutil.SeedMenu(t, db),
		carts:     NewCartService(db),
		confirmer: &fakeConfirmer{},
		notifier:  &fakeNotifier{},
	}
	f.orders = NewOrderService(db, f.confirmer, f.notifier, config.TossConfig{
		ClientKey:  "test_ck",
		SuccessURL: "https://readyvery.com/success",
		FailURL:    "https://readyvery.com/fail",
	})
	return f
}

// addAmericano puts two large Americanos in the user's cart (21000 dine-in).
func (f *orderFixture) addAmericano(t *testing.T) {
	t.Helper()
	_, err := f.carts.AddToCart(context.Background(), f.menu.User.ID, AddCartRequest{
		StoreID:   f.menu.Store.ID,
		FoodieID:  f.menu.Foodie.ID,
		Count:     2,
		OptionIDs: []uint{f.menu.Large.ID},
	})
	require.NoError(t, err)
}

func (f *orderFixture) loadOrder(t *testing.T, orderID string) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, f.db.Where("order_id = ?", orderID).First(&order).Error)
	return order
}

func TestOrderService_InitiatePayment(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.addAmericano(t)

	ready, err := f.orders.InitiatePayment(ctx, f.menu.User.ID, InoutDineIn)
	require.NoError(t, err)
	assert.NotEmpty(t, ready.OrderID)
	assert.Equal(t, int64(21000), ready.Amount)
	assert.Equal(t, "Americano", ready.OrderName)
	assert.Equal(t, "test_ck", ready.ClientKey)
	assert.Equal(t, f.menu.User.Email, ready.CustomerEmail)

	order := f.loadOrder(t, ready.OrderID)
	assert.Equal(t, models.ProgressRequest, order.Progress)
	assert.Nil(t, order.PaymentKey)
	assert.Equal(t, int64(21000), order.TotalAmount)
	assert.Equal(t, int64(InoutDineIn), order.Inout)
	assert.Equal(t, f.menu.Store.ID, order.StoreID)

	var cart models.Cart
	require.NoError(t, f.db.First(&cart, order.CartID).Error)
	assert.Equal(t, models.CartStatusOrdered, cart.Status)

	_, err = f.carts.GetCart(ctx, f.menu.User.ID, InoutDineIn)
	assert.ErrorIs(t, err, apperrors.ErrCartNotFound, "an ordered cart is closed")
}

func TestOrderService_InitiatePayment_OrderName(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.addAmericano(t)
	bagel := testutil.SeedFoodie(t, f.db, f.menu.Store.ID, "Bagel", 4000)
	_, err := f.carts.AddToCart(ctx, f.menu.User.ID, AddCartRequest{StoreID: f.menu.Store.ID, FoodieID: bagel.ID, Count: 1})
	require.NoError(t, err)

	ready, err := f.orders.InitiatePayment(ctx, f.menu.User.ID, InoutTakeout)
	require.NoError(t, err)
	assert.Equal(t, "Americano +1 more", ready.OrderName)
	assert.Equal(t, int64((9000+500)*2+4000), ready.Amount)
}

func TestOrderService_InitiatePayment_EmptyCart(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.orders.InitiatePayment(ctx, f.menu.User.ID, InoutDineIn)
	assert.ErrorIs(t, err, apperrors.ErrCartNotFound)

	// A cart whose only item was removed counts as empty.
	item, err := f.carts.AddToCart(ctx, f.menu.User.ID, AddCartRequest{
		StoreID: f.menu.Store.ID, FoodieID: f.menu.Foodie.ID, Count: 1, OptionIDs: []uint{f.menu.Regular.ID},
	})
	require.NoError(t, err)
	_, err = f.carts.DeleteCartItem(ctx, f.menu.User.ID, item.ID)
	require.NoError(t, err)

	_, err = f.orders.InitiatePayment(ctx, f.menu.User.ID, InoutDineIn)
	assert.ErrorIs(t, err, apperrors.ErrCartNotFound)

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var cart models.Cart
	require.NoError(t, f.db.First(&cart, item.CartID).Error)
	assert.Equal(t, models.CartStatusActive, cart.Status)
}

func TestOrderService_InitiatePayment_Errors(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.orders.InitiatePayment(ctx, 999, InoutDineIn)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = f.orders.InitiatePayment(ctx, f.menu.User.ID, Inout(3))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInout)
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.addAmericano(t)
	ready, err := f.orders.InitiatePayment(ctx, f.menu.User.ID, InoutDineIn)
	require.NoError(t, err)

	receipt, err := f.orders.ConfirmPayment(ctx, "pk_1", ready.OrderID, 21000)
	require.NoError(t, err)
	assert.Equal(t, "pk_1", receipt.PaymentKey)
	assert.Equal(t, "DONE", receipt.Status)
	assert.Equal(t, 1, f.confirmer.calls)

	order := f.loadOrder(t, ready.OrderID)
	assert.Equal(t, models.ProgressOrder, order.Progress)
	require.NotNil(t, order.PaymentKey)
	assert.Equal(t, "pk_1", *order.PaymentKey)
	assert.Equal(t, "카드", order.Method)

	var receipts []models.Receipt
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&receipts).Error)
	require.Len(t, receipts, 1)
	assert.Equal(t, receipt.ID, receipts[0].ID)

	require.Len(t, f.notifier.orders, 1)
	assert.Equal(t, ready.OrderID, f.notifier.orders[0].OrderID)
	assert.Equal(t, models.ProgressOrder, f.notifier.orders[0].Progress)

	_, err = f.orders.ConfirmPayment(ctx, "pk_1", ready.OrderID, 21000)
	assert.ErrorIs(t, err, apperrors.ErrTossPaymentSuccessFail, "a paid order is not confirmed twice")
	assert.Equal(t, 1, f.confirmer.calls)
}

func TestOrderService_ConfirmPayment_AmountMismatch(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.addAmericano(t)
	ready, err := f.orders.InitiatePayment(ctx, f.menu.User.ID, InoutDineIn)
	require.NoError(t, err)

	_, err = f.orders.ConfirmPayment(ctx, "pk_1", ready.OrderID, 100)
	assert.ErrorIs(t, err, apperrors.ErrTossPaymentAmountNotMatch)
	assert.Zero(t, f.confirmer.calls)
	assert.Empty(t, f.notifier.orders)

	order := f.loadOrder(t, ready.OrderID)
	assert.Equal(t, models.ProgressRequest, order.Progress)
	assert.Nil(t, order.PaymentKey)

	var receipts int64
	require.NoError(t, f.db.Model(&models.Receipt{}).Count(&receipts).Error)
	assert.Zero(t, receipts)
}

func TestOrderService_ConfirmPayment_ProviderFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "business error", err: apperrors.ErrTossPaymentSuccessFail},
		{name: "plain error", err: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			ctx := context.Background()
			f.addAmericano(t)
			ready, err := f.orders.InitiatePayment(ctx, f.menu.User.ID, InoutDineIn)
			require.NoError(t, err)

			f.confirmer.err = tt.err
			_, err = f.orders.ConfirmPayment(ctx, "pk_1", ready.OrderID, 21000)
			assert.ErrorIs(t, err, apperrors.ErrTossPaymentSuccessFail)
			assert.Equal(t, 1, f.confirmer.calls)
			assert.Empty(t, f.notifier.orders)

			order := f.loadOrder(t, ready.OrderID)
			assert.Equal(t, models.ProgressRequest, order.Progress)
		})
	}
}

func TestOrderService_ConfirmPayment_OrderNotFound(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.orders.ConfirmPayment(context.Background(), "pk_1", "missing", 1000)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
	assert.Zero(t, f.confirmer.calls)
}

func TestOrderService_RejectPayment(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.addAmericano(t)
	ready, err := f.orders.InitiatePayment(ctx, f.menu.User.ID, InoutDineIn)
	require.NoError(t, err)

	err = f.orders.RejectPayment(ctx, "PAY_PROCESS_CANCELED", "user canceled", ready.OrderID)
	be, ok := apperrors.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrTossPaymentSuccessFail.Code, be.Code)
	assert.Equal(t, "user canceled", be.Message)

	order := f.loadOrder(t, ready.OrderID)
	assert.Equal(t, models.ProgressRequest, order.Progress)

	err = f.orders.RejectPayment(ctx, "PAY_PROCESS_CANCELED", "", "missing")
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestReceiptFromTossPayment(t *testing.T) {
	payment := &TossPayment{PaymentKey: "pk", Method: "간편결제", TotalAmount: 5000}
	payment.EasyPay = &struct {
		Provider string `json:"provider"`
		Amount   int64  `json:"amount"`
	}{Provider: "토스페이", Amount: 5000}

	receipt := ReceiptFromTossPayment(payment, models.Order{ID: 7})
	assert.Equal(t, uint(7), receipt.OrderID)
	assert.Equal(t, "토스페이", receipt.EasyPayProvider)
	assert.Empty(t, receipt.CardNumber)
	assert.Equal(t, int64(5000), receipt.TotalAmount)
}

func TestOrderService_ConfirmPayment_ConcurrentDuplicate(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.addAmericano(t)
	ready, err := f.orders.InitiatePayment(ctx, f.menu.User.ID, InoutDineIn)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.confirmer.during = func() {
		close(entered)
		<-release
	}

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.orders.ConfirmPayment(ctx, "pk_1", ready.OrderID, 21000)
		firstErr <- err
	}()

	<-entered
	_, err = f.orders.ConfirmPayment(ctx, "pk_1", ready.OrderID, 21000)
	assert.ErrorIs(t, err, apperrors.ErrTossPaymentSuccessFail)

	close(release)
	require.NoError(t, <-firstErr)
	assert.Equal(t, 1, f.confirmer.calls)

	var receipts int64
	require.NoError(t, f.db.Model(&models.Receipt{}).Count(&receipts).Error)
	assert.Equal(t, int64(1), receipts)
}

func TestOrderService_ConfirmPayment_LosesToOtherConfirmation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.addAmericano(t)
	ready, err := f.orders.InitiatePayment(ctx, f.menu.User.ID, InoutDineIn)
	require.NoError(t, err)

	// Another instance marks the order paid while the provider call runs.
	f.confirmer.during = func() {
		require.NoError(t, f.db.Model(&models.Order{}).
			Where("order_id = ?", ready.OrderID).
			Update("progress", models.ProgressOrder).Error)
	}

	_, err = f.orders.ConfirmPayment(ctx, "pk_2", ready.OrderID, 21000)
	assert.ErrorIs(t, err, apperrors.ErrTossPaymentSuccessFail)
	assert.Empty(t, f.notifier.orders)

	var receipts int64
	require.NoError(t, f.db.Model(&models.Receipt{}).Count(&receipts).Error)
	assert.Zero(t, receipts)

	order := f.loadOrder(t, ready.OrderID)
	assert.Nil(t, order.PaymentKey)
}
