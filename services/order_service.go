package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/readyvery/foodie-order/apperrors"
	"github.com/readyvery/foodie-order/config"
	"github.com/readyvery/foodie-order/models"
	"github.com/readyvery/foodie-order/utils"
)

// PaymentConfirmer confirms a payment with the external provider.
type PaymentConfirmer interface {
	Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*TossPayment, error)
}

// OrderNotifier is told about orders whose payment went through.
type OrderNotifier interface {
	NotifyOrderPaid(order models.Order)
}

// PaymentReady carries what the client needs to open the payment widget.
type PaymentReady struct {
	OrderID       string `json:"order_id"`
	OrderName     string `json:"order_name"`
	Amount        int64  `json:"amount"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ClientKey     string `json:"client_key"`
	SuccessURL    string `json:"success_url"`
	FailURL       string `json:"fail_url"`
}

type OrderService struct {
	db         *gorm.DB
	payments   PaymentConfirmer
	notifier   OrderNotifier
	toss       config.TossConfig
	newOrderID func() string
	// confirming holds the order ids whose provider call is in flight.
	confirming sync.Map
}

func NewOrderService(db *gorm.DB, payments PaymentConfirmer, notifier OrderNotifier, toss config.TossConfig) *OrderService {
	return &OrderService{
		db:         db,
		payments:   payments,
		notifier:   notifier,
		toss:       toss,
		newOrderID: uuid.NewString,
	}
}

// InitiatePayment turns the user's active cart into an order waiting for
// payment and closes the cart.
func (s *OrderService) InitiatePayment(ctx context.Context, userID uint, inout Inout) (*PaymentReady, error) {
	if !inout.Valid() {
		return nil, apperrors.ErrInvalidInout
	}

	var (
		order models.Order
		user  *models.User
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = findUser(tx, userID)
		if err != nil {
			return err
		}

		cart, err := findActiveCartWithItems(tx, userID)
		if err != nil {
			return err
		}
		items := cart.ActiveItems()
		if len(items) == 0 {
			return apperrors.ErrCartNotFound
		}

		amount, err := TotalForCart(*cart, inout)
		if err != nil {
			return err
		}

		order = models.Order{
			OrderID:     s.newOrderID(),
			UserID:      user.ID,
			StoreID:     cart.StoreID,
			CartID:      cart.ID,
			OrderName:   orderName(items),
			Inout:       int64(inout),
			Amount:      amount,
			TotalAmount: amount,
			Progress:    models.ProgressRequest,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return fmt.Errorf("creating order: %w", err)
		}
		if err := tx.Model(&models.Cart{ID: cart.ID}).Update("status", models.CartStatusOrdered).Error; err != nil {
			return fmt.Errorf("closing cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithField("order_id", order.OrderID).Infof("Order requested by user %d (amount=%d)", userID, order.TotalAmount)

	return &PaymentReady{
		OrderID:       order.OrderID,
		OrderName:     order.OrderName,
		Amount:        order.TotalAmount,
		CustomerName:  user.NickName,
		CustomerEmail: user.Email,
		ClientKey:     s.toss.ClientKey,
		SuccessURL:    s.toss.SuccessURL,
		FailURL:       s.toss.FailURL,
	}, nil
}

// ConfirmPayment checks the amount the provider reported against the
// order, confirms the charge and records the receipt.
func (s *OrderService) ConfirmPayment(ctx context.Context, paymentKey, orderID string, amount int64) (*models.Receipt, error) {
	db := s.db.WithContext(ctx)

	order, err := findOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if order.TotalAmount != amount {
		utils.ErrorLogger.WithField("order_id", orderID).Errorf("Payment amount %d does not match order total %d", amount, order.TotalAmount)
		return nil, apperrors.ErrTossPaymentAmountNotMatch
	}
	if order.Progress != models.ProgressRequest {
		utils.ErrorLogger.WithField("order_id", orderID).Errorf("Order already in progress %s", order.Progress)
		return nil, apperrors.ErrTossPaymentSuccessFail
	}

	if _, busy := s.confirming.LoadOrStore(orderID, struct{}{}); busy {
		utils.ErrorLogger.WithField("order_id", orderID).Error("Payment confirmation already running")
		return nil, apperrors.ErrTossPaymentSuccessFail
	}
	defer s.confirming.Delete(orderID)

	payment, err := s.payments.Confirm(ctx, paymentKey, orderID, amount)
	if err != nil {
		if _, ok := apperrors.AsBusiness(err); ok {
			return nil, err
		}
		utils.ErrorLogger.WithField("order_id", orderID).Errorf("Payment confirm failed: %v", err)
		return nil, apperrors.ErrTossPaymentSuccessFail
	}
	if payment.PaymentKey == "" {
		payment.PaymentKey = paymentKey
	}

	receipt := ReceiptFromTossPayment(payment, *order)
	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Order{ID: order.ID}).
			Where("progress = ?", models.ProgressRequest).
			Updates(map[string]interface{}{
				"payment_key": payment.PaymentKey,
				"method":      payment.Method,
				"progress":    models.ProgressOrder,
			})
		if result.Error != nil {
			return fmt.Errorf("updating order: %w", result.Error)
		}
		// Another confirmation won the race.
		if result.RowsAffected == 0 {
			utils.ErrorLogger.WithField("order_id", orderID).Error("Order was confirmed concurrently")
			return apperrors.ErrTossPaymentSuccessFail
		}
		if err := tx.Omit(clause.Associations).Create(&receipt).Error; err != nil {
			return fmt.Errorf("creating receipt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.PaymentKey = &payment.PaymentKey
	order.Method = payment.Method
	order.Progress = models.ProgressOrder
	if s.notifier != nil {
		s.notifier.NotifyOrderPaid(*order)
	}

	utils.InfoLogger.WithField("order_id", orderID).Infof("Order paid, receipt %d issued", receipt.ID)
	return &receipt, nil
}

// RejectPayment handles the provider's failure redirect. The order is left
// as it is.
func (s *OrderService) RejectPayment(ctx context.Context, code, message, orderID string) error {
	if orderID != "" {
		if _, err := findOrder(s.db.WithContext(ctx), orderID); err != nil {
			return err
		}
	}

	utils.ErrorLogger.WithField("order_id", orderID).Errorf("Toss payment failed: %s %s", code, message)
	if message == "" {
		return apperrors.ErrTossPaymentSuccessFail
	}
	return apperrors.ErrTossPaymentSuccessFail.WithMessage(message)
}

// ReceiptFromTossPayment copies the provider's payment details into a
// receipt for order.
func ReceiptFromTossPayment(payment *TossPayment, order models.Order) models.Receipt {
	receipt := models.Receipt{
		OrderID:        order.ID,
		PaymentKey:     payment.PaymentKey,
		Type:           payment.Type,
		MID:            payment.MID,
		Currency:       payment.Currency,
		TotalAmount:    payment.TotalAmount,
		BalanceAmount:  payment.BalanceAmount,
		SuppliedAmount: payment.SuppliedAmount,
		Vat:            payment.Vat,
		Status:         payment.Status,
		Method:         payment.Method,
		RequestedAt:    payment.RequestedAt,
		ApprovedAt:     payment.ApprovedAt,
	}
	if payment.Card != nil {
		receipt.CardIssuerCode = payment.Card.IssuerCode
		receipt.CardNumber = payment.Card.Number
		receipt.CardApproveNo = payment.Card.ApproveNo
	}
	if payment.EasyPay != nil {
		receipt.EasyPayProvider = payment.EasyPay.Provider
	}
	if payment.Receipt != nil {
		receipt.ReceiptURL = payment.Receipt.URL
	}
	return receipt
}

func findOrder(db *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.Where("order_id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading order: %w", err)
	}
	return &order, nil
}

// orderName is the first item's name, with the number of other items
// appended when there are several.
func orderName(items []models.CartItem) string {
	name := items[0].Foodie.Name
	if len(items) > 1 {
		name = fmt.Sprintf("%s +%d more", name, len(items)-1)
	}
	return name
}
