package apperrors

import (
	"errors"
	"net/http"
)

// BusinessError is a rule violation with a fixed code that is reported to
// the caller as is.
type BusinessError struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *BusinessError) Error() string {
	return e.Message
}

// Is matches any business error carrying the same code, so a copy made by
// WithMessage still satisfies errors.Is against the sentinel.
func (e *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with a different message.
func (e *BusinessError) WithMessage(message string) *BusinessError {
	return &BusinessError{Code: e.Code, Status: e.Status, Message: message}
}

func New(status int, code, message string) *BusinessError {
	return &BusinessError{Code: code, Status: status, Message: message}
}

var (
	ErrFoodyNotFound    = New(http.StatusNotFound, "FOODY_NOT_FOUND", "foodie not found")
	ErrStoreNotFound    = New(http.StatusNotFound, "STORE_NOT_FOUND", "store not found")
	ErrUserNotFound     = New(http.StatusNotFound, "USER_NOT_FOUND", "user not found")
	ErrCartNotFound     = New(http.StatusNotFound, "CART_NOT_FOUND", "cart not found")
	ErrCartItemNotFound = New(http.StatusNotFound, "CART_ITEM_NOT_FOUND", "cart item not found")
	ErrOptionNotFound   = New(http.StatusNotFound, "OPTION_NOT_FOUND", "option not found")
	ErrOrderNotFound    = New(http.StatusNotFound, "ORDER_NOT_FOUND", "order not found")

	ErrFoodyNotInStore    = New(http.StatusBadRequest, "FOODY_NOT_IN_STORE", "foodie is not sold in this store")
	ErrInvalidOption      = New(http.StatusBadRequest, "INVALID_OPTION", "option is not available for this foodie")
	ErrInvalidOptionCount = New(http.StatusBadRequest, "INVALID_OPTION_COUNT", "exactly one option must be chosen for each required option category")
	ErrInvalidInout       = New(http.StatusBadRequest, "INVALID_INOUT", "inout must be 1 (dine-in) or 2 (takeout)")
	ErrItemNotSameStore   = New(http.StatusBadRequest, "ITEM_NOT_SAME_STORE", "cart already holds items from another store")
	ErrInvalidCount       = New(http.StatusBadRequest, "INVALID_COUNT", "count must be between 1 and 999")
	ErrInvalidAmount      = New(http.StatusBadRequest, "INVALID_AMOUNT", "amount is out of range")

	ErrTossPaymentAmountNotMatch = New(http.StatusBadRequest, "TOSS_PAYMENT_AMOUNT_NOT_MATCH", "payment amount does not match the order total")
	ErrTossPaymentSuccessFail    = New(http.StatusBadGateway, "TOSS_PAYMENT_SUCCESS_FAIL", "payment confirmation failed")
)

// AsBusiness unwraps err into a business error if it carries one.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
