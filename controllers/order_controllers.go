package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readyvery/foodie-order/services"
	"github.com/readyvery/foodie-order/utils"
)

type OrderController struct {
	Orders  *services.OrderService
	Foodies *services.FoodieService
}

func NewOrderController(orders *services.OrderService, foodies *services.FoodieService) *OrderController {
	return &OrderController{Orders: orders, Foodies: foodies}
}

type foodieQuery struct {
	StoreID  uint  `form:"store_id" binding:"required"`
	FoodieID uint  `form:"foodie_id" binding:"required"`
	Inout    int64 `form:"inout" binding:"required,inout"`
}

type paymentRequest struct {
	Inout int64 `json:"inout" binding:"required,inout"`
}

type tossSuccessQuery struct {
	PaymentKey string `form:"paymentKey" binding:"required"`
	OrderID    string `form:"orderId" binding:"required"`
	Amount     int64  `form:"amount" binding:"required"`
}

type tossFailQuery struct {
	Code    string `form:"code"`
	Message string `form:"message"`
	OrderID string `form:"orderId"`
}

// GetFoodie -> foodie detail with its option categories
func (oc *OrderController) GetFoodie(c *gin.Context) {
	var query foodieQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}

	foodie, err := oc.Foodies.GetFoodie(c.Request.Context(), query.StoreID, query.FoodieID, services.Inout(query.Inout))
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Foodie retrieved", foodie)
}

// RequestPayment -> turn the cart into an order waiting for Toss payment
func (oc *OrderController) RequestPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ready, err := oc.Orders.InitiatePayment(c.Request.Context(), userID, services.Inout(req.Inout))
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment requested", ready)
}

// TossPaymentSuccess -> Toss success redirect, confirms the payment
func (oc *OrderController) TossPaymentSuccess(c *gin.Context) {
	var query tossSuccessQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}

	receipt, err := oc.Orders.ConfirmPayment(c.Request.Context(), query.PaymentKey, query.OrderID, query.Amount)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment confirmed", receipt)
}

// TossPaymentFail -> Toss fail redirect
func (oc *OrderController) TossPaymentFail(c *gin.Context) {
	var query tossFailQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}

	err := oc.Orders.RejectPayment(c.Request.Context(), query.Code, query.Message, query.OrderID)
	utils.RespondFailure(c, err)
}
