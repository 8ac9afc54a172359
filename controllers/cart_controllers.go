package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readyvery/foodie-order/services"
	"github.com/readyvery/foodie-order/utils"
)

type CartController struct {
	Carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{Carts: carts}
}

type addCartRequest struct {
	StoreID   uint   `json:"store_id" binding:"required"`
	FoodieID  uint   `json:"foodie_id" binding:"required"`
	Count     int64  `json:"count" binding:"required,min=1,max=999"`
	OptionIDs []uint `json:"options"`
}

type editCartRequest struct {
	ItemID uint  `json:"idx" binding:"required"`
	Count  int64 `json:"count" binding:"required,min=1,max=999"`
}

type cartItemQuery struct {
	ItemID uint `form:"idx" binding:"required"`
}

type inoutQuery struct {
	Inout int64 `form:"inout" binding:"required,inout"`
}

// GetCart -> active cart priced for dine-in or takeout
func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var query inoutQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}

	cart, err := cc.Carts.GetCart(c.Request.Context(), userID, services.Inout(query.Inout))
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart retrieved", cart)
}

// AddCart -> put a foodie with its options into the cart
func (cc *CartController) AddCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req addCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	item, err := cc.Carts.AddToCart(c.Request.Context(), userID, services.AddCartRequest{
		StoreID:   req.StoreID,
		FoodieID:  req.FoodieID,
		Count:     req.Count,
		OptionIDs: req.OptionIDs,
	})
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added to cart", gin.H{"idx": item.ID})
}

// EditCart -> change the quantity of a cart item
func (cc *CartController) EditCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req editCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	item, err := cc.Carts.EditCartItem(c.Request.Context(), userID, req.ItemID, req.Count)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart item updated", gin.H{"idx": item.ID, "count": item.Count})
}

// DeleteCartItem -> remove an item from the cart
func (cc *CartController) DeleteCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var query cartItemQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}

	item, err := cc.Carts.DeleteCartItem(c.Request.Context(), userID, query.ItemID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart item deleted", gin.H{"idx": item.ID})
}

// ResetCart -> discard the whole cart
func (cc *CartController) ResetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := cc.Carts.ResetCart(c.Request.Context(), userID)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart reset", gin.H{"cart_id": cart.ID})
}
