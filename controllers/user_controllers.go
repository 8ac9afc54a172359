package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/readyvery/foodie-order/apperrors"
	"github.com/readyvery/foodie-order/models"
	"github.com/readyvery/foodie-order/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Auth -> confirms the token belongs to an existing user
func (uc *UserController) Auth(c *gin.Context) {
	user, ok := uc.currentUser(c)
	if !ok {
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Authenticated", gin.H{
		"auth":  true,
		"id":    user.ID,
		"email": user.Email,
		"name":  user.NickName,
		"role":  user.Role,
	})
}

// GetUserInfo -> profile of the user in the token
func (uc *UserController) GetUserInfo(c *gin.Context) {
	user, ok := uc.currentUser(c)
	if !ok {
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User info retrieved successfully", gin.H{
		"id":           user.ID,
		"name":         user.NickName,
		"email":        user.Email,
		"phone_number": user.PhoneNumber,
	})
}

func (uc *UserController) currentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}

	var user models.User
	if err := uc.DB.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondFailure(c, apperrors.ErrUserNotFound)
		} else {
			utils.RespondFailure(c, err)
		}
		return nil, false
	}
	return &user, true
}

// currentUserID reads the user id set by the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return 0, false
	}

	userID, ok := userIDInterface.(uint)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("invalid user id type"))
		return 0, false
	}
	return userID, true
}
