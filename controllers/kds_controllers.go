package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/readyvery/foodie-order/apperrors"
	"github.com/readyvery/foodie-order/kds"
	"github.com/readyvery/foodie-order/models"
	"github.com/readyvery/foodie-order/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type KDSController struct {
	DB  *gorm.DB
	Hub *kds.Hub
}

func NewKDSController(db *gorm.DB, hub *kds.Hub) *KDSController {
	return &KDSController{DB: db, Hub: hub}
}

// StoreBoard -> websocket feed of paid orders for one store
func (kc *KDSController) StoreBoard(c *gin.Context) {
	storeID, err := strconv.ParseUint(c.Param("store_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid store id"))
		return
	}
	if !kc.canWatch(c, uint(storeID)) {
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	kc.Hub.Register(uint(storeID), ws)
	utils.InfoLogger.Printf("Order board connected for store %d", storeID)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.Hub.Unregister(uint(storeID), ws)
}

// canWatch lets ADMIN watch any board and STORE accounts only their own
// store's board.
func (kc *KDSController) canWatch(c *gin.Context, storeID uint) bool {
	role, _ := c.Get("role")
	if role == models.RoleAdmin {
		return true
	}

	userID, ok := currentUserID(c)
	if !ok {
		return false
	}
	var user models.User
	if err := kc.DB.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondFailure(c, apperrors.ErrUserNotFound)
		} else {
			utils.RespondFailure(c, err)
		}
		return false
	}

	if role != models.RoleStore || user.StoreID == nil || *user.StoreID != storeID {
		utils.InfoLogger.Printf("User %d denied order board of store %d", userID, storeID)
		utils.RespondError(c, http.StatusForbidden, errors.New("store access required"))
		return false
	}
	return true
}
