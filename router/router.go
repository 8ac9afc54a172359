package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/readyvery/foodie-order/config"
	"github.com/readyvery/foodie-order/controllers"
	"github.com/readyvery/foodie-order/kds"
	"github.com/readyvery/foodie-order/middlewares"
	"github.com/readyvery/foodie-order/models"
	"github.com/readyvery/foodie-order/services"
	"github.com/readyvery/foodie-order/utils"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, payments services.PaymentConfirmer, hub *kds.Hub) *gin.Engine {
	if err := controllers.RegisterValidators(); err != nil {
		utils.ErrorLogger.Fatalf("Failed to register validators: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSAllowOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if cfg.RateLimitPerSecond > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimitPerSecond).RateLimit())
	}

	cartService := services.NewCartService(db)
	foodieService := services.NewFoodieService(db)
	orderService := services.NewOrderService(db, payments, hub, cfg.Toss)

	userCtrl := controllers.NewUserController(db)
	cartCtrl := controllers.NewCartController(cartService)
	orderCtrl := controllers.NewOrderController(orderService, foodieService)
	kdsCtrl := controllers.NewKDSController(db, hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api/v1")
	api.GET("/order", orderCtrl.GetFoodie)

	// Toss redirects
	toss := api.Group("/order/toss")
	toss.Use(middlewares.PaymentSecurityHeaders(), middlewares.LogPaymentRequest())
	if cfg.RateLimitPerSecond > 0 {
		toss.Use(middlewares.PaymentRateLimiter(cfg.RateLimitPerSecond))
	}
	{
		toss.GET("/success", orderCtrl.TossPaymentSuccess)
		toss.GET("/fail", orderCtrl.TossPaymentFail)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/user/auth", userCtrl.Auth)
	auth.GET("/user/info", userCtrl.GetUserInfo)

	// CART
	auth.GET("/cart", cartCtrl.GetCart)
	auth.POST("/cart/add", cartCtrl.AddCart)
	auth.PATCH("/cart/edit", cartCtrl.EditCart)
	auth.DELETE("/cart/item", cartCtrl.DeleteCartItem)
	auth.POST("/cart/reset", cartCtrl.ResetCart)

	// ORDER
	payment := auth.Group("/order")
	payment.Use(middlewares.PaymentSecurityHeaders(), middlewares.LogPaymentRequest())
	{
		payment.POST("/payment", orderCtrl.RequestPayment)
	}

	// Order board for store staff
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware(), middlewares.RoleCheck(models.RoleStore, models.RoleAdmin))
	{
		wsGroup.GET("/stores/:store_id", kdsCtrl.StoreBoard)
	}

	return r
}
