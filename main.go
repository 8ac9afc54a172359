package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/readyvery/foodie-order/config"
	"github.com/readyvery/foodie-order/database"
	"github.com/readyvery/foodie-order/kds"
	"github.com/readyvery/foodie-order/router"
	"github.com/readyvery/foodie-order/services"
	"github.com/readyvery/foodie-order/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	utils.InitLogger(cfg.LogLevel)
	utils.InitJWT(cfg.JWTSecret)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	tossService := services.NewTossService(cfg.Toss, nil)
	if err := tossService.ValidateConfig(); err != nil {
		utils.ErrorLogger.Errorf("Toss payments disabled: %v", err)
	}

	hub := kds.NewHub()
	r := router.SetupRouter(db, cfg, tossService, hub)

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
