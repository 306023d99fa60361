package main

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cantina/config"
	"github.com/yeremiapane/cantina/database"
	"github.com/yeremiapane/cantina/live"
	"github.com/yeremiapane/cantina/router"
	"github.com/yeremiapane/cantina/services"
	"github.com/yeremiapane/cantina/utils"
)

func main() {
	// Load .env dan environment
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if cfg.SeedDemo {
		if err := database.SeedDemo(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Perubahan ledger disiarkan ke client websocket
	hub := live.NewHub()
	ledger := services.NewLedger(db)
	ledger.TabTerm = cfg.TabTerm
	ledger.Notifier = hub

	if cfg.OverdueCheck > 0 {
		monitor := services.NewOverdueMonitor(ledger)
		monitor.Interval = cfg.OverdueCheck
		monitor.Start()
		defer monitor.Stop()
	}

	r := router.SetupRouter(db, cfg, ledger, hub)
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Error setting trusted proxies: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
