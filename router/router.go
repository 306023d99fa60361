package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cantina/config"
	"github.com/yeremiapane/cantina/controllers"
	"github.com/yeremiapane/cantina/live"
	"github.com/yeremiapane/cantina/middlewares"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/services"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, ledger *services.Ledger, hub *live.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	if cfg.RateLimit > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimit, 1).RateLimit())
	}

	userCtrl := controllers.NewUserController(db)
	liveCtrl := controllers.NewLiveController(hub)
	reportCtrl := controllers.NewReportController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter(12*time.Second, 5))
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	r.GET("/ws", middlewares.WebSocketAuthMiddleware(), liveCtrl.Serve)

	// ----------------------------------------------------------------
	//                      STAFF ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	admin := middlewares.RequireRole(models.RoleAdmin)

	api.GET("/profile", userCtrl.GetProfile)
	api.POST("/logout", userCtrl.Logout)
	api.GET("/users", admin, userCtrl.GetAllUsers)
	api.POST("/users", admin, userCtrl.CreateUser)
	api.GET("/reports/summary", admin, reportCtrl.Summary)

	for _, kind := range models.EntityKinds {
		res, err := controllers.NewResource(kind, db, ledger)
		if err != nil {
			utils.ErrorLogger.Fatalf("Cannot mount %s: %v", kind, err)
		}

		g := api.Group("/" + kind.Slug())
		g.GET("", res.List)
		g.POST("", res.Create)
		g.GET("/:id", res.Get)
		g.PATCH("/:id", res.Update)
		g.DELETE("/:id", admin, res.Delete)

		if cr, ok := res.(controllers.CategoryResource); ok && kind.HasCategories() {
			g.GET("/categories", cr.ListCategories)
			g.POST("/categories", cr.CreateCategory)
			g.GET("/categories/:id", cr.ListByCategory)
		}

		switch ctrl := res.(type) {
		case *controllers.CustomerController:
			g.GET("/:id/tabs", ctrl.ListTabs)
			g.GET("/:id/tab", ctrl.GetOpenTab)
			g.POST("/:id/purchases", ctrl.RecordPurchase)
		case *controllers.MenuController:
			g.POST("/:id/components", ctrl.AddComponent)
		case *controllers.TabController:
			g.GET("/:id/purchases", ctrl.Purchases)
			g.POST("/:id/close", ctrl.Close)
			g.GET("/:id/events", ctrl.Events)
			g.GET("/:id/statement", ctrl.Statement)
		case *controllers.PurchaseController:
			g.POST("/:id/comp", ctrl.Comp)
		}
	}

	return r
}
