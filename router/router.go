package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/antonkhv/shop-app/controllers"
	"github.com/antonkhv/shop-app/middlewares"
	"github.com/antonkhv/shop-app/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// global per-IP limiter, must be registered before the routes so gin
	// bakes it into every handler chain
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	// uploaded catalog images
	r.Static("/uploads", controllers.UploadsDir())

	authCtrl := controllers.NewAuthController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	productCtrl := controllers.NewProductController(db)
	orderCtrl := controllers.NewOrderController(db, services.NewMailerFromEnv())
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// login is rate limited separately
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", authCtrl.Login)
	}

	r.GET("/check-auth", authCtrl.CheckAuth)
	r.POST("/logout", authCtrl.Logout)

	// storefront catalog
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/products/by-category", productCtrl.GetProductsByCategory)

	// storefront order submission, no login needed
	r.POST("/orders", orderCtrl.SubmitOrder)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())

	// CATEGORIES
	admin.POST("/categories", categoryCtrl.CreateCategory)
	admin.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	admin.PUT("/categories/:cat_id", categoryCtrl.UpdateCategory)
	admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

	// PRODUCTS
	admin.GET("/products", productCtrl.GetAllProducts)
	admin.POST("/products", productCtrl.CreateProduct)
	admin.PATCH("/products/:product_id", productCtrl.UpdateProduct)
	admin.PUT("/products/:product_id", productCtrl.UpdateProduct)
	admin.DELETE("/products/:product_id", productCtrl.DeleteProduct)

	// ORDERS
	admin.GET("/orders", orderCtrl.GetAllOrders)
	admin.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	admin.PATCH("/orders/:order_id/status", orderCtrl.SetOrderStatus)
	admin.PUT("/orders/:order_id/status", orderCtrl.SetOrderStatus)
	admin.POST("/orders/:order_id/advance", orderCtrl.AdvanceOrderStatus)

	// DASHBOARD / REPORTS
	admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
	admin.GET("/reports/export", adminCtrl.ExportOrders)

	// live order feed, token also accepted as a query parameter
	liveGroup := r.Group("/admin/live")
	liveGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		liveGroup.GET("", controllers.LiveFeedHandler)
	}

	return r
}
