package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/middlewares"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/realtime"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

// Options berisi dependency yang dibagi dengan proses background.
// Field nil diisi default.
type Options struct {
	Tokens         *utils.TokenManager
	Hub            *kds.Hub
	Refresh        *realtime.Group
	Reconciler     *services.Reconciler
	Kitchen        *services.KitchenService
	ReportLocation *time.Location
	AllowedOrigins []string
	TrustedProxies []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func (o *Options) withDefaults(db *gorm.DB) {
	if o.Tokens == nil {
		o.Tokens = utils.NewTokenManager("change-me", 24*time.Hour)
	}
	if o.Hub == nil {
		o.Hub = kds.NewHub()
	}
	if o.Reconciler == nil {
		o.Reconciler = services.NewReconciler(db, o.Hub)
	}
	if o.Kitchen == nil {
		o.Kitchen = services.NewKitchenService(db, services.NewArrivalTracker(15*time.Second), o.Hub)
	}
	if o.ReportLocation == nil {
		o.ReportLocation = time.UTC
	}
	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if o.RateLimitRPS <= 0 {
		o.RateLimitRPS = 50
	}
	if o.RateLimitBurst <= 0 {
		o.RateLimitBurst = 100
	}
}

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	opts.withDefaults(db)

	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		utils.ErrorLogger.Errorf("Invalid trusted proxies %v: %v", opts.TrustedProxies, err)
	}

	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.AllowedOrigins))
	r.Use(middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).RateLimit())

	orderSvc := services.NewOrderService(db, opts.Hub)
	tabSvc := services.NewTabService(db)
	inventorySvc := services.NewInventoryService(db)
	reportSvc := services.NewReportService(db, opts.ReportLocation)

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db, opts.Tokens)
	tableCtrl := controllers.NewTableController(db, opts.Reconciler, tabSvc)
	categoryCtrl := controllers.NewCategoryController(db)
	productCtrl := controllers.NewProductController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(orderSvc, tabSvc)
	tabCtrl := controllers.NewTabController(tabSvc)
	kitchenCtrl := controllers.NewKitchenController(opts.Kitchen)
	inventoryCtrl := controllers.NewInventoryController(inventorySvc)
	reportCtrl := controllers.NewReportController(db, reportSvc)
	ledgerCtrl := controllers.NewLedgerController(db)
	settingsCtrl := controllers.NewSettingsController(db)
	syncCtrl := controllers.NewSyncController(opts.Refresh)
	kdsCtrl := controllers.NewKDSController(opts.Hub, opts.Refresh)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter().RateLimit())
	{
		public.POST("/login", userCtrl.Login)
	}

	r.GET("/settings", settingsCtrl.GetSettings)
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menu", menuCtrl.GetMenu)

	// PDV dan QR memakai endpoint yang sama
	r.POST("/api/orders", orderCtrl.CreateOrder)

	authMw := middlewares.AuthMiddleware(opts.Tokens)

	// Endpoint KDS WebSocket, token lewat ?token=
	r.GET("/ws", authMw, kdsCtrl.KDSHandler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(authMw)

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)
	auth.POST("/sync/refresh", syncCtrl.Refresh)

	staff := middlewares.RequireRoles(models.RoleStaff)
	kitchen := middlewares.RequireRoles(models.RoleChef, models.RoleStaff)
	admin := middlewares.RequireRoles()

	// TABLE
	tables := auth.Group("/tables", staff)
	{
		tables.GET("", tableCtrl.GetAllTables)
		tables.POST("", tableCtrl.CreateTable)
		tables.POST("/reconcile", tableCtrl.Reconcile)
		tables.GET("/:table_id", tableCtrl.GetTableByID)
		tables.PATCH("/:table_id", tableCtrl.UpdateTableStatus)
		tables.DELETE("/:table_id", tableCtrl.DeleteTable)
		tables.PATCH("/:table_id/clean", tableCtrl.MarkTableClean)
	}

	// ORDER
	orders := auth.Group("/orders", staff)
	{
		orders.GET("", orderCtrl.GetAllOrders)
		orders.GET("/:order_id", orderCtrl.GetOrderByID)
		orders.POST("/:order_id/cancel", orderCtrl.CancelOrder)
	}

	// TAB / BILLING
	tabs := auth.Group("/tabs", staff)
	{
		tabs.GET("/tables/:table_id", tabCtrl.GetTableReceipt)
		tabs.GET("/orders/:order_id", tabCtrl.GetOrderReceipt)
		tabs.PATCH("/items/:item_id", tabCtrl.UpdateItemQuantity)
		tabs.DELETE("/items/:item_id", tabCtrl.DeleteItem)
		tabs.POST("/tables/:table_id/close", tabCtrl.CloseTab)
		tabs.POST("/orders/:order_id/close", tabCtrl.CloseOrder)
	}

	// KITCHEN
	kitchenGroup := auth.Group("/kitchen", kitchen)
	{
		kitchenGroup.GET("/orders", kitchenCtrl.GetActiveOrders)
		kitchenGroup.POST("/orders/:order_id/advance", kitchenCtrl.AdvanceOrder)
	}

	// CATALOG
	auth.GET("/products", staff, productCtrl.GetAllProducts)
	auth.GET("/products/:product_id", staff, productCtrl.GetProductByID)
	catalog := auth.Group("", admin)
	{
		catalog.POST("/categories", categoryCtrl.CreateCategory)
		catalog.PUT("/categories/:category_id", categoryCtrl.UpdateCategory)
		catalog.DELETE("/categories/:category_id", categoryCtrl.DeleteCategory)

		catalog.POST("/products", productCtrl.CreateProduct)
		catalog.PUT("/products/:product_id", productCtrl.UpdateProduct)
		catalog.PATCH("/products/:product_id/availability", productCtrl.SetAvailability)
		catalog.DELETE("/products/:product_id", productCtrl.DeleteProduct)
	}

	// INVENTORY
	inventory := auth.Group("/inventory", admin)
	{
		inventory.POST("/adjust", inventoryCtrl.Adjust)
		inventory.GET("/logs", inventoryCtrl.GetLogs)
	}

	// REPORTS
	reports := auth.Group("/reports", admin)
	{
		reports.GET("/revenue", reportCtrl.GetRevenue)
		reports.GET("/dashboard", reportCtrl.GetDashboardStats)
	}

	// LEDGER
	ledger := auth.Group("/ledger", admin)
	{
		ledger.GET("", ledgerCtrl.GetAllTransactions)
		ledger.POST("", ledgerCtrl.CreateTransaction)
		ledger.GET("/summary", ledgerCtrl.GetSummary)
		ledger.GET("/:transaction_id", ledgerCtrl.GetTransactionByID)
		ledger.PUT("/:transaction_id", ledgerCtrl.UpdateTransaction)
		ledger.DELETE("/:transaction_id", ledgerCtrl.DeleteTransaction)
		ledger.POST("/:transaction_id/pay", ledgerCtrl.MarkPaid)
	}

	// SETTINGS & USERS
	auth.PUT("/settings", admin, settingsCtrl.UpdateSettings)
	auth.GET("/users", admin, userCtrl.GetAllUsers)
	auth.POST("/users", admin, userCtrl.CreateUser)

	return r
}
