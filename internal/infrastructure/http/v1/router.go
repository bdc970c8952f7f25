package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"gudang/internal/core/numerator"
	"gudang/internal/domain/audit"
	"gudang/internal/domain/auth"
	"gudang/internal/domain/catalogs/location"
	"gudang/internal/domain/catalogs/product"
	"gudang/internal/domain/catalogs/uom"
	"gudang/internal/domain/catalogs/uomconversion"
	"gudang/internal/domain/documents/disposal"
	"gudang/internal/domain/documents/opname"
	"gudang/internal/domain/documents/procurement"
	"gudang/internal/domain/policy"
	"gudang/internal/domain/registers/stock"
	"gudang/internal/infrastructure/cache"
	"gudang/internal/infrastructure/http/v1/handlers"
	"gudang/internal/infrastructure/http/v1/middleware"
	"gudang/internal/infrastructure/storage/postgres"
	"gudang/internal/infrastructure/storage/postgres/catalog_repo"
	"gudang/internal/infrastructure/storage/postgres/document_repo"
	"gudang/internal/infrastructure/storage/postgres/register_repo"
	"gudang/pkg/logger"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Pool         *postgres.Pool
	TxManager    *postgres.TxManager
	Logger       *logger.Logger
	JWTValidator middleware.JWTValidator
	AuthService  *auth.Service
	AuditService *audit.Service
	Numerator    numerator.Generator

	// PolicyEngine is optional; nil disables approval policy checks.
	PolicyEngine *policy.Engine

	// Redis and ProductCache are optional; nil runs without caching.
	Redis        *redis.Client
	ProductCache *cache.ProductCache
}

// NewRouter creates and configures the HTTP router: middleware chain,
// health endpoints, and the /api/v1 surface. All repositories and
// domain services are wired here from the shared transaction manager.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Middleware order matters: recovery first, then trace so every
	// log line carries a trace id, then the error renderer.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Redis)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	registerAuthRoutes(api, base, cfg)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	svc := buildServices(cfg)
	registerCatalogRoutes(protected, base, cfg, svc)
	registerDocumentRoutes(protected, base, svc)
	registerRegisterRoutes(protected, base, svc)
	registerAuditRoutes(protected, base, cfg)

	return router
}

// services bundles the domain layer wired from one RouterConfig.
type services struct {
	products    *product.Service
	locations   *location.Service
	uoms        *uom.Service
	conversions *uomconversion.Service

	procurements *procurement.Service
	disposals    *disposal.Service
	opnames      *opname.Service

	stock *stock.Service
}

func buildServices(cfg RouterConfig) *services {
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	locationRepo := catalog_repo.NewLocationRepo(cfg.TxManager)
	uomRepo := catalog_repo.NewUomRepo(cfg.TxManager)
	conversionRepo := catalog_repo.NewUomConversionRepo(cfg.TxManager)

	procurementRepo := document_repo.NewProcurementRepo(cfg.TxManager)
	disposalRepo := document_repo.NewDisposalRepo(cfg.TxManager)
	opnameRepo := document_repo.NewOpnameRepo(cfg.TxManager)
	stockRepo := register_repo.NewStockRepo(cfg.TxManager)

	uomService := uom.NewService(uomRepo, cfg.TxManager, cfg.Numerator)
	locationService := location.NewService(locationRepo, cfg.TxManager, cfg.Numerator)
	productService := product.NewService(productRepo, uomRepo, cfg.TxManager, cfg.Numerator)
	conversionService := uomconversion.NewService(conversionRepo, uomRepo, cfg.TxManager)

	stockService := stock.NewService(stockRepo, productRepo, locationRepo)

	// Keep the checker interfaces nil when no engine is configured so
	// the workflow services skip policy checks entirely.
	var procurementPolicy procurement.PolicyChecker
	var disposalPolicy disposal.PolicyChecker
	if cfg.PolicyEngine != nil {
		procurementPolicy = cfg.PolicyEngine
		disposalPolicy = cfg.PolicyEngine
	}

	procurementService := procurement.NewService(
		procurementRepo,
		stockService,
		productService,
		locationRepo,
		uomRepo,
		conversionService,
		cfg.AuditService,
		procurementPolicy,
		cfg.Numerator,
		cfg.TxManager,
	)
	disposalService := disposal.NewService(
		disposalRepo,
		stockService,
		productService,
		locationRepo,
		uomRepo,
		conversionService,
		cfg.AuditService,
		disposalPolicy,
		cfg.Numerator,
		cfg.TxManager,
	)
	opnameService := opname.NewService(
		opnameRepo,
		stockService,
		productRepo,
		locationRepo,
		cfg.AuditService,
		cfg.Numerator,
		cfg.TxManager,
	)

	return &services{
		products:     productService,
		locations:    locationService,
		uoms:         uomService,
		conversions:  conversionService,
		procurements: procurementService,
		disposals:    disposalService,
		opnames:      opnameService,
		stock:        stockService,
	}
}

func registerAuthRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)

	public := api.Group("/auth")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
		public.POST("/refresh", authHandler.Refresh)
	}

	private := api.Group("/auth")
	private.Use(middleware.Auth(cfg.JWTValidator))
	{
		private.POST("/logout", authHandler.Logout)
		private.GET("/me", authHandler.Me)
		private.GET("/users", middleware.RequireRole(RoleManager), authHandler.ListUsers)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig, svc *services) {
	productHandler := handlers.NewProductHTTPHandler(base, svc.products, cfg.ProductCache)
	products := protected.Group("/products")
	{
		// Lookup routes go first so they are not shadowed by /:id.
		products.GET("/barcode/:barcode", productHandler.GetByBarcode)
		products.GET("/sku/:sku", productHandler.GetBySKU)
		products.GET("/cache-stats", productHandler.CacheStats)
	}
	RegisterCatalogRoutes(products, productHandler)

	locationHandler := handlers.NewLocationHTTPHandler(base, svc.locations.CatalogService)
	RegisterCatalogRoutes(protected.Group("/locations"), locationHandler)

	uomHandler := handlers.NewUomHTTPHandler(base, svc.uoms.CatalogService)
	RegisterCatalogRoutes(protected.Group("/uoms"), uomHandler)

	conversionHandler := handlers.NewUomConversionHandler(base, svc.conversions)
	conversions := protected.Group("/uom-conversions")
	{
		conversions.GET("", conversionHandler.List)
		conversions.GET("/convert", conversionHandler.Convert)
		conversions.GET("/:id", conversionHandler.Get)
		conversions.POST("", middleware.RequireRole(RoleStaff), conversionHandler.Create)
		conversions.PUT("/:id", middleware.RequireRole(RoleStaff), conversionHandler.Update)
		conversions.DELETE("/:id", middleware.RequireRole(RoleStaff), conversionHandler.Delete)
	}
}

func registerDocumentRoutes(protected *gin.RouterGroup, base *handlers.BaseHandler, svc *services) {
	procurementHandler := handlers.NewProcurementHTTPHandler(base, svc.procurements)
	RegisterDocumentRoutes(protected.Group("/procurements"), procurementHandler)

	disposalHandler := handlers.NewDisposalHTTPHandler(base, svc.disposals)
	RegisterDocumentRoutes(protected.Group("/disposals"), disposalHandler)

	// Stock opname has a count lifecycle (complete/cancel) instead of
	// the approval transitions, so it gets its own block.
	opnameHandler := handlers.NewStockOpnameHandler(base, svc.opnames)
	opnames := protected.Group("/stock-opnames")
	{
		opnames.GET("", opnameHandler.List)
		opnames.GET("/:id", opnameHandler.Get)
		opnames.POST("", middleware.RequireRole(RoleStaff), opnameHandler.Create)
		opnames.PUT("/:id", middleware.RequireRole(RoleStaff), opnameHandler.Update)
		opnames.DELETE("/:id", middleware.RequireRole(RoleStaff), opnameHandler.Delete)
		opnames.POST("/:id/restore", middleware.RequireRole(RoleManager), opnameHandler.Restore)
		opnames.POST("/:id/complete", middleware.RequireRole(RoleManager), opnameHandler.Complete)
		opnames.POST("/:id/cancel", middleware.RequireRole(RoleManager), opnameHandler.Cancel)
	}
}

func registerRegisterRoutes(protected *gin.RouterGroup, base *handlers.BaseHandler, svc *services) {
	stockHandler := handlers.NewStockHandler(base, svc.stock)
	stockGroup := protected.Group("/stock")
	{
		stockGroup.GET("/on-hand", stockHandler.GetOnHand)
		stockGroup.GET("/levels", stockHandler.ListLevels)
		stockGroup.GET("/movements", stockHandler.ListMovements)
		stockGroup.GET("/turnover", stockHandler.GetTurnover)
	}
}

func registerAuditRoutes(protected *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	auditHandler := handlers.NewAuditHandler(base, cfg.AuditService)
	protected.GET("/audit/:entityType/:entityId", middleware.RequireRole(RoleManager), auditHandler.History)
}
