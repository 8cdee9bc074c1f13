package routes

import (
	"labis-admin/internal/adapters/http/handlers"
	"labis-admin/internal/adapters/http/middleware"
	"labis-admin/internal/adapters/persistence/repositories"
	"labis-admin/internal/config"
	"labis-admin/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup wires repositories, services and handlers, then mounts all routes
func Setup(app *fiber.App, cfg *config.Config) *services.CronService {
	db := config.DB

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	hisTokenRepo := repositories.NewHisTokenRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	hisGateway := services.NewHISService(cfg.HIS)
	hisTokenService := services.NewHisTokenService(hisGateway, hisTokenRepo, userRepo, cfg)
	cronService := services.NewCronService(hisTokenService, refreshTokenRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	hisHandler := handlers.NewHisHandler(hisTokenService, authService)
	catalog := handlers.NewCatalogHandlers(db)

	authRequired := middleware.AuthMiddleware(cfg)

	// Public routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/logout-all", authRequired, authHandler.LogoutAll)
	auth.Get("/profile", authRequired, authHandler.Profile)

	// HIS-first login (public: authenticates against the HIS itself)
	hisDirect := api.Group("/his-direct-login", middleware.NoCacheHeaders())
	hisDirect.Post("/login", middleware.AuthRateLimiter(), hisHandler.DirectLogin)
	hisDirect.Post("/validate-token", hisHandler.ValidateToken)

	// HIS integration (session-scoped)
	his := api.Group("/his-integration", authRequired, middleware.NoCacheHeaders())
	his.Post("/login", hisHandler.Login)
	his.Get("/token", hisHandler.Token)
	his.Get("/token-status", hisHandler.TokenStatus)
	his.Post("/renew-token", hisHandler.RenewToken)
	his.Post("/refresh-token", hisHandler.RefreshToken)
	his.Post("/call-api", hisHandler.CallAPI)
	his.Get("/user-info/:username", hisHandler.UserInfo)
	his.Post("/logout/:username", hisHandler.Logout)
	his.Post("/cleanup-expired-tokens", middleware.AdminOnly(), hisHandler.CleanupExpiredTokens)

	// User management (admin only)
	users := api.Group("/users", authRequired, middleware.AdminOnly())
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Catalog (reference data) routes. Reads carry short cache headers
	// matching the console's query staleness.
	cacheable := middleware.CatalogCache()

	provinces := api.Group("/provinces", authRequired, cacheable)
	catalog.Provinces.Register(provinces)
	provinces.Get("/:id/branches", catalog.Branches.ListByRef("province_id"))

	wards := api.Group("/wards", authRequired, cacheable)
	wards.Get("/province/:id", catalog.Wards.ListByRef("province_id"))
	catalog.Wards.Register(wards)

	branches := api.Group("/branches", authRequired, cacheable)
	catalog.Branches.Register(branches)
	branches.Get("/:id/departments", catalog.Departments.ListByRef("branch_id"))

	departmentTypes := api.Group("/department-types", authRequired, cacheable)
	catalog.DepartmentTypes.Register(departmentTypes)

	departments := api.Group("/departments", authRequired, cacheable)
	catalog.Departments.Register(departments)
	departments.Get("/:id/rooms", catalog.Rooms.ListByRef("department_id"))

	rooms := api.Group("/rooms", authRequired, cacheable)
	catalog.Rooms.Register(rooms)

	serviceGroups := api.Group("/service-groups", authRequired, cacheable)
	catalog.ServiceGroups.Register(serviceGroups)
	serviceGroups.Get("/:id/services", catalog.Services.ListByRef("service_group_id"))

	unitOfMeasures := api.Group("/unit-of-measures", authRequired, cacheable)
	catalog.UnitOfMeasures.Register(unitOfMeasures)

	labServices := api.Group("/services", authRequired, cacheable)
	catalog.Services.Register(labServices)

	sampleTypes := api.Group("/sample-types", authRequired, cacheable)
	catalog.SampleTypes.Register(sampleTypes)

	categories := api.Group("/categories", authRequired, cacheable)
	catalog.Categories.Register(categories)

	return cronService
}
