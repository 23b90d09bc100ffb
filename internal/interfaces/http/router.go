package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/moda-retail/internal/application/analytics"
	"github.com/jhoicas/moda-retail/internal/application/auth"
	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/cash"
	"github.com/jhoicas/moda-retail/internal/application/inventory"
	"github.com/jhoicas/moda-retail/internal/application/licensing"
	"github.com/jhoicas/moda-retail/internal/application/pricing"
	"github.com/jhoicas/moda-retail/internal/application/sales"
	"github.com/jhoicas/moda-retail/internal/application/usecase"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	Authorizer       *authz.Authorizer
	CompanyUC        *usecase.CompanyUseCase
	ModuleService    *usecase.ModuleService
	BrandingUC       *usecase.BrandingUseCase
	UserUC           *usecase.UserUseCase
	Pricing          *pricing.Service
	RegisterMovement *inventory.RegisterMovementUseCase
	Sales            *sales.UseCase
	Cash             *cash.UseCase
	Dashboard        *analytics.DashboardUseCase
	Admin            *licensing.AdminService
	Sync             syncControl
	JWTSecret        string
}

// Router registra las rutas de la API.
// Los middlewares de módulo cortan temprano; cada caso de uso vuelve a autorizar
// la acción puntual y la loja.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", SyncStatusMiddleware(deps.Sync))

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	mod := func(m entity.ModuleID) fiber.Handler { return RequireModule(m, deps.Authorizer) }

	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.ModuleService, deps.BrandingUC)
	protected.Get("/me/entitlements", companyHandler.Entitlements)
	protected.Get("/branding", companyHandler.Branding)
	protected.Put("/branding", RequirePermission(entity.PermConfiguracoesMarca, deps.Authorizer), companyHandler.UpdateBranding)
	protected.Get("/company", companyHandler.Get)
	protected.Get("/company/audit", mod(entity.ModuleConfiguracoes), companyHandler.AuditLog)
	protected.Post("/company/stores", RequirePermission(entity.PermConfiguracoesLojas, deps.Authorizer), companyHandler.CreateStore)

	// Usuarios
	users := protected.Group("/users", mod(entity.ModuleUsuarios))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Put("/:id/status", userHandler.SetStatus)
	users.Put("/:id/modules", userHandler.SetModules)
	users.Post("/:id/modules/:module", userHandler.GrantModule)
	users.Delete("/:id/modules/:module", userHandler.RevokeModule)
	users.Post("/:id/permissions", userHandler.GrantPermission)
	users.Delete("/:id/permissions/:perm", userHandler.RevokePermission)

	// Precificación y costos
	pricingHandler := NewPricingHandler(deps.Pricing)
	pr := protected.Group("/pricing")
	pr.Get("/catalog", mod(entity.ModulePrecificacao), pricingHandler.Catalog)
	pr.Put("/lines/:code", mod(entity.ModulePrecificacao), pricingHandler.UpsertLine)
	pr.Delete("/lines/:code", mod(entity.ModulePrecificacao), pricingHandler.DeactivateLine)
	pr.Post("/quote", mod(entity.ModulePDV), pricingHandler.Quote)

	costs := protected.Group("/costs", mod(entity.ModuleCustos))
	costs.Get("/overhead", pricingHandler.Overhead)
	costs.Post("/items", pricingHandler.AddCostItem)
	costs.Put("/items/:id", pricingHandler.UpdateCostItem)
	costs.Delete("/items/:id", pricingHandler.DeactivateCostItem)
	costs.Put("/parameters", pricingHandler.SetParameters)
	costs.Put("/card-fees", pricingHandler.UpsertCardFee)
	costs.Get("/snapshots", pricingHandler.Snapshots)

	// Dashboard (protegido)
	protected.Get("/dashboard/summary", mod(entity.ModuleDashboard), NewDashboardHandler(deps.Dashboard).Summary)

	// Inventory movements (protegido)
	invGroup := protected.Group("/inventory", mod(entity.ModuleEstoque))
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Post("/transfers/receive", inventoryHandler.ReceiveTransfer)
	invGroup.Get("/balances", inventoryHandler.Balances)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	// PDV y contas a receber
	salesHandler := NewSalesHandler(deps.Sales)
	protected.Post("/sales", mod(entity.ModulePDV), salesHandler.Finalize)
	receivables := protected.Group("/receivables", mod(entity.ModuleContasReceber))
	receivables.Get("/", salesHandler.Receivables)
	receivables.Post("/:id/settle", salesHandler.Settle)

	// Caixa
	cashGroup := protected.Group("/cash-sessions", mod(entity.ModuleCaixa))
	cashHandler := NewCashHandler(deps.Cash)
	cashGroup.Post("/", cashHandler.Open)
	cashGroup.Get("/", cashHandler.History)
	cashGroup.Get("/current", cashHandler.Current)
	cashGroup.Get("/:id", cashHandler.Get)
	cashGroup.Post("/:id/cash-in", cashHandler.CashIn)
	cashGroup.Post("/:id/cash-out", cashHandler.CashOut)
	cashGroup.Post("/:id/close", cashHandler.Close)
	cashGroup.Get("/:id/report", cashHandler.Report)

	// Administrador global
	admin := protected.Group("/admin", RequireGlobalAdmin())
	adminHandler := NewAdminHandler(deps.Admin, deps.Sync)
	admin.Get("/plans", adminHandler.ListPlans)
	admin.Post("/plans", adminHandler.CreatePlan)
	admin.Put("/plans/:id", adminHandler.UpdatePlan)
	admin.Get("/companies", adminHandler.ListCompanies)
	admin.Post("/companies", adminHandler.CreateCompany)
	admin.Put("/companies/:id/status", adminHandler.SetCompanyStatus)
	admin.Get("/licenses", adminHandler.ListLicenses)
	admin.Post("/licenses", adminHandler.IssueLicense)
	admin.Post("/licenses/:id/block", adminHandler.BlockLicense)
	admin.Put("/licenses/:id/white-label", adminHandler.SetWhiteLabel)
	admin.Get("/sync", adminHandler.SyncStatus)
	admin.Post("/sync/retry", adminHandler.RetrySync)
}
