package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/todolap-api/internal/application/analytics"
	"github.com/jhoicas/todolap-api/internal/application/auth"
	"github.com/jhoicas/todolap-api/internal/application/billing"
	"github.com/jhoicas/todolap-api/internal/application/inventory"
	"github.com/jhoicas/todolap-api/internal/application/quoting"
	"github.com/jhoicas/todolap-api/internal/application/sales"
	"github.com/jhoicas/todolap-api/internal/application/usecase"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/interfaces/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	ServiceUC   *usecase.ServiceUseCase
	UserUC      *usecase.UserUseCase
	Ledger      *inventory.Ledger
	Checkout    *sales.CheckoutUseCase
	SaleQuery   *sales.QueryUseCase
	CreateQuote *quoting.CreateQuoteUseCase
	QuoteQuery  *quoting.QueryUseCase
	Settlement  *billing.SettlementUseCase
	Dashboard   *analytics.DashboardUseCase
	Hub         *ws.Hub // opcional: sin hub no se expone /ws/stock
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: Bearer Token + usuario activo + rol de personal del taller
	protected := api.Group("/",
		AuthMiddleware(deps.JWTSecret),
		RequireActiveUser(deps.UserUC),
		RequireRole(entity.RoleAdmin, entity.RoleTecnico),
	)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Ledger)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/availability", productHandler.Availability)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Post("/:id/restock", adminOnly, productHandler.Restock)

	// Services
	services := protected.Group("/services")
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services.Get("/", serviceHandler.List)
	services.Get("/:id", serviceHandler.GetByID)
	services.Post("/", adminOnly, serviceHandler.Create)
	services.Put("/:id", adminOnly, serviceHandler.Update)
	services.Delete("/:id", adminOnly, serviceHandler.Delete)

	// POS + ventas (export antes de /:id)
	saleHandler := NewSaleHandler(deps.Checkout, deps.SaleQuery)
	protected.Get("/pos/search", saleHandler.Search)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", saleHandler.Checkout)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/export", adminOnly, saleHandler.Export)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Cotizaciones de servicio
	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.CreateQuote, deps.QuoteQuery, deps.Settlement)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Get("/:id/pdf", quoteHandler.PDF)
	quotes.Post("/:id/pay", quoteHandler.Pay)

	// Dashboard (solo admin)
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	protected.Get("/dashboard/summary", adminOnly, dashboardHandler.GetSummary)

	// Users (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Stock en vivo para los terminales del punto de venta
	if deps.Hub != nil {
		app.Use("/ws", AuthMiddleware(deps.JWTSecret), func(c *fiber.Ctx) error {
			if !websocket.IsWebSocketUpgrade(c) {
				return fiber.ErrUpgradeRequired
			}
			return c.Next()
		})
		app.Get("/ws/stock", websocket.New(deps.Hub.Handler()))
	}
}
