// @title        TodoLap API
// @version      1.0
// @description  API del taller TodoLap: inventario, punto de venta y cotizaciones de servicio.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in           header
// @name         Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	"github.com/jhoicas/todolap-api/docs"
	"github.com/jhoicas/todolap-api/internal/application/analytics"
	"github.com/jhoicas/todolap-api/internal/application/auth"
	"github.com/jhoicas/todolap-api/internal/application/billing"
	"github.com/jhoicas/todolap-api/internal/application/inventory"
	"github.com/jhoicas/todolap-api/internal/application/quoting"
	"github.com/jhoicas/todolap-api/internal/application/sales"
	"github.com/jhoicas/todolap-api/internal/application/usecase"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
	infrapdf "github.com/jhoicas/todolap-api/internal/infrastructure/pdf"
	"github.com/jhoicas/todolap-api/internal/infrastructure/postgres"
	"github.com/jhoicas/todolap-api/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/todolap-api/internal/interfaces/http"
	"github.com/jhoicas/todolap-api/internal/interfaces/ws"
	"github.com/jhoicas/todolap-api/pkg/config"
	"github.com/jhoicas/todolap-api/pkg/logger"
)

// txRunner une los puertos transaccionales de cada flujo; lo implementan ambos almacenes.
type txRunner interface {
	inventory.StockTxRunner
	sales.SaleTxRunner
	quoting.QuoteTxRunner
	billing.SettlementTxRunner
}

// store repositorios y runner del almacenamiento elegido con DB_DRIVER.
type store struct {
	products  repository.ProductRepository
	services  repository.ServiceRepository
	sales     repository.SaleRepository
	quotes    repository.QuoteRepository
	users     repository.UserRepository
	analytics repository.AnalyticsRepository
	tx        txRunner
	close     func()
}

func openStore(ctx context.Context, cfg config.DBConfig) (*store, error) {
	if cfg.Driver == config.DriverSQLite {
		db, err := sqlite.Open(ctx, cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		return &store{
			products:  sqlite.NewProductRepository(db),
			services:  sqlite.NewServiceRepository(db),
			sales:     sqlite.NewSaleRepository(db),
			quotes:    sqlite.NewQuoteRepository(db),
			users:     sqlite.NewUserRepository(db),
			analytics: sqlite.NewAnalyticsRepository(db),
			tx:        sqlite.NewTxRunner(db),
			close:     func() { _ = db.Close() },
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &store{
		products:  postgres.NewProductRepository(pool),
		services:  postgres.NewServiceRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		quotes:    postgres.NewQuoteRepository(pool),
		users:     postgres.NewUserRepository(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStore(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión al almacenamiento")
	}
	defer st.close()

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	} else if created {
		log.Info().Str("username", cfg.Admin.Username).Msg("administrador inicial creado")
	}

	// Hub de stock en vivo: recibe los niveles confirmados tras cada venta o reposición
	hub := ws.NewHub(log.Component("ws"))
	go hub.Run(ctx)

	ledger := inventory.NewLedger(st.tx, st.products, hub)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs (solo si el archivo existe)
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger UI desactivado: archivo no encontrado")
	}
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return fiber.ErrNotFound
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   usecase.NewProductUseCase(st.products),
		ServiceUC:   usecase.NewServiceUseCase(st.services, st.users),
		UserUC:      usecase.NewUserUseCase(st.users),
		Ledger:      ledger,
		Checkout:    sales.NewCheckoutUseCase(st.tx, ledger),
		SaleQuery:   sales.NewQueryUseCase(st.sales, st.products, pdfGenerator),
		CreateQuote: quoting.NewCreateQuoteUseCase(st.tx),
		QuoteQuery:  quoting.NewQueryUseCase(st.quotes, pdfGenerator),
		Settlement:  billing.NewSettlementUseCase(st.tx),
		Dashboard:   analytics.NewDashboardUseCase(st.analytics),
		Hub:         hub,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop() // cierra el hub y sus conexiones

	log.Info().Msg("aplicación detenida")
}
