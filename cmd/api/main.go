// @title          Lite Thinking Inventario API
// @version        1.0
// @description    API del libro de existencias de Lite Thinking: productos, empresas, movimientos y reportes.
// @host           localhost:8080
// @BasePath       /
// @securityDefinitions.apikey Bearer
// @in             header
// @name           Authorization
// @description    Token JWT con el prefijo Bearer
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

	_ "github.com/jhoicas/litethinking-inventario/docs"
	"github.com/jhoicas/litethinking-inventario/internal/application/auth"
	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/application/reporting"
	"github.com/jhoicas/litethinking-inventario/internal/application/usecase"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
	inframail "github.com/jhoicas/litethinking-inventario/internal/infrastructure/mail"
	"github.com/jhoicas/litethinking-inventario/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/litethinking-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/litethinking-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/litethinking-inventario/internal/infrastructure/ws"
	infraxml "github.com/jhoicas/litethinking-inventario/internal/infrastructure/xml"
	httpRouter "github.com/jhoicas/litethinking-inventario/internal/interfaces/http"
	"github.com/jhoicas/litethinking-inventario/pkg/config"
	"github.com/jhoicas/litethinking-inventario/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// repositories agrupa los adaptadores de persistencia del driver elegido.
type repositories struct {
	tx        inventory.TxRunner
	ledgers   repository.StockLedgerRepository
	movements repository.MovementRepository
	products  repository.ProductRepository
	companies repository.CompanyRepository
	users     repository.UserRepository
	chats     repository.ConversationRepository
	close     func()
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

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer repos.close()

	// Live feed: cada cambio confirmado de existencias se publica a los clientes websocket.
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	ledgerUC := inventory.NewLedgerUseCase(repos.tx, repos.ledgers, repos.movements, repos.products, hub, log)
	companyUC := usecase.NewCompanyUseCase(repos.companies)
	productUC := usecase.NewProductUseCase(repos.tx, repos.products, repos.companies, ledgerUC, usecase.ExchangeRates{
		USDToCOP: cfg.FX.USDToCOP,
		USDToEUR: cfg.FX.USDToEUR,
	})
	userUC := usecase.NewUserUseCase(repos.users)
	chatUC := usecase.NewConversationUseCase(repos.chats)
	authUC := auth.NewAuthUseCase(repos.users, repos.companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Sin SMTP el envío del reporte responde 503.
	var mailer reporting.Mailer
	if cfg.SMTP.Enabled() {
		mailer = inframail.NewGomailSender(cfg.SMTP, log)
	} else {
		log.Warn().Msg("SMTP no configurado: envío de reportes por correo deshabilitado")
	}
	reportUC := reporting.NewReportUseCase(
		repos.ledgers, repos.companies,
		infrapdf.NewMarotoPDFGenerator(), infraxml.NewEtreeXMLExporter(), mailer, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Lite Thinking Inventario API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return c.SendStatus(fiber.StatusNotFound)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "ws_clients": hub.Clients()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC: companyUC,
		ProductUC: productUC,
		UserUC:    userUC,
		LedgerUC:  ledgerUC,
		ReportUC:  reportUC,
		AuthUC:    authUC,
		ChatUC:    chatUC,
		Hub:       hub,
		JWTSecret: cfg.JWT.Secret,
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
	stop()

	log.Info().Msg("aplicación detenida")
}

// openRepositories conecta el driver configurado. Con postgres aplica las migraciones pendientes.
func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("usando almacén en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &repositories{
			tx:        store,
			ledgers:   store.Ledgers(),
			movements: store.Movements(),
			products:  store.Products(),
			companies: store.Companies(),
			users:     store.Users(),
			chats:     store.Conversations(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	migrated, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if migrated.Changed() {
		log.Info().Uint("from", migrated.From).Uint("to", migrated.To).Msg("migraciones aplicadas")
	}
	return &repositories{
		tx:        postgres.NewTxRunner(pool),
		ledgers:   postgres.NewLedgerRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		products:  postgres.NewProductRepository(pool),
		companies: postgres.NewCompanyRepository(pool),
		users:     postgres.NewUserRepository(pool),
		chats:     postgres.NewConversationRepository(pool),
		close:     pool.Close,
	}, nil
}
