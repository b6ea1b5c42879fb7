package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/litethinking-inventario/internal/application/auth"
	"github.com/jhoicas/litethinking-inventario/internal/application/inventory"
	"github.com/jhoicas/litethinking-inventario/internal/application/reporting"
	"github.com/jhoicas/litethinking-inventario/internal/application/usecase"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC *usecase.CompanyUseCase
	ProductUC *usecase.ProductUseCase
	UserUC    *usecase.UserUseCase
	LedgerUC  *inventory.LedgerUseCase
	ReportUC  *reporting.ReportUseCase
	AuthUC    *auth.AuthUseCase
	ChatUC    *usecase.ConversationUseCase
	Hub       *ws.Hub // opcional: sin hub no se expone /ws/inventory
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token); escritura solo administrador
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	write := RequireWrite()
	adminOnly := RequireRole(entity.RoleAdministrator)

	// Companies
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", write, companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Post("/:id/activate", write, companyHandler.Activate)
	companies.Post("/:id/deactivate", write, companyHandler.Deactivate)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", write, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", write, productHandler.Update)
	products.Delete("/:id", write, productHandler.Delete)
	products.Post("/:id/activate", write, productHandler.Activate)
	products.Post("/:id/deactivate", write, productHandler.Deactivate)
	products.Get("/:id/prices", productHandler.Prices)

	// Inventory: rutas fijas antes de /:product_id
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	reportHandler := NewReportHandler(deps.ReportUC)
	invGroup.Get("/", inventoryHandler.List)
	invGroup.Get("/restock", inventoryHandler.Restock)
	invGroup.Get("/report.pdf", reportHandler.PDF)
	invGroup.Get("/report.xml", reportHandler.XML)
	invGroup.Post("/report/email", write, reportHandler.Email)
	invGroup.Delete("/movements/:id", adminOnly, inventoryHandler.DeleteMovement)
	invGroup.Get("/:product_id", inventoryHandler.Get)
	invGroup.Get("/:product_id/movements", inventoryHandler.History)
	invGroup.Post("/:product_id/entries", write, inventoryHandler.RegisterEntry)
	invGroup.Post("/:product_id/exits", write, inventoryHandler.RegisterExit)
	invGroup.Post("/:product_id/adjustments", write, inventoryHandler.Adjust)
	invGroup.Patch("/:product_id/location", write, inventoryHandler.SetLocation)

	// Users (administración)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Post("/:id/activate", userHandler.Activate)
	users.Post("/:id/deactivate", userHandler.Deactivate)

	// Historial del asistente: cada usuario gestiona sus conversaciones
	conversations := protected.Group("/conversations")
	conversationHandler := NewConversationHandler(deps.ChatUC)
	conversations.Get("/", conversationHandler.List)
	conversations.Post("/", conversationHandler.Create)
	conversations.Get("/:id", conversationHandler.Get)
	conversations.Patch("/:id", conversationHandler.Rename)
	conversations.Delete("/:id", conversationHandler.Delete)
	conversations.Post("/:id/archive", conversationHandler.Archive)
	conversations.Post("/:id/reactivate", conversationHandler.Reactivate)
	conversations.Get("/:id/messages", conversationHandler.Messages)
	conversations.Post("/:id/messages", conversationHandler.AddMessage)

	// Live feed de existencias
	if deps.Hub != nil {
		app.Get("/ws/inventory", ws.UpgradeOnly, WebSocketAuth(deps.JWTSecret), deps.Hub.Handler())
	}
}
