package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestion-api/internal/application/composition"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/navigation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Providers        *composition.Providers
	Receipts         ReceiptRenderer
	JWTSecret        string
	TeamConversation string
}

// Router registra las rutas de la API. Las rutas públicas se registran antes
// del grupo protegido para que el middleware de auth no las intercepte.
func Router(app *fiber.App, deps RouterDeps) {
	p := deps.Providers
	sessions := p.Session()
	sc := scope{sessions: sessions, stores: p.StoreAccess(), lang: p.Language()}

	authHandler := NewAuthHandler(sc, p.Shells())
	viewHandler := NewViewHandler(sc, p.Shells(), p.Visitors())
	storeHandler := NewStoreHandler(sc)
	catalogHandler := NewCatalogHandler(sc, p.DomainData())
	clientHandler := NewClientHandler(sc, p.DomainData())
	saleHandler := NewSaleHandler(sc, p.DomainData(), p.Company(), deps.Receipts)
	prefsHandler := NewPreferencesHandler(sc, p.Theme(), p.Company())
	msgHandler := NewMessagingHandler(sc, p.Chat(), p.Poller(), p.Alerts(), p.Basket(), deps.TeamConversation)
	syncHandler := NewSyncHandler(sc, p.DomainData())

	app.Get("/health", syncHandler.Health)

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Vistas y shell: identidad opcional (un visitante anónimo ve las vistas públicas)
	optional := OptionalAuth(deps.JWTSecret, sessions)
	api.Get("/views/:key", optional, viewHandler.Resolve)
	shell := api.Group("/shell", optional)
	shell.Post("/", viewHandler.StartShell)
	shell.Get("/", viewHandler.GetShell)
	shell.Post("/navigate", viewHandler.Navigate)
	shell.Post("/drawer", viewHandler.Drawer)

	// Tienda en línea y puntos de venta (público)
	api.Get("/shop/articles", catalogHandler.Shop)
	api.Get("/stores", storeHandler.List)

	// Rutas protegidas (requieren Bearer Token y sesión abierta)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, sessions))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", authHandler.Me)
	protected.Put("/me", authHandler.UpdateMe)
	protected.Get("/navigation", viewHandler.Navigation)
	protected.Get("/users", RequireView(navigation.ViewUsers), authHandler.ListUsers)
	protected.Get("/visitors", RequireView(navigation.ViewReports), viewHandler.VisitStats)

	protected.Get("/stores/access", storeHandler.Access)
	protected.Put("/stores/access", storeHandler.SetActive)

	// Artículos: lectura también desde caja e inventario
	articles := protected.Group("/articles", RequireView(navigation.ViewArticles, navigation.ViewInventory, navigation.ViewPOS))
	canEditArticles := RequireView(navigation.ViewArticles, navigation.ViewInventory)
	articles.Get("/", catalogHandler.ListArticles)
	articles.Get("/:id", catalogHandler.GetArticle)
	articles.Post("/", canEditArticles, catalogHandler.CreateArticle)
	articles.Put("/:id", canEditArticles, catalogHandler.UpdateArticle)
	articles.Delete("/:id", canEditArticles, catalogHandler.DeleteArticle)

	services := protected.Group("/services", RequireView(navigation.ViewServices))
	services.Get("/", catalogHandler.ListServices)
	services.Get("/:id", catalogHandler.GetService)
	services.Post("/", catalogHandler.CreateService)
	services.Put("/:id", catalogHandler.UpdateService)
	services.Delete("/:id", catalogHandler.DeleteService)

	clients := protected.Group("/clients", RequireView(navigation.ViewClients))
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Post("/", clientHandler.Create)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Ventas: la caja registra, el listado gestiona
	sales := protected.Group("/sales", RequireView(navigation.ViewSales, navigation.ViewPOS))
	canManageSales := RequireView(navigation.ViewSales)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/receipt", saleHandler.Receipt)
	sales.Post("/", RequireView(navigation.ViewPOS), saleHandler.Create)
	sales.Put("/:id", canManageSales, saleHandler.Update)
	sales.Delete("/:id", canManageSales, saleHandler.Delete)

	// Espacio del cliente
	protected.Get("/my-orders", RequireView(navigation.ViewMyOrders), saleHandler.MyOrders)
	protected.Get("/loyalty", RequireView(navigation.ViewLoyalty), clientHandler.Loyalty)
	favorites := protected.Group("/favorites", RequireView(navigation.ViewFavorites))
	favorites.Get("/", msgHandler.Favorites)
	favorites.Put("/", msgHandler.SetFavorites)
	favorites.Post("/:id/toggle", msgHandler.ToggleFavorite)
	cart := protected.Group("/cart", RequireView(navigation.ViewCart))
	cart.Get("/", msgHandler.Cart)
	cart.Put("/", msgHandler.SetCart)
	cart.Delete("/", msgHandler.ClearCart)

	// Preferencias y empresa
	protected.Get("/preferences", prefsHandler.Get)
	protected.Put("/preferences", prefsHandler.Update)
	protected.Get("/company", prefsHandler.GetCompany)
	protected.Put("/company", RequireView(navigation.ViewSettings), prefsHandler.UpdateCompany)

	// Chat: el acceso a cada conversación lo decide messaging.CanAccess
	protected.Get("/chat/:conversation", msgHandler.History)
	protected.Post("/chat/:conversation", msgHandler.Send)

	alerts := protected.Group("/alerts", RequireRole(entity.StaffRoles...))
	alerts.Get("/", msgHandler.Alerts)
	alerts.Post("/seen", msgHandler.MarkAlertsSeen)

	protected.Get("/sync/status", syncHandler.Status)
	protected.Post("/sync", RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin), syncHandler.Sync)
}
