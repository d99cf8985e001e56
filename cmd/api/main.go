package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-pos-admin/internal/handler"
	"go-pos-admin/internal/middleware"
	"go-pos-admin/internal/model"
	"go-pos-admin/internal/repository"
	"go-pos-admin/internal/service"
	"go-pos-admin/internal/ws"
	"go-pos-admin/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{},
		&model.Sale{},
		&model.SaleLine{},
		&model.AdminUser{},
		&model.Customer{},
		&model.Branch{},
		&model.Offering{},
	)

	// 3. Seed the default owner account; demo catalog only on request
	seedOwnerAccount(db)
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		seedDemoData(db)
	}

	// 4. WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency injection
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	adminRepo := repository.NewAdminUserRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	branchRepo := repository.NewBranchRepo(db)
	offeringRepo := repository.NewOfferingRepo(db)

	carts := model.NewCartStore()

	checkoutService := service.NewCheckoutService(productRepo, saleRepo, carts, wsHub, taxRateFromEnv())
	catalogService := service.NewCatalogService(productRepo, db, wsHub)
	dashService := service.NewDashboardService(saleRepo)
	authService := service.NewAuthService(adminRepo, service.AuthConfig{
		AutoProvision: os.Getenv("AUTO_PROVISION_ADMINS") == "true",
	})
	adminService := service.NewAdminService(adminRepo)

	posHandler := handler.NewPOSHandler(checkoutService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)
	backofficeHandler := handler.NewBackofficeHandler(customerRepo, branchRepo, offeringRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Admin v1.0",
	})

	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/accept-invite", authHandler.AcceptInvite)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(adminRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(adminRepo))

	// Dashboard (overview view; revenue series needs finance)
	protected.Get("/dashboard/stats", middleware.RequireView(model.ViewOverview), dashHandler.GetStats)
	protected.Get("/dashboard/revenue", middleware.RequireView(model.ViewFinance), dashHandler.GetRevenueSeries)

	// Catalog: the POS grid reads it from the order view, maintenance is a
	// setting-view concern
	protected.Get("/products", middleware.RequireAnyView(model.ViewOrder, model.ViewSetting), catalogHandler.GetProducts)
	protected.Post("/products", middleware.RequireView(model.ViewSetting), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireView(model.ViewSetting), catalogHandler.UpdateProduct)

	// POS cart + checkout (order view)
	order := protected.Group("", middleware.RequireView(model.ViewOrder))
	order.Get("/cart", posHandler.GetCart)
	order.Post("/cart/items", posHandler.AddCartItem)
	order.Put("/cart/items/:productID", posHandler.SetCartItemQuantity)
	order.Delete("/cart/items/:productID", posHandler.RemoveCartItem)
	order.Delete("/cart", posHandler.ClearCart)
	order.Post("/checkout", posHandler.Checkout)
	order.Get("/sales", posHandler.GetSales)
	order.Get("/sales/:id", posHandler.GetSale)

	// Orphan-sale reconciliation is a finance operation
	protected.Post("/sales/reconcile", middleware.RequireView(model.ViewFinance), posHandler.ReconcileSales)

	// Admin accounts (admin_access view)
	admins := protected.Group("/admins", middleware.RequireView(model.ViewAdminAccess))
	admins.Get("/", adminHandler.GetAdmins)
	admins.Get("/:id", adminHandler.GetAdmin)
	admins.Post("/", adminHandler.CreateAdmin)
	admins.Put("/:id", adminHandler.UpdateAdmin)
	admins.Delete("/:id", adminHandler.DeleteAdmin)
	admins.Put("/:id/permissions", adminHandler.ReplacePermissions)

	// Customers (customer_data view)
	customers := protected.Group("/customers", middleware.RequireView(model.ViewCustomerData))
	customers.Get("/", backofficeHandler.GetCustomers)
	customers.Post("/", backofficeHandler.CreateCustomer)
	customers.Put("/:id", backofficeHandler.UpdateCustomer)
	customers.Delete("/:id", backofficeHandler.DeleteCustomer)

	// Branches (branches view)
	branches := protected.Group("/branches", middleware.RequireView(model.ViewBranches))
	branches.Get("/", backofficeHandler.GetBranches)
	branches.Post("/", backofficeHandler.CreateBranch)
	branches.Put("/:id", backofficeHandler.UpdateBranch)
	branches.Delete("/:id", backofficeHandler.DeleteBranch)

	// Service offerings (service view)
	offerings := protected.Group("/offerings", middleware.RequireView(model.ViewService))
	offerings.Get("/", backofficeHandler.GetOfferings)
	offerings.Post("/", backofficeHandler.CreateOffering)
	offerings.Put("/:id", backofficeHandler.UpdateOffering)
	offerings.Delete("/:id", backofficeHandler.DeleteOffering)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func taxRateFromEnv() int64 {
	raw := os.Getenv("TAX_RATE_BASIS_POINTS")
	if raw == "" {
		return model.DefaultTaxRateBasisPoints
	}
	rate, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || rate < 0 {
		log.Printf("Warning: invalid TAX_RATE_BASIS_POINTS %q, using default", raw)
		return model.DefaultTaxRateBasisPoints
	}
	return rate
}

// seedOwnerAccount creates the default owner with every view granted when
// no account exists for the bootstrap email.
func seedOwnerAccount(db *gorm.DB) {
	adminRepo := repository.NewAdminUserRepo(db)

	email := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	if email == "" {
		email = "owner@example.com"
	}

	if _, err := adminRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if password == "" {
		password = "owner123"
	}

	owner := &model.AdminUser{
		Name:        "Owner",
		Email:       email,
		Role:        model.RoleOwner,
		Status:      model.StatusActive,
		Permissions: model.RolePreset(model.RoleOwner),
		JoinedAt:    time.Now(),
	}
	owner.CreatedBy = "system"
	owner.UpdatedBy = "system"

	if err := owner.SetPassword(password); err != nil {
		log.Printf("Warning: failed to hash owner password: %v", err)
		return
	}

	if err := adminRepo.Create(owner); err != nil {
		log.Printf("Warning: failed to create owner account: %v", err)
	} else {
		log.Printf("Owner account created: %s", email)
	}
}

// seedDemoData loads a small demo catalog. Explicitly opt-in; an empty
// store stays empty otherwise.
func seedDemoData(db *gorm.DB) {
	productRepo := repository.NewProductRepo(db)
	branchRepo := repository.NewBranchRepo(db)
	offeringRepo := repository.NewOfferingRepo(db)

	demoProducts := []model.Product{
		{SKU: "COF-AME", Name: "Americano", Category: "Coffee", PriceCents: 250, StockQty: 100, Active: true},
		{SKU: "COF-LAT", Name: "Latte", Category: "Coffee", PriceCents: 350, StockQty: 100, Active: true},
		{SKU: "COF-CAP", Name: "Cappuccino", Category: "Coffee", PriceCents: 350, StockQty: 100, Active: true},
		{SKU: "PAS-CRO", Name: "Croissant", Category: "Pastry", PriceCents: 275, StockQty: 50, Active: true},
		{SKU: "PAS-MUF", Name: "Muffin", Category: "Pastry", PriceCents: 300, StockQty: 50, Active: true},
		{SKU: "BEV-ICT", Name: "Iced Tea", Category: "Beverage", PriceCents: 225, StockQty: 80, Active: true},
		{SKU: "FOO-SAN", Name: "Sandwich", Category: "Food", PriceCents: 650, StockQty: 40, Active: true},
	}
	for _, p := range demoProducts {
		if existing, _ := productRepo.FindBySKU(p.SKU); existing != nil && existing.ID != uuid.Nil {
			continue
		}
		p.CreatedBy = "seed"
		p.UpdatedBy = "seed"
		if err := productRepo.Create(&p); err != nil {
			log.Printf("Warning: failed to seed product %s: %v", p.SKU, err)
		}
	}

	demoBranches := []model.Branch{
		{Name: "The Idea Plat", Link: "https://ideaplat.com"},
		{Name: "The Advisor Plat", Link: "https://advisorplat.com"},
		{Name: "The Consultant Plat", Link: "https://consultantplat.com"},
	}
	for _, b := range demoBranches {
		if existing, _ := branchRepo.FindByName(b.Name); existing != nil && existing.ID != uuid.Nil {
			continue
		}
		b.CreatedBy = "seed"
		b.UpdatedBy = "seed"
		if err := branchRepo.Create(&b); err != nil {
			log.Printf("Warning: failed to seed branch %s: %v", b.Name, err)
		}
	}

	demoOfferings := []model.Offering{
		{Code: "CONSULT-01", Name: "Business Consultation"},
		{Code: "MKT-PLAN-01", Name: "Marketing Plan"},
		{Code: "SMM-01", Name: "Social Media Management"},
		{Code: "WEB-DESIGN-01", Name: "Website Design"},
	}
	for _, o := range demoOfferings {
		if existing, _ := offeringRepo.FindByCode(o.Code); existing != nil && existing.ID != uuid.Nil {
			continue
		}
		o.CreatedBy = "seed"
		o.UpdatedBy = "seed"
		if err := offeringRepo.Create(&o); err != nil {
			log.Printf("Warning: failed to seed offering %s: %v", o.Code, err)
		}
	}

	log.Println("Demo data seeded")
}
