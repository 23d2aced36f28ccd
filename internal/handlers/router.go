package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printcalc/internal/models"
	"printcalc/internal/services"
)

// Services are the dependencies the HTTP API is built on.
type Services struct {
	Auth      services.AuthService
	Employees services.EmployeeService
	Catalog   services.CatalogService
	Settings  services.SettingsService
	Cart      services.CartService
	Checkout  services.CheckoutService
	Orders    services.OrderService
}

type RouterOptions struct {
	SecureCookie bool
	// Health reports whether backing stores are reachable; nil means always healthy.
	Health func(ctx context.Context) error
}

func NewRouter(svc Services, opts RouterOptions, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(log), RequestLogger(log))

	authHandler := NewAuthHandler(svc.Auth, svc.Employees, opts.SecureCookie, log)
	catalogHandler := NewCatalogHandler(svc.Catalog, log)
	pricingHandler := NewPricingHandler(svc.Settings, log)
	cartHandler := NewCartHandler(svc.Cart, svc.Checkout, log)
	orderHandler := NewOrderHandler(svc.Orders, svc.Checkout, log)
	employeeHandler := NewEmployeeHandler(svc.Employees, svc.Catalog, svc.Orders, log)

	router.GET("/health", func(c *gin.Context) {
		if opts.Health != nil {
			if err := opts.Health(c.Request.Context()); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.GET("/track/:order_number", orderHandler.Track)

	authed := api.Group("", RequireAuth(svc.Auth, log))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/books", catalogHandler.Browse)
		authed.GET("/pricing/options", pricingHandler.Options)

		authed.GET("/cart", cartHandler.Get)
		authed.DELETE("/cart", cartHandler.Clear)
		authed.POST("/cart/items/:book_id", cartHandler.AddItem)
		authed.PUT("/cart/items/:book_id", cartHandler.SetQuantity)
		authed.DELETE("/cart/items/:book_id", cartHandler.RemoveItem)
		authed.POST("/cart/calculate", cartHandler.Calculate)
		authed.GET("/cart/calculation", cartHandler.LastCalculation)
		authed.POST("/quote", cartHandler.Quote)

		authed.POST("/orders", orderHandler.Place)
		authed.GET("/orders", orderHandler.List)
		authed.GET("/orders/:order_number", orderHandler.Get)
		authed.PATCH("/orders/:order_number/status", orderHandler.SetStatus)
		authed.GET("/dashboard", orderHandler.Dashboard)
	}

	admin := authed.Group("/admin", RequireRole(models.RoleAdmin, log))
	{
		admin.GET("/dashboard", employeeHandler.Dashboard)

		admin.GET("/years", catalogHandler.ListYears)
		admin.POST("/years", catalogHandler.CreateYear)
		admin.PUT("/years/:id", catalogHandler.UpdateYear)
		admin.DELETE("/years/:id", catalogHandler.DeleteYear)

		admin.GET("/subjects", catalogHandler.ListSubjects)
		admin.POST("/subjects", catalogHandler.CreateSubject)
		admin.PUT("/subjects/:id", catalogHandler.UpdateSubject)
		admin.DELETE("/subjects/:id", catalogHandler.DeleteSubject)

		admin.GET("/books", catalogHandler.ListBooks)
		admin.POST("/books", catalogHandler.CreateBook)
		admin.PUT("/books/:id", catalogHandler.UpdateBook)
		admin.DELETE("/books/:id", catalogHandler.DeleteBook)

		admin.GET("/printing-prices", pricingHandler.ListTiers)
		admin.POST("/printing-prices", pricingHandler.CreateTier)
		admin.PUT("/printing-prices/:id", pricingHandler.UpdateTier)
		admin.DELETE("/printing-prices/:id", pricingHandler.DeleteTier)

		admin.GET("/add-ons", pricingHandler.ListAddOns)
		admin.POST("/add-ons", pricingHandler.CreateAddOn)
		admin.PUT("/add-ons/:id", pricingHandler.UpdateAddOn)
		admin.DELETE("/add-ons/:id", pricingHandler.DeleteAddOn)

		admin.GET("/employees", employeeHandler.List)
		admin.POST("/employees", employeeHandler.Create)
		admin.PUT("/employees/:id", employeeHandler.Update)
		admin.DELETE("/employees/:id", employeeHandler.Delete)
	}

	return router
}
