package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/matheusmosca/go-commerce/internal/entity"
)

// RouterConfig wires the handlers and middleware settings.
type RouterConfig struct {
	ServiceName string
	JWTSecret   string
	Auth        *AuthHandler
	Products    *ProductHandler
	Purchases   *PurchaseHandler
}

// NewRouter builds the gin engine with all routes. Product reads are
// public; catalog writes and the admin purchase listing require the admin
// role; purchase routes require an authenticated client.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": cfg.ServiceName})
	})

	authn := Authenticate(cfg.JWTSecret)
	admin := RequireRole(entity.RoleAdmin)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", cfg.Auth.Register)
		auth.POST("/login", cfg.Auth.Login)
	}

	products := r.Group("/api/products")
	{
		products.GET("", cfg.Products.List)
		products.GET("/:id", cfg.Products.Get)
		products.POST("", authn, admin, cfg.Products.Create)
		products.PUT("/:id", authn, admin, cfg.Products.Update)
		products.DELETE("/:id", authn, admin, cfg.Products.Delete)
		products.GET("/admin/purchases", authn, admin, cfg.Purchases.ListAll)
	}

	purchases := r.Group("/api/purchases", authn)
	{
		purchases.POST("", cfg.Purchases.Create)
		purchases.GET("/history", cfg.Purchases.History)
		purchases.GET("/:id", cfg.Purchases.Get)
	}

	return r
}
