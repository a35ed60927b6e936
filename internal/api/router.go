package api

import (
	"net/http" // HTTP handler adapter
	"time"     // Durations

	"storefront/internal/catalog"    // Product catalog
	"storefront/internal/gate"       // Route authorization
	"storefront/internal/metrics"    // Store metrics
	"storefront/internal/middleware" // Client token, state and gate middleware
	"storefront/internal/session"    // Credential directory
	"storefront/internal/storage"    // Client state persistence

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the collaborators the handlers share
type Deps struct {
	State            storage.Store         // Backing store of every client namespace
	Directory        session.Directory     // Credential lookup
	Catalog          catalog.Catalog       // Product source
	Metrics          *metrics.StoreMetrics // Counters, may be nil
	MetricsHandler   http.Handler          // Served on /metrics when set
	JWTSecret        string                // Client token secret
	ClientTokenTTL   time.Duration         // Client token lifetime
	ProductSaveDelay time.Duration         // Simulated save delay for read-only catalogs
}

// RegisterRoutes mounts the storefront on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler)) // Prometheus scrape endpoint
	}

	// Every storefront route restores the client's session and cart first
	store := r.Group("/")
	store.Use(
		middleware.ClientTokenMiddleware(d.JWTSecret, d.ClientTokenTTL),
		middleware.StateMiddleware(d.State, d.Directory, d.Metrics),
	)

	// Catalog routes
	store.GET("/productos", ListProductsHandler(d.Catalog))     // Product listing
	store.GET("/producto/:id", ProductDetailHandler(d.Catalog)) // Product detail

	// Session routes
	store.POST("/login", LoginHandler(d.Metrics))                   // Login endpoint
	store.POST("/logout", LogoutHandler())                          // Logout endpoint
	store.GET("/perfil", requireRoute("/perfil"), ProfileHandler()) // Profile, login required

	// Cart routes
	cartGroup := store.Group("/carrito")
	cartGroup.GET("", GetCartHandler())                     // Cart with totals
	cartGroup.DELETE("", ClearCartHandler())                // Empty the cart
	cartGroup.POST("/items", AddItemHandler(d.Catalog))     // Add a product
	cartGroup.PUT("/items/:id", UpdateItemHandler())        // Set a line's quantity
	cartGroup.DELETE("/items/:id", RemoveItemHandler())     // Remove a line
	cartGroup.POST("/checkout", CheckoutHandler(d.Metrics)) // Simulated purchase

	// Admin routes (administrador only)
	adminGroup := store.Group("/admin")
	adminGroup.Use(requireRoute("/admin"))
	adminGroup.GET("/usuarios", ListUsersHandler(d.Directory))                         // List users endpoint
	adminGroup.GET("/productos", ListProductsHandler(d.Catalog))                       // Product management listing
	adminGroup.POST("/productos", CreateProductHandler(d.Catalog, d.ProductSaveDelay)) // Create product endpoint
}

func requireRoute(pattern string) gin.HandlerFunc {
	route, ok := gate.Lookup(pattern)
	if !ok {
		panic("no gate route for " + pattern)
	}
	return middleware.RequireRoute(route)
}
