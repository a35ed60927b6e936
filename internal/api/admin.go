package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"time"     // Simulated save delay

	"storefront/internal/catalog" // Product catalog
	"storefront/internal/domain"  // Importing domain models
	"storefront/internal/session" // Credential directory

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Messages shown on the product form
const (
	MessageFormErrors     = "Por favor corrige los errores del formulario"
	MessageProductCreated = "✅ Producto agregado correctamente"
)

// ListUsersHandler returns every identity the directory knows, without credentials
func ListUsersHandler(dir session.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		identities, err := dir.Identities(c.Request.Context())
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to list users")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		// Count users per role for the dashboard
		byRole := map[domain.Role]int{}
		for _, identity := range identities {
			byRole[identity.Role]++
		}
		c.JSON(http.StatusOK, gin.H{
			"usuarios": identities,      // List of users
			"total":    len(identities), // Total number of users
			"porRol":   byRole,          // Users per role
		})
	}
}

// CreateProductHandler validates the product form and stores the product.
// Catalogs that cannot store products only simulate the save.
func CreateProductHandler(cat catalog.Catalog, saveDelay time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ProductInput // Bind JSON request to struct
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		p, stored, err := catalog.Create(c.Request.Context(), cat, in, saveDelay, time.Now())
		var verrs catalog.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   MessageFormErrors, // Form level notice
				"errors":  verrs,             // Field to message
				"summary": verrs.Summary(),   // Messages in form order
			})
			return
		}
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to create product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"sku":      p.SKU,
			"category": p.Category,
			"stored":   stored,
		}).Info("Product created")
		c.JSON(http.StatusCreated, gin.H{
			"message":  MessageProductCreated, // Success notice
			"producto": toProductResponse(p),  // Created product
			"guardado": stored,                // Whether it was persisted
		})
	}
}
