package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"storefront/internal/catalog" // Product catalog

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// MessageProductNotFound is shown for unknown product ids
const MessageProductNotFound = "Producto no encontrado"

// ListProductsHandler returns the catalog, optionally filtered by search term and category
func ListProductsHandler(cat catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := catalog.Filter{
			Search:   c.Query("search"),    // Free text search
			Category: c.Query("categoria"), // Exact category
		}
		products, err := cat.List(c.Request.Context(), filter)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to list products")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"productos": toProductResponses(products), // Matching products
			"total":     len(products),                // Number of matches
		})
	}
}

// ProductDetailHandler returns one product by id
func ProductDetailHandler(cat catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			// Non numeric ids cannot name a product
			c.JSON(http.StatusNotFound, gin.H{"error": MessageProductNotFound})
			return
		}
		p, err := cat.Find(c.Request.Context(), id)
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": MessageProductNotFound})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"product_id": id, "error": err.Error()}).Error("Failed to fetch product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		c.JSON(http.StatusOK, toProductResponse(p))
	}
}
