package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"net/url"  // Query escaping
	"strconv"  // String conversion

	"storefront/internal/catalog"    // Product catalog
	"storefront/internal/checkout"   // Checkout flow
	"storefront/internal/gate"       // Login path
	"storefront/internal/metrics"    // Store metrics
	"storefront/internal/middleware" // Per-request stores

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// MessageOutOfStock is shown when a product without stock is added
const MessageOutOfStock = "Producto sin stock"

// AddItemRequest names the catalog product to add
type AddItemRequest struct {
	ID int64 `json:"id" binding:"required,gt=0"` // Product ID
}

// UpdateItemRequest sets a line's quantity; zero or less removes it
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"` // New quantity
}

// GetCartHandler returns the cart with its totals
func GetCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toCartResponse(middleware.Cart(c)))
	}
}

// AddItemHandler adds one unit of a catalog product to the cart
func AddItemHandler(cat catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		p, err := cat.Find(c.Request.Context(), req.ID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": MessageProductNotFound})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"product_id": req.ID, "error": err.Error()}).Error("Failed to fetch product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		if !p.InStock() {
			c.JSON(http.StatusConflict, gin.H{"error": MessageOutOfStock})
			return
		}
		crt := middleware.Cart(c) // Get cart from context
		if err := crt.AddItem(c.Request.Context(), p); err != nil {
			cartFailure(c, "add", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "¡" + p.Name + " agregado al carrito!", // Confirmation notice
			"cart":    toCartResponse(crt),                   // Updated cart
		})
	}
}

// UpdateItemHandler replaces the quantity of a cart line
func UpdateItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productIDParam(c)
		if !ok {
			return
		}
		var req UpdateItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		crt := middleware.Cart(c) // Get cart from context
		if err := crt.SetQuantity(c.Request.Context(), id, *req.Quantity); err != nil {
			cartFailure(c, "set_quantity", err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(crt))
	}
}

// RemoveItemHandler removes a cart line; unknown ids are ignored
func RemoveItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := productIDParam(c)
		if !ok {
			return
		}
		crt := middleware.Cart(c) // Get cart from context
		if err := crt.RemoveItem(c.Request.Context(), id); err != nil {
			cartFailure(c, "remove", err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(crt))
	}
}

// ClearCartHandler empties the cart
func ClearCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		crt := middleware.Cart(c) // Get cart from context
		if err := crt.Clear(c.Request.Context()); err != nil {
			cartFailure(c, "clear", err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(crt))
	}
}

// CheckoutHandler runs the simulated purchase
func CheckoutHandler(m *metrics.StoreMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.Session(c) // Get session from context
		crt := middleware.Cart(c)     // Get cart from context
		res, err := checkout.Checkout(c.Request.Context(), sess, crt)
		switch {
		case errors.Is(err, checkout.ErrLoginRequired):
			m.IncCheckout("login_required")
			// Send the shopper to login, returning to the cart afterwards
			location := gate.LoginPath + "?" + url.Values{"from": {checkout.ReturnPath}}.Encode()
			c.JSON(http.StatusUnauthorized, gin.H{"error": checkout.MessageLoginRequired, "redirect": location})
			return
		case errors.Is(err, checkout.ErrEmptyCart):
			m.IncCheckout("empty_cart")
			c.JSON(http.StatusBadRequest, gin.H{"error": checkout.MessageEmptyCart})
			return
		case err != nil:
			m.IncCheckout("error")
			cartFailure(c, "checkout", err)
			return
		}
		m.IncCheckout("success")
		identity, _ := sess.Current()
		logrus.WithFields(logrus.Fields{
			"user_id":    identity.ID,
			"lines":      res.Lines,
			"item_count": res.ItemCount,
			"total":      res.Total.StringFixed(2),
		}).Info("Checkout completed")
		c.JSON(http.StatusOK, gin.H{
			"message":   res.Message,              // Thank you notice
			"redirect":  res.Redirect,             // Home
			"itemCount": res.ItemCount,            // Units purchased
			"total":     res.Total.StringFixed(2), // Amount, two decimals
		})
	}
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return 0, false
	}
	return id, true
}

func cartFailure(c *gin.Context, op string, err error) {
	logrus.WithFields(logrus.Fields{
		"client_id": c.GetString(middleware.ClientIDKey),
		"op":        op,
		"error":     err.Error(),
	}).Error("Cart update failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
}
