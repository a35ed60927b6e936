package middleware

import (
	"net/http" // HTTP status codes

	"storefront/internal/cart"    // Cart store
	"storefront/internal/metrics" // Store metrics
	"storefront/internal/session" // Session store
	"storefront/internal/storage" // Client key/value namespace

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// StateMiddleware restores the client's session and cart from kv, the way a
// page load restores them from local storage, and stores both in the context.
// It must run after ClientTokenMiddleware.
func StateMiddleware(kv storage.Store, dir session.Directory, m *metrics.StoreMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetString(ClientIDKey) // Get clientID from context
		if clientID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ns := storage.Namespace(kv, clientID)
		log := logrus.WithField("client_id", clientID)

		sess, err := session.New(c.Request.Context(), ns, dir, log)
		if err != nil {
			log.WithField("error", err.Error()).Error("Failed to restore session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		crt, err := cart.New(c.Request.Context(), ns, log)
		if err != nil {
			log.WithField("error", err.Error()).Error("Failed to restore cart")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}
		m.ObserveSession(sess)
		m.ObserveCart(crt)

		c.Set(SessionKey, sess) // Store session in context
		c.Set(CartKey, crt)     // Store cart in context
		c.Next()
	}
}

// Session returns the session store set by StateMiddleware
func Session(c *gin.Context) *session.Store {
	s, _ := c.Get(SessionKey)
	sess, _ := s.(*session.Store)
	return sess
}

// Cart returns the cart store set by StateMiddleware
func Cart(c *gin.Context) *cart.Store {
	v, _ := c.Get(CartKey)
	crt, _ := v.(*cart.Store)
	return crt
}
