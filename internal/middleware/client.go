package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Token lifetime

	"storefront/internal/utils" // Client token utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/golang-jwt/jwt/v5" // Token error kinds
	"github.com/google/uuid"       // Client id generation
	"github.com/sirupsen/logrus"   // Logging library
)

// ClientTokenHeader carries the client token in both directions
const ClientTokenHeader = "X-Client-Token"

// Context keys set by the middleware in this package
const (
	ClientIDKey = "clientID"
	SessionKey  = "session"
	CartKey     = "cart"
)

// ClientTokenMiddleware identifies the browser a request comes from. A request
// without a token is a new client: it gets a fresh id and the token is
// returned in the response header for the client to keep. An expired but
// correctly signed token is renewed for the same client.
func ClientTokenMiddleware(secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimSpace(c.GetHeader(ClientTokenHeader)) // Get client token header
		// New client, mint an id and hand out its token
		if tokenStr == "" {
			clientID := uuid.NewString()
			token, err := utils.GenerateClientToken(clientID, secret, ttl)
			if err != nil {
				logrus.WithField("error", err.Error()).Error("Failed to generate client token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
				return
			}
			c.Header(ClientTokenHeader, token) // Return the token to the client
			c.Set(ClientIDKey, clientID)       // Store clientID in context
			c.Next()
			return
		}
		claims, err := utils.ParseClientToken(tokenStr, secret) // Parse the client token
		if errors.Is(err, jwt.ErrTokenExpired) {
			// Stored state never expires, so an expired client keeps its id under a new token
			token, clientID, renewErr := utils.RenewClientToken(tokenStr, secret, ttl)
			if renewErr == nil {
				c.Header(ClientTokenHeader, token) // Return the renewed token
				c.Set(ClientIDKey, clientID)       // Store clientID in context
				c.Next()
				return
			}
		}
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(ClientIDKey, claims.ClientID) // Store clientID in context
		c.Next()                            // Proceed to the next handler
	}
}
