package api

import (
	"net/http" // HTTP status codes
	"net/url"  // Redirect target parsing
	"strings"  // String manipulation

	"storefront/internal/metrics"    // Store metrics
	"storefront/internal/middleware" // Per-request stores

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Messages shown on the login form
const (
	MessageMissingFields      = "Por favor completa todos los campos"
	MessageInvalidCredentials = "Credenciales incorrectas. Por favor verifica tu email y contraseña."
	MessageLoginError         = "Error al iniciar sesión. Por favor intenta nuevamente."
)

// LoginRequest is the login form
type LoginRequest struct {
	Email    string `json:"email"`    // Exact-match email
	Password string `json:"password"` // Plaintext password
}

// LoginHandler authenticates the client and sends it back to the page it came from
func LoginHandler(m *metrics.StoreMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Both fields are required
		if req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": MessageMissingFields})
			return
		}
		sess := middleware.Session(c) // Get session from context
		ok, err := sess.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			logrus.WithFields(logrus.Fields{"email": req.Email, "error": err.Error()}).Error("Login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": MessageLoginError})
			return
		}
		m.IncLogin(ok)
		if !ok {
			logrus.WithField("email", req.Email).Warn("Rejected login")
			c.JSON(http.StatusUnauthorized, gin.H{"error": MessageInvalidCredentials})
			return
		}
		identity, _ := sess.Current()
		logrus.WithFields(logrus.Fields{
			"user_id": identity.ID,
			"role":    identity.Role,
		}).Info("User logged in")
		c.JSON(http.StatusOK, gin.H{
			"usuario":  identity,                    // Logged in identity
			"redirect": returnPath(c.Query("from")), // Where to go next
		})
	}
}

// returnPath keeps redirects on this site, falling back to home. Browsers
// read a backslash as a slash and drop tabs and newlines, so either can turn
// a path into a host.
func returnPath(from string) string {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return "/"
	}
	if strings.ContainsFunc(from, func(r rune) bool { return r == '\\' || r < 0x20 || r == 0x7f }) {
		return "/"
	}
	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return "/"
	}
	return from
}

// LogoutHandler clears the session. Logging out twice is not an error.
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.Session(c) // Get session from context
		if err := sess.Logout(c.Request.Context()); err != nil {
			logrus.WithField("error", err.Error()).Error("Logout failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"redirect": "/"})
	}
}

// ProfileHandler returns the current identity
func ProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.Session(c).Current()
		if !ok {
			// RequireRoute guards this handler; reaching it logged out is a wiring error
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"usuario": identity})
	}
}
