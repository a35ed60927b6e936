package middleware

import (
	"net/http" // HTTP status codes
	"net/url"  // Query escaping

	"storefront/internal/gate" // Route authorization decisions

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRoute applies the gate decision for route on each request. Anonymous
// viewers are redirected to login with the requested path as "from"; viewers
// missing the route's role get an access denied notice.
func RequireRoute(route gate.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := Session(c) // Get session from context
		var viewer gate.Viewer
		if sess != nil {
			viewer = sess
		}
		decision := gate.Authorize(viewer, route, c.Request.URL.Path)
		switch decision.Outcome {
		case gate.OutcomeRedirect:
			// Send the viewer to login, remembering where they were going
			location := decision.RedirectTo + "?" + url.Values{"from": {decision.From}}.Encode()
			c.Header("Location", location)
			c.AbortWithStatusJSON(http.StatusSeeOther, gin.H{"error": "Login required", "redirect": location})
		case gate.OutcomeDenied:
			// Authenticated but lacking the role
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   decision.Title,
				"title":   decision.Title,
				"message": decision.Message,
			})
		default:
			c.Next() // Proceed to the next handler
		}
	}
}
