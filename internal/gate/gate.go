// Package gate decides whether a requested view renders, redirects to login,
// or shows an access denied notice. Decisions are pure functions of the
// session state and the route; nothing is cached between navigations.
package gate

import (
	"strings" // Path splitting

	"storefront/internal/domain" // Roles
)

// LoginPath is where unauthenticated viewers are sent
const LoginPath = "/login"

// Viewer is the read side of the session store the gate needs
type Viewer interface {
	IsAuthenticated() bool         // An identity is current
	HasRole(role domain.Role) bool // Exact role match
}

// Route is the authorization metadata of one view
type Route struct {
	Pattern       string      // Router pattern, e.g. /producto/:id
	Protected     bool        // Requires an identity
	RequiredRole  domain.Role // Optional; implies Protected
	DeniedMessage string      // Notice shown when the role is missing
}

// Outcome is what the router should do with a request
type Outcome int

const (
	OutcomeRender Outcome = iota
	OutcomeRedirect
	OutcomeDenied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRender:
		return "render"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Decision is the result of Authorize
type Decision struct {
	Outcome    Outcome
	RedirectTo string // Set for OutcomeRedirect
	From       string // Path to return to after login
	Title      string // Set for OutcomeDenied
	Message    string // Set for OutcomeDenied
}

// Authorize evaluates route for viewer. requestedPath is the concrete path
// being visited and is recorded so login can return there.
func Authorize(v Viewer, route Route, requestedPath string) Decision {
	if !route.Protected && route.RequiredRole == "" {
		return Decision{Outcome: OutcomeRender} // Public view
	}
	// Anonymous viewers go to login and come back afterwards
	if v == nil || !v.IsAuthenticated() {
		return Decision{Outcome: OutcomeRedirect, RedirectTo: LoginPath, From: requestedPath}
	}
	if route.RequiredRole != "" && !v.HasRole(route.RequiredRole) {
		msg := route.DeniedMessage // Route-specific notice
		if msg == "" {
			msg = "No tienes permisos para acceder a esta página."
		}
		return Decision{Outcome: OutcomeDenied, Title: "Acceso Denegado", Message: msg}
	}
	return Decision{Outcome: OutcomeRender} // Authenticated with the right role
}

// Routes is the storefront's view table
var Routes = []Route{
	{Pattern: "/"},
	{Pattern: "/productos"},
	{Pattern: "/producto/:id"},
	{Pattern: "/login"},
	{Pattern: "/carrito"},
	{Pattern: "/perfil", Protected: true},
	{Pattern: "/admin", Protected: true, RequiredRole: domain.RoleAdmin, DeniedMessage: "No tienes permisos para acceder al panel de administración."},
}

// Lookup finds the route whose pattern matches path. Patterns match their
// own sub-paths, so /admin covers /admin/usuarios. Unknown paths report false;
// the router sends those home.
func Lookup(path string) (Route, bool) {
	best, found := Route{}, false
	for _, r := range Routes {
		// Longest matching pattern wins
		if matches(r.Pattern, path) && (!found || len(r.Pattern) > len(best.Pattern)) {
			best, found = r, true
		}
	}
	return best, found
}

func matches(pattern, path string) bool {
	if pattern == "/" {
		return path == "/" // Home matches only itself
	}
	ps := strings.Split(strings.Trim(pattern, "/"), "/") // Pattern segments
	xs := strings.Split(strings.Trim(path, "/"), "/")    // Path segments
	if len(xs) < len(ps) {
		return false // Path shorter than the pattern
	}
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") {
			if xs[i] == "" {
				return false // Parameters need a value
			}
			continue
		}
		if seg != xs[i] {
			return false
		}
	}
	return true
}
