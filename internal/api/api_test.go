package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/db"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/session"
	"storefront/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// client replays the token the server hands out, like a browser keeping local storage
type client struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func newTestServer(t *testing.T, cat catalog.Catalog) *client {
	t.Helper()
	reg := prometheus.NewRegistry()
	r := gin.New()
	RegisterRoutes(r, Deps{
		State:          storage.NewMemoryStore(),
		Directory:      session.NewStaticDirectory(session.SeedCredentials),
		Catalog:        cat,
		Metrics:        metrics.NewStoreMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		JWTSecret:      "test-secret",
		ClientTokenTTL: time.Hour,
	})
	return &client{t: t, r: r}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(middleware.ClientTokenHeader, c.token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	if tok := w.Header().Get(middleware.ClientTokenHeader); tok != "" {
		c.token = tok
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestProducts_ListAndFilter(t *testing.T) {
	c := newTestServer(t, catalog.NewStaticCatalog(catalog.SeedProducts(), 0))

	w := c.do(http.MethodGet, "/productos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[struct {
		Productos []ProductResponse `json:"productos"`
		Total     int               `json:"total"`
	}](t, w)
	assert.Equal(t, 6, all.Total)
	assert.Equal(t, 999.0, all.Productos[0].Precio)

	w = c.do(http.MethodGet, "/productos?categoria=seco&search=girgola", nil)
	require.Equal(t, http.StatusOK, w.Code)
	seco := decode[struct {
		Productos []ProductResponse `json:"productos"`
	}](t, w)
	require.Len(t, seco.Productos, 1)
	assert.Equal(t, "Girgola seca", seco.Productos[0].Nombre)
}

func TestProductDetail_NotFound(t *testing.T) {
	c := newTestServer(t, catalog.NewStaticCatalog(catalog.SeedProducts(), 0))

	for _, path := range []string{"/producto/99", "/producto/abc"} {
		w := c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), MessageProductNotFound)
	}

	w := c.do(http.MethodGet, "/producto/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Girgola fresca", decode[ProductResponse](t, w).Nombre)
}

func TestLogin_Validation(t *testing.T) {
	c := newTestServer(t, catalog.NewStaticCatalog(catalog.SeedProducts(), 0))

	w := c.do(http.MethodPost, "/login", LoginRequest{Email: "admin@tienda.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), MessageMissingFields)

	w = c.do(http.MethodPost, "/login", LoginRequest{Email: "admin@tienda.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), MessageInvalidCredentials)

	w = c.do(http.MethodGet, "/perfil", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestLogin_RedirectsToFrom(t *testing.T) {
	c := newTestServer(t, catalog.NewStaticCatalog(catalog.SeedProducts(), 0))

	w := c.do(http.MethodPost, "/login?from=/perfil", LoginRequest{Email: "cliente@tienda.com", Password: "cliente123"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Redirect string `json:"redirect"`
	}](t, w)
	assert.Equal(t, "/perfil", body.Redirect)

	w = c.do(http.MethodGet, "/perfil", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cliente Premium")

	w = c.do(http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/perfil", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestReturnPath_StaysOnSite(t *testing.T) {
	assert.Equal(t, "/", returnPath(""))
	assert.Equal(t, "/", returnPath("https://evil.example"))
	assert.Equal(t, "/", returnPath("//evil.example"))
	assert.Equal(t, "/", returnPath("/\\evil.example"))
	assert.Equal(t, "/", returnPath("/\\/evil.example"))
	assert.Equal(t, "/", returnPath("/\t/evil.example"))
	assert.Equal(t, "/", returnPath("/\n/evil.example"))
	assert.Equal(t, "/", returnPath("/perfil\x7f"))
	assert.Equal(t, "/", returnPath("javascript:alert(1)"))
	assert.Equal(t, "/carrito", returnPath("/carrito"))
	assert.Equal(t, "/productos?search=girgola", returnPath("/productos?search=girgola"))
}

func TestLogin_IgnoresOffsiteFrom(t *testing.T) {
	c := newTestServer(t, catalog.NewStaticCatalog(catalog.SeedProducts(), 0))

	w := c.do(http.MethodPost, "/login?from=%2F%5Cevil.example", LoginRequest{Email: "cliente@tienda.com", Password: "cliente123"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Redirect string `json:"redirect"`
	}](t, w)
	assert.Equal(t, "/", body.Redirect)
}

func TestCart_Flow(t *testing.T) {
	c := newTestServer(t, catalog.NewStaticCatalog(catalog.SeedProducts(), 0))

	w := c.do(http.MethodPost, "/carrito/items", AddItemRequest{ID: 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "¡Girgola fresca agregado al carrito!")
	c.do(http.MethodPost, "/carrito/items", AddItemRequest{ID: 1})
	c.do(http.MethodPost, "/carrito/items", AddItemRequest{ID: 2})

	w = c.do(http.MethodGet, "/carrito", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[CartResponse](t, w)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, "2497.00", cart.Total)

	qty := 5
	w = c.do(http.MethodPut, "/carrito/items/2", UpdateItemRequest{Quantity: &qty})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, decode[CartResponse](t, w).ItemCount)

	zero := 0
	w = c.do(http.MethodPut, "/carrito/items/2", UpdateItemRequest{Quantity: &zero})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[CartResponse](t, w).Items, 1)

	w = c.do(http.MethodDelete, "/carrito/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.00", decode[CartResponse](t, w).Total)

	w = c.do(http.MethodPost, "/carrito/items", AddItemRequest{ID: 42})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCart_OutOfStock(t *testing.T) {
	products := catalog.SeedProducts()
	products[0].Stock = 0
	c := newTestServer(t, catalog.NewStaticCatalog(products, 0))

	w := c.do(http.MethodPost, "/carrito/items", AddItemRequest{ID: 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), MessageOutOfStock)
}

func TestCheckout_Flow(t *testing.T) {
	c := newTestServer(t, catalog.NewStaticCatalog(catalog.SeedProducts(), 0))

	c.do(http.MethodPost, "/carrito/items", AddItemRequest{ID: 1})

	// anonymous shoppers are sent to login and back to the cart
	w := c.do(http.MethodPost, "/carrito/checkout", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "/login?from=%2Fcarrito")

	w = c.do(http.MethodPost, "/login?from=/carrito", LoginRequest{Email: "cliente@tienda.com", Password: "cliente123"})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodPost, "/carrito/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Message  string `json:"message"`
		Redirect string `json:"redirect"`
		Total    string `json:"total"`
	}](t, w)
	assert.Equal(t, "/", body.Redirect)
	assert.Equal(t, "999.00", body.Total)
	assert.Contains(t, body.Message, "Gracias por tu compra")

	w = c.do(http.MethodGet, "/carrito", nil)
	assert.Equal(t, 0, decode[CartResponse](t, w).ItemCount)

	w = c.do(http.MethodPost, "/carrito/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Tu carrito está vacío")

	// the session survives checkout
	w = c.do(http.MethodGet, "/perfil", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `storefront_checkouts_total{result="success"} 1`)
}

func TestAdmin_Gate(t *testing.T) {
	c := newTestServer(t, catalog.NewStaticCatalog(catalog.SeedProducts(), 0))

	w := c.do(http.MethodGet, "/admin/usuarios", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?from=%2Fadmin%2Fusuarios", w.Header().Get("Location"))

	c.do(http.MethodPost, "/login", LoginRequest{Email: "vendedor@tienda.com", Password: "vendedor123"})
	w = c.do(http.MethodGet, "/admin/usuarios", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "No tienes permisos para acceder al panel de administración.")

	c.do(http.MethodPost, "/logout", nil)
	c.do(http.MethodPost, "/login", LoginRequest{Email: "admin@tienda.com", Password: "admin123"})
	w = c.do(http.MethodGet, "/admin/usuarios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "admin123")
	assert.Contains(t, w.Body.String(), `"total":4`)
}

func TestAdmin_CreateProduct(t *testing.T) {
	conn, err := db.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	c := newTestServer(t, catalog.NewGormCatalog(conn))
	c.do(http.MethodPost, "/login", LoginRequest{Email: "admin@tienda.com", Password: "admin123"})

	w := c.do(http.MethodPost, "/admin/productos", map[string]any{"nombre": "Go"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	invalid := decode[struct {
		Error   string            `json:"error"`
		Errors  map[string]string `json:"errors"`
		Summary []string          `json:"summary"`
	}](t, w)
	assert.Equal(t, MessageFormErrors, invalid.Error)
	assert.Equal(t, "Mínimo 3 caracteres", invalid.Errors["nombre"])
	assert.Equal(t, "Mínimo 3 caracteres", invalid.Summary[0])

	w = c.do(http.MethodPost, "/admin/productos", map[string]any{
		"nombre":      "Melena de león",
		"descripcion": "Hongo medicinal deshidratado.",
		"precio":      "abc",
		"categoria":   "medicinal",
		"stock":       1.5,
		"marca":       "Hericium erinaceus",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	malformed := decode[struct {
		Errors  map[string]string `json:"errors"`
		Summary []string          `json:"summary"`
	}](t, w)
	assert.Equal(t, "El precio debe ser mayor a 0", malformed.Errors["precio"])
	assert.Equal(t, "El stock debe ser un número entero no negativo", malformed.Errors["stock"])
	assert.Len(t, malformed.Summary, 2)

	w = c.do(http.MethodPost, "/admin/productos", map[string]any{
		"nombre":      "Melena de león",
		"descripcion": "Hongo medicinal deshidratado.",
		"precio":      1500.5,
		"categoria":   "medicinal",
		"stock":       8,
		"marca":       "Hericium erinaceus",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[struct {
		Producto ProductResponse `json:"producto"`
		Guardado bool            `json:"guardado"`
	}](t, w)
	assert.True(t, created.Guardado)
	assert.NotZero(t, created.Producto.ID)
	assert.Regexp(t, `^SKU-\d+$`, created.Producto.SKU)

	w = c.do(http.MethodGet, "/admin/productos?categoria=medicinal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Melena de león")
}
