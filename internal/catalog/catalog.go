// Package catalog serves the read-only product catalog the cart copies from,
// plus validated product creation for the admin panel.
package catalog

import (
	"context" // Request-scoped calls
	"errors"  // Error handling
	"strings" // String manipulation
	"time"    // Timestamps

	"storefront/internal/domain" // Domain models

	"github.com/shopspring/decimal" // Exact money arithmetic
)

// ErrProductNotFound is returned when no product has the requested id
var ErrProductNotFound = errors.New("product not found")

// Catalog reads products
type Catalog interface {
	List(ctx context.Context, f Filter) ([]domain.Product, error)
	Find(ctx context.Context, id int64) (domain.Product, error)
}

// Writer is implemented by catalogs that can store new products
type Writer interface {
	Create(ctx context.Context, p *domain.Product) error
}

// Filter narrows a listing. Zero value matches everything.
type Filter struct {
	Search   string // Case-insensitive substring of name, description or brand
	Category string // Exact category
}

// Normalized trims the search term
func (f Filter) Normalized() Filter {
	return Filter{Search: strings.TrimSpace(f.Search), Category: strings.TrimSpace(f.Category)}
}

// Matches reports whether p passes the filter
func (f Filter) Matches(p domain.Product) bool {
	f = f.Normalized()
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	for _, field := range []string{p.Name, p.Description, p.Brand} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// pause waits d or until ctx is done, the one suspend point of a simulated call
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SeedProducts is the demo catalog
func SeedProducts() []domain.Product {
	specs := []string{"venta por peso", "gris"}
	return []domain.Product{
		{ID: 1, Name: "Girgola fresca", Price: decimal.NewFromInt(999), Category: "fresco", Brand: "Pleurotus Ostreatus", Description: "Girgola fresca, lista para consumir.", Image: "https://cdn0.uncomo.com/es/posts/7/1/5/como_cocinar_las_girgolas_3517_600_square.jpg", Stock: 15, Rating: 4.8, Specs: specs, SKU: "SKU-GIR-FRE"},
		{ID: 2, Name: "Girgola seca", Price: decimal.NewFromInt(499), Category: "seco", Brand: "Pleurotus Ostreatus", Description: "Girgola deshidrata, seca, lista para usar.", Image: "https://via.placeholder.com/600x400/28a745/ffffff?text=Girgola+seca", Stock: 30, Rating: 4.5, Specs: specs, SKU: "SKU-GIR-SEC"},
		{ID: 3, Name: "Champiñon fresco", Price: decimal.NewFromInt(499), Category: "fresco", Brand: "Agaricus campestri", Description: "Champiñon fresco, lista para usar.", Image: "https://via.placeholder.com/600x400/28a745/ffffff?text=Champinon+fresco", Stock: 30, Rating: 4.5, Specs: specs, SKU: "SKU-CHA-FRE"},
		{ID: 4, Name: "Champiñon seco", Price: decimal.NewFromInt(499), Category: "seco", Brand: "Agaricus campestri", Description: "Champiñon seco deshidrata, seca, lista para usar.", Image: "https://via.placeholder.com/600x400/28a745/ffffff?text=Champinon+seco", Stock: 30, Rating: 4.5, Specs: specs, SKU: "SKU-CHA-SEC"},
		{ID: 5, Name: "Portobelo fresco", Price: decimal.NewFromInt(499), Category: "fresco", Brand: "Agaricus campestri", Description: "Portobelo fresco, lista para usar.", Image: "https://via.placeholder.com/600x400/28a745/ffffff?text=Portobelo+fresco", Stock: 30, Rating: 4.5, Specs: specs, SKU: "SKU-POR-FRE"},
		{ID: 6, Name: "Portobelo seco", Price: decimal.NewFromInt(499), Category: "seco", Brand: "Agaricus campestri", Description: "Portobelo seco deshidrata, seca, lista para usar.", Image: "https://via.placeholder.com/600x400/28a745/ffffff?text=Portobelo+seco", Stock: 30, Rating: 4.5, Specs: specs, SKU: "SKU-POR-SEC"},
	}
}

// Categories are the categories a product may be filed under
var Categories = []string{"fresco", "seco", "medicinal", "preparado", "extracto"}
