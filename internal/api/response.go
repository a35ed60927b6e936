package api

import (
	"storefront/internal/cart"   // Cart store
	"storefront/internal/domain" // Importing domain models
)

// ProductResponse is a catalog product as the storefront shows it
type ProductResponse struct {
	ID               int64    `json:"id"`               // Product ID
	Nombre           string   `json:"nombre"`           // Display name
	Precio           float64  `json:"precio"`           // Unit price
	Categoria        string   `json:"categoria"`        // Category
	Marca            string   `json:"marca"`            // Brand
	Imagen           string   `json:"imagen"`           // Image URL
	Descripcion      string   `json:"descripcion"`      // Long description
	Stock            int      `json:"stock"`            // Units available
	EnStock          bool     `json:"enStock"`          // Can be added to the cart
	Rating           float64  `json:"rating"`           // Average rating
	Especificaciones []string `json:"especificaciones"` // Specifications
	SKU              string   `json:"sku"`              // Stock keeping unit
	Destacado        bool     `json:"destacado"`        // Featured
}

// LineItemResponse is one cart line
type LineItemResponse struct {
	ID          int64   `json:"id"`          // Product ID
	Nombre      string  `json:"nombre"`      // Name when added
	Precio      float64 `json:"precio"`      // Unit price when added
	Categoria   string  `json:"categoria"`   // Category
	Marca       string  `json:"marca"`       // Brand
	Imagen      string  `json:"imagen"`      // Image URL
	Descripcion string  `json:"descripcion"` // Description
	Quantity    int     `json:"quantity"`    // Units
	Subtotal    string  `json:"subtotal"`    // Price times quantity, two decimals
}

// CartResponse is the cart with its derived totals
type CartResponse struct {
	Items     []LineItemResponse `json:"items"`     // Lines in insertion order
	Total     string             `json:"total"`     // Sum of subtotals, two decimals
	ItemCount int                `json:"itemCount"` // Units across all lines
}

func toProductResponse(p domain.Product) ProductResponse {
	specs := p.Specs
	if specs == nil {
		specs = []string{}
	}
	return ProductResponse{
		ID:               p.ID,
		Nombre:           p.Name,
		Precio:           p.Price.InexactFloat64(),
		Categoria:        p.Category,
		Marca:            p.Brand,
		Imagen:           p.Image,
		Descripcion:      p.Description,
		Stock:            p.Stock,
		EnStock:          p.InStock(),
		Rating:           p.Rating,
		Especificaciones: specs,
		SKU:              p.SKU,
		Destacado:        p.Featured,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

func toLineItemResponses(items []domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = LineItemResponse{
			ID:          item.ProductID,
			Nombre:      item.Name,
			Precio:      item.UnitPrice.InexactFloat64(),
			Categoria:   item.Category,
			Marca:       item.Brand,
			Imagen:      item.Image,
			Descripcion: item.Description,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal().StringFixed(2),
		}
	}
	return out
}

func toCartResponse(c *cart.Store) CartResponse {
	return CartResponse{
		Items:     toLineItemResponses(c.Items()),
		Total:     c.Total().StringFixed(2),
		ItemCount: c.ItemCount(),
	}
}
