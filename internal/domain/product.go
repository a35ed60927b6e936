package domain

import "github.com/shopspring/decimal"

// Product Model, one catalog entry
type Product struct {
	ID          int64           `gorm:"primaryKey"`                  // Primary key
	Name        string          `gorm:"not null"`                    // Display name
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"` // Unit price
	Category    string          `gorm:"index;not null"`              // Category, e.g. fresco or seco
	Brand       string          `gorm:"not null"`                    // Brand or species
	Image       string          `gorm:"size:512"`                    // Image URL
	Description string          `gorm:"type:text"`                   // Long description
	Stock       int             `gorm:"not null;default:0"`          // Units available
	Rating      float64         `gorm:"default:0"`                   // Average rating
	Specs       []string        `gorm:"serializer:json"`             // Free-form specifications
	SKU         string          `gorm:"uniqueIndex;size:64"`         // Stock keeping unit
	Featured    bool            `gorm:"default:false"`               // Highlighted in listings
}

// InStock reports whether the product can be added to a cart
func (p Product) InStock() bool {
	return p.Stock > 0
}
