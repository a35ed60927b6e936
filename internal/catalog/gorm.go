package catalog

import (
	"context" // Request-scoped calls
	"errors"  // Error handling
	"fmt"     // Error wrapping
	"strings" // String manipulation

	"storefront/internal/domain" // Domain models

	"gorm.io/gorm" // ORM library
)

// GormCatalog reads and writes the products table
type GormCatalog struct {
	db *gorm.DB
}

// NewGormCatalog creates a catalog over db
func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	f = f.Normalized()
	query := c.db.WithContext(ctx).Model(&domain.Product{}) // Start building the query
	if f.Category != "" {
		query = query.Where("category = ?", f.Category) // Filter by category
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?", like, like, like)
	}
	var products []domain.Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *GormCatalog) Find(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := c.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func (c *GormCatalog) Create(ctx context.Context, p *domain.Product) error {
	if err := c.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}
