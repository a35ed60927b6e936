package catalog

import (
	"context" // Request-scoped calls
	"errors"  // Error handling
	"time"    // Timestamps

	"storefront/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library
)

// StaticCatalog serves a fixed product list after a simulated network delay
type StaticCatalog struct {
	products []domain.Product
	delay    time.Duration
}

// NewStaticCatalog copies products into a read-only catalog. Malformed
// products and repeated ids are logged and left out.
func NewStaticCatalog(products []domain.Product, delay time.Duration) *StaticCatalog {
	kept := make([]domain.Product, 0, len(products))
	seen := make(map[int64]struct{}, len(products))
	for _, p := range products {
		err := checkProduct(p)
		if _, dup := seen[p.ID]; err == nil && dup {
			err = errors.New("duplicate id")
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"product_id": p.ID,
				"error":      err.Error(),
			}).Warn("Skipping catalog product")
			continue
		}
		seen[p.ID] = struct{}{}
		kept = append(kept, p)
	}
	return &StaticCatalog{products: kept, delay: delay}
}

func checkProduct(p domain.Product) error {
	switch {
	case p.ID <= 0:
		return errors.New("id must be positive")
	case p.Name == "":
		return errors.New("missing name")
	case p.Price.IsNegative():
		return errors.New("negative price")
	case p.Stock < 0:
		return errors.New("negative stock")
	}
	return nil
}

func (c *StaticCatalog) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	if err := pause(ctx, c.delay); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *StaticCatalog) Find(ctx context.Context, id int64) (domain.Product, error) {
	if err := pause(ctx, c.delay); err != nil {
		return domain.Product{}, err
	}
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}
