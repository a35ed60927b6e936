package catalog

import (
	"context" // Request-scoped calls
	"time"    // Timestamps

	"storefront/internal/domain" // Domain models
)

// Create validates in and stores the resulting product when cat is a Writer.
// Read-only catalogs only simulate the save: they wait saveDelay and return the
// product unsaved. The bool reports whether the product was stored.
func Create(ctx context.Context, cat Catalog, in ProductInput, saveDelay time.Duration, now time.Time) (domain.Product, bool, error) {
	if err := Validate(&in); err != nil {
		return domain.Product{}, false, err
	}
	p := in.Product(now)

	w, ok := cat.(Writer)
	if !ok {
		if err := pause(ctx, saveDelay); err != nil {
			return domain.Product{}, false, err
		}
		return p, false, nil
	}
	if err := w.Create(ctx, &p); err != nil {
		return domain.Product{}, false, err
	}
	return p, true, nil
}
