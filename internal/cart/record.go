package cart

import (
	"encoding/json"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// lineItemRecord is the persisted shape of one line item
type lineItemRecord struct {
	ID          int64       `json:"id"`
	Nombre      string      `json:"nombre"`
	Precio      json.Number `json:"precio"` // Exact decimal, written as a JSON number
	Categoria   string      `json:"categoria"`
	Marca       string      `json:"marca"`
	Imagen      string      `json:"imagen"`
	Descripcion string      `json:"descripcion"`
	Quantity    int         `json:"quantity"`
}

func toRecord(item domain.LineItem) lineItemRecord {
	return lineItemRecord{
		ID:          item.ProductID,
		Nombre:      item.Name,
		Precio:      json.Number(item.UnitPrice.String()),
		Categoria:   item.Category,
		Marca:       item.Brand,
		Imagen:      item.Image,
		Descripcion: item.Description,
		Quantity:    item.Quantity,
	}
}

// toItem converts a record, reporting false when it cannot be a line item
func (r lineItemRecord) toItem() (domain.LineItem, bool) {
	price, err := decimal.NewFromString(r.Precio.String()) // Parse the price exactly
	if err != nil || price.IsNegative() {
		return domain.LineItem{}, false
	}
	if r.ID <= 0 || r.Quantity < 1 {
		return domain.LineItem{}, false
	}
	return domain.LineItem{
		ProductID:   r.ID,
		Name:        r.Nombre,
		UnitPrice:   price,
		Quantity:    r.Quantity,
		Category:    r.Categoria,
		Brand:       r.Marca,
		Image:       r.Imagen,
		Description: r.Descripcion,
	}, true
}

// encodeItems serializes items as a JSON array, never null
func encodeItems(items []domain.LineItem) (string, error) {
	records := make([]lineItemRecord, len(items))
	for i, item := range items {
		records[i] = toRecord(item)
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeItems parses a persisted cart. Invalid entries are dropped and
// duplicate product ids keep their first occurrence. The int result is the
// number of entries dropped.
func decodeItems(raw string) ([]domain.LineItem, int, error) {
	var records []lineItemRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, 0, err
	}
	items := make([]domain.LineItem, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	dropped := 0
	for _, r := range records {
		item, ok := r.toItem()
		if !ok {
			dropped++ // Invalid entry
			continue
		}
		if _, dup := seen[r.ID]; dup {
			dropped++ // Repeated product id, first one wins
			continue
		}
		seen[r.ID] = struct{}{}
		items = append(items, item)
	}
	return items, dropped, nil
}
