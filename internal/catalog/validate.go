package catalog

import (
	"encoding/json" // JSON decoding
	"math"          // Integer bounds
	"reflect"       // Field values for validators
	"strconv"       // Number formatting
	"strings"       // String manipulation
	"time"          // Timestamps

	"storefront/internal/domain" // Domain models

	"github.com/go-playground/validator/v10" // Struct validation
	"github.com/shopspring/decimal"          // Exact money arithmetic
)

// ProductInput is the admin product form
type ProductInput struct {
	Nombre      string     `json:"nombre" validate:"required,min=3"`
	Descripcion string     `json:"descripcion" validate:"required,min=10"`
	Precio      FormNumber `json:"precio" validate:"required,price"`
	Categoria   string     `json:"categoria" validate:"required,oneof=fresco seco medicinal preparado extracto"`
	Stock       FormNumber `json:"stock" validate:"required,units"`
	Marca       string     `json:"marca" validate:"required"`
	Imagen      string     `json:"imagen" validate:"omitempty,url"`
	SKU         string     `json:"sku" validate:"omitempty,max=64"`
	Destacado   bool       `json:"destacado"`
}

// FormNumber is a numeric form field kept as typed. It accepts a JSON number
// or a string so malformed values reach validation instead of failing to decode.
type FormNumber string

func (n *FormNumber) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*n = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = FormNumber(strings.TrimSpace(s))
	default:
		*n = FormNumber(raw) // number, bool, object or array token
	}
	return nil
}

// Decimal parses the field exactly
func (n FormNumber) Decimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// fieldOrder is the order fields are reported in the summary
var fieldOrder = []string{"nombre", "descripcion", "precio", "categoria", "stock", "marca", "imagen", "sku"}

// messages maps field and failed rule to the message shown next to the field
var messages = map[string]map[string]string{
	"nombre":      {"required": "El nombre es obligatorio", "min": "Mínimo 3 caracteres"},
	"descripcion": {"required": "La descripción es obligatoria", "min": "Mínimo 10 caracteres"},
	"precio":      {"required": "El precio es obligatorio", "price": "El precio debe ser mayor a 0"},
	"categoria":   {"required": "La categoría es obligatoria", "oneof": "La categoría no es válida"},
	"stock":       {"required": "El stock es obligatorio", "units": "El stock debe ser un número entero no negativo"},
	"marca":       {"required": "La marca es obligatoria"},
	"imagen":      {"url": "La imagen debe ser una URL válida"},
	"sku":         {"max": "Máximo 64 caracteres"},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	// price: a decimal greater than zero
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, ok := FormNumber(fl.Field().String()).Decimal()
		return ok && d.IsPositive()
	})
	// units: a whole number from zero up to MaxInt32
	_ = v.RegisterValidation("units", func(fl validator.FieldLevel) bool {
		d, ok := FormNumber(fl.Field().String()).Decimal()
		return ok && d.IsInteger() && !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(math.MaxInt32))
	})
	return v
}

// ValidationErrors maps each failing field to its message
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return "product validation failed: " + strings.Join(v.Summary(), "; ")
}

// Summary lists the messages in form order
func (v ValidationErrors) Summary() []string {
	out := make([]string, 0, len(v))
	for _, field := range fieldOrder {
		if msg, ok := v[field]; ok {
			out = append(out, msg)
		}
	}
	return out
}

// Validate trims the text fields of in and checks every rule, reporting all
// failures at once. It returns nil or a ValidationErrors.
func Validate(in *ProductInput) error {
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Descripcion = strings.TrimSpace(in.Descripcion)
	in.Categoria = strings.TrimSpace(in.Categoria)
	in.Marca = strings.TrimSpace(in.Marca)
	in.Imagen = strings.TrimSpace(in.Imagen)
	in.SKU = strings.TrimSpace(in.SKU)

	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := ValidationErrors{}
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = "Valor inválido"
		}
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = msg
		}
	}
	return out
}

// Product builds the product described by a validated input. A blank SKU
// defaults to SKU-<unix millis of now>.
func (in ProductInput) Product(now time.Time) domain.Product {
	sku := in.SKU
	if sku == "" {
		sku = "SKU-" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	p := domain.Product{
		Name:        in.Nombre,
		Description: in.Descripcion,
		Category:    in.Categoria,
		Brand:       in.Marca,
		Image:       in.Imagen,
		SKU:         sku,
		Featured:    in.Destacado,
	}
	if price, ok := in.Precio.Decimal(); ok {
		p.Price = price
	}
	if stock, ok := in.Stock.Decimal(); ok {
		p.Stock = int(stock.IntPart())
	}
	return p
}
