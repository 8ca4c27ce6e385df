package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
)

// Product is a catalog entry. Stock is the single source of truth for
// availability; there is no separate reservation ledger.
type Product struct {
	ID             int64
	CreatedBy      string
	Description    string
	Price          decimal.Decimal
	Barcode        string
	Section        string
	Stock          int
	ExpirationDate *time.Time
	Images         []string
}

// Available reports whether the product can currently be ordered.
func (p Product) Available() bool { return p.Stock > 0 }

// Validate enforces the field invariants: price >= 0, stock >= 0 and the
// mandatory text fields present.
func (p Product) Validate() error {
	if p.Description == "" {
		return fault.New(fault.KindValidation, "product description is required")
	}
	if p.Barcode == "" {
		return fault.New(fault.KindValidation, "product barcode is required")
	}
	if p.Section == "" {
		return fault.New(fault.KindValidation, "product section is required")
	}
	if p.Price.IsNegative() {
		return fault.New(fault.KindValidation, "product price must not be negative")
	}
	if p.Stock < 0 {
		return fault.New(fault.KindValidation, "product stock must not be negative")
	}
	return nil
}
