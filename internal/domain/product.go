package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusInactive   ProductStatus = "inactive"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

type Product struct {
	ID          int
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	OfferPrice  *decimal.Decimal
	Discount    *decimal.Decimal
	SKU         string
	Stock       int
	Status      ProductStatus
	VendorID    int
	CategoryID  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PriceMinorUnits converts the decimal price to integer cents, rounding half
// away from zero.
func (p Product) PriceMinorUnits() int64 {
	return p.Price.Shift(2).Round(0).IntPart()
}
