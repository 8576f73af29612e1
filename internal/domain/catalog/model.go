package catalog

import (
	"encoding/json"

	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/shopspring/decimal"
)

// Catalog is the raw product catalog document as served by the billing
// platform: a nested product → rate plan → charge tree. Identifiers are
// unique within their parent.
type Catalog struct {
	Products []Product `json:"products"`
}

type Product struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	RatePlans []RatePlan `json:"productRatePlans"`
}

type RatePlan struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Charges []Charge `json:"productRatePlanCharges"`
}

type Charge struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Pricing []Price `json:"pricing"`
}

type Price struct {
	Currency string          `json:"currency"`
	Price    decimal.Decimal `json:"price"`
}

// Parse decodes a raw catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to parse catalog document").
			Mark(ierr.ErrSystem)
	}
	return &c, nil
}
