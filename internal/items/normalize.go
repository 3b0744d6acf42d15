package items

// ItemInput carries an inbound item payload. The historic schema accumulated
// alias names for most fields (sale_price vs price, item_name vs name,
// opening_stock vs stock vs current_stock); this adapter resolves them once
// at the decode boundary so the rest of the code only sees canonical fields.
type ItemInput struct {
	Name     string `json:"name"`
	ItemName string `json:"item_name"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	UnitName string `json:"unit_name"`

	SalePrice *float64 `json:"sale_price"`
	Price     *float64 `json:"price"`

	PurchasePrice *float64 `json:"purchase_price"`
	Cost          *float64 `json:"cost"`

	Stock        *float64 `json:"stock"`
	OpeningStock *float64 `json:"opening_stock"`
	CurrentStock *float64 `json:"current_stock"`

	MinStock float64 `json:"min_stock"`
	TaxRate  float64 `json:"tax_rate"`
	Status   string  `json:"status"`
}

func firstSet(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// Item maps the input onto the canonical entity. Canonical fields win over
// aliases when both are present.
func (in ItemInput) Item() Item {
	name := in.Name
	if name == "" {
		name = in.ItemName
	}
	unit := in.Unit
	if unit == "" {
		unit = in.UnitName
	}
	typ := in.Type
	if typ == "" {
		typ = TypeProduct
	}
	status := in.Status
	if status == "" {
		status = "active"
	}
	return Item{
		Name:          name,
		Type:          typ,
		Category:      in.Category,
		Unit:          unit,
		SalePrice:     firstSet(in.SalePrice, in.Price),
		PurchasePrice: firstSet(in.PurchasePrice, in.Cost),
		Stock:         firstSet(in.Stock, in.OpeningStock, in.CurrentStock),
		MinStock:      in.MinStock,
		TaxRate:       in.TaxRate,
		Status:        status,
	}
}
