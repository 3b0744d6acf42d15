package items

import "time"

// Item kinds. One overloaded table holds products, services, and the
// category/unit master records, distinguished by Type.
const (
	TypeProduct  = "product"
	TypeService  = "service"
	TypeCategory = "category"
	TypeUnit     = "unit"
)

// Item is the canonical inventory record.
type Item struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name" validate:"required"`
	Type          string    `json:"type" validate:"oneof=product service category unit"`
	Category      string    `json:"category"`
	Unit          string    `json:"unit"`
	SalePrice     float64   `json:"sale_price" validate:"gte=0"`
	PurchasePrice float64   `json:"purchase_price" validate:"gte=0"`
	Stock         float64   `json:"stock"`
	MinStock      float64   `json:"min_stock" validate:"gte=0"`
	TaxRate       float64   `json:"tax_rate" validate:"gte=0"`
	Status        string    `json:"status" validate:"oneof=active inactive"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
