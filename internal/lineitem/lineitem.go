// Package lineitem holds the embedded line-item array stored on sale and
// purchase rows. Historic writers stored the column either as a native JSON
// array or as a JSON string containing an array, and used several field
// aliases per line; Decode accepts all of them and yields the canonical form.
package lineitem

import (
	"encoding/json"
	"fmt"
)

// Line is the canonical shape of one document line.
type Line struct {
	ItemID   int64   `json:"item_id,omitempty"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	TaxRate  float64 `json:"tax_rate,omitempty"`
	Total    float64 `json:"total"`
}

// Lines is a slice of canonical lines with a tolerant JSON decoder.
type Lines []Line

type lineAliases struct {
	ItemID    int64    `json:"item_id"`
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	ItemName  string   `json:"item_name"`
	Quantity  *float64 `json:"quantity"`
	Qty       *float64 `json:"qty"`
	Price     *float64 `json:"price"`
	SalePrice *float64 `json:"sale_price"`
	Rate      *float64 `json:"rate"`
	TaxRate   float64  `json:"tax_rate"`
	Total     *float64 `json:"total"`
	Amount    *float64 `json:"amount"`
}

func pick(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// UnmarshalJSON resolves field aliases into the canonical Line.
func (l *Line) UnmarshalJSON(data []byte) error {
	var a lineAliases
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	name := a.Name
	if name == "" {
		name = a.ItemName
	}
	itemID := a.ItemID
	if itemID == 0 {
		itemID = a.ID
	}
	qty := pick(a.Quantity, a.Qty)
	price := pick(a.Price, a.SalePrice, a.Rate)
	total := pick(a.Total, a.Amount)
	if total == 0 {
		total = qty * price
	}
	*l = Line{
		ItemID:   itemID,
		Name:     name,
		Quantity: qty,
		Price:    price,
		TaxRate:  a.TaxRate,
		Total:    total,
	}
	return nil
}

// UnmarshalJSON accepts either a JSON array of lines or a JSON string that
// itself encodes such an array.
func (ls *Lines) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		data = []byte(inner)
	}
	if string(data) == "null" || len(data) == 0 {
		*ls = nil
		return nil
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("lineitem: decode lines: %w", err)
	}
	*ls = lines
	return nil
}

// Decode parses a raw database column value (array or string-wrapped array).
func Decode(raw []byte) (Lines, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var ls Lines
	if err := ls.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return ls, nil
}

// Encode serializes lines canonically for storage.
func Encode(ls Lines) ([]byte, error) {
	if ls == nil {
		ls = Lines{}
	}
	return json.Marshal(ls)
}

// Total sums the line totals.
func Total(ls Lines) float64 {
	var sum float64
	for _, l := range ls {
		sum += l.Total
	}
	return sum
}
