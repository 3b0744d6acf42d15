package items

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItemInputLegacyAliases(t *testing.T) {
	payload := `{"item_name":"Basmati Rice","price":80,"cost":65,"opening_stock":40,"unit_name":"kg"}`
	var input ItemInput
	require.NoError(t, json.Unmarshal([]byte(payload), &input))

	item := input.Item()
	require.Equal(t, "Basmati Rice", item.Name)
	require.Equal(t, 80.0, item.SalePrice)
	require.Equal(t, 65.0, item.PurchasePrice)
	require.Equal(t, 40.0, item.Stock)
	require.Equal(t, "kg", item.Unit)
	require.Equal(t, TypeProduct, item.Type)
	require.Equal(t, "active", item.Status)
}

func TestItemInputCanonicalWins(t *testing.T) {
	payload := `{"name":"Canonical","item_name":"Legacy","sale_price":10,"price":99,"stock":5,"current_stock":50}`
	var input ItemInput
	require.NoError(t, json.Unmarshal([]byte(payload), &input))

	item := input.Item()
	require.Equal(t, "Canonical", item.Name)
	require.Equal(t, 10.0, item.SalePrice)
	require.Equal(t, 5.0, item.Stock)
}

func TestItemInputZeroPriceIsPreserved(t *testing.T) {
	// An explicit zero must not fall through to an alias.
	payload := `{"name":"Freebie","sale_price":0,"price":12}`
	var input ItemInput
	require.NoError(t, json.Unmarshal([]byte(payload), &input))
	require.Equal(t, 0.0, input.Item().SalePrice)
}

func TestItemInputServiceType(t *testing.T) {
	var input ItemInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Delivery","type":"service"}`), &input))
	item := input.Item()
	require.Equal(t, TypeService, item.Type)
	require.Zero(t, item.Stock)
}
