package lineitem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeNativeArray(t *testing.T) {
	raw := []byte(`[{"item_id":3,"name":"Sugar","quantity":2,"price":45.5,"total":91}]`)
	lines, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "Sugar", lines[0].Name)
	require.Equal(t, 91.0, lines[0].Total)
}

func TestDecodeStringWrappedArray(t *testing.T) {
	// Some insertion paths stored the column as a JSON string.
	raw := []byte(`"[{\"item_name\":\"Rice\",\"qty\":3,\"rate\":20}]"`)
	lines, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "Rice", lines[0].Name)
	require.Equal(t, 3.0, lines[0].Quantity)
	require.Equal(t, 20.0, lines[0].Price)
	require.Equal(t, 60.0, lines[0].Total, "total derived from qty*rate")
}

func TestRoundTripStringVersusNative(t *testing.T) {
	native := []byte(`[{"name":"Tea","quantity":1,"price":12,"total":12}]`)
	fromNative, err := Decode(native)
	require.NoError(t, err)

	quoted, err := json.Marshal(string(native))
	require.NoError(t, err)
	fromString, err := Decode(quoted)
	require.NoError(t, err)

	require.Equal(t, fromNative, fromString)

	encoded, err := Encode(fromString)
	require.NoError(t, err)
	again, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, fromNative, again)
}

func TestDecodeAliases(t *testing.T) {
	raw := []byte(`[{"id":9,"item_name":"Salt","qty":4,"sale_price":5,"amount":20,"tax_rate":5}]`)
	lines, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, Lines{{ItemID: 9, Name: "Salt", Quantity: 4, Price: 5, TaxRate: 5, Total: 20}}, lines)
}

func TestDecodeEmpty(t *testing.T) {
	lines, err := Decode(nil)
	require.NoError(t, err)
	require.Nil(t, lines)

	lines, err = Decode([]byte(`null`))
	require.NoError(t, err)
	require.Nil(t, lines)
}

func TestTotal(t *testing.T) {
	require.Equal(t, 30.0, Total(Lines{{Total: 10}, {Total: 20}}))
	require.Equal(t, 0.0, Total(nil))
}
