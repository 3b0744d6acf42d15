package view

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizhub-erp/bizhub/internal/lineitem"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderInvoice(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = engine.RenderInvoice(rec, InvoiceData{
		Title:     "Tax Invoice",
		Number:    "INV-AB12CD34",
		Date:      "2026-06-15",
		PartyName: "Acme Traders",
		Lines: lineitem.Lines{
			{Name: "Widget", Quantity: 3, Price: 1250.5, Total: 3751.5},
		},
		Subtotal: 3751.5,
		Total:    3751.5,
		Paid:     1000,
		Balance:  2751.5,
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "INV-AB12CD34")
	assert.Contains(t, body, "Acme Traders")
	assert.Contains(t, body, "3,751.50")
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}
