package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bizhub-erp/bizhub/internal/lineitem"
	"github.com/bizhub-erp/bizhub/web"
)

// Engine renders printable HTML documents.
type Engine struct {
	templates *template.Template
}

// InvoiceData feeds the invoice and bill templates.
type InvoiceData struct {
	Title     string
	Number    string
	Date      string
	PartyName string
	Lines     lineitem.Lines
	Subtotal  float64
	TaxAmount float64
	Discount  float64
	Total     float64
	Paid      float64
	Balance   float64
	Notes     string
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	printer := message.NewPrinter(language.English)
	funcMap := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"formatMoney": func(v float64) string {
			return printer.Sprintf("%.2f", v)
		},
		"formatQty": func(v float64) string {
			if v == float64(int64(v)) {
				return printer.Sprintf("%d", int64(v))
			}
			return printer.Sprintf("%.2f", v)
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/documents/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// RenderInvoice writes the printable invoice document.
func (e *Engine) RenderInvoice(w http.ResponseWriter, data InvoiceData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, "documents/invoice", data)
}

// InvoiceHTML renders the invoice document into memory, for callers that
// post-process the markup instead of serving it directly.
func (e *Engine) InvoiceHTML(data InvoiceData) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, "documents/invoice", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
