package email

import (
	"bytes"
	"embed"
	"fmt"
	"github.com/Koushikachar/phone-case-E-commerce/internal/db"
	"github.com/go-openapi/strfmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const orderReceivedTemplate = "order_received.html"

type OrderReceivedData struct {
	OrderID         string
	OrderDate       string
	ShippingAddress db.Address
}

func NewOrderReceivedData(orderID string, orderDate time.Time, shipping db.Address) OrderReceivedData {
	return OrderReceivedData{
		OrderID:         orderID,
		OrderDate:       strfmt.Date(orderDate).String(),
		ShippingAddress: shipping,
	}
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Renderer{templates: tmpl}, nil
}

// Render produces the HTML body of the order received email. It has no side
// effects.
func (r *Renderer) Render(data OrderReceivedData) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, orderReceivedTemplate, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", orderReceivedTemplate, err)
	}

	return buf.String(), nil
}
