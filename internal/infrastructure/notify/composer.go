package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/alexanderovie/integrity/internal/application"
	"github.com/alexanderovie/integrity/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	customerSubject = "Payment Confirmed - Integrity Clean Solutions"
	operatorSubject = "New Payment Received - Integrity Clean Solutions"
	notAvailable    = "N/A"
)

type row struct {
	Label string
	Value string
}

type property struct {
	SqFt      string
	Bedrooms  string
	Bathrooms string
	Frequency string
	Extras    string
}

type view struct {
	Title        string
	Tagline      string
	CustomerName string
	Rows         []row
	Property     *property
}

type Composer struct {
	templates *template.Template
}

func NewComposer() (*Composer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse notification templates: %w", err)
	}
	return &Composer{templates: t}, nil
}

var _ application.NotificationComposer = (*Composer)(nil)

func (c *Composer) CustomerConfirmation(order application.OrderSummary) (application.Content, error) {
	name := order.CustomerName
	if name == "" {
		name = "Customer"
	}

	v := view{
		Title:        "Payment Confirmed",
		Tagline:      "Professional Cleaning Services",
		CustomerName: name,
		Rows: []row{
			{"Transaction ID:", shortID(order.SessionID, 20)},
			{"Amount Paid:", "$" + domain.FormatMinorUnits(order.AmountMinor)},
			{"Payment Date:", order.CompletedAt.Format("January 2, 2006")},
			{"Status:", "Confirmed"},
		},
		Property: propertyView(order.Quote),
	}

	return c.render("customer_confirmation", customerSubject, v)
}

func (c *Composer) OperatorNotification(order application.OrderSummary) (application.Content, error) {
	v := view{
		Title:   "New Payment Received",
		Tagline: "Automated Notification System",
		Rows: []row{
			{"Transaction ID:", shortID(order.SessionID, 25)},
			{"Customer:", orNA(order.CustomerName)},
			{"Customer Email:", orNA(order.CustomerEmail)},
			{"Amount:", "$" + domain.FormatMinorUnits(order.AmountMinor)},
			{"Service:", orNA(order.ServiceName)},
			{"Date and Time:", order.CompletedAt.Format("January 2, 2006 15:04 MST")},
		},
		Property: propertyView(order.Quote),
	}

	return c.render("operator_notification", operatorSubject, v)
}

func (c *Composer) render(name, subject string, v view) (application.Content, error) {
	var buf bytes.Buffer
	if err := c.templates.ExecuteTemplate(&buf, name, v); err != nil {
		return application.Content{}, fmt.Errorf("render %s: %w", name, err)
	}
	return application.Content{Subject: subject, HTML: buf.String()}, nil
}

// propertyView is nil when the quote did not capture a property size.
func propertyView(q domain.QuoteSnapshot) *property {
	if q.PropertySize == "" {
		return nil
	}
	return &property{
		SqFt:      string(q.PropertySize),
		Bedrooms:  string(q.Bedrooms),
		Bathrooms: string(q.Bathrooms),
		Frequency: q.Frequency,
		Extras:    strings.Join(q.Extras, ", "),
	}
}

func shortID(id domain.SessionID, n int) string {
	s := string(id)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
