// Package catalog holds the static list of services sold by the storefront.
package catalog

import (
	"github.com/alexanderovie/integrity/internal/domain"
)

const DefaultServiceID = "regular-cleaning"

var services = []domain.ServiceDescriptor{
	{
		ID:          "regular-cleaning",
		Name:        "Regular Cleaning",
		Description: "Weekly or bi-weekly cleaning service for homes and offices",
		BasePrice:   15000,
		Currency:    domain.CurrencyUSD,
	},
	{
		ID:          "deep-cleaning",
		Name:        "Deep Cleaning",
		Description: "Thorough cleaning including areas that are not usually cleaned",
		BasePrice:   30000,
		Currency:    domain.CurrencyUSD,
	},
	{
		ID:          "move-in-out",
		Name:        "Move-In/Move-Out Cleaning",
		Description: "Complete cleaning for moving in or out",
		BasePrice:   25000,
		Currency:    domain.CurrencyUSD,
	},
	{
		ID:          "post-construction",
		Name:        "Post-Construction Cleaning",
		Description: "Specialized cleaning after construction work",
		BasePrice:   50000,
		Currency:    domain.CurrencyUSD,
	},
}

// serviceTypes maps quote form service types onto catalog ids.
var serviceTypes = map[string]string{
	"Standard Clean":    "regular-cleaning",
	"Deep Cleaning":     "deep-cleaning",
	"Move-in Clean":     "move-in-out",
	"Move-out Clean":    "move-in-out",
	"Post-Construction": "post-construction",
	"One-Time Clean":    "regular-cleaning",
}

// Catalog is an immutable lookup built once at startup. It is safe for concurrent use.
type Catalog struct {
	byID  map[string]domain.ServiceDescriptor
	order []string
}

// New builds a catalog from descriptors. Later entries with a duplicate id replace earlier ones.
func New(descriptors []domain.ServiceDescriptor) *Catalog {
	c := &Catalog{byID: make(map[string]domain.ServiceDescriptor, len(descriptors))}
	for _, d := range descriptors {
		if _, seen := c.byID[d.ID]; !seen {
			c.order = append(c.order, d.ID)
		}
		c.byID[d.ID] = d
	}
	return c
}

// Default is the storefront's catalog.
func Default() *Catalog {
	return New(services)
}

// Lookup returns the descriptor for id or a ServiceNotFound error.
func (c *Catalog) Lookup(id string) (domain.ServiceDescriptor, error) {
	d, ok := c.byID[id]
	if !ok {
		return domain.ServiceDescriptor{}, domain.NewServiceNotFoundError(id)
	}
	return d, nil
}

// List returns descriptors in catalog order.
func (c *Catalog) List() []domain.ServiceDescriptor {
	out := make([]domain.ServiceDescriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ServiceIDForType maps a quote form service type to its catalog id,
// defaulting to regular cleaning.
func ServiceIDForType(serviceType string) string {
	if id, ok := serviceTypes[serviceType]; ok {
		return id
	}
	return DefaultServiceID
}
