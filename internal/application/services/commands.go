package services

import "github.com/alexanderovie/integrity/internal/domain"

// CreateCheckoutCommand is a storefront checkout request.
// CustomPrice is a currency amount; nil or non-positive means the catalog price.
type CreateCheckoutCommand struct {
	ServiceID     string
	CustomerEmail string
	CustomerName  string
	CustomPrice   *float64
	Quote         domain.QuoteSnapshot
	// Origin is the storefront base url used for the redirect urls.
	Origin string
}

// QuoteResult is a computed price together with the catalog service it maps to.
type QuoteResult struct {
	Price     domain.ComputedPrice
	ServiceID string
}
