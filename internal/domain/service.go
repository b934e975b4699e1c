package domain

// ServiceDescriptor is a catalog entry. BasePrice is in minor units.
type ServiceDescriptor struct {
	ID          string
	Name        string
	Description string
	BasePrice   int64
	Currency    string
}

// CheckoutSession is the subset of the processor's session record the service reads.
type CheckoutSession struct {
	ID            SessionID
	URL           string
	Metadata      map[string]string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	CustomerName  string
	PaymentStatus string
}
