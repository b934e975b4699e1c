package services

import (
	"github.com/alexanderovie/integrity/internal/catalog"
	"github.com/alexanderovie/integrity/internal/domain"
	"github.com/alexanderovie/integrity/internal/pricing"
)

type QuoteService struct {
	catalog *catalog.Catalog
}

func NewQuoteService(catalog *catalog.Catalog) *QuoteService {
	return &QuoteService{catalog: catalog}
}

// Quote prices a form snapshot and names the catalog service to check out with.
func (s *QuoteService) Quote(q domain.QuoteSnapshot) QuoteResult {
	return QuoteResult{
		Price:     pricing.Compute(q.Attributes()),
		ServiceID: catalog.ServiceIDForType(q.ServiceType),
	}
}

func (s *QuoteService) Services() []domain.ServiceDescriptor {
	return s.catalog.List()
}
