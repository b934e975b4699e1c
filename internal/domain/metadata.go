package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Session metadata keys. The processor's record is the only place order
// context survives between checkout creation and the completion event.
const (
	MetadataServiceID    = "serviceId"
	MetadataCustomerName = "customerName"
	MetadataCustomPrice  = "customPrice"
	MetadataQuoteData    = "quoteData"

	// MaxMetadataValueLength is the processor's per-value limit.
	MaxMetadataValueLength = 500
)

// SessionMetadata is the order context attached to a checkout session.
// CustomPrice is in minor units; nil means the catalog price was charged.
type SessionMetadata struct {
	ServiceID    string
	CustomerName string
	CustomPrice  *int64
	Quote        QuoteSnapshot
}

// Encode renders the metadata as the processor's string map.
func (m SessionMetadata) Encode() (map[string]string, error) {
	quote, err := json.Marshal(m.Quote)
	if err != nil {
		return nil, NewValidationError("quote data cannot be encoded", err)
	}

	customPrice := ""
	if m.CustomPrice != nil {
		customPrice = strconv.FormatInt(*m.CustomPrice, 10)
	}

	out := map[string]string{
		MetadataServiceID:    m.ServiceID,
		MetadataCustomerName: m.CustomerName,
		MetadataCustomPrice:  customPrice,
		MetadataQuoteData:    string(quote),
	}

	for key, value := range out {
		if len(value) > MaxMetadataValueLength {
			return nil, NewMetadataTooLargeError(key, len(value))
		}
	}

	return out, nil
}

// DecodeSessionMetadata reads metadata back from a session. It always returns
// the fields it could read; a non-nil error reports the first malformed field.
func DecodeSessionMetadata(raw map[string]string) (SessionMetadata, error) {
	m := SessionMetadata{
		ServiceID:    raw[MetadataServiceID],
		CustomerName: raw[MetadataCustomerName],
	}

	var firstErr error

	if s := strings.TrimSpace(raw[MetadataCustomPrice]); s != "" {
		price, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			firstErr = NewMalformedMetadataError(MetadataCustomPrice, err)
		} else {
			m.CustomPrice = &price
		}
	}

	if s := strings.TrimSpace(raw[MetadataQuoteData]); s != "" {
		var quote QuoteSnapshot
		if err := json.Unmarshal([]byte(s), &quote); err != nil {
			if firstErr == nil {
				firstErr = NewMalformedMetadataError(MetadataQuoteData, err)
			}
		} else {
			m.Quote = quote
		}
	}

	return m, firstErr
}

// ChargedAmount returns the minor-unit amount to show for a session: the
// custom price when one was recorded, otherwise the session total.
func (m SessionMetadata) ChargedAmount(sessionTotal int64) int64 {
	if m.CustomPrice != nil {
		return *m.CustomPrice
	}
	return sessionTotal
}
