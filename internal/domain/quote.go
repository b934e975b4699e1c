package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// TipMode selects how the tip percentage is chosen on the quote form.
type TipMode string

const (
	TipModeFixed  TipMode = "fixed"
	TipModeCustom TipMode = "custom"
)

// tipOther is the form value that switches the tip to a customer-entered percentage.
const tipOther = "other"

type TipSpec struct {
	Mode  TipMode
	Value string
}

// QuoteAttributes are the property and service inputs of a price quote.
// Numeric fields stay as submitted; the calculator coerces them.
type QuoteAttributes struct {
	ServiceType      string
	Frequency        string
	Bedrooms         string
	Bathrooms        string
	PropertySizeSqFt string
	Extras           []string
	Tip              TipSpec
}

// PriceBreakdown carries the intermediate values of a quote, in currency units.
type PriceBreakdown struct {
	Base     float64 `json:"base"`
	Extras   float64 `json:"extras"`
	Tip      float64 `json:"tip"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
}

// ComputedPrice is the result of a quote. Amount is a whole currency amount
// because the rate tables are denominated in currency units.
type ComputedPrice struct {
	Amount    int64
	Currency  string
	Breakdown PriceBreakdown
}

// MinorUnits is the amount charged by the processor.
func (p ComputedPrice) MinorUnits() int64 {
	return p.Amount * 100
}

// FlexString decodes either a JSON string or a JSON number.
// The storefront sends counts as strings but API clients often send numbers.
// Numbers are stored in plain decimal form, so 1e3 becomes "1000".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := n.Int64(); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	v, err := n.Float64()
	if err != nil {
		// out of float64 range; keep the literal
		*f = FlexString(n.String())
		return nil
	}
	*f = FlexString(strconv.FormatFloat(v, 'f', -1, 64))
	return nil
}

// QuoteSnapshot is the quote form as carried in the quoteData metadata blob.
type QuoteSnapshot struct {
	ServiceType     string     `json:"serviceType,omitempty"`
	Frequency       string     `json:"frequency,omitempty"`
	PropertySize    FlexString `json:"propertySize,omitempty"`
	Bedrooms        FlexString `json:"bedrooms,omitempty"`
	Bathrooms       FlexString `json:"bathrooms,omitempty"`
	ServiceDate     string     `json:"serviceDate,omitempty"`
	TimeSlot        string     `json:"timeSlot,omitempty"`
	TipPercentage   FlexString `json:"tipPercentage,omitempty"`
	CustomTip       FlexString `json:"customTip,omitempty"`
	Address         string     `json:"address,omitempty"`
	ZipCode         string     `json:"zipCode,omitempty"`
	Extras          []string   `json:"extras,omitempty"`
	Comments        string     `json:"comments,omitempty"`
	CalculatedPrice *float64   `json:"calculatedPrice,omitempty"`
}

// Attributes maps the form snapshot onto calculator inputs.
func (q QuoteSnapshot) Attributes() QuoteAttributes {
	tip := TipSpec{Mode: TipModeFixed, Value: string(q.TipPercentage)}
	if strings.EqualFold(string(q.TipPercentage), tipOther) {
		tip = TipSpec{Mode: TipModeCustom, Value: string(q.CustomTip)}
	}

	return QuoteAttributes{
		ServiceType:      q.ServiceType,
		Frequency:        q.Frequency,
		Bedrooms:         string(q.Bedrooms),
		Bathrooms:        string(q.Bathrooms),
		PropertySizeSqFt: string(q.PropertySize),
		Extras:           q.Extras,
		Tip:              tip,
	}
}

// IsZero reports whether no form field was captured.
func (q QuoteSnapshot) IsZero() bool {
	return q.ServiceType == "" && q.Frequency == "" && q.PropertySize == "" &&
		q.Bedrooms == "" && q.Bathrooms == "" && q.ServiceDate == "" && q.TimeSlot == "" &&
		q.TipPercentage == "" && q.CustomTip == "" && q.Address == "" && q.ZipCode == "" &&
		len(q.Extras) == 0 && q.Comments == "" && q.CalculatedPrice == nil
}
