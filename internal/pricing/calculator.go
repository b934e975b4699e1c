// Package pricing computes cleaning quotes from property attributes.
package pricing

import (
	"math"

	"github.com/alexanderovie/integrity/internal/domain"
)

const (
	StandardClean = "Standard Clean"

	defaultRatePerSqFt = 0.12
	bedroomSurcharge   = 8
	bathroomSurcharge  = 12
	taxRate            = 0.07 // 6% state + 1% local

	// MinimumCharge is the price floor in whole currency units.
	MinimumCharge = 75
	// MaximumCharge is the largest whole amount the processor can charge.
	MaximumCharge = domain.MaxChargeMinor / 100
)

// ratesPerSqFt are in currency units per square foot.
var ratesPerSqFt = map[string]float64{
	StandardClean:       0.12,
	"Deep Cleaning":     0.20,
	"Move-in Clean":     0.18,
	"Move-out Clean":    0.18,
	"Post-Construction": 0.25,
	"One-Time Clean":    0.15,
}

// frequencyMultipliers apply to Standard Clean only.
var frequencyMultipliers = map[string]float64{
	"weekly":    0.9,
	"bi-weekly": 1.0,
	"monthly":   1.1,
}

// extraPrices are flat add-ons in currency units.
var extraPrices = map[string]float64{
	"interior_windows": 25,
	"blinds_cleaning":  30,
	"dishes":           15,
	"inside_oven":      35,
	"inside_fridge":    30,
	"pet_hair_removal": 20,
	"heavy_duty":       50,
	"garage_cleaning":  40,
}

// Compute returns the quote for attrs. It never fails: unknown service types
// use the standard rate, unknown extras are free and malformed numbers count as zero.
// The amount is clamped to [MinimumCharge, MaximumCharge].
func Compute(attrs domain.QuoteAttributes) domain.ComputedPrice {
	base := BaseAmount(attrs)

	var extras float64
	for _, id := range attrs.Extras {
		extras += extraPrices[id]
	}

	tip := (base + extras) * tipFraction(attrs.Tip)
	subtotal := base + extras + tip
	tax := subtotal * taxRate

	return domain.ComputedPrice{
		Amount:   clampAmount(math.Floor(subtotal + tax + 0.5)),
		Currency: domain.CurrencyUSD,
		Breakdown: domain.PriceBreakdown{
			Base:     base,
			Extras:   extras,
			Tip:      tip,
			Subtotal: subtotal,
			Tax:      tax,
		},
	}
}

// BaseAmount is the size and room component before extras, tip and tax.
func BaseAmount(attrs domain.QuoteAttributes) float64 {
	sqft := parseLeadingInt(attrs.PropertySizeSqFt)
	bedrooms := parseLeadingInt(attrs.Bedrooms)
	bathrooms := parseLeadingInt(attrs.Bathrooms)

	base := float64(sqft) * RatePerSqFt(attrs.ServiceType)
	base += float64(bedrooms)*bedroomSurcharge + float64(bathrooms)*bathroomSurcharge

	if attrs.ServiceType == StandardClean {
		if m, ok := frequencyMultipliers[attrs.Frequency]; ok {
			base *= m
		}
	}

	return base
}

// RatePerSqFt falls back to the Standard Clean rate for unknown service types.
func RatePerSqFt(serviceType string) float64 {
	if rate, ok := ratesPerSqFt[serviceType]; ok {
		return rate
	}
	return defaultRatePerSqFt
}

// ExtraPrice reports the flat price of an extra and whether it is known.
func ExtraPrice(id string) (float64, bool) {
	price, ok := extraPrices[id]
	return price, ok
}

// clampAmount bounds total before the int64 conversion, which is undefined
// for values outside the int64 range.
func clampAmount(total float64) int64 {
	switch {
	case total >= MaximumCharge:
		return MaximumCharge
	case total >= MinimumCharge:
		return int64(total)
	default:
		return MinimumCharge
	}
}

func tipFraction(tip domain.TipSpec) float64 {
	return float64(parseLeadingInt(tip.Value)) / 100
}
