package cart

import (
	"math"
	"strconv"

	"tillsync/internal/domain"
)

// EstimateTax computes the local tax estimate for a subtotal.
//
// Non-compound rates each apply against the original subtotal; compound rates
// then apply against (subtotal + non-compound tax). Each rate is rounded to
// whole cents independently. Rates that fail to parse are skipped.
//
// This is an approximation only; the backend computes the authoritative tax
// when the order is pushed, and checkout never blocks on a mismatch.
func EstimateTax(subtotal domain.Money, rates []domain.TaxRate) domain.Money {
	if subtotal.AmountCents == 0 || len(rates) == 0 {
		return domain.Zero(subtotal.Currency)
	}

	var standardCents int64
	for _, rate := range rates {
		if rate.Compound {
			continue
		}
		pct, err := strconv.ParseFloat(rate.Rate, 64)
		if err != nil {
			continue
		}
		standardCents += roundCents(float64(subtotal.AmountCents) * pct / 100.0)
	}

	taxableForCompound := subtotal.AmountCents + standardCents
	var compoundCents int64
	for _, rate := range rates {
		if !rate.Compound {
			continue
		}
		pct, err := strconv.ParseFloat(rate.Rate, 64)
		if err != nil {
			continue
		}
		compoundCents += roundCents(float64(taxableForCompound) * pct / 100.0)
	}

	return domain.Money{AmountCents: standardCents + compoundCents, Currency: subtotal.Currency}
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
