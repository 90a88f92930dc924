package cart

import (
	"testing"

	"tillsync/internal/domain"
)

func testRate(id int64, rate string, compound bool) domain.TaxRate {
	return domain.TaxRate{ID: id, Name: "Tax", Rate: rate, Country: "US", Compound: compound}
}

func TestEstimateTaxZeroSubtotal(t *testing.T) {
	tax := EstimateTax(domain.Zero("USD"), []domain.TaxRate{testRate(1, "10.0", false)})
	if tax.AmountCents != 0 || tax.Currency != "USD" {
		t.Fatalf("expected zero USD tax, got %+v", tax)
	}
}

func TestEstimateTaxNoRates(t *testing.T) {
	tax := EstimateTax(domain.Money{AmountCents: 10000, Currency: "USD"}, nil)
	if tax.AmountCents != 0 {
		t.Fatalf("expected zero tax, got %+v", tax)
	}
}

func TestEstimateTaxSingleStandardRate(t *testing.T) {
	// 10% of $100 = $10
	tax := EstimateTax(domain.Money{AmountCents: 10000, Currency: "USD"}, []domain.TaxRate{testRate(1, "10.0", false)})
	if tax.AmountCents != 1000 {
		t.Fatalf("expected 1000 cents, got %d", tax.AmountCents)
	}
}

func TestEstimateTaxMultipleStandardRates(t *testing.T) {
	// 5% + 3% of $100 applied independently = $8
	tax := EstimateTax(domain.Money{AmountCents: 10000, Currency: "USD"}, []domain.TaxRate{
		testRate(1, "5.0", false),
		testRate(2, "3.0", false),
	})
	if tax.AmountCents != 800 {
		t.Fatalf("expected 800 cents, got %d", tax.AmountCents)
	}
}

func TestEstimateTaxCompoundAfterStandard(t *testing.T) {
	// 10% of $100 = $10, then compound 5% of $110 = $5.50
	tax := EstimateTax(domain.Money{AmountCents: 10000, Currency: "USD"}, []domain.TaxRate{
		testRate(1, "10.0", false),
		testRate(2, "5.0", true),
	})
	if tax.AmountCents != 1550 {
		t.Fatalf("expected 1550 cents, got %d", tax.AmountCents)
	}
}

func TestEstimateTaxUnparsableRateSkipped(t *testing.T) {
	tax := EstimateTax(domain.Money{AmountCents: 10000, Currency: "USD"}, []domain.TaxRate{
		testRate(1, "N/A", false),
		testRate(2, "8.0", false),
	})
	if tax.AmountCents != 800 {
		t.Fatalf("expected 800 cents, got %d", tax.AmountCents)
	}
}

func TestEstimateTaxRoundsHalfCentUp(t *testing.T) {
	// 7.5% of $1.00 = 7.5 cents, rounds to 8
	tax := EstimateTax(domain.Money{AmountCents: 100, Currency: "USD"}, []domain.TaxRate{testRate(1, "7.5", false)})
	if tax.AmountCents != 8 {
		t.Fatalf("expected 8 cents, got %d", tax.AmountCents)
	}
}
