package domain

import "fmt"

// Money is a monetary amount in integer cents with a currency tag.
// All price math (cart totals, tax, refunds) goes through this type;
// floating point never touches stored amounts.
type Money struct {
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{AmountCents: 0, Currency: currency}
}

// Add returns m + other. Mixing currencies is a bug in the caller and panics.
func (m Money) Add(other Money) Money {
	sum, err := m.TryAdd(other)
	if err != nil {
		panic(fmt.Sprintf("money: add %s to %s: %v", other.Currency, m.Currency, err))
	}
	return sum
}

// Sub returns m - other. Mixing currencies is a bug in the caller and panics.
func (m Money) Sub(other Money) Money {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: subtract %s from %s: %v", other.Currency, m.Currency, ErrCurrencyMismatch))
	}
	return Money{AmountCents: m.AmountCents - other.AmountCents, Currency: m.Currency}
}

// TryAdd is the checked variant of Add for callers combining amounts from
// mixed sources.
func (m Money) TryAdd(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("add %s to %s: %w", other.Currency, m.Currency, ErrCurrencyMismatch)
	}
	return Money{AmountCents: m.AmountCents + other.AmountCents, Currency: m.Currency}, nil
}

// MulQty scales the amount by an item quantity.
func (m Money) MulQty(quantity int) Money {
	return Money{AmountCents: m.AmountCents * int64(quantity), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.AmountCents == 0
}

func (m Money) String() string {
	return FormatCents(m.AmountCents) + " " + m.Currency
}
