package domain

import "testing"

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"19.99", 1999},
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"not-a-price", 0},
		{"100", 10000},
		{"0.08", 8},
		{" 12.30 ", 1230},
	}
	for _, tc := range cases {
		if got := ParseCents(tc.in); got != tc.want {
			t.Fatalf("ParseCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{1999, "19.99"},
		{0, "0.00"},
		{5, "0.05"},
		{10000, "100.00"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.in); got != tc.want {
			t.Fatalf("FormatCents(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseMoney(t *testing.T) {
	got := ParseMoney("19.99", "USD")
	if got.AmountCents != 1999 || got.Currency != "USD" {
		t.Fatalf("unexpected money: %+v", got)
	}
}
