package domain

// TaxRate is a remote tax rate cached locally for estimation. Rate keeps the
// backend's decimal-string form ("10.0000"); unparsable values are skipped at
// calculation time rather than rejected at sync time.
type TaxRate struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Rate     string `json:"rate"`
	Country  string `json:"country"`
	State    string `json:"state"`
	Compound bool   `json:"compound"`
	Shipping bool   `json:"shipping"`
}
