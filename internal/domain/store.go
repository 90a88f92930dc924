package domain

// StoreConfig holds the remote store connection settings persisted after a
// successful setup validation.
type StoreConfig struct {
	SiteURL        string `json:"siteUrl"`
	ConsumerKey    string `json:"consumerKey"`
	ConsumerSecret string `json:"consumerSecret"`
	Currency       string `json:"currency"`
}
