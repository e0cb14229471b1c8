package models

// StatusAvailable is the aisStatus value that makes a provider selectable.
const StatusAvailable = "AVAILABLE"

// BankProvider is one entry of the backend's provider catalog.
type BankProvider struct {
	ProviderID  string `json:"providerId"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	LogoURL     string `json:"logoUrl"`
	CountryCode string `json:"countryCode"`
	AISStatus   string `json:"aisStatus"`
	PISStatus   string `json:"pisStatus"`
}

func (p BankProvider) Available() bool {
	return p.AISStatus == StatusAvailable
}

// Label prefers the display name and falls back to the plain name.
func (p BankProvider) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Name != "" {
		return p.Name
	}
	return p.ProviderID
}

// LinkIntent is the handle the backend returns for a pending bank connection.
type LinkIntent struct {
	IntentID   string         `json:"intentId"`
	ConnectURL string         `json:"connectUrl"`
	Raw        map[string]any `json:"-"`
}

// LinkState tracks a bank connection from intent creation to the callback.
type LinkState string

const (
	LinkPending   LinkState = "pending"
	LinkConfirmed LinkState = "confirmed"
	LinkFailed    LinkState = "failed"
	LinkExpired   LinkState = "expired"
	LinkSkipped   LinkState = "skipped"
)

// Terminal reports whether no further transition is expected.
func (s LinkState) Terminal() bool {
	return s != LinkPending
}
