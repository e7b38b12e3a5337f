// Package records persists completed authorization results as JSON files.
package records

// Flow subdirectories under the data folder.
const (
	DirSellingPartner = "sp"
	DirAds            = "ads"
)

// Record is the token bundle written once a callback completes.
type Record struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in"`

	// Selling Partner flow
	SellingPartnerID string `json:"selling_partner_id,omitempty"`
	Success          bool   `json:"success,omitempty"`

	// Ads flow
	AdProfileID         string `json:"ad_profile_id,omitempty"`
	AdAccountID         string `json:"ad_account_id,omitempty"`
	MarketplaceStringID string `json:"marketplace_string_id,omitempty"`

	Name string `json:"name"`
	Date string `json:"date,omitempty"`
}
