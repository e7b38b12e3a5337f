// Package adsapi calls the Amazon Advertising API after consent.
package adsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
	"github.com/jrsteele09/amazon-oauth-callback/lwa"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

const (
	profilesPath   = "/v2/profiles"
	clientIDHeader = "Amazon-Advertising-API-ClientId"
	maxBody        = 1 << 20

	CountryUS = "US"
)

// Profile holds the identifiers kept from an advertising profile.
type Profile struct {
	ProfileID           string
	AccountID           string
	MarketplaceStringID string
	AccountName         string
}

// Client lists advertising profiles for a freshly issued token.
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
}

func NewClient(baseURL, clientID string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), clientID: clientID, httpClient: httpClient}
}

// ListProfiles returns the raw profiles array. An invalid_grant client error
// is errors.ErrBadOAuthToken; other failures are *errors.UpstreamError.
func (c *Client) ListProfiles(ctx context.Context, token *oauth2.Token) ([]byte, error) {
	endpoint := c.baseURL + profilesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("[adsapi ListProfiles] build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(clientIDHeader, c.clientID)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamFailure, "[adsapi ListProfiles] get %s (%v)", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamFailure, "[adsapi ListProfiles] read body (%v)", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, lwa.ResponseError(endpoint, resp.StatusCode, body)
	}
	return body, nil
}

// SelectProfile scans a profiles array for countryCode. When several profiles
// match, the last one wins. A body that is not an array matches nothing.
func SelectProfile(body []byte, countryCode string) (Profile, bool) {
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return Profile{}, false
	}

	var selected Profile
	var found bool
	parsed.ForEach(func(_, prof gjson.Result) bool {
		if prof.Get("countryCode").String() != countryCode {
			return true
		}
		selected = Profile{
			ProfileID:           prof.Get("profileId").String(),
			AccountID:           prof.Get("accountInfo.id").String(),
			MarketplaceStringID: prof.Get("accountInfo.marketplaceStringId").String(),
			AccountName:         prof.Get("accountInfo.name").String(),
		}
		found = true
		return true
	})
	return selected, found
}
