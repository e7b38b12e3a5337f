// Package lwa exchanges Login with Amazon authorization codes for tokens.
package lwa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

const maxErrorBody = 4096

// ExchangeRequest carries the fields posted to the token endpoint.
// RedirectURI is required by the Ads flow and omitted by the SP flow.
type ExchangeRequest struct {
	Code         string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type exchangeBody struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
}

// TokenResponse is the token endpoint's success body.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
}

// Token converts the response to an oauth2.Token with an absolute expiry.
func (r *TokenResponse) Token(issued time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
	}
	if tok.TokenType == "" {
		tok.TokenType = "bearer"
	}
	if r.ExpiresIn > 0 {
		tok.Expiry = issued.Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return tok
}

// Client posts authorization_code grants to the LWA token endpoint.
type Client struct {
	tokenURL   string
	httpClient *http.Client
}

func NewClient(tokenURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{tokenURL: tokenURL, httpClient: httpClient}
}

// Exchange trades an authorization code for tokens. An invalid_grant client
// error is reported as errors.ErrBadOAuthToken; any other non-2xx response is
// an *errors.UpstreamError.
func (c *Client) Exchange(ctx context.Context, req ExchangeRequest) (*TokenResponse, error) {
	payload, err := json.Marshal(exchangeBody{
		GrantType:    "authorization_code",
		Code:         req.Code,
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		RedirectURI:  req.RedirectURI,
	})
	if err != nil {
		return nil, fmt.Errorf("[lwa Exchange] marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("[lwa Exchange] build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamFailure, "[lwa Exchange] post %s (%v)", c.tokenURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, ResponseError(c.tokenURL, resp.StatusCode, body)
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamFailure, "[lwa Exchange] decode response (%v)", err)
	}
	if token.AccessToken == "" {
		return nil, &errors.UpstreamError{Endpoint: c.tokenURL, Status: resp.StatusCode, Body: "response has no access_token"}
	}
	return &token, nil
}

// ResponseError classifies a failed Amazon response. A 4xx whose JSON body has
// error=invalid_grant means the grant or token was rejected.
func ResponseError(endpoint string, status int, body []byte) error {
	if status >= 400 && status < 500 && gjson.GetBytes(body, "error").String() == "invalid_grant" {
		return errors.Wrapf(errors.ErrBadOAuthToken, "%s: %s", endpoint, gjson.GetBytes(body, "error_description").String())
	}
	return &errors.UpstreamError{Endpoint: endpoint, Status: status, Body: string(body)}
}
