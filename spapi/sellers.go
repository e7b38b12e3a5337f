// Package spapi holds the Selling Partner API calls made after consent.
package spapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
)

const (
	signingService       = "execute-api"
	marketplacesPath     = "/sellers/v1/marketplaceParticipations"
	roleSessionName      = "amazon-oauth-callback"
	accessTokenHeader    = "x-amz-access-token"
	maxErrorBody         = 4096
	NorthAmericaEndpoint = "https://sellingpartnerapi-na.amazon.com"
	EuropeEndpoint       = "https://sellingpartnerapi-eu.amazon.com"
	FarEastEndpoint      = "https://sellingpartnerapi-fe.amazon.com"
)

// Config is the SP API client configuration. Access keys are required,
// RoleARN is optional.
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	RoleARN         string
	// STSEndpoint overrides the STS endpoint used for role assumption.
	STSEndpoint string
}

func (c Config) validate() error {
	var missing []string
	if c.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if c.Region == "" {
		missing = append(missing, "region")
	}
	if c.AccessKeyID == "" {
		missing = append(missing, "access key id")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "secret access key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("spapi config missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Marketplace describes one marketplace a seller participates in.
type Marketplace struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	CountryCode         string `json:"countryCode"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"`
	DefaultLanguageCode string `json:"defaultLanguageCode"`
	DomainName          string `json:"domainName"`
}

type Participation struct {
	IsParticipating      bool `json:"isParticipating"`
	HasSuspendedListings bool `json:"hasSuspendedListings"`
}

type MarketplaceParticipation struct {
	Marketplace   Marketplace   `json:"marketplace"`
	Participation Participation `json:"participation"`
}

type participationsResponse struct {
	Payload []MarketplaceParticipation `json:"payload"`
}

// SellersClient calls the Sellers API with SigV4 signed requests.
type SellersClient struct {
	cfg         Config
	httpClient  *http.Client
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	now         func() time.Time
}

func NewSellersClient(cfg Config, httpClient *http.Client) (*SellersClient, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var provider aws.CredentialsProvider = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	if cfg.RoleARN != "" {
		stsOpts := sts.Options{
			Region:      cfg.Region,
			Credentials: provider,
			HTTPClient:  httpClient,
		}
		if cfg.STSEndpoint != "" {
			stsOpts.BaseEndpoint = aws.String(cfg.STSEndpoint)
		}
		assumeRole := stscreds.NewAssumeRoleProvider(sts.New(stsOpts), cfg.RoleARN, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = roleSessionName
		})
		provider = aws.NewCredentialsCache(assumeRole)
	}

	return &SellersClient{
		cfg:         cfg,
		httpClient:  httpClient,
		credentials: provider,
		signer:      v4.NewSigner(),
		now:         time.Now,
	}, nil
}

// GetMarketplaceParticipations lists the marketplaces the token's seller
// participates in. It doubles as a check that a fresh token is usable.
func (c *SellersClient) GetMarketplaceParticipations(ctx context.Context, accessToken string) ([]MarketplaceParticipation, error) {
	endpoint := strings.TrimRight(c.cfg.Endpoint, "/") + marketplacesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("[spapi GetMarketplaceParticipations] build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(accessTokenHeader, accessToken)

	if err := c.sign(ctx, req, nil); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamFailure, "[spapi GetMarketplaceParticipations] get %s (%v)", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &errors.UpstreamError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(body)}
	}

	var out participationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamFailure, "[spapi GetMarketplaceParticipations] decode response (%v)", err)
	}
	return out.Payload, nil
}

func (c *SellersClient) sign(ctx context.Context, req *http.Request, body []byte) error {
	creds, err := c.credentials.Retrieve(ctx)
	if err != nil {
		return errors.Wrapf(errors.ErrUpstreamFailure, "[spapi sign] retrieve credentials (%v)", err)
	}
	sum := sha256.Sum256(body)
	if err := c.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(sum[:]), signingService, c.cfg.Region, c.now()); err != nil {
		return fmt.Errorf("[spapi sign] sign request: %w", err)
	}
	return nil
}
