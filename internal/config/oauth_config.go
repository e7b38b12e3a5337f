package config

// LWA holds the Login with Amazon token endpoint and the SP application's LWA credentials.
type LWA struct {
	TokenURL     string `env:"OAUTH_URL,required,notEmpty"`
	ClientID     string `env:"LWA_CLIENT_ID,required,notEmpty"`
	ClientSecret string `env:"LWA_CLIENT_SECRET,required,notEmpty"`
}

// SellingPartner configures the SP consent redirect and SP API calls.
type SellingPartner struct {
	AppID             string `env:"SPAPI_APP_ID,required,notEmpty"`
	AuthGrantURL      string `env:"SP_AUTH_GRANT_URL,required,notEmpty"`
	AuthGrantEndpoint string `env:"SP_AUTH_GRANT_ENDPOINT,required,notEmpty"`
	Endpoint          string `env:"SPAPI_ENDPOINT" envDefault:"https://sellingpartnerapi-na.amazon.com"`
	Region            string `env:"SPAPI_REGION" envDefault:"us-east-1"`
	StorefrontURL     string `env:"SELLER_STOREFRONT_URL" envDefault:"https://www.amazon.com/sp"`
}

// Ads configures the Advertising consent redirect, token exchange and profiles call.
type Ads struct {
	OAuthURL      string `env:"ADS_OAUTH_URL,required,notEmpty"`
	OAuthEndpoint string `env:"ADS_OAUTH_ENDPOINT,required,notEmpty"`
	ClientID      string `env:"ADS_CLIENT_ID,required,notEmpty"`
	ClientSecret  string `env:"ADS_CLIENT_SECRET,required,notEmpty"`
	RedirectURI   string `env:"ADS_REDIRECT,required,notEmpty"`
	Scope         string `env:"ADS_SCOPE" envDefault:"advertising::campaign_management"`
	APIURL        string `env:"ADS_API_URL" envDefault:"https://advertising-api.amazon.com"`
	VerifyState   bool   `env:"ADS_VERIFY_STATE" envDefault:"true"`
}

// AWS holds the IAM credentials used to sign SP API requests. RoleARN is optional.
type AWS struct {
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID,required,notEmpty"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY,required,notEmpty"`
	RoleARN         string `env:"ROLE_ARN"`
}
