package spapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
	"golang.org/x/net/html"
)

const (
	sellerNameElementID = "sellerName"
	storefrontUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.4896.75 Safari/537.36"
	maxRedirects        = 5
)

// ErrSellerNameNotFound means the storefront page had no seller name element.
var ErrSellerNameNotFound = errors.New("seller name not found")

// StorefrontScraper reads the public seller profile page.
type StorefrontScraper struct {
	baseURL    string
	httpClient *http.Client
}

// NewStorefrontScraper uses a copy of httpClient limited to five redirects.
func NewStorefrontScraper(baseURL string, httpClient *http.Client) *StorefrontScraper {
	client := http.Client{}
	if httpClient != nil {
		client = *httpClient
	}
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}
	return &StorefrontScraper{baseURL: baseURL, httpClient: &client}
}

// SellerName fetches the storefront page for sellerID and returns the text of
// the #sellerName element.
func (s *StorefrontScraper) SellerName(ctx context.Context, sellerID string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("[spapi SellerName] parse storefront url: %w", err)
	}
	q := u.Query()
	q.Set("seller", sellerID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("[spapi SellerName] build request: %w", err)
	}
	req.Header.Set("User-Agent", storefrontUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("[spapi SellerName] get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("[spapi SellerName] %s returned %d", u, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("[spapi SellerName] parse html: %w", err)
	}
	node := findByID(doc, sellerNameElementID)
	if node == nil {
		return "", ErrSellerNameNotFound
	}
	name := strings.TrimSpace(textContent(node))
	if name == "" {
		return "", ErrSellerNameNotFound
	}
	return name, nil
}

// SellerNameOrID returns the storefront name, or sellerID when the lookup fails.
func (s *StorefrontScraper) SellerNameOrID(ctx context.Context, sellerID string) (string, error) {
	name, err := s.SellerName(ctx, sellerID)
	if err != nil {
		return sellerID, err
	}
	return name, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
