package spapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/amazon-oauth-callback/spapi"
	"github.com/stretchr/testify/require"
)

func storefront(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "A3EXAMPLESELLER", r.URL.Query().Get("seller"))
		require.Contains(t, r.UserAgent(), "Mozilla/5.0")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStorefrontScraper_SellerName(t *testing.T) {
	ctx := context.Background()

	t.Run("finds seller name", func(t *testing.T) {
		srv := storefront(t, http.StatusOK, `<html><body><div id="seller-info"><h1 id="sellerName">
			Acme <span>Outdoor</span> Supply
		</h1></div></body></html>`)

		name, err := spapi.NewStorefrontScraper(srv.URL+"/sp", nil).SellerName(ctx, "A3EXAMPLESELLER")
		require.NoError(t, err)
		require.Equal(t, "Acme Outdoor Supply", name)
	})

	t.Run("missing element", func(t *testing.T) {
		srv := storefront(t, http.StatusOK, `<html><body><h1 id="brand">Acme</h1></body></html>`)

		_, err := spapi.NewStorefrontScraper(srv.URL+"/sp", nil).SellerName(ctx, "A3EXAMPLESELLER")
		require.ErrorIs(t, err, spapi.ErrSellerNameNotFound)
	})

	t.Run("empty element", func(t *testing.T) {
		srv := storefront(t, http.StatusOK, `<html><body><h1 id="sellerName">  </h1></body></html>`)

		_, err := spapi.NewStorefrontScraper(srv.URL+"/sp", nil).SellerName(ctx, "A3EXAMPLESELLER")
		require.ErrorIs(t, err, spapi.ErrSellerNameNotFound)
	})

	t.Run("falls back to seller id", func(t *testing.T) {
		srv := storefront(t, http.StatusServiceUnavailable, `robot check`)

		name, err := spapi.NewStorefrontScraper(srv.URL+"/sp", nil).SellerNameOrID(ctx, "A3EXAMPLESELLER")
		require.Error(t, err)
		require.Equal(t, "A3EXAMPLESELLER", name)
	})

	t.Run("stops after five redirects", func(t *testing.T) {
		var hits int
		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			http.Redirect(w, r, srv.URL+"/sp?seller=A3EXAMPLESELLER", http.StatusFound)
		}))
		defer srv.Close()

		_, err := spapi.NewStorefrontScraper(srv.URL+"/sp", nil).SellerName(ctx, "A3EXAMPLESELLER")
		require.Error(t, err)
		require.Equal(t, 5, hits)
	})
}
