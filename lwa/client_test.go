package lwa_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
	"github.com/jrsteele09/amazon-oauth-callback/lwa"
	"github.com/stretchr/testify/require"
)

func TestClient_Exchange(t *testing.T) {
	t.Run("posts json grant", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"Atza|access","refresh_token":"Atzr|refresh","token_type":"bearer","expires_in":3600}`))
		}))
		defer srv.Close()

		resp, err := lwa.NewClient(srv.URL, srv.Client()).Exchange(context.Background(), lwa.ExchangeRequest{
			Code:         "code-1",
			ClientID:     "client",
			ClientSecret: "secret",
		})
		require.NoError(t, err)
		require.Equal(t, "Atza|access", resp.AccessToken)
		require.Equal(t, "Atzr|refresh", resp.RefreshToken)
		require.Equal(t, 3600, resp.ExpiresIn)

		require.Equal(t, map[string]string{
			"grant_type":    "authorization_code",
			"code":          "code-1",
			"client_id":     "client",
			"client_secret": "secret",
		}, got)
	})

	t.Run("includes redirect uri when set", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"access_token":"a","refresh_token":"r","expires_in":3600}`))
		}))
		defer srv.Close()

		_, err := lwa.NewClient(srv.URL, nil).Exchange(context.Background(), lwa.ExchangeRequest{
			Code:        "code-1",
			RedirectURI: "https://example.com/ads-redirect",
		})
		require.NoError(t, err)
		require.Equal(t, "https://example.com/ads-redirect", got["redirect_uri"])
	})

	t.Run("invalid grant", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"The request has an invalid grant parameter : code"}`))
		}))
		defer srv.Close()

		_, err := lwa.NewClient(srv.URL, nil).Exchange(context.Background(), lwa.ExchangeRequest{Code: "used"})
		require.ErrorIs(t, err, errors.ErrBadOAuthToken)
		require.NotErrorIs(t, err, errors.ErrUpstreamFailure)
	})

	t.Run("other client error is upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
		}))
		defer srv.Close()

		_, err := lwa.NewClient(srv.URL, nil).Exchange(context.Background(), lwa.ExchangeRequest{Code: "c"})
		require.ErrorIs(t, err, errors.ErrUpstreamFailure)

		var upstream *errors.UpstreamError
		require.ErrorAs(t, err, &upstream)
		require.Equal(t, http.StatusUnauthorized, upstream.Status)
		require.Contains(t, upstream.Body, "invalid_client")
	})

	t.Run("server error with invalid_grant body is still upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		defer srv.Close()

		_, err := lwa.NewClient(srv.URL, nil).Exchange(context.Background(), lwa.ExchangeRequest{Code: "c"})
		require.ErrorIs(t, err, errors.ErrUpstreamFailure)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := lwa.NewClient(url, nil).Exchange(context.Background(), lwa.ExchangeRequest{Code: "c"})
		require.ErrorIs(t, err, errors.ErrUpstreamFailure)
	})
}

func TestTokenResponse_Token(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	resp := lwa.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 3600}

	tok := resp.Token(issued)
	require.Equal(t, "a", tok.AccessToken)
	require.Equal(t, "r", tok.RefreshToken)
	require.Equal(t, "bearer", tok.TokenType)
	require.True(t, issued.Add(time.Hour).Equal(tok.Expiry))
}
