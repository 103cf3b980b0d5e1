package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/config"
)

// tokenResponse is the OAuth token endpoint reply shared by the Fitbit and
// Google token URLs.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func buildAuthURL(base string, params url.Values) string {
	return base + "?" + params.Encode()
}

// exchangeCode posts the one-time authorization code to the provider token
// endpoint and returns a stored-credential shape stamped with the
// acquisition time.
func exchangeCode(ctx context.Context, client *http.Client, id ID, cfg config.ProviderConfig, code string) (*internal.Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", cfg.ClientID)
	form.Set("client_secret", cfg.ClientSecret)
	form.Set("redirect_uri", cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &internal.UpstreamError{Provider: string(id), Op: "token exchange", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &internal.UpstreamError{Provider: string(id), Op: "token exchange", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &internal.UpstreamError{Provider: string(id), Op: "token exchange", Status: resp.StatusCode}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, &internal.UpstreamError{Provider: string(id), Op: "token exchange", Err: err}
	}
	return &internal.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    tok.ExpiresIn,
		Timestamp:    time.Now().UnixMilli(),
	}, nil
}

// getJSON performs an authenticated GET and returns the raw body. Non-2xx
// responses and transport failures come back as *internal.UpstreamError.
func getJSON(ctx context.Context, client *http.Client, id ID, op, rawURL, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &internal.UpstreamError{Provider: string(id), Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return doRequest(client, id, op, req)
}

// postJSON performs an authenticated POST with a JSON body.
func postJSON(ctx context.Context, client *http.Client, id ID, op, rawURL, accessToken string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(string(body)))
	if err != nil {
		return nil, &internal.UpstreamError{Provider: string(id), Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	return doRequest(client, id, op, req)
}

func doRequest(client *http.Client, id ID, op string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &internal.UpstreamError{Provider: string(id), Op: op, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &internal.UpstreamError{Provider: string(id), Op: op, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &internal.UpstreamError{Provider: string(id), Op: op, Err: err}
	}
	return body, nil
}
