package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const graphAPIBase = "https://graph.facebook.com/v18.0"

// GraphClient covers the handful of Meta Graph API calls the service needs:
// the page photo publish, the Instagram container flow, and the OAuth token
// exchanges used by the connect callback.
type GraphClient interface {
	PublishPhoto(ctx context.Context, pageID, accessToken, imageURL, caption string) (string, error)
	CreateMediaContainer(ctx context.Context, igUserID, accessToken, imageURL, caption string) (string, error)
	ContainerStatus(ctx context.Context, creationID, accessToken string) (string, error)
	PublishContainer(ctx context.Context, igUserID, accessToken, creationID string) (string, error)
	ExchangeCode(ctx context.Context, clientID, clientSecret, redirectURI, code string) (string, error)
	ExchangeLongLivedToken(ctx context.Context, clientID, clientSecret, accessToken string) (string, int, error)
	ListPages(ctx context.Context, accessToken string) ([]MetaPage, error)
	InstagramBusinessAccount(ctx context.Context, pageID, pageToken string) (string, error)
}

type MetaPage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

type graphClient struct {
	http *http.Client
}

func NewGraphClient() GraphClient {
	return &graphClient{
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// graphError mirrors the error envelope Graph API responses carry.
type graphError struct {
	Message string
	Code    int
}

func (e *graphError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("graph api error (code %d)", e.Code)
	}
	return e.Message
}

func (g *graphClient) postJSON(ctx context.Context, endpoint string, payload map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeGraphError(respBody, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}

func (g *graphClient) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeGraphError(respBody, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}

func decodeGraphError(body []byte, statusCode int) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return &graphError{Message: errResp.Error.Message, Code: errResp.Error.Code}
	}
	return fmt.Errorf("unexpected status code from Graph API: %d", statusCode)
}

func (g *graphClient) PublishPhoto(ctx context.Context, pageID, accessToken, imageURL, caption string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/photos", graphAPIBase, pageID)
	payload := map[string]interface{}{
		"url":          imageURL,
		"caption":      caption,
		"access_token": accessToken,
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := g.postJSON(ctx, endpoint, payload, &result); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("no post ID returned from Facebook")
	}
	return result.ID, nil
}

func (g *graphClient) CreateMediaContainer(ctx context.Context, igUserID, accessToken, imageURL, caption string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/media", graphAPIBase, igUserID)
	payload := map[string]interface{}{
		"image_url":    imageURL,
		"caption":      caption,
		"access_token": accessToken,
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := g.postJSON(ctx, endpoint, payload, &result); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("no media ID returned from Instagram")
	}
	return result.ID, nil
}

func (g *graphClient) ContainerStatus(ctx context.Context, creationID, accessToken string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s", graphAPIBase, creationID)
	params := url.Values{}
	params.Set("fields", "status_code")
	params.Set("access_token", accessToken)

	var result struct {
		StatusCode string `json:"status_code"`
		ID         string `json:"id"`
	}
	if err := g.getJSON(ctx, endpoint, params, &result); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return result.StatusCode, nil
}

func (g *graphClient) PublishContainer(ctx context.Context, igUserID, accessToken, creationID string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/media_publish", graphAPIBase, igUserID)
	payload := map[string]interface{}{
		"creation_id":  creationID,
		"access_token": accessToken,
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := g.postJSON(ctx, endpoint, payload, &result); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("no media ID returned from Instagram")
	}
	return result.ID, nil
}

func (g *graphClient) ExchangeCode(ctx context.Context, clientID, clientSecret, redirectURI, code string) (string, error) {
	endpoint := graphAPIBase + "/oauth/access_token"
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("client_secret", clientSecret)
	params.Set("redirect_uri", redirectURI)
	params.Set("code", code)

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := g.getJSON(ctx, endpoint, params, &result); err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("no access token returned from Meta")
	}
	return result.AccessToken, nil
}

func (g *graphClient) ExchangeLongLivedToken(ctx context.Context, clientID, clientSecret, accessToken string) (string, int, error) {
	endpoint := graphAPIBase + "/oauth/access_token"
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", clientID)
	params.Set("client_secret", clientSecret)
	params.Set("fb_exchange_token", accessToken)

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := g.getJSON(ctx, endpoint, params, &result); err != nil {
		slog.Info(err.Error())
		return "", 0, fmt.Errorf("failed to get long-lived token: %w", err)
	}
	if result.AccessToken == "" {
		return "", 0, fmt.Errorf("no access token returned from Meta")
	}
	return result.AccessToken, result.ExpiresIn, nil
}

func (g *graphClient) ListPages(ctx context.Context, accessToken string) ([]MetaPage, error) {
	endpoint := graphAPIBase + "/me/accounts"
	params := url.Values{}
	params.Set("access_token", accessToken)

	var result struct {
		Data []MetaPage `json:"data"`
	}
	if err := g.getJSON(ctx, endpoint, params, &result); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return result.Data, nil
}

func (g *graphClient) InstagramBusinessAccount(ctx context.Context, pageID, pageToken string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s", graphAPIBase, pageID)
	params := url.Values{}
	params.Set("fields", "instagram_business_account")
	params.Set("access_token", pageToken)

	var result struct {
		InstagramBusinessAccount *struct {
			ID string `json:"id"`
		} `json:"instagram_business_account"`
	}
	if err := g.getJSON(ctx, endpoint, params, &result); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	if result.InstagramBusinessAccount == nil {
		return "", nil
	}
	return result.InstagramBusinessAccount.ID, nil
}
