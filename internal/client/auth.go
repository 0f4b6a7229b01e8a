package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"nft-storefront/internal/config"
	"nft-storefront/internal/model"
)

type AuthClient interface {
	GoogleLogin(ctx context.Context, credential string) (*LoginResult, error)
	RequestMagicLink(ctx context.Context, email string) error
	VerifyMagicLink(ctx context.Context, linkToken string) (*LoginResult, error)
	Me(ctx context.Context, bearerToken string) (*model.User, error)
	UpdateMe(ctx context.Context, bearerToken string, patch *model.UserUpdate) (*model.User, error)
	Logout(ctx context.Context, bearerToken string) error
}

type LoginResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user"`
}

type authClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewAuthClient(backendCfg *config.Backend) AuthClient {
	return &authClientImpl{
		httpClient: &http.Client{
			Timeout: backendCfg.Timeout,
		},
		baseURL: backendCfg.BaseURL,
	}
}

func (c *authClientImpl) postJSON(ctx context.Context, path string, body interface{}, bearerToken string) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	return resp, nil
}

func (c *authClientImpl) GoogleLogin(ctx context.Context, credential string) (*LoginResult, error) {
	resp, err := c.postJSON(ctx, "/api/auth/google", map[string]string{"credential": credential}, "")
	if err != nil {
		return nil, fmt.Errorf("google login: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, errorFromResponse(resp)
	}

	var result LoginResult
	if err := decodeBody(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("google login: %w", err)
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("google login: missing access token in response")
	}
	return &result, nil
}

func (c *authClientImpl) RequestMagicLink(ctx context.Context, email string) error {
	resp, err := c.postJSON(ctx, "/api/auth/request-link", map[string]string{"email": email}, "")
	if err != nil {
		return fmt.Errorf("request magic link: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return errorFromResponse(resp)
	}

	var result struct{}
	if err := decodeBody(resp.Body, &result); err != nil {
		return fmt.Errorf("request magic link: %w", err)
	}
	return nil
}

func (c *authClientImpl) VerifyMagicLink(ctx context.Context, linkToken string) (*LoginResult, error) {
	resp, err := c.postJSON(ctx, "/api/auth/verify-link", map[string]string{"token": linkToken}, "")
	if err != nil {
		return nil, fmt.Errorf("verify magic link: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, errorFromResponse(resp)
	}

	var result LoginResult
	if err := decodeBody(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("verify magic link: %w", err)
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("verify magic link: missing access token in response")
	}
	return &result, nil
}

func (c *authClientImpl) Me(ctx context.Context, bearerToken string) (*model.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, errorFromResponse(resp)
	}

	var user model.User
	if err := decodeBody(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return &user, nil
}

func (c *authClientImpl) UpdateMe(ctx context.Context, bearerToken string, patch *model.UserUpdate) (*model.User, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal profile patch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/auth/me", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, errorFromResponse(resp)
	}

	var user model.User
	if err := decodeBody(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

func (c *authClientImpl) Logout(ctx context.Context, bearerToken string) error {
	resp, err := c.postJSON(ctx, "/api/auth/logout", map[string]string{}, bearerToken)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return errorFromResponse(resp)
	}
	return nil
}
