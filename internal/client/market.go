package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nft-storefront/internal/config"
	"nft-storefront/internal/model"
)

type MarketClient interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, id int64) (*model.Listing, error)
	Buy(ctx context.Context, id int64, paymentMode string, bearerToken string) (*BuyResult, error)
}

type ListParams struct {
	Skip     int
	Limit    int
	Category string
	Search   string
}

type ListResult struct {
	Listings []model.Listing `json:"nfts"`
	Total    int             `json:"total"`
	HasMore  bool            `json:"has_more"`
}

type BuyResult struct {
	TransactionID model.TxnID     `json:"transaction_id"`
	PaymentMode   string          `json:"payment_mode"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	NextStep      string          `json:"next_step"`
	PaymentURL    string          `json:"payment_url"`
}

type marketClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewMarketClient(backendCfg *config.Backend) MarketClient {
	return &marketClientImpl{
		httpClient: &http.Client{
			Timeout: backendCfg.Timeout,
		},
		baseURL: backendCfg.BaseURL,
	}
}

func (c *marketClientImpl) List(ctx context.Context, params ListParams) (*ListResult, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(params.Skip))
	q.Set("limit", strconv.Itoa(params.Limit))
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/nft/list?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, errorFromResponse(resp)
	}

	var result ListResult
	if err := decodeBody(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return &result, nil
}

func (c *marketClientImpl) Get(ctx context.Context, id int64) (*model.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/nft/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("listing %d not found", id)
	}
	if !ok(resp) {
		return nil, errorFromResponse(resp)
	}

	var listing model.Listing
	if err := decodeBody(resp.Body, &listing); err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return &listing, nil
}

func (c *marketClientImpl) Buy(ctx context.Context, id int64, paymentMode string, bearerToken string) (*BuyResult, error) {
	payload, err := json.Marshal(map[string]string{
		"payment_mode": paymentMode,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal buy payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/nft/%d/buy", c.baseURL, id), bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	// One id per buy attempt so a retried POST is recognizable upstream.
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("buy listing: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, errorFromResponse(resp)
	}

	var result BuyResult
	if err := decodeBody(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("buy listing: %w", err)
	}
	return &result, nil
}
