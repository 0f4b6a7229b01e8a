package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"nft-storefront/internal/config"
	"nft-storefront/internal/model"
)

type PaymentClient interface {
	// QRImageURL is the stable UPI QR location for a transaction;
	// QRReloadURL cache-busts it with a timestamp query parameter.
	QRImageURL(transactionID string) string
	QRReloadURL(transactionID string) string
	FetchQRImage(ctx context.Context, transactionID string) ([]byte, error)

	UPILink(ctx context.Context, transactionID string) (string, error)

	CreatePaypalOrder(ctx context.Context, req *PaypalCreateRequest) (string, error)
	CapturePaypalOrder(ctx context.Context, req *PaypalCaptureRequest) error

	Status(ctx context.Context, transactionID string) (*model.PaymentStatus, error)
}

type PaypalCreateRequest struct {
	NFTID     int64  `json:"nft_id"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

type PaypalCaptureRequest struct {
	OrderID    string `json:"orderID"`
	NFTID      int64  `json:"nft_id"`
	BuyerEmail string `json:"buyer_email"`
	BuyerName  string `json:"buyer_name"`
}

type paymentClientImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewPaymentClient(backendCfg *config.Backend) PaymentClient {
	return &paymentClientImpl{
		httpClient: &http.Client{
			Timeout: backendCfg.Timeout,
		},
		baseURL: backendCfg.BaseURL,
	}
}

func (c *paymentClientImpl) QRImageURL(transactionID string) string {
	return c.baseURL + "/api/payment/upi/qr/" + transactionID
}

func (c *paymentClientImpl) QRReloadURL(transactionID string) string {
	return c.QRImageURL(transactionID) + "?t=" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func (c *paymentClientImpl) FetchQRImage(ctx context.Context, transactionID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QRImageURL(transactionID), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch upi qr: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, errorFromResponse(resp)
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upi qr image: %w", err)
	}
	return img, nil
}

func (c *paymentClientImpl) UPILink(ctx context.Context, transactionID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/payment/upi/link/"+transactionID, nil)
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch upi link: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return "", errorFromResponse(resp)
	}

	var result struct {
		Success bool   `json:"success"`
		UPILink string `json:"upi_link"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upi link response: %w", err)
	}
	if !result.Success || result.UPILink == "" {
		if result.Message == "" {
			result.Message = "unable to get UPI link"
		}
		return "", fmt.Errorf("backend: %s", result.Message)
	}
	return result.UPILink, nil
}

func (c *paymentClientImpl) CreatePaypalOrder(ctx context.Context, createReq *PaypalCreateRequest) (string, error) {
	payload, err := json.Marshal(createReq)
	if err != nil {
		return "", fmt.Errorf("marshal create order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/payment/paypal/create", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal create order: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return "", errorFromResponse(resp)
	}

	var result struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	if err := decodeBody(resp.Body, &result); err != nil {
		return "", fmt.Errorf("paypal create order: %w", err)
	}
	if result.Order.ID == "" {
		return "", fmt.Errorf("paypal create order: missing order id in response")
	}
	return result.Order.ID, nil
}

func (c *paymentClientImpl) CapturePaypalOrder(ctx context.Context, captureReq *PaypalCaptureRequest) error {
	payload, err := json.Marshal(captureReq)
	if err != nil {
		return fmt.Errorf("marshal capture payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/payment/paypal/capture", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paypal capture: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return errorFromResponse(resp)
	}

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode capture response: %w", err)
	}
	if !result.Success {
		if result.Message == "" {
			result.Message = "payment capture failed"
		}
		return fmt.Errorf("backend: %s", result.Message)
	}
	return nil
}

func (c *paymentClientImpl) Status(ctx context.Context, transactionID string) (*model.PaymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/payment/status/"+transactionID, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment status: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp) {
		return nil, errorFromResponse(resp)
	}

	var status model.PaymentStatus
	if err := decodeBody(resp.Body, &status); err != nil {
		return nil, fmt.Errorf("payment status: %w", err)
	}
	return &status, nil
}
