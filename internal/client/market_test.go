package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nft-storefront/internal/config"
)

func backendCfg(srv *httptest.Server) *config.Backend {
	return &config.Backend{BaseURL: srv.URL, Timeout: 5 * time.Second}
}

func TestListSendsQueryParameters(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/nft/list" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		gotQuery = map[string]string{
			"skip":     r.URL.Query().Get("skip"),
			"limit":    r.URL.Query().Get("limit"),
			"category": r.URL.Query().Get("category"),
			"search":   r.URL.Query().Get("search"),
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"nfts": []interface{}{}, "total": 0, "has_more": false,
		})
	}))
	defer srv.Close()

	c := NewMarketClient(backendCfg(srv))
	_, err := c.List(context.Background(), ListParams{Skip: 24, Limit: 12, Category: "art", Search: "sunset"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := map[string]string{"skip": "24", "limit": "12", "category": "art", "search": "sunset"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Fatalf("query %s: got %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestListDecodesEnvelopeAndBarePayloads(t *testing.T) {
	bodies := []string{
		`{"success": true, "data": {"nfts": [{"id": 1, "title": "A"}], "total": 1, "has_more": false}}`,
		`{"nfts": [{"id": 1, "title": "A"}], "total": 1, "has_more": false}`,
	}
	for _, body := range bodies {
		body := body
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}))

		c := NewMarketClient(backendCfg(srv))
		result, err := c.List(context.Background(), ListParams{Limit: 10})
		srv.Close()
		if err != nil {
			t.Fatalf("list (%s): %v", body, err)
		}
		if len(result.Listings) != 1 || result.Listings[0].Title != "A" || result.Total != 1 {
			t.Fatalf("list (%s): got %+v", body, result)
		}
	}
}

func TestListSurfacesBackendDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "invalid category"}`))
	}))
	defer srv.Close()

	c := NewMarketClient(backendCfg(srv))
	_, err := c.List(context.Background(), ListParams{Limit: 10})
	if err == nil || !strings.Contains(err.Error(), "invalid category") {
		t.Fatalf("expected backend detail in error, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewMarketClient(backendCfg(srv))
	if _, err := c.Get(context.Background(), 99); err == nil {
		t.Fatal("expected error for missing listing")
	}
}

func TestBuySendsAuthAndRequestID(t *testing.T) {
	var auths, requestIDs []string
	// The backend is inconsistent about the transaction_id type; both
	// shapes must decode.
	txnIDs := []interface{}{12345, "12345"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/nft/7/buy" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["payment_mode"] != "upi" {
			t.Errorf("payment_mode: got %q", body["payment_mode"])
		}
		auths = append(auths, r.Header.Get("Authorization"))
		requestIDs = append(requestIDs, r.Header.Get("X-Request-Id"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transaction_id": txnIDs[len(auths)-1],
			"payment_mode":   "upi",
			"amount":         "999.00",
			"currency":       "INR",
		})
	}))
	defer srv.Close()

	c := NewMarketClient(backendCfg(srv))
	for i := 0; i < 2; i++ {
		result, err := c.Buy(context.Background(), 7, "upi", "token-abc")
		if err != nil {
			t.Fatalf("buy: %v", err)
		}
		if result.TransactionID.String() != "12345" {
			t.Fatalf("transaction id: got %q", result.TransactionID)
		}
	}

	for _, a := range auths {
		if a != "Bearer token-abc" {
			t.Fatalf("authorization: got %q", a)
		}
	}
	if requestIDs[0] == "" || requestIDs[0] == requestIDs[1] {
		t.Fatalf("expected a fresh request id per attempt, got %v", requestIDs)
	}
}

func TestBuyUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "token expired"}`))
	}))
	defer srv.Close()

	c := NewMarketClient(backendCfg(srv))
	_, err := c.Buy(context.Background(), 7, "upi", "stale")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestBuyRejectsBusinessFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "NFT is already sold",
		})
	}))
	defer srv.Close()

	c := NewMarketClient(backendCfg(srv))
	_, err := c.Buy(context.Background(), 7, "upi", "token")
	if err == nil || !strings.Contains(err.Error(), "already sold") {
		t.Fatalf("expected business failure, got %v", err)
	}
}
