package config

import "testing"

func TestNormalizeDerivesPaypalURLs(t *testing.T) {
	cfg := &Config{BaseURL: "https://store.example.com/"}
	cfg.Normalize()

	if cfg.Paypal.ReturnURL != "https://store.example.com/purchase/paypal/return" {
		t.Fatalf("return url: got %q", cfg.Paypal.ReturnURL)
	}
	if cfg.Paypal.CancelURL != "https://store.example.com/purchase/paypal/cancel" {
		t.Fatalf("cancel url: got %q", cfg.Paypal.CancelURL)
	}
}

func TestNormalizeKeepsExplicitURLs(t *testing.T) {
	cfg := &Config{BaseURL: "https://store.example.com"}
	cfg.Paypal.ReturnURL = "https://elsewhere.example.com/done"
	cfg.Normalize()

	if cfg.Paypal.ReturnURL != "https://elsewhere.example.com/done" {
		t.Fatalf("explicit return url overwritten: %q", cfg.Paypal.ReturnURL)
	}
	if cfg.Paypal.CancelURL != "https://store.example.com/purchase/paypal/cancel" {
		t.Fatalf("cancel url: got %q", cfg.Paypal.CancelURL)
	}
}

func TestNormalizeWithoutBaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()

	if cfg.Paypal.ReturnURL != "" || cfg.Paypal.CancelURL != "" {
		t.Fatalf("urls invented without a base: %q %q", cfg.Paypal.ReturnURL, cfg.Paypal.CancelURL)
	}
}
