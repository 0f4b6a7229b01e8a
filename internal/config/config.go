package config

import (
	"strings"
	"time"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`

	Backend Backend `envPrefix:"BACKEND_"`
	Session Session `envPrefix:"SESSION_"`
	Catalog Catalog `envPrefix:"CATALOG_"`
	Payment Payment `envPrefix:"PAYMENT_"`
	Google  Google  `envPrefix:"GOOGLE_"`
	Paypal  Paypal  `envPrefix:"PAYPAL_"`
}

// Backend is the remote marketplace API this service fronts.
type Backend struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type Session struct {
	DBPath string `env:"DB_PATH" envDefault:"storefront.db"`
}

type Catalog struct {
	PageSize       int           `env:"PAGE_SIZE" envDefault:"12"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"300ms"`
}

type Payment struct {
	// PollInterval is the delay between purchase-status checks while the
	// payment is still pending or processing.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
	// MaxPollAttempts bounds the status poll loop; 0 keeps polling until
	// a terminal status arrives.
	MaxPollAttempts int `env:"MAX_POLL_ATTEMPTS" envDefault:"0"`
}

// Normalize fills derived defaults after env parsing: the PayPal
// return and cancel URLs default to paths under the public base URL.
func (c *Config) Normalize() {
	base := strings.TrimSuffix(c.BaseURL, "/")
	if base == "" {
		return
	}
	if c.Paypal.ReturnURL == "" {
		c.Paypal.ReturnURL = base + "/purchase/paypal/return"
	}
	if c.Paypal.CancelURL == "" {
		c.Paypal.CancelURL = base + "/purchase/paypal/cancel"
	}
}

type Google struct {
	ClientID string `env:"CLIENT_ID"`
}

type Paypal struct {
	ClientID  string `env:"CLIENT_ID"`
	ReturnURL string `env:"RETURN_URL"`
	CancelURL string `env:"CANCEL_URL"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
