package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"nft-storefront/internal/client"
	"nft-storefront/internal/config"
	"nft-storefront/internal/model"
)

var (
	ErrListingUnavailable = errors.New("listing is no longer available")
	ErrUnknownPurchase    = errors.New("unknown transaction reference")
)

// BuyOutcome is what the storefront needs to render step 2 of the
// checkout right after a buy: the correlation id plus the
// currency-specific payment affordances.
type BuyOutcome struct {
	TransactionID string         `json:"transaction_id"`
	PaymentMode   string         `json:"payment_mode"`
	Listing       *model.Listing `json:"listing"`
	QRImageURL    string         `json:"qr_image_url,omitempty"`
	UPILink       string         `json:"upi_link,omitempty"`
	UPILinkError  string         `json:"upi_link_error,omitempty"`
	PaymentURL    string         `json:"payment_url,omitempty"`
}

// Purchases orchestrates one purchase per transaction reference:
// create the backend transaction, drive the checkout, and reconcile
// the catalog's local marks against the status poller instead of the
// optimistic buy response.
type Purchases struct {
	market    client.MarketClient
	payments  client.PaymentClient
	catalog   *Catalog
	auth      *Auth
	watcher   *StatusWatcher
	paypalCfg config.Paypal

	mu     sync.Mutex
	active map[string]*purchaseAttempt
}

type purchaseAttempt struct {
	listingID int64
	checkout  *Checkout
}

func NewPurchases(
	market client.MarketClient,
	payments client.PaymentClient,
	catalog *Catalog,
	auth *Auth,
	watcher *StatusWatcher,
	paypalCfg config.Paypal,
) *Purchases {
	return &Purchases{
		market:    market,
		payments:  payments,
		catalog:   catalog,
		auth:      auth,
		watcher:   watcher,
		paypalCfg: paypalCfg,
		active:    map[string]*purchaseAttempt{},
	}
}

// Buy creates the backend transaction for a listing and opens a
// checkout at its payment step. The listing is marked reserved
// locally; it only becomes sold when the status machine completes.
func (p *Purchases) Buy(ctx context.Context, listingID int64, paymentMode string) (*BuyOutcome, error) {
	if !p.auth.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}
	if paymentMode != model.CurrencyINR && paymentMode != model.CurrencyUSD {
		return nil, fmt.Errorf("unsupported payment mode %q", paymentMode)
	}

	listing, err := p.catalog.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.Available() {
		return nil, ErrListingUnavailable
	}

	result, err := p.market.Buy(ctx, listingID, paymentMode, p.auth.Token())
	if err != nil {
		return nil, err
	}
	transactionID := result.TransactionID.String()
	if transactionID == "" {
		return nil, fmt.Errorf("backend returned no transaction reference")
	}

	p.catalog.MarkPending(listingID)

	checkout := NewCheckout(p.payments, p.paypalCfg, listing, paymentMode, transactionID)
	if err := checkout.Confirm(ctx, true); err != nil {
		p.catalog.ClearPending(listingID)
		return nil, err
	}

	p.mu.Lock()
	p.active[transactionID] = &purchaseAttempt{listingID: listingID, checkout: checkout}
	p.mu.Unlock()

	outcome := &BuyOutcome{
		TransactionID: transactionID,
		PaymentMode:   paymentMode,
		Listing:       listing,
		PaymentURL:    result.PaymentURL,
	}
	if paymentMode == model.CurrencyINR {
		outcome.QRImageURL = checkout.QRURL()
		outcome.UPILink, outcome.UPILinkError = checkout.UPILink()
	}
	return outcome, nil
}

// Checkout returns the live attempt for a transaction reference.
func (p *Purchases) Checkout(transactionID string) (*Checkout, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	attempt, found := p.active[transactionID]
	if !found {
		return nil, ErrUnknownPurchase
	}
	return attempt.checkout, nil
}

// CreatePaypalOrder starts the USD leg for an active purchase.
func (p *Purchases) CreatePaypalOrder(ctx context.Context, transactionID string) (string, error) {
	checkout, err := p.Checkout(transactionID)
	if err != nil {
		return "", err
	}
	return checkout.CreatePaypalOrder(ctx)
}

// CapturePaypalOrder completes the USD leg after external approval.
func (p *Purchases) CapturePaypalOrder(ctx context.Context, transactionID, orderID string) error {
	checkout, err := p.Checkout(transactionID)
	if err != nil {
		return err
	}
	return checkout.CapturePaypalOrder(ctx, p.auth.User(), orderID)
}

// ReloadQR cache-busts the QR image URL for an active INR purchase
// and returns the new URL.
func (p *Purchases) ReloadQR(transactionID string) (string, error) {
	checkout, err := p.Checkout(transactionID)
	if err != nil {
		return "", err
	}
	checkout.ReloadQR()
	return checkout.QRURL(), nil
}

// QRImage proxies the UPI QR image bytes for an active purchase.
func (p *Purchases) QRImage(ctx context.Context, transactionID string) ([]byte, error) {
	if _, err := p.Checkout(transactionID); err != nil {
		return nil, err
	}
	return p.payments.FetchQRImage(ctx, transactionID)
}

// CompleteExternal acknowledges an out-of-band UPI payment; the status
// poller remains the source of truth for whether money moved.
func (p *Purchases) CompleteExternal(transactionID string) error {
	checkout, err := p.Checkout(transactionID)
	if err != nil {
		return err
	}
	return checkout.CompleteExternal()
}

// Status runs one status check and reconciles the catalog marks with
// the outcome.
func (p *Purchases) Status(ctx context.Context, transactionID string) StatusUpdate {
	update := p.watcher.Check(ctx, transactionID)
	p.reconcile(transactionID, update)
	return update
}

// Await polls until the purchase reaches a terminal state, the
// configured attempt bound runs out, or ctx is cancelled, and returns
// the last observed update.
func (p *Purchases) Await(ctx context.Context, transactionID string) StatusUpdate {
	last := StatusUpdate{State: StateLoading}
	for update := range p.watcher.Watch(ctx, transactionID) {
		last = update
	}
	p.reconcile(transactionID, last)
	return last
}

// Abandon drops a purchase attempt: closes the checkout and clears
// the local reservation.
func (p *Purchases) Abandon(transactionID string) {
	p.mu.Lock()
	attempt, found := p.active[transactionID]
	if found {
		delete(p.active, transactionID)
	}
	p.mu.Unlock()

	if found {
		attempt.checkout.Close()
		p.catalog.ClearPending(attempt.listingID)
	}
}

func (p *Purchases) reconcile(transactionID string, update StatusUpdate) {
	p.mu.Lock()
	attempt, found := p.active[transactionID]
	p.mu.Unlock()
	if !found {
		return
	}

	switch update.State {
	case StateSuccess:
		p.catalog.MarkSold(attempt.listingID)
		p.mu.Lock()
		delete(p.active, transactionID)
		p.mu.Unlock()
	case StateFailed:
		p.catalog.ClearPending(attempt.listingID)
		p.mu.Lock()
		delete(p.active, transactionID)
		p.mu.Unlock()
	}
}
