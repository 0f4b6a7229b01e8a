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

// Checkout steps. Transitions only move forward; Close resets the
// whole attempt.
type CheckoutStep int

const (
	StepConfirm CheckoutStep = iota + 1
	StepPay
	StepDone
)

var (
	ErrNotLoggedIn   = errors.New("login required to purchase")
	ErrWrongStep     = errors.New("action not available at this step")
	ErrWrongLeg      = errors.New("action not available for this currency")
	ErrNoApproval    = errors.New("paypal approval missing")
	ErrNoTransaction = errors.New("no transaction reference")
)

// Checkout drives one purchase attempt through confirm → pay → done.
// The INR leg hands the user a QR image and a tap-to-pay deep link
// and leaves confirmation to the status poller; the USD leg runs
// create → approve → capture against PayPal and advances only when
// capture succeeds. All transient state dies with Close.
type Checkout struct {
	payments  client.PaymentClient
	paypalCfg config.Paypal

	mu            sync.Mutex
	listing       *model.Listing
	currency      string
	transactionID string

	step       CheckoutStep
	errMsg     string
	qrURL      string
	upiLink    string
	upiLinkErr string
	orderID    string
}

func NewCheckout(payments client.PaymentClient, paypalCfg config.Paypal, listing *model.Listing, currency, transactionID string) *Checkout {
	return &Checkout{
		payments:      payments,
		paypalCfg:     paypalCfg,
		listing:       listing,
		currency:      currency,
		transactionID: transactionID,
		step:          StepConfirm,
	}
}

func (f *Checkout) Step() CheckoutStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Checkout) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *Checkout) QRURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.qrURL
}

func (f *Checkout) UPILink() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upiLink, f.upiLinkErr
}

// Confirm moves from step 1 to step 2. For the INR leg it arms the QR
// image URL and fetches the deep link; the two fetches fail
// independently and the link error never blocks the QR.
func (f *Checkout) Confirm(ctx context.Context, loggedIn bool) error {
	f.mu.Lock()
	if f.step != StepConfirm {
		f.mu.Unlock()
		return ErrWrongStep
	}
	f.errMsg = ""
	if !loggedIn {
		f.errMsg = "You must be logged in to purchase. Please sign in."
		f.mu.Unlock()
		return ErrNotLoggedIn
	}
	if f.transactionID == "" {
		f.errMsg = "Purchase was not initiated"
		f.mu.Unlock()
		return ErrNoTransaction
	}
	f.step = StepPay
	currency := f.currency
	txn := f.transactionID
	if currency == model.CurrencyINR {
		f.qrURL = f.payments.QRImageURL(txn)
		f.upiLink = ""
		f.upiLinkErr = ""
	}
	f.mu.Unlock()

	if currency == model.CurrencyINR {
		link, err := f.payments.UPILink(ctx, txn)

		f.mu.Lock()
		if err != nil {
			f.upiLinkErr = err.Error()
		} else {
			f.upiLink = link
		}
		f.mu.Unlock()
	}
	return nil
}

// ReloadQR cache-busts the QR image URL after a broken image load.
func (f *Checkout) ReloadQR() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transactionID == "" || f.currency != model.CurrencyINR {
		return
	}
	f.qrURL = f.payments.QRReloadURL(f.transactionID)
	f.errMsg = ""
}

// CreatePaypalOrder starts the USD leg. A failure lands its message
// in the error slot and the attempt stays on step 2.
func (f *Checkout) CreatePaypalOrder(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.step != StepPay {
		f.mu.Unlock()
		return "", ErrWrongStep
	}
	if f.currency != model.CurrencyUSD {
		f.mu.Unlock()
		return "", ErrWrongLeg
	}
	f.errMsg = ""
	listing := f.listing
	f.mu.Unlock()

	orderID, err := f.payments.CreatePaypalOrder(ctx, &client.PaypalCreateRequest{
		NFTID:     listing.ID,
		Amount:    listing.PriceUSD.StringFixed(2),
		Currency:  model.CurrencyUSD,
		ReturnURL: f.paypalCfg.ReturnURL,
		CancelURL: f.paypalCfg.CancelURL,
	})
	if err != nil {
		f.setErr(err.Error())
		return "", fmt.Errorf("create paypal order: %w", err)
	}

	f.mu.Lock()
	f.orderID = orderID
	f.mu.Unlock()
	return orderID, nil
}

// CapturePaypalOrder finishes the USD leg after external approval and
// advances to step 3 only when capture reports success.
func (f *Checkout) CapturePaypalOrder(ctx context.Context, buyer *model.User, orderID string) error {
	f.mu.Lock()
	if f.step != StepPay {
		f.mu.Unlock()
		return ErrWrongStep
	}
	if f.currency != model.CurrencyUSD {
		f.mu.Unlock()
		return ErrWrongLeg
	}
	if orderID == "" {
		orderID = f.orderID
	}
	f.errMsg = ""
	listing := f.listing
	f.mu.Unlock()

	if orderID == "" {
		f.setErr("missing PayPal order token")
		return ErrNoApproval
	}

	captureReq := &client.PaypalCaptureRequest{
		OrderID: orderID,
		NFTID:   listing.ID,
	}
	if buyer != nil {
		captureReq.BuyerEmail = buyer.Email
		captureReq.BuyerName = buyer.Name
	}
	if err := f.payments.CapturePaypalOrder(ctx, captureReq); err != nil {
		f.setErr(err.Error())
		return fmt.Errorf("capture paypal order: %w", err)
	}

	f.mu.Lock()
	f.errMsg = ""
	f.step = StepDone
	f.mu.Unlock()
	return nil
}

// CompleteExternal acknowledges an out-of-band UPI payment and shows
// the success step; the purchase-status poller remains the source of
// truth for whether money actually moved.
func (f *Checkout) CompleteExternal() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepPay {
		return ErrWrongStep
	}
	if f.currency != model.CurrencyINR {
		return ErrWrongLeg
	}
	f.errMsg = ""
	f.step = StepDone
	return nil
}

// Close resets every transient field so a reopened checkout starts
// clean at step 1.
func (f *Checkout) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepConfirm
	f.errMsg = ""
	f.qrURL = ""
	f.upiLink = ""
	f.upiLinkErr = ""
	f.orderID = ""
}

func (f *Checkout) setErr(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errMsg = msg
}
