package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"nft-storefront/internal/service"
)

type PurchaseHandler struct {
	purchases *service.Purchases
}

func NewPurchaseHandler(purchases *service.Purchases) *PurchaseHandler {
	return &PurchaseHandler{
		purchases: purchases,
	}
}

type buyRequest struct {
	PaymentMode string `json:"payment_mode"`
}

func (h *PurchaseHandler) Buy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	var req buyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	outcome, err := h.purchases.Buy(ctx, id, req.PaymentMode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotLoggedIn):
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrListingUnavailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, outcome)
}

// Status runs one payment-status check; the storefront's receipt page
// polls this endpoint while it shows "processing".
func (h *PurchaseHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	update := h.purchases.Status(ctx, c.Param("txn"))
	return c.JSON(http.StatusOK, update)
}

// Await blocks until the purchase reaches a terminal state or the
// request is cancelled, and returns the last observed update.
func (h *PurchaseHandler) Await(c echo.Context) error {
	ctx := c.Request().Context()

	update := h.purchases.Await(ctx, c.Param("txn"))
	return c.JSON(http.StatusOK, update)
}

type paypalCaptureRequest struct {
	OrderID string `json:"order_id"`
}

func (h *PurchaseHandler) CreatePaypalOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := h.purchases.CreatePaypalOrder(ctx, c.Param("txn"))
	if err != nil {
		return purchaseError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"order_id": orderID})
}

func (h *PurchaseHandler) CapturePaypalOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req paypalCaptureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.purchases.CapturePaypalOrder(ctx, c.Param("txn"), req.OrderID); err != nil {
		return purchaseError(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// QRImage proxies the UPI QR image for an active purchase.
func (h *PurchaseHandler) QRImage(c echo.Context) error {
	ctx := c.Request().Context()

	img, err := h.purchases.QRImage(ctx, c.Param("txn"))
	if err != nil {
		return purchaseError(err)
	}

	return c.Blob(http.StatusOK, "image/png", img)
}

// ReloadQR re-arms the QR image URL with a fresh cache-busting
// timestamp, for when the image failed to load.
func (h *PurchaseHandler) ReloadQR(c echo.Context) error {
	qrURL, err := h.purchases.ReloadQR(c.Param("txn"))
	if err != nil {
		return purchaseError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"qr_image_url": qrURL})
}

// Complete acknowledges that the buyer finished an out-of-band UPI
// payment; confirmation still comes from the status endpoints.
func (h *PurchaseHandler) Complete(c echo.Context) error {
	if err := h.purchases.CompleteExternal(c.Param("txn")); err != nil {
		return purchaseError(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Abandon closes the checkout for a transaction and releases the
// local reservation.
func (h *PurchaseHandler) Abandon(c echo.Context) error {
	h.purchases.Abandon(c.Param("txn"))
	return c.NoContent(http.StatusNoContent)
}

func purchaseError(err error) error {
	switch {
	case errors.Is(err, service.ErrUnknownPurchase):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWrongStep), errors.Is(err, service.ErrWrongLeg):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNoApproval):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}
