package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"nft-storefront/internal/model"
	"nft-storefront/internal/service"
)

type CatalogHandler struct {
	catalog *service.Catalog
}

func NewCatalogHandler(catalog *service.Catalog) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
	}
}

// List serves the filtered, sorted, paginated storefront view.
// Filter params: search, category, currency, min_price, max_price,
// available, sort, page.
func (h *CatalogHandler) List(c echo.Context) error {
	filter, err := filterFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
	}

	view := h.catalog.ViewWith(filter, c.QueryParam("search"), page)
	return c.JSON(http.StatusOK, view)
}

func (h *CatalogHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing id")
	}

	listing, err := h.catalog.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, listing)
}

// Refresh re-pulls the listing set from the backend.
func (h *CatalogHandler) Refresh(c echo.Context) error {
	h.catalog.Refresh(c.Request().Context())
	return c.JSON(http.StatusOK, h.catalog.View())
}

// View serves the stored filter, query and page state.
func (h *CatalogHandler) View(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.View())
}

type filterRequest struct {
	Category  string `json:"category"`
	Currency  string `json:"currency"`
	Sort      string `json:"sort"`
	Available bool   `json:"available"`
	MinPrice  string `json:"min_price"`
	MaxPrice  string `json:"max_price"`
}

// SetFilter replaces the stored filter; the page resets to 1.
func (h *CatalogHandler) SetFilter(c echo.Context) error {
	var req filterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	filter := service.DefaultFilter()
	if req.Category != "" {
		filter.Category = req.Category
	}
	if req.Currency != "" {
		if req.Currency != model.CurrencyINR && req.Currency != model.CurrencyUSD {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid currency")
		}
		filter.Currency = req.Currency
	}
	if req.Sort != "" {
		filter.SortBy = req.Sort
	}
	filter.ShowAvailable = req.Available
	if req.MinPrice != "" {
		min, err := decimal.NewFromString(req.MinPrice)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		filter.PriceRange.Min = &min
	}
	if req.MaxPrice != "" {
		max, err := decimal.NewFromString(req.MaxPrice)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		filter.PriceRange.Max = &max
	}

	h.catalog.SetFilter(filter)
	return c.JSON(http.StatusOK, h.catalog.View())
}

type pageRequest struct {
	Page int `json:"page"`
}

// SetPage moves the stored view to another page.
func (h *CatalogHandler) SetPage(c echo.Context) error {
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Page < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page")
	}

	h.catalog.SetPage(req.Page)
	return c.JSON(http.StatusOK, h.catalog.View())
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search feeds a keystroke into the debounced query; only the last
// value in a quiet window becomes the active one.
func (h *CatalogHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	h.catalog.QueueQuery(req.Query)
	return c.NoContent(http.StatusAccepted)
}

func filterFromQuery(c echo.Context) (service.Filter, error) {
	filter := service.DefaultFilter()

	if category := c.QueryParam("category"); category != "" {
		filter.Category = category
	}
	if currency := c.QueryParam("currency"); currency != "" {
		if currency != model.CurrencyINR && currency != model.CurrencyUSD {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid currency")
		}
		filter.Currency = currency
	}
	if sortBy := c.QueryParam("sort"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if raw := c.QueryParam("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid available flag")
		}
		filter.ShowAvailable = available
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		filter.PriceRange.Min = &min
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		filter.PriceRange.Max = &max
	}
	return filter, nil
}
