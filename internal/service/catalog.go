package service

import (
	"context"
	"log/slog"
	"sync"

	"nft-storefront/internal/client"
	"nft-storefront/internal/config"
	"nft-storefront/internal/model"
)

// maxCatalogFetch caps how many rows one refresh pulls; the filter
// pipeline runs over this set in memory. catalogFetchPage is the
// backend page size while following has_more.
const (
	maxCatalogFetch  = 500
	catalogFetchPage = 100
)

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type CatalogView struct {
	Listings   []model.Listing `json:"listings"`
	Pagination Pagination      `json:"pagination"`
}

// Catalog holds the in-memory listing set plus the active filter,
// query and page, and serves filtered views of it. Local purchase
// marks overlay the fetched rows: a listing goes "reserved" when a
// buy is initiated and only flips to "sold" once the status machine
// reports completed, so a failed payment never leaves a phantom sale.
type Catalog struct {
	market client.MarketClient
	logger *slog.Logger

	mu       sync.Mutex
	listings []model.Listing
	filter   Filter
	query    string
	page     int
	pageSize int
	pending  map[int64]bool
	sold     map[int64]bool

	search *Debouncer
}

func NewCatalog(market client.MarketClient, catalogCfg *config.Catalog, logger *slog.Logger) *Catalog {
	c := &Catalog{
		market:   market,
		logger:   logger,
		filter:   DefaultFilter(),
		page:     1,
		pageSize: catalogCfg.PageSize,
		pending:  map[int64]bool{},
		sold:     map[int64]bool{},
	}
	c.search = NewDebouncer(catalogCfg.SearchDebounce, func(q string) {
		c.SetQuery(q)
	})
	return c
}

// Refresh replaces the listing set from the backend, following
// has_more until the set is complete or the fetch cap is hit. When the
// first page fails it falls back to the built-in sample catalog; a
// later page failure keeps the partial set. It never returns an error
// to the caller; a browsable catalog is always available.
func (c *Catalog) Refresh(ctx context.Context) {
	var listings []model.Listing
	for {
		result, err := c.market.List(ctx, client.ListParams{Skip: len(listings), Limit: catalogFetchPage})
		if err != nil {
			if len(listings) == 0 {
				c.logger.Warn("catalog fetch failed, serving sample data", "error", err)
				c.mu.Lock()
				c.listings = sampleListings()
				c.mu.Unlock()
				return
			}
			c.logger.Warn("catalog page fetch failed, keeping partial set",
				"error", err, "fetched", len(listings))
			break
		}
		listings = append(listings, result.Listings...)
		if !result.HasMore || len(result.Listings) == 0 || len(listings) >= maxCatalogFetch {
			break
		}
	}

	for i := range listings {
		listings[i].ImageURL = NormalizeImageURL(listings[i].ImageURL)
	}

	c.mu.Lock()
	c.listings = listings
	c.mu.Unlock()
}

// SetFilter replaces the active filter and resets to page 1.
func (c *Catalog) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
	c.page = 1
}

// SetQuery replaces the free-text query and resets to page 1.
func (c *Catalog) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
	c.page = 1
}

// QueueQuery feeds a keystroke into the debounced search; only the
// last value in a quiet window becomes the active query.
func (c *Catalog) QueueQuery(q string) {
	c.search.Trigger(q)
}

func (c *Catalog) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.page = page
}

// View applies the active filter, query and page to the current set.
func (c *Catalog) View() *CatalogView {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]model.Listing, len(c.listings))
	copy(snapshot, c.listings)
	for i := range snapshot {
		if c.sold[snapshot[i].ID] {
			snapshot[i].IsSold = true
		} else if c.pending[snapshot[i].ID] {
			snapshot[i].IsReserved = true
		}
	}

	filtered := ApplyFilter(snapshot, c.filter, c.query)
	return &CatalogView{
		Listings: Paginate(filtered, c.page, c.pageSize),
		Pagination: Pagination{
			Page:       c.page,
			PageSize:   c.pageSize,
			Total:      len(filtered),
			TotalPages: TotalPages(len(filtered), c.pageSize),
		},
	}
}

// ViewWith serves a one-off view for explicit filter parameters
// without touching the stored filter state.
func (c *Catalog) ViewWith(f Filter, query string, page int) *CatalogView {
	c.mu.Lock()
	snapshot := make([]model.Listing, len(c.listings))
	copy(snapshot, c.listings)
	for i := range snapshot {
		if c.sold[snapshot[i].ID] {
			snapshot[i].IsSold = true
		} else if c.pending[snapshot[i].ID] {
			snapshot[i].IsReserved = true
		}
	}
	pageSize := c.pageSize
	c.mu.Unlock()

	if page < 1 {
		page = 1
	}
	filtered := ApplyFilter(snapshot, f, query)
	return &CatalogView{
		Listings: Paginate(filtered, page, pageSize),
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      len(filtered),
			TotalPages: TotalPages(len(filtered), pageSize),
		},
	}
}

func (c *Catalog) Get(ctx context.Context, id int64) (*model.Listing, error) {
	listing, err := c.market.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	listing.ImageURL = NormalizeImageURL(listing.ImageURL)

	c.mu.Lock()
	if c.sold[listing.ID] {
		listing.IsSold = true
	} else if c.pending[listing.ID] {
		listing.IsReserved = true
	}
	c.mu.Unlock()

	return listing, nil
}

// MarkPending records a locally initiated purchase.
func (c *Catalog) MarkPending(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[id] = true
}

// MarkSold promotes a pending purchase once payment completed.
func (c *Catalog) MarkSold(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
	c.sold[id] = true
}

// ClearPending drops the local reservation after a failed or
// abandoned purchase.
func (c *Catalog) ClearPending(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

// Close stops the debounced search timer.
func (c *Catalog) Close() {
	c.search.Stop()
}
