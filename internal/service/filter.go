package service

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"nft-storefront/internal/model"
)

// Sort keys accepted by the catalog. Newest (id descending) is the
// default.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
)

// CategoryAll is the sentinel that disables the category filter.
const CategoryAll = "all"

// PriceRange bounds are inclusive; a nil bound is unbounded.
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

type Filter struct {
	Category      string
	PriceRange    PriceRange
	Currency      string
	SortBy        string
	ShowAvailable bool
}

func DefaultFilter() Filter {
	return Filter{
		Category: CategoryAll,
		Currency: model.CurrencyINR,
		SortBy:   SortNewest,
	}
}

// ApplyFilter runs the catalog pipeline over an in-memory listing set:
// text search, category, availability, price range, then a stable
// sort. It never fails; an empty result is a valid result. The input
// slice is not mutated.
func ApplyFilter(listings []model.Listing, f Filter, query string) []model.Listing {
	result := make([]model.Listing, 0, len(listings))

	query = strings.TrimSpace(strings.ToLower(query))
	for _, l := range listings {
		if query != "" && !matchesQuery(&l, query) {
			continue
		}
		if f.Category != "" && f.Category != CategoryAll && l.Category != f.Category {
			continue
		}
		if f.ShowAvailable && !l.Available() {
			continue
		}
		if !inPriceRange(l.Price(f.Currency), f.PriceRange) {
			continue
		}
		result = append(result, l)
	}

	sortListings(result, f)
	return result
}

// matchesQuery is a case-insensitive substring match OR-combined over
// title, creator, description and category.
func matchesQuery(l *model.Listing, query string) bool {
	return strings.Contains(strings.ToLower(l.Title), query) ||
		strings.Contains(strings.ToLower(l.CreatorName), query) ||
		strings.Contains(strings.ToLower(l.Description), query) ||
		strings.Contains(strings.ToLower(l.Category), query)
}

func inPriceRange(price decimal.Decimal, r PriceRange) bool {
	if r.Min != nil && price.Cmp(*r.Min) < 0 {
		return false
	}
	if r.Max != nil && price.Cmp(*r.Max) > 0 {
		return false
	}
	return true
}

func sortListings(listings []model.Listing, f Filter) {
	var less func(a, b *model.Listing) bool

	switch f.SortBy {
	case SortPriceLow:
		less = func(a, b *model.Listing) bool {
			return a.Price(f.Currency).Cmp(b.Price(f.Currency)) < 0
		}
	case SortPriceHigh:
		less = func(a, b *model.Listing) bool {
			return a.Price(f.Currency).Cmp(b.Price(f.Currency)) > 0
		}
	case SortNameAsc:
		less = func(a, b *model.Listing) bool { return a.Title < b.Title }
	case SortNameDesc:
		less = func(a, b *model.Listing) bool { return a.Title > b.Title }
	case SortOldest:
		less = func(a, b *model.Listing) bool { return a.ID < b.ID }
	default: // newest
		less = func(a, b *model.Listing) bool { return a.ID > b.ID }
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return less(&listings[i], &listings[j])
	})
}

// Paginate slices out a 1-based page. Out-of-range pages are empty,
// never an error.
func Paginate(listings []model.Listing, page, pageSize int) []model.Listing {
	if page < 1 || pageSize < 1 {
		return []model.Listing{}
	}
	start := (page - 1) * pageSize
	if start >= len(listings) {
		return []model.Listing{}
	}
	end := start + pageSize
	if end > len(listings) {
		end = len(listings)
	}
	return listings[start:end]
}

func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
