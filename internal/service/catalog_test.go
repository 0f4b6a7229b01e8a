package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"nft-storefront/internal/client"
	"nft-storefront/internal/config"
	"nft-storefront/internal/model"
)

type fakeMarket struct {
	listResult *client.ListResult
	listPages  []*client.ListResult
	listErrs   []error
	listErr    error
	getListing *model.Listing
	getErr     error
	buyResult  *client.BuyResult
	buyErr     error

	listCalls      int
	lastListParams client.ListParams
}

func (f *fakeMarket) List(ctx context.Context, params client.ListParams) (*client.ListResult, error) {
	f.lastListParams = params
	call := f.listCalls
	f.listCalls++

	if call < len(f.listErrs) && f.listErrs[call] != nil {
		return nil, f.listErrs[call]
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.listPages) > 0 {
		if call >= len(f.listPages) {
			call = len(f.listPages) - 1
		}
		return f.listPages[call], nil
	}
	return f.listResult, nil
}

func (f *fakeMarket) Get(ctx context.Context, id int64) (*model.Listing, error) {
	return f.getListing, f.getErr
}

func (f *fakeMarket) Buy(ctx context.Context, id int64, paymentMode string, bearerToken string) (*client.BuyResult, error) {
	if f.buyErr != nil {
		return nil, f.buyErr
	}
	if f.buyResult == nil {
		return nil, errors.New("not scripted")
	}
	return f.buyResult, nil
}

func catalogCfg(pageSize int) *config.Catalog {
	return &config.Catalog{PageSize: pageSize, SearchDebounce: 10 * time.Millisecond}
}

func newTestCatalog(t *testing.T, market *fakeMarket, pageSize int) *Catalog {
	t.Helper()
	c := NewCatalog(market, catalogCfg(pageSize), quietLogger())
	t.Cleanup(c.Close)
	return c
}

func TestRefreshFallsBackToSampleData(t *testing.T) {
	market := &fakeMarket{listErr: errors.New("backend down")}
	c := newTestCatalog(t, market, 12)

	c.Refresh(context.Background())

	view := c.View()
	if len(view.Listings) == 0 {
		t.Fatal("expected sample catalog when the backend is unreachable")
	}
	for _, l := range view.Listings {
		if l.Title == "" || l.ImageURL == "" {
			t.Fatalf("sample listing incomplete: %+v", l)
		}
	}
}

func TestRefreshFollowsHasMore(t *testing.T) {
	market := &fakeMarket{listPages: []*client.ListResult{
		{
			Listings: []model.Listing{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}, {ID: 3, Title: "C"}},
			Total:    5,
			HasMore:  true,
		},
		{
			Listings: []model.Listing{{ID: 4, Title: "D"}, {ID: 5, Title: "E"}},
			Total:    5,
			HasMore:  false,
		},
	}}
	c := newTestCatalog(t, market, 12)

	c.Refresh(context.Background())

	if market.listCalls != 2 {
		t.Fatalf("list calls: got %d, want 2", market.listCalls)
	}
	if market.lastListParams.Skip != 3 {
		t.Fatalf("second page skip: got %d, want 3", market.lastListParams.Skip)
	}
	view := c.View()
	if view.Pagination.Total != 5 {
		t.Fatalf("total after paged refresh: got %d, want 5", view.Pagination.Total)
	}
}

func TestRefreshKeepsPartialSetOnLaterPageFailure(t *testing.T) {
	market := &fakeMarket{
		listPages: []*client.ListResult{
			{
				Listings: []model.Listing{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}},
				HasMore:  true,
			},
		},
		listErrs: []error{nil, errors.New("backend hiccup")},
	}
	c := newTestCatalog(t, market, 12)

	c.Refresh(context.Background())

	view := c.View()
	if got := listingIDs(view.Listings); !reflect.DeepEqual(got, []int64{2, 1}) {
		t.Fatalf("expected the fetched page to survive, got %v", got)
	}
}

func TestRefreshNormalizesImageURLs(t *testing.T) {
	market := &fakeMarket{listResult: &client.ListResult{
		Listings: []model.Listing{
			{ID: 1, Title: "A", ImageURL: "/static/one.png"},
			{ID: 2, Title: "B", ImageURL: "two.png"},
		},
	}}
	c := newTestCatalog(t, market, 12)

	c.Refresh(context.Background())

	// Default sort is newest first, so listing 2 leads.
	view := c.View()
	if view.Listings[0].ImageURL != "/images/two.png" {
		t.Fatalf("bare filename: got %q", view.Listings[0].ImageURL)
	}
	if view.Listings[1].ImageURL != "/images/one.png" {
		t.Fatalf("static path: got %q", view.Listings[1].ImageURL)
	}
}

func TestFilterAndQueryChangesResetPage(t *testing.T) {
	listings := make([]model.Listing, 0, 10)
	for i := int64(1); i <= 10; i++ {
		listings = append(listings, model.Listing{ID: i, Title: "Item", Category: "art"})
	}
	market := &fakeMarket{listResult: &client.ListResult{Listings: listings}}
	c := newTestCatalog(t, market, 3)
	c.Refresh(context.Background())

	c.SetPage(3)
	if got := c.View().Pagination.Page; got != 3 {
		t.Fatalf("page: got %d", got)
	}

	c.SetFilter(DefaultFilter())
	if got := c.View().Pagination.Page; got != 1 {
		t.Fatalf("page after filter change: got %d, want 1", got)
	}

	c.SetPage(2)
	c.SetQuery("item")
	if got := c.View().Pagination.Page; got != 1 {
		t.Fatalf("page after query change: got %d, want 1", got)
	}
}

func TestQueueQueryDebounces(t *testing.T) {
	market := &fakeMarket{listResult: &client.ListResult{
		Listings: []model.Listing{
			{ID: 1, Title: "Sunset"},
			{ID: 2, Title: "Moonrise"},
		},
	}}
	c := newTestCatalog(t, market, 12)
	c.Refresh(context.Background())

	c.QueueQuery("s")
	c.QueueQuery("su")
	c.QueueQuery("sunset")
	time.Sleep(100 * time.Millisecond)

	view := c.View()
	if len(view.Listings) != 1 || view.Listings[0].ID != 1 {
		t.Fatalf("expected only the sunset listing, got %v", listingIDs(view.Listings))
	}
}

func TestPurchaseMarksOverlayListings(t *testing.T) {
	market := &fakeMarket{listResult: &client.ListResult{
		Listings: []model.Listing{
			{ID: 1, Title: "A"},
			{ID: 2, Title: "B"},
		},
	}}
	c := newTestCatalog(t, market, 12)
	c.Refresh(context.Background())

	byID := func(view *CatalogView, id int64) *model.Listing {
		for i := range view.Listings {
			if view.Listings[i].ID == id {
				return &view.Listings[i]
			}
		}
		t.Fatalf("listing %d not in view", id)
		return nil
	}

	c.MarkPending(1)
	got := byID(c.View(), 1)
	if !got.IsReserved {
		t.Fatal("pending purchase should surface as reserved")
	}
	if got.IsSold {
		t.Fatal("pending purchase must not surface as sold")
	}

	c.MarkSold(1)
	if !byID(c.View(), 1).IsSold {
		t.Fatal("completed purchase should surface as sold")
	}

	c.MarkPending(2)
	c.ClearPending(2)
	got = byID(c.View(), 2)
	if got.IsReserved || got.IsSold {
		t.Fatal("cleared reservation should leave the listing available")
	}
}

func TestViewWithLeavesStoredStateAlone(t *testing.T) {
	listings := make([]model.Listing, 0, 6)
	for i := int64(1); i <= 6; i++ {
		listings = append(listings, model.Listing{ID: i, Title: "Item", Category: "art"})
	}
	market := &fakeMarket{listResult: &client.ListResult{Listings: listings}}
	c := newTestCatalog(t, market, 2)
	c.Refresh(context.Background())
	c.SetPage(2)

	f := DefaultFilter()
	f.Category = "music"
	oneOff := c.ViewWith(f, "", 1)
	if len(oneOff.Listings) != 0 {
		t.Fatalf("one-off view: got %v", listingIDs(oneOff.Listings))
	}

	view := c.View()
	if view.Pagination.Page != 2 || len(view.Listings) != 2 {
		t.Fatalf("stored state changed: page=%d listings=%v", view.Pagination.Page, listingIDs(view.Listings))
	}
}

func TestGetAppliesLocalMarks(t *testing.T) {
	market := &fakeMarket{getListing: &model.Listing{ID: 5, Title: "A", ImageURL: "/static/a.png"}}
	c := newTestCatalog(t, market, 12)

	c.MarkPending(5)
	got, err := c.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsReserved {
		t.Fatal("expected local reservation on fetched listing")
	}
	if got.ImageURL != "/images/a.png" {
		t.Fatalf("image url: got %q", got.ImageURL)
	}
}
