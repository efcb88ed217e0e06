package catalog

import (
	"context"
	"fmt"
	"testing"

	"frostmart/pkg/domain"
)

func productID(p domain.Product) string { return p.ID }

func pageOf(ids ...string) []domain.Product {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Product{ID: id, Name: "Product " + id})
	}
	return out
}

func ids(items []domain.Product) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestAccumulatedListNeverRepeatsIDs(t *testing.T) {
	pages := map[int][]domain.Product{
		1: pageOf("a", "b"),
		2: pageOf("b", "c"), // b overlaps page 1
		3: pageOf("c", "d", "a"),
		4: nil,
	}
	list := NewList(func(_ context.Context, page int, _ string) ([]domain.Product, error) {
		return pages[page], nil
	}, productID)

	for page := 1; page <= 4; page++ {
		if err := list.Load(context.Background(), page, ""); err != nil {
			t.Fatalf("load page %d: %v", page, err)
		}
	}
	got := ids(list.Items())
	want := []string{"a", "b", "c", "d"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
}

func TestHasMoreTracksEmptyPageExactly(t *testing.T) {
	var result []domain.Product
	list := NewList(func(context.Context, int, string) ([]domain.Product, error) {
		return result, nil
	}, productID)

	if !list.HasMore() {
		t.Fatal("fresh list should report more")
	}
	result = pageOf("a")
	if err := list.Load(context.Background(), 1, ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !list.HasMore() {
		t.Fatal("non-empty page must keep hasMore true")
	}
	result = nil
	if err := list.Load(context.Background(), 2, ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	if list.HasMore() {
		t.Fatal("empty page must flip hasMore false")
	}
	result = pageOf("b")
	if err := list.Load(context.Background(), 1, ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !list.HasMore() {
		t.Fatal("hasMore must recover on a non-empty page")
	}
}

func TestPageOneReplacesAccumulatedItems(t *testing.T) {
	pages := map[string][]domain.Product{
		"":  pageOf("a", "b"),
		"x": pageOf("c"),
	}
	list := NewList(func(_ context.Context, _ int, q string) ([]domain.Product, error) {
		return pages[q], nil
	}, productID)

	if err := list.Load(context.Background(), 1, ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := list.Load(context.Background(), 1, "x"); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := ids(list.Items())
	if fmt.Sprint(got) != fmt.Sprint([]string{"c"}) {
		t.Fatalf("items = %v, want [c]", got)
	}
	if list.Search() != "x" {
		t.Fatalf("search = %q", list.Search())
	}
}

func TestErrorLeavesPriorStateUntouched(t *testing.T) {
	fail := false
	list := NewList(func(context.Context, int, string) ([]domain.Product, error) {
		if fail {
			return nil, fmt.Errorf("backend down")
		}
		return pageOf("a"), nil
	}, productID)

	if err := list.Load(context.Background(), 1, ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	fail = true
	if err := list.Load(context.Background(), 2, ""); err == nil {
		t.Fatal("expected error")
	}
	if got := ids(list.Items()); fmt.Sprint(got) != fmt.Sprint([]string{"a"}) {
		t.Fatalf("items changed on failure: %v", got)
	}
	if !list.HasMore() {
		t.Fatal("hasMore changed on failure")
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	type fetchCall struct {
		page    int
		query   string
		release chan []domain.Product
	}
	calls := make(chan fetchCall, 2)
	list := NewList(func(_ context.Context, page int, q string) ([]domain.Product, error) {
		call := fetchCall{page: page, query: q, release: make(chan []domain.Product)}
		calls <- call
		return <-call.release, nil
	}, productID)

	// A slow page-2 fetch for the old search is still in flight when a new
	// search resets to page 1.
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- list.Load(context.Background(), 2, "old")
	}()
	slow := <-calls

	secondDone := make(chan error, 1)
	go func() {
		secondDone <- list.Load(context.Background(), 1, "new")
	}()
	fast := <-calls
	fast.release <- pageOf("n1")
	if err := <-secondDone; err != nil {
		t.Fatalf("new search load: %v", err)
	}

	// The stale response lands afterwards and must be discarded.
	slow.release <- pageOf("stale1", "stale2")
	if err := <-firstDone; err != nil {
		t.Fatalf("stale load: %v", err)
	}

	got := ids(list.Items())
	if fmt.Sprint(got) != fmt.Sprint([]string{"n1"}) {
		t.Fatalf("stale page leaked into items: %v", got)
	}
	if list.Search() != "new" {
		t.Fatalf("search = %q, want new", list.Search())
	}
}

func TestLoadMoreSkipsWhenExhausted(t *testing.T) {
	fetches := 0
	list := NewList(func(_ context.Context, page int, _ string) ([]domain.Product, error) {
		fetches++
		if page == 1 {
			return pageOf("a"), nil
		}
		return nil, nil
	}, productID)

	if err := list.Load(context.Background(), 1, ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := list.LoadMore(context.Background()); err != nil {
		t.Fatalf("load more: %v", err)
	}
	if list.HasMore() {
		t.Fatal("hasMore should be false after empty page")
	}
	before := fetches
	if err := list.LoadMore(context.Background()); err != nil {
		t.Fatalf("load more: %v", err)
	}
	if fetches != before {
		t.Fatal("exhausted list still fetched")
	}
}
