// Package catalog implements the incremental paginated list used by the
// product screens and the admin product picker.
package catalog

import (
	"context"
	"sync"
)

// Fetcher loads one page of items matching a search term.
type Fetcher[T any] func(ctx context.Context, page int, search string) ([]T, error)

// List accumulates pages of items. Page 1 replaces the list; later pages
// append only items whose ID has not been seen (first-seen wins). A response
// from a superseded load generation is discarded so a slow page fetch can
// never clobber the results of a newer search.
type List[T any] struct {
	fetch Fetcher[T]
	id    func(T) string

	mu      sync.Mutex
	items   []T
	seen    map[string]struct{}
	page    int
	search  string
	hasMore bool
	loading bool
	gen     uint64
}

// NewList builds an empty list; id extracts the dedup key from an item.
func NewList[T any](fetch Fetcher[T], id func(T) string) *List[T] {
	return &List[T]{
		fetch:   fetch,
		id:      id,
		seen:    map[string]struct{}{},
		hasMore: true,
	}
}

// Load fetches the given page. A page-1 load starts a new generation: any
// in-flight loads from before it are discarded when they land.
func (l *List[T]) Load(ctx context.Context, page int, search string) error {
	if page < 1 {
		page = 1
	}
	l.mu.Lock()
	if page == 1 {
		l.gen++
	}
	gen := l.gen
	l.loading = true
	l.mu.Unlock()

	fetched, err := l.fetch(ctx, page, search)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen == l.gen {
		l.loading = false
	}
	if err != nil {
		// Prior items and hasMore stay untouched on failure.
		return err
	}
	if gen != l.gen {
		return nil
	}
	l.hasMore = len(fetched) > 0
	l.page = page
	l.search = search
	if page == 1 {
		l.items = l.items[:0]
		l.seen = map[string]struct{}{}
	}
	for _, item := range fetched {
		key := l.id(item)
		if _, dup := l.seen[key]; dup {
			continue
		}
		l.seen[key] = struct{}{}
		l.items = append(l.items, item)
	}
	return nil
}

// LoadMore fetches the next page. It is a no-op while a load is in flight or
// when the last page came back empty.
func (l *List[T]) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || !l.hasMore {
		l.mu.Unlock()
		return nil
	}
	page, search := l.page+1, l.search
	l.mu.Unlock()
	return l.Load(ctx, page, search)
}

// Refresh reloads page 1 with the current search term.
func (l *List[T]) Refresh(ctx context.Context) error {
	l.mu.Lock()
	search := l.search
	l.mu.Unlock()
	return l.Load(ctx, 1, search)
}

// Items returns a copy of the accumulated items.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// HasMore reports whether the last fetched page was non-empty.
func (l *List[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// Search returns the search term of the most recently applied load.
func (l *List[T]) Search() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.search
}

// Len returns the number of accumulated items.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
