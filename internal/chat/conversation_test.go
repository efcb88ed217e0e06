package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"frostmart/internal/api"
	"frostmart/pkg/domain"
)

// chatBackend is a fake conversation server: it serves its messages
// newest-first the way the real backend does and records writes.
type chatBackend struct {
	mu       sync.Mutex
	messages []domain.Message // ascending
	fetches  int
	deletes  []string
}

func (b *chatBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/messages", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.fetches++
		newestFirst := make([]domain.Message, len(b.messages))
		for i, msg := range b.messages {
			newestFirst[len(b.messages)-1-i] = msg
		}
		_ = json.NewEncoder(w).Encode(newestFirst)
	})
	mux.HandleFunc("/api/chat/send-message", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Body string `json:"message"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.messages = append(b.messages, domain.Message{
			ID:        payload.Body,
			Body:      payload.Body,
			FromUser:  true,
			CreatedAt: time.Now(),
		})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/chat/messages/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.deletes = append(b.deletes, r.URL.Path)
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	})
	return mux
}

func newConversation(t *testing.T, backend *chatBackend) *Conversation {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, api.StaticToken("tok"), 5*time.Second)
	return NewUserConversation(client)
}

func at(day, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, time.Local)
}

func TestDaysGroupByCalendarDate(t *testing.T) {
	backend := &chatBackend{messages: []domain.Message{
		{ID: "m1", Body: "first", FromUser: true, CreatedAt: at(3, 9)},
		{ID: "m2", Body: "second", FromUser: false, CreatedAt: at(3, 17)},
		{ID: "m3", Body: "third", FromUser: true, CreatedAt: at(4, 8)},
	}}
	conv := newConversation(t, backend)
	if err := conv.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	days := conv.Days()
	if len(days) != 2 {
		t.Fatalf("got %d groups, want 2", len(days))
	}
	// Newest date first.
	if days[0].Label != "March 4, 2025" || days[1].Label != "March 3, 2025" {
		t.Fatalf("day order: %q, %q", days[0].Label, days[1].Label)
	}
	// Oldest first inside a group.
	group := days[1].Messages
	if len(group) != 2 || group[0].ID != "m1" || group[1].ID != "m2" {
		t.Fatalf("group order: %+v", group)
	}
}

func TestRefreshStoresAscendingOrder(t *testing.T) {
	backend := &chatBackend{messages: []domain.Message{
		{ID: "old", CreatedAt: at(1, 9)},
		{ID: "new", CreatedAt: at(2, 9)},
	}}
	conv := newConversation(t, backend)
	if err := conv.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	messages := conv.Messages()
	if messages[0].ID != "old" || messages[1].ID != "new" {
		t.Fatalf("order = %v, %v", messages[0].ID, messages[1].ID)
	}
}

func TestSendRefetchesInsteadOfInsertingLocally(t *testing.T) {
	backend := &chatBackend{}
	conv := newConversation(t, backend)
	if err := conv.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	backend.mu.Lock()
	fetches := backend.fetches
	backend.mu.Unlock()
	if fetches != 1 {
		t.Fatalf("send performed %d fetches, want 1", fetches)
	}
	messages := conv.Messages()
	if len(messages) != 1 || messages[0].Body != "hello" {
		t.Fatalf("messages = %+v", messages)
	}
}

func TestOrderCancelWindow(t *testing.T) {
	now := time.Now()
	order := domain.Message{
		ID:        "o1",
		ProductID: "p1",
		Name:      "Deep Freezer",
		Quantity:  2,
		FromUser:  true,
		CreatedAt: now.Add(-19 * time.Minute),
	}
	user := NewUserConversation(nil)
	if !user.CanDelete(order, now) {
		t.Fatal("order inside the window must be deletable")
	}
	order.CreatedAt = now.Add(-21 * time.Minute)
	if user.CanDelete(order, now) {
		t.Fatal("order past the window must not be deletable")
	}
	// Plain messages have no window.
	plain := domain.Message{ID: "m1", Body: "hi", FromUser: true, CreatedAt: now.Add(-2 * time.Hour)}
	if !user.CanDelete(plain, now) {
		t.Fatal("plain own message must stay deletable")
	}
	// The other side's messages are never deletable from here.
	theirs := domain.Message{ID: "m2", Body: "hi", FromUser: false, CreatedAt: now}
	if user.CanDelete(theirs, now) {
		t.Fatal("other side's message must not be deletable")
	}
	// Admin-authored order-status messages carry no window.
	admin := NewAdminConversation(nil, "u1")
	adminOrder := domain.Message{ID: "o2", ProductID: "p1", Quantity: 1, FromUser: false, CreatedAt: now.Add(-3 * time.Hour)}
	if !admin.CanDelete(adminOrder, now) {
		t.Fatal("admin order message must stay deletable")
	}
}

func TestDeleteBlocksExpiredOrderBeforeNetwork(t *testing.T) {
	now := time.Now()
	backend := &chatBackend{}
	conv := newConversation(t, backend)
	expired := domain.Message{
		ID:        "o1",
		ProductID: "p1",
		Quantity:  1,
		FromUser:  true,
		CreatedAt: now.Add(-CancelWindow - time.Minute),
	}
	err := conv.Delete(context.Background(), expired, now)
	if !errors.Is(err, ErrCancelWindowElapsed) {
		t.Fatalf("expected ErrCancelWindowElapsed, got %v", err)
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.deletes) != 0 {
		t.Fatalf("expired delete reached the backend: %v", backend.deletes)
	}
}
