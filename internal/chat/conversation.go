// Package chat synchronizes one conversation with the backend: full-log
// fetches, calendar-date grouping, sends, deletes, and interval polling.
package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"frostmart/internal/api"
	"frostmart/pkg/domain"
)

// CancelWindow is how long an end user may cancel their own order message.
// Client-side courtesy only; the server owns the real rule.
const CancelWindow = 20 * time.Minute

// ErrCancelWindowElapsed means an order message is past its cancel window.
var ErrCancelWindowElapsed = errors.New("orders can only be cancelled within 20 minutes")

const dayFormat = "January 2, 2006"

// Day is one calendar date's worth of messages, oldest first.
type Day struct {
	Label    string
	Date     time.Time
	Messages []domain.Message
}

// Conversation is the message log between one end user and the admin side.
// An admin conversation is keyed by the user's ID; an end user's own
// conversation is implicit in their token.
type Conversation struct {
	client *api.Client
	userID string
	admin  bool

	mu       sync.Mutex
	messages []domain.Message // ascending by creation time
	version  uint64
}

// NewUserConversation views the calling user's own conversation.
func NewUserConversation(client *api.Client) *Conversation {
	return &Conversation{client: client}
}

// NewAdminConversation views userID's conversation from the admin side.
func NewAdminConversation(client *api.Client, userID string) *Conversation {
	return &Conversation{client: client, userID: userID, admin: true}
}

// Refresh replaces the local log with the server's. The server returns
// newest-first; the log is stored ascending for grouping.
func (c *Conversation) Refresh(ctx context.Context) error {
	var fetched []domain.Message
	var err error
	if c.admin {
		fetched, err = c.client.UserMessages(ctx, c.userID)
	} else {
		fetched, err = c.client.Messages(ctx)
	}
	if err != nil {
		return err
	}
	for i, j := 0, len(fetched)-1; i < j; i, j = i+1, j-1 {
		fetched[i], fetched[j] = fetched[j], fetched[i]
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if changed(c.messages, fetched) {
		c.version++
	}
	c.messages = fetched
	return nil
}

func changed(old, next []domain.Message) bool {
	if len(old) != len(next) {
		return true
	}
	if len(next) == 0 {
		return false
	}
	return old[len(old)-1].ID != next[len(next)-1].ID
}

// Messages returns the log oldest first.
func (c *Conversation) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Days groups the log by calendar date in local time. Groups come back
// newest date first; messages within a group stay oldest first.
func (c *Conversation) Days() []Day {
	messages := c.Messages()
	var days []Day
	index := map[string]int{}
	for _, msg := range messages {
		local := msg.CreatedAt.Local()
		label := local.Format(dayFormat)
		i, ok := index[label]
		if !ok {
			year, month, day := local.Date()
			days = append(days, Day{
				Label: label,
				Date:  time.Date(year, month, day, 0, 0, 0, 0, local.Location()),
			})
			i = len(days) - 1
			index[label] = i
		}
		days[i].Messages = append(days[i].Messages, msg)
	}
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
	return days
}

// Send posts a plain text message and re-fetches; there is no optimistic
// local insert.
func (c *Conversation) Send(ctx context.Context, body string) error {
	var err error
	if c.admin {
		err = c.client.SendAdminMessage(ctx, c.userID, body, "", "")
	} else {
		err = c.client.SendMessage(ctx, body, "", "")
	}
	if err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// SendProduct posts a product-attached message: the end user's ask-rate note
// or the admin's product share.
func (c *Conversation) SendProduct(ctx context.Context, product domain.Product, note string) error {
	var err error
	if c.admin {
		if note == "" {
			note = product.Name
		}
		err = c.client.SendAdminMessage(ctx, c.userID, note, product.FirstImage(), product.ID)
	} else {
		err = c.client.SendMessage(ctx, note, product.FirstImage(), product.ID)
	}
	if err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// PlaceOrder creates an order message for the product and re-fetches.
func (c *Conversation) PlaceOrder(ctx context.Context, product domain.Product, quantity int) error {
	if err := c.client.PlaceOrder(ctx, product, quantity); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// OwnSide reports whether msg was authored by this side of the conversation.
func (c *Conversation) OwnSide(msg domain.Message) bool {
	if c.admin {
		return !msg.FromUser
	}
	return msg.FromUser
}

// CanDelete reports whether this side of the conversation may delete msg.
// Each side may only delete its own messages; an end user's order message
// additionally expires out of deletion after CancelWindow.
func (c *Conversation) CanDelete(msg domain.Message, now time.Time) bool {
	if !c.OwnSide(msg) {
		return false
	}
	if !c.admin && msg.IsOrder() {
		return now.Sub(msg.CreatedAt) <= CancelWindow
	}
	return true
}

// Delete removes msg server-side and re-fetches. The order cancel window is
// enforced here before any network call.
func (c *Conversation) Delete(ctx context.Context, msg domain.Message, now time.Time) error {
	if !c.CanDelete(msg, now) {
		if !c.admin && msg.IsOrder() {
			return ErrCancelWindowElapsed
		}
		return errors.New("message cannot be deleted from this side")
	}
	if err := c.client.DeleteMessage(ctx, msg.ID); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

func (c *Conversation) currentVersion() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}
