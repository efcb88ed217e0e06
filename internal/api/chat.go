package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"frostmart/pkg/domain"
)

// Messages fetches the calling user's own conversation, newest first.
func (c *Client) Messages(ctx context.Context) ([]domain.Message, error) {
	var messages []domain.Message
	if err := c.doJSON(ctx, http.MethodGet, "/api/chat/messages", nil, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// UserMessages fetches one user's conversation, newest first. Admin only.
func (c *Client) UserMessages(ctx context.Context, userID string) ([]domain.Message, error) {
	var messages []domain.Message
	path := "/api/chat/messages/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

type sendPayload struct {
	UserID    string `json:"user,omitempty"`
	Body      string `json:"message,omitempty"`
	Image     string `json:"image,omitempty"`
	ProductID string `json:"productId,omitempty"`
	FromUser  bool   `json:"isSender"`
}

// SendMessage appends a message to the caller's own conversation.
func (c *Client) SendMessage(ctx context.Context, body, image, productID string) error {
	if strings.TrimSpace(body) == "" && image == "" && productID == "" {
		return fmt.Errorf("%w: message is empty", ErrValidation)
	}
	payload := sendPayload{Body: body, Image: image, ProductID: productID, FromUser: true}
	return c.doJSON(ctx, http.MethodPost, "/api/chat/send-message", nil, payload, nil)
}

// SendAdminMessage appends an admin-authored message to userID's conversation.
func (c *Client) SendAdminMessage(ctx context.Context, userID, body, image, productID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user is required", ErrValidation)
	}
	if strings.TrimSpace(body) == "" && image == "" && productID == "" {
		return fmt.Errorf("%w: message is empty", ErrValidation)
	}
	payload := sendPayload{UserID: userID, Body: body, Image: image, ProductID: productID, FromUser: false}
	return c.doJSON(ctx, http.MethodPost, "/api/chat/send-message-admin", nil, payload, nil)
}

// DeleteMessage removes a message from its conversation.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	path := "/api/chat/messages/" + url.PathEscape(messageID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

type orderPayload struct {
	ProductID string `json:"productId"`
	Image     string `json:"image,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrder creates an order message for the given product and quantity.
func (c *Client) PlaceOrder(ctx context.Context, product domain.Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive number", ErrValidation)
	}
	payload := orderPayload{
		ProductID: product.ID,
		Image:     product.FirstImage(),
		Name:      product.Name,
		Quantity:  quantity,
	}
	return c.doJSON(ctx, http.MethodPost, "/api/orders/place-order", nil, payload, nil)
}
