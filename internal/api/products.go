package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"frostmart/pkg/domain"
)

// ProductInput carries the admin-editable fields of a product.
type ProductInput struct {
	Name        string               `json:"name"`
	Price       string               `json:"price"`
	Description string               `json:"description"`
	Images      []string             `json:"images"`
	Unit        domain.ProductUnit   `json:"unit"`
	Status      domain.ProductStatus `json:"status"`
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if len(in.Images) == 0 {
		return fmt.Errorf("%w: at least one image is required", ErrValidation)
	}
	return nil
}

// Products fetches one catalog page, optionally filtered by a search term.
func (c *Client) Products(ctx context.Context, page int, search string) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("search", search)
	var resp struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Product fetches one product by ID.
func (c *Client) Product(ctx context.Context, productID string) (domain.Product, error) {
	var product domain.Product
	path := "/api/products/" + url.PathEscape(productID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// CreateProduct adds a catalog entry. Admin only.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, "/api/products", nil, in, nil)
}

// UpdateProduct replaces a catalog entry's editable fields. Admin only.
func (c *Client) UpdateProduct(ctx context.Context, productID string, in ProductInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	path := "/api/products/" + url.PathEscape(productID)
	return c.doJSON(ctx, http.MethodPut, path, nil, in, nil)
}

// DeleteProduct removes a catalog entry. Admin only.
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	path := "/api/products/" + url.PathEscape(productID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
