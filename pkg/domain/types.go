package domain

import "time"

type ProductUnit string

const (
	UnitPiece ProductUnit = "Piece"
	UnitKg    ProductUnit = "Kg"
	UnitBox   ProductUnit = "Box"
	UnitUnit  ProductUnit = "Unit"
)

type ProductStatus string

const (
	ProductAvailable ProductStatus = "Available"
	// ProductComingSoon keeps the backend's wire spelling.
	ProductComingSoon ProductStatus = "CommingSoon"
)

type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	Approved  bool      `json:"approved"`
	Unread    int       `json:"unRead"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Product struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Price       string        `json:"price"`
	Unit        ProductUnit   `json:"unit"`
	Description string        `json:"description"`
	Images      []string      `json:"images"`
	Status      ProductStatus `json:"status"`
}

// FirstImage returns the leading image URL or "" when the product has none.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type Message struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user,omitempty"`
	Body      string    `json:"message,omitempty"`
	Image     string    `json:"image,omitempty"`
	ProductID string    `json:"productId,omitempty"`
	Name      string    `json:"name,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	FromUser  bool      `json:"isSender"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsOrder reports whether the message represents a placed order.
func (m Message) IsOrder() bool {
	return m.ProductID != "" && m.Quantity > 0
}
