package api

// Role is a user's authorization role.
type Role string

// Roles known to the storefront backend.
const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User is the authenticated user profile returned by the backend.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// LoginResult is the successful response of the login endpoint.
type LoginResult struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Product is a catalog entry.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Price         int64   `json:"price"`
	IsAvailable   bool    `json:"is_available"`
	CategoryID    int64   `json:"category_id"`
	SKU           string  `json:"sku"`
	Description   *string `json:"description,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
	StockQuantity int64   `json:"stock_quantity"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// CreateProductRequest is the payload for creating a catalog entry.
type CreateProductRequest struct {
	Name          string  `json:"name"`
	Price         int64   `json:"price"`
	IsAvailable   bool    `json:"is_available"`
	CategoryID    int64   `json:"category_id"`
	SKU           string  `json:"sku"`
	Description   *string `json:"description,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
	StockQuantity int64   `json:"stock_quantity"`
}
