package httpx

import (
	"time"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/orderlog"
)

// dateLayout is the wire format for plain dates (expiration_date):
// dd-mm-yyyy.
const dateLayout = "02-01-2006"

// --- Orders ---

type CreateOrderRequest struct {
	ClientID int64              `json:"client_id"`
	Items    []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateOrderRequest is a partial body: nil fields are left untouched.
// A present-but-empty items list replaces the order with no items.
type UpdateOrderRequest struct {
	ClientID *int64              `json:"client_id"`
	Status   *string             `json:"status"`
	Items    *[]OrderItemRequest `json:"items"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	ClientID   int64               `json:"client_id"`
	Status     string              `json:"status"`
	CreatedAt  string              `json:"created_at"`
	TotalValue float64             `json:"total_value"`
	Items      []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Section     string  `json:"section"`
}

type OrderListResponse struct {
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Orders []OrderResponse `json:"orders"`
}

type OrderEventResponse struct {
	Event     string `json:"event"`
	Status    string `json:"status,omitempty"`
	Detail    string `json:"detail,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

func mapOrderToResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			Price:       it.Price.InexactFloat64(),
			Description: it.Description,
			Section:     it.Section,
		}
	}
	return OrderResponse{
		ID:         o.ID,
		ClientID:   o.ClientID,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt.UTC().Format(time.RFC3339),
		TotalValue: o.TotalValue.InexactFloat64(),
		Items:      items,
	}
}

func mapOrderEventToResponse(e *orderlog.Entry) OrderEventResponse {
	return OrderEventResponse{
		Event:     string(e.Event),
		Status:    e.Status,
		Detail:    e.Detail,
		TraceID:   e.TraceID,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// --- Products ---

type CreateProductRequest struct {
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Barcode        string   `json:"barcode"`
	Section        string   `json:"section"`
	Stock          int      `json:"stock"`
	ExpirationDate *string  `json:"expiration_date"`
	Images         []string `json:"images"`
}

type UpdateProductRequest struct {
	Description    *string   `json:"description"`
	Price          *float64  `json:"price"`
	Barcode        *string   `json:"barcode"`
	Section        *string   `json:"section"`
	Stock          *int      `json:"stock"`
	ExpirationDate *string   `json:"expiration_date"`
	Images         *[]string `json:"images"`
}

type ProductResponse struct {
	ID             int64    `json:"id"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Barcode        string   `json:"barcode"`
	Section        string   `json:"section"`
	Stock          int      `json:"stock"`
	Available      bool     `json:"available"`
	ExpirationDate *string  `json:"expiration_date,omitempty"`
	Images         []string `json:"images"`
}

type ProductListResponse struct {
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Products []ProductResponse `json:"products"`
}

func mapProductToResponse(p *entity.Product) ProductResponse {
	var expiration *string
	if p.ExpirationDate != nil {
		s := p.ExpirationDate.Format(dateLayout)
		expiration = &s
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:             p.ID,
		Description:    p.Description,
		Price:          p.Price.InexactFloat64(),
		Barcode:        p.Barcode,
		Section:        p.Section,
		Stock:          p.Stock,
		Available:      p.Available(),
		ExpirationDate: expiration,
		Images:         images,
	}
}

// --- Clients ---

type CreateClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	CPF   *string `json:"cpf"`
}

type ClientResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
}

type ClientListResponse struct {
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Clients []ClientResponse `json:"clients"`
}

func mapClientToResponse(c *entity.Client) ClientResponse {
	return ClientResponse{ID: c.ID, Name: c.Name, Email: c.Email, CPF: c.CPF}
}

// --- Users ---

type CreateUserRequest struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
