package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cantina/internal/microservices/catalog/domain/dao"
)

type CategoryRequest struct {
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"old_price"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Available   *bool            `json:"available"`
	IsFeatured  bool             `json:"is_featured"`
	IsPromotion bool             `json:"is_promotion"`
	ImageURL    string           `json:"image_url"`
}

// Money fields are rendered with two decimals as strings.
type ProductResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	OldPrice    *string    `json:"old_price"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Available   bool       `json:"available"`
	IsFeatured  bool       `json:"is_featured"`
	IsPromotion bool       `json:"is_promotion"`
	ImageURL    string     `json:"image_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ToCategoryResponse(c dao.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func ToCategoryResponses(cs []dao.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToCategoryResponse(c))
	}
	return out
}

func ToProductResponse(p dao.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Available:   p.Available,
		IsFeatured:  p.IsFeatured,
		IsPromotion: p.IsPromotion,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.OldPrice.Valid {
		s := p.OldPrice.Decimal.StringFixed(2)
		resp.OldPrice = &s
	}
	if p.CategoryID.Valid {
		id := p.CategoryID.UUID
		resp.CategoryID = &id
	}
	return resp
}

func ToProductResponses(ps []dao.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToProductResponse(p))
	}
	return out
}

// ToDAO maps a create/update request onto a row. Available defaults to true.
func (r ProductRequest) ToDAO(id uuid.UUID) dao.Product {
	p := dao.Product{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Available:   true,
		IsFeatured:  r.IsFeatured,
		IsPromotion: r.IsPromotion,
		ImageURL:    r.ImageURL,
	}
	if r.OldPrice != nil {
		p.OldPrice = decimal.NewNullDecimal(*r.OldPrice)
	}
	if r.CategoryID != nil {
		p.CategoryID = uuid.NullUUID{UUID: *r.CategoryID, Valid: true}
	}
	if r.Available != nil {
		p.Available = *r.Available
	}
	return p
}
