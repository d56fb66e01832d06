package dao

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	OldPrice    decimal.NullDecimal
	CategoryID  uuid.NullUUID
	Available   bool
	IsFeatured  bool
	IsPromotion bool
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductFilter narrows product listings. Zero value lists everything.
type ProductFilter struct {
	CategoryID    *uuid.UUID
	Featured      bool
	Promotion     bool
	OnlyAvailable bool
}
