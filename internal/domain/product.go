package domain

import "time"

type Product struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title" validate:"required,max=255"`
	Price         float64   `json:"price" validate:"gt=0"`
	Description   string    `json:"description"`
	Category      string    `json:"category" validate:"max=100"`
	Image         string    `json:"image" validate:"max=255"`
	RatingRate    float64   `json:"rating_rate" validate:"gte=0"`
	RatingCount   int       `json:"rating_count" validate:"gte=0"`
	IsActive      bool      `json:"is_active"`
	StockQuantity int       `json:"stock_quantity" validate:"gte=0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductPatch is the set of fields a client may change on an existing
// product. Nil fields are left untouched.
type ProductPatch struct {
	Title         *string  `json:"title,omitempty" validate:"omitnil,min=1,max=255"`
	Price         *float64 `json:"price,omitempty" validate:"omitnil,gt=0"`
	Description   *string  `json:"description,omitempty"`
	Category      *string  `json:"category,omitempty" validate:"omitnil,max=100"`
	Image         *string  `json:"image,omitempty" validate:"omitnil,max=255"`
	RatingRate    *float64 `json:"rating_rate,omitempty" validate:"omitnil,gte=0"`
	RatingCount   *int     `json:"rating_count,omitempty" validate:"omitnil,gte=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
	StockQuantity *int     `json:"stock_quantity,omitempty" validate:"omitnil,gte=0"`
}

// Empty reports whether the patch carries no field at all.
func (p ProductPatch) Empty() bool {
	return p == ProductPatch{}
}

// ApplyTo writes the supplied fields into prod and reports whether any
// value actually changed.
func (p ProductPatch) ApplyTo(prod *Product) bool {
	changed := false
	setString(&prod.Title, p.Title, &changed)
	setFloat(&prod.Price, p.Price, &changed)
	setString(&prod.Description, p.Description, &changed)
	setString(&prod.Category, p.Category, &changed)
	setString(&prod.Image, p.Image, &changed)
	setFloat(&prod.RatingRate, p.RatingRate, &changed)
	setInt(&prod.RatingCount, p.RatingCount, &changed)
	if p.IsActive != nil && prod.IsActive != *p.IsActive {
		prod.IsActive = *p.IsActive
		changed = true
	}
	setInt(&prod.StockQuantity, p.StockQuantity, &changed)
	return changed
}

func setString(dst *string, v *string, changed *bool) {
	if v != nil && *dst != *v {
		*dst = *v
		*changed = true
	}
}

func setFloat(dst *float64, v *float64, changed *bool) {
	if v != nil && *dst != *v {
		*dst = *v
		*changed = true
	}
}

func setInt(dst *int, v *int, changed *bool) {
	if v != nil && *dst != *v {
		*dst = *v
		*changed = true
	}
}

// ProductDraft is the client-supplied content of a new product. IsActive
// defaults to true when omitted.
type ProductDraft struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Price         float64 `json:"price" validate:"gt=0"`
	Description   string  `json:"description"`
	Category      string  `json:"category" validate:"max=100"`
	Image         string  `json:"image" validate:"max=255"`
	RatingRate    float64 `json:"rating_rate" validate:"gte=0"`
	RatingCount   int     `json:"rating_count" validate:"gte=0"`
	IsActive      *bool   `json:"is_active"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
}

// Product builds an unsaved product stamped with now.
func (d ProductDraft) Product(now time.Time) *Product {
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	return &Product{
		Title:         d.Title,
		Price:         d.Price,
		Description:   d.Description,
		Category:      d.Category,
		Image:         d.Image,
		RatingRate:    d.RatingRate,
		RatingCount:   d.RatingCount,
		IsActive:      active,
		StockQuantity: d.StockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
