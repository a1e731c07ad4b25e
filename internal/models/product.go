package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a garment design identified by model name, with color/size
// attribute sets and reference files. Owned by catalog management.
type Product struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Model     string    `db:"model" json:"model"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`

	Colors []Color       `db:"-" json:"colors,omitempty"`
	Sizes  []Size        `db:"-" json:"sizes,omitempty"`
	Files  []ProductFile `db:"-" json:"files,omitempty"`
}

// Color is a reference attribute attachable to products.
type Color struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

// Size is a reference attribute attachable to products.
type Size struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

// ProductFile is a reference image or pattern stored in object storage.
type ProductFile struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProductID   uuid.UUID `db:"product_id" json:"productId"`
	ObjectKey   string    `db:"object_key" json:"-"`
	FileName    string    `db:"file_name" json:"fileName"`
	ContentType string    `db:"content_type" json:"contentType"`
	SizeBytes   int64     `db:"size_bytes" json:"sizeBytes"`
	URL         string    `db:"-" json:"url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
