package models

import (
	"time"

	"github.com/google/uuid"
)

// OutsourceCompany is an external contractor handling outsourced stages.
type OutsourceCompany struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
