package models

import (
	"time"

	"github.com/google/uuid"
)

// Department is a manufacturing stage. Its name resolves to a topology role.
type Department struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
