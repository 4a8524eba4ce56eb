package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID      string `json:"id" gorm:"type:uuid;primaryKey"`
	Name    string `json:"name" gorm:"not null"`
	Email   string `json:"email" gorm:"not null;index"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`

	Invoices []Invoice `json:"invoices,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`

	// Filled by the repository from a count query; not a column.
	InvoiceCount int64 `json:"invoice_count" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
