package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice statuses. An invoice starts as a draft and moves through the
// lifecycle explicitly; nothing here transitions automatically.
const (
	StatusDraft     = "DRAFT"
	StatusSent      = "SENT"
	StatusPaid      = "PAID"
	StatusOverdue   = "OVERDUE"
	StatusCancelled = "CANCELLED"
)

// Payment methods.
const (
	MethodCash         = "CASH"
	MethodCheck        = "CHECK"
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCreditCard   = "CREDIT_CARD"
	MethodOther        = "OTHER"
)

type Invoice struct {
	ID         string   `json:"id" gorm:"type:uuid;primaryKey"`
	Number     string   `json:"number" gorm:"uniqueIndex;not null"`
	CustomerID string   `json:"customer_id" gorm:"type:uuid;not null;index"`
	Customer   Customer `json:"customer" gorm:"foreignKey:CustomerID"`

	IssueDate time.Time `json:"issue_date"`
	DueDate   time.Time `json:"due_date"`
	Status    string    `json:"status" gorm:"type:VARCHAR(20);default:'DRAFT'"`

	// Derived money fields; always produced through billing.ComputeTotals.
	Subtotal  float64 `json:"subtotal" gorm:"type:numeric(12,2)"`
	TaxRate   float64 `json:"tax_rate"` // fraction in [0,1]; rate stays float
	TaxAmount float64 `json:"tax_amount" gorm:"type:numeric(12,2)"`
	Total     float64 `json:"total" gorm:"type:numeric(12,2)"`

	// Payments rollup
	PaidTotal float64 `json:"paid_total" gorm:"type:numeric(12,2)"`

	Notes string `json:"notes"`

	Items    []InvoiceItem `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments []Payment     `json:"payments" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type InvoiceItem struct {
	ID          string  `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceID   string  `json:"-" gorm:"type:uuid;index"`
	Description string  `json:"description" gorm:"not null"`
	Quantity    int     `json:"quantity" gorm:"not null"`
	Rate        float64 `json:"rate" gorm:"not null"` // keeps sub-cent precision; not a money column
	// Amount == Round2(Quantity * Rate), computed server-side.
	Amount float64 `json:"amount" gorm:"type:numeric(12,2);not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	return nil
}

// Payment is append-only from the invoice's perspective and survives status
// changes; deleting the invoice cascades to its payments.
type Payment struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceID   string    `json:"invoice_id" gorm:"type:uuid;index:idx_payments_invoice_paid_at,priority:1"`
	Amount      float64   `json:"amount" gorm:"type:numeric(12,2)"`
	PaymentDate time.Time `json:"payment_date" gorm:"index:idx_payments_invoice_paid_at,priority:2"`
	Method      string    `json:"method" gorm:"type:VARCHAR(20)"`
	Reference   string    `json:"reference"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
