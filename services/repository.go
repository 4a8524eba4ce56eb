package services

import "invoicing-backend/models"

// ListOptions narrows a list query. Search is matched by the repository
// against the entity's searchable columns.
type ListOptions struct {
	Search string
	Limit  int
	Offset int
}

// CustomerRepository is the persistence contract the customer service is
// built against. Implemented by repositories.CustomerRepository; tests plug
// in fakes.
type CustomerRepository interface {
	FindMany(opts ListOptions) ([]models.Customer, error)
	FindUnique(id string) (*models.Customer, error)
	Create(c *models.Customer) error
	Update(id string, fields map[string]any) (*models.Customer, error)
	Delete(id string) error
	HasInvoices(id string) (bool, error)
}

// InvoiceRepository is the persistence contract for invoices. Update runs
// field updates and item replacement as one atomic write: when items is
// non-nil all existing items are deleted and the given set inserted.
type InvoiceRepository interface {
	FindMany(opts ListOptions) ([]models.Invoice, error)
	FindUnique(id string) (*models.Invoice, error)
	Create(inv *models.Invoice) error
	Update(id string, fields map[string]any, items []models.InvoiceItem) (*models.Invoice, error)
	Delete(id string) error
	// LastNumberForYear returns the number of the most recently created
	// invoice whose number starts with prefix, or "" when there is none.
	LastNumberForYear(prefix string) (string, error)
}

// PaymentRepository persists payments together with the owning invoice's
// paid-total rollup in one atomic write.
type PaymentRepository interface {
	FindUnique(id string) (*models.Payment, error)
	ListByInvoice(invoiceID string) ([]models.Payment, error)
	Create(p *models.Payment, invoicePaidTotal float64) error
	Delete(p *models.Payment, invoicePaidTotal float64) error
}
