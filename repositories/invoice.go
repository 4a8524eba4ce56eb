package repositories

import (
	"errors"
	"strings"

	"invoicing-backend/models"
	"invoicing-backend/services"

	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) FindMany(opts services.ListOptions) ([]models.Invoice, error) {
	var invoices []models.Invoice

	q := r.db.Model(&models.Invoice{}).
		Preload("Customer").
		Preload("Payments").
		Order("invoices.created_at DESC")
	if s := strings.TrimSpace(opts.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Joins("JOIN customers ON customers.id = invoices.customer_id").
			Where("LOWER(invoices.number) LIKE ? OR LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ?",
				like, like, like)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	err := q.Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) FindUnique(id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date DESC")
		}).
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// Create persists the invoice and its nested items as one unit; GORM writes
// the association rows inside the same insert transaction.
func (r *InvoiceRepository) Create(inv *models.Invoice) error {
	return r.db.Create(inv).Error
}

// Update applies field updates and, when items is non-nil, replaces the item
// set wholesale (delete-all, insert-all). Both run in one transaction so a
// failure can never leave the invoice with zero items.
func (r *InvoiceRepository) Update(id string, fields map[string]any, items []models.InvoiceItem) (*models.Invoice, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if items != nil {
			if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].InvoiceID = id
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if len(fields) > 0 {
			if err := tx.Model(&models.Invoice{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindUnique(id)
}

func (r *InvoiceRepository) Delete(id string) error {
	return r.db.Delete(&models.Invoice{}, "id = ?", id).Error
}

// LastNumberForYear returns the number of the most recently created invoice
// in the given year's sequence, or "" when the year has none.
func (r *InvoiceRepository) LastNumberForYear(prefix string) (string, error) {
	var invoice models.Invoice
	err := r.db.
		Where("number LIKE ?", prefix+"%").
		Order("created_at DESC").
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return invoice.Number, nil
}
