package repositories

import (
	"errors"

	"invoicing-backend/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) FindUnique(id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) ListByInvoice(invoiceID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.
		Where("invoice_id = ?", invoiceID).
		Order("payment_date DESC").
		Find(&payments).Error
	return payments, err
}

// Create inserts the payment and updates the invoice's paid-total rollup in
// the same transaction.
func (r *PaymentRepository) Create(p *models.Payment, invoicePaidTotal float64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Model(&models.Invoice{}).
			Where("id = ?", p.InvoiceID).
			Update("paid_total", invoicePaidTotal).Error
	})
}

func (r *PaymentRepository) Delete(p *models.Payment, invoicePaidTotal float64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Payment{}, "id = ?", p.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Invoice{}).
			Where("id = ?", p.InvoiceID).
			Update("paid_total", invoicePaidTotal).Error
	})
}
