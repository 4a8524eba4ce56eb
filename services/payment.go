package services

import (
	"errors"
	"time"

	"invoicing-backend/billing"
	"invoicing-backend/models"

	"gorm.io/gorm"
)

// PaymentService appends payments to invoices and keeps the invoice's
// paid-total rollup in step.
type PaymentService struct {
	payments PaymentRepository
	invoices InvoiceRepository
}

func NewPaymentService(payments PaymentRepository, invoices InvoiceRepository) *PaymentService {
	return &PaymentService{payments: payments, invoices: invoices}
}

type PaymentInput struct {
	Amount      float64
	PaymentDate time.Time
	Method      string
	Reference   string
	Notes       string
}

func (s *PaymentService) List(invoiceID string) ([]models.Payment, error) {
	if _, err := s.getInvoice(invoiceID); err != nil {
		return nil, err
	}
	return s.payments.ListByInvoice(invoiceID)
}

func (s *PaymentService) Add(invoiceID string, in PaymentInput) (*models.Payment, error) {
	inv, err := s.getInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	payment := &models.Payment{
		InvoiceID:   invoiceID,
		Amount:      billing.Round2(in.Amount),
		PaymentDate: in.PaymentDate,
		Method:      in.Method,
		Reference:   in.Reference,
		Notes:       in.Notes,
	}
	paidTotal := billing.Round2(inv.PaidTotal + payment.Amount)
	if err := s.payments.Create(payment, paidTotal); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) Delete(id string) error {
	payment, err := s.payments.FindUnique(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("payment not found")
		}
		return err
	}
	if payment == nil {
		return NotFound("payment not found")
	}
	inv, err := s.getInvoice(payment.InvoiceID)
	if err != nil {
		return err
	}
	paidTotal := billing.Round2(inv.PaidTotal - payment.Amount)
	return s.payments.Delete(payment, paidTotal)
}

func (s *PaymentService) getInvoice(id string) (*models.Invoice, error) {
	inv, err := s.invoices.FindUnique(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("invoice not found")
		}
		return nil, err
	}
	if inv == nil {
		return nil, NotFound("invoice not found")
	}
	return inv, nil
}
