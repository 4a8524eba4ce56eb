package services

import (
	"errors"
	"time"

	"invoicing-backend/billing"
	"invoicing-backend/models"

	"gorm.io/gorm"
)

// InvoiceService owns the invoice lifecycle: number assignment, server-side
// totals, item replacement, and the referential check against customers.
type InvoiceService struct {
	invoices  InvoiceRepository
	customers CustomerRepository
	now       func() time.Time
}

func NewInvoiceService(invoices InvoiceRepository, customers CustomerRepository) *InvoiceService {
	return &InvoiceService{invoices: invoices, customers: customers, now: time.Now}
}

type InvoiceItemInput struct {
	Description string
	Quantity    int
	Rate        float64
}

type CreateInvoiceInput struct {
	CustomerID string
	Number     string // optional; generated when empty
	IssueDate  time.Time
	DueDate    time.Time
	TaxRate    float64
	Notes      string
	Items      []InvoiceItemInput
}

// UpdateInvoiceInput patches an invoice. Nil pointers leave the field alone.
// Items, when non-nil, replace the existing item set wholesale.
type UpdateInvoiceInput struct {
	CustomerID *string
	IssueDate  *time.Time
	DueDate    *time.Time
	Status     *string
	TaxRate    *float64
	Notes      *string
	Items      []InvoiceItemInput
}

// InvoiceListItem is the list-view projection: the row plus a customer
// summary and the payments rollup.
type InvoiceListItem struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	Customer   CustomerSummary `json:"customer"`
	IssueDate  time.Time       `json:"issue_date"`
	DueDate    time.Time       `json:"due_date"`
	Status     string          `json:"status"`
	Total      float64         `json:"total"`
	PaidAmount float64         `json:"paid_amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *InvoiceService) List(opts ListOptions) ([]InvoiceListItem, error) {
	invoices, err := s.invoices.FindMany(opts)
	if err != nil {
		return nil, err
	}
	items := make([]InvoiceListItem, 0, len(invoices))
	for _, inv := range invoices {
		var paid float64
		for _, p := range inv.Payments {
			paid += p.Amount
		}
		items = append(items, InvoiceListItem{
			ID:     inv.ID,
			Number: inv.Number,
			Customer: CustomerSummary{
				ID:    inv.Customer.ID,
				Name:  inv.Customer.Name,
				Email: inv.Customer.Email,
			},
			IssueDate:  inv.IssueDate,
			DueDate:    inv.DueDate,
			Status:     inv.Status,
			Total:      inv.Total,
			PaidAmount: billing.Round2(paid),
			CreatedAt:  inv.CreatedAt,
		})
	}
	return items, nil
}

func (s *InvoiceService) Get(id string) (*models.Invoice, error) {
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

// Create persists a new invoice with its items as one unit. The customer
// must exist; that failure is the caller's mistake, not a server fault.
// When no number is supplied one is generated from the current year's
// sequence, retrying once if a concurrent creation grabbed the same number.
func (s *InvoiceService) Create(in CreateInvoiceInput) (*models.Invoice, error) {
	if len(in.Items) == 0 {
		return nil, Validation("invoice requires at least one item")
	}

	customer, err := s.customers.FindUnique(in.CustomerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if customer == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Validation("customer not found")
	}

	generated := in.Number == ""
	number := in.Number
	if generated {
		if number, err = s.nextNumber(); err != nil {
			return nil, err
		}
	}

	inv := s.buildInvoice(in, number)
	err = s.invoices.Create(inv)
	if errors.Is(err, gorm.ErrDuplicatedKey) && generated {
		// Concurrent creation raced us to the number; recompute and retry
		// once before giving up.
		if number, err = s.nextNumber(); err != nil {
			return nil, err
		}
		inv = s.buildInvoice(in, number)
		err = s.invoices.Create(inv)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, Conflict("invoice number already in use")
	}
	if err != nil {
		return nil, err
	}
	return s.Get(inv.ID)
}

func (s *InvoiceService) buildInvoice(in CreateInvoiceInput, number string) *models.Invoice {
	items, totals := buildItems(in.Items, in.TaxRate)
	return &models.Invoice{
		Number:     number,
		CustomerID: in.CustomerID,
		IssueDate:  in.IssueDate,
		DueDate:    in.DueDate,
		Status:     models.StatusDraft,
		Subtotal:   totals.Subtotal,
		TaxRate:    in.TaxRate,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
		Notes:      in.Notes,
		Items:      items,
	}
}

func (s *InvoiceService) nextNumber() (string, error) {
	year := s.now().Year()
	last, err := s.invoices.LastNumberForYear(billing.NumberPrefix(year))
	if err != nil {
		return "", err
	}
	number, err := billing.NextNumber(year, last)
	if err != nil {
		return "", DataIntegrity("stored invoice number is corrupt", err)
	}
	return number, nil
}

// Update patches invoice fields and, when items are supplied, replaces the
// whole item set (callers resend the complete list, never a diff). Totals
// are recomputed whenever items or the tax rate change.
func (s *InvoiceService) Update(id string, in UpdateInvoiceInput) (*models.Invoice, error) {
	if in.Items != nil && len(in.Items) == 0 {
		return nil, Validation("invoice requires at least one item")
	}

	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.CustomerID != nil && *in.CustomerID != existing.CustomerID {
		customer, err := s.customers.FindUnique(*in.CustomerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if customer == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Validation("customer not found")
		}
	}

	fields := map[string]any{}
	if in.CustomerID != nil {
		fields["customer_id"] = *in.CustomerID
	}
	if in.IssueDate != nil {
		fields["issue_date"] = *in.IssueDate
	}
	if in.DueDate != nil {
		fields["due_date"] = *in.DueDate
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}

	taxRate := existing.TaxRate
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
		fields["tax_rate"] = taxRate
	}

	var newItems []models.InvoiceItem
	if in.Items != nil {
		var totals billing.Totals
		newItems, totals = buildItems(in.Items, taxRate)
		fields["subtotal"] = totals.Subtotal
		fields["tax_amount"] = totals.TaxAmount
		fields["total"] = totals.Total
	} else if in.TaxRate != nil {
		// Tax rate changed without touching the lines: rederive from the
		// stored line amounts. Recomputing from quantity x rate would drift
		// whenever a rate lost sub-cent precision on its way through storage.
		amounts := make([]float64, 0, len(existing.Items))
		for _, it := range existing.Items {
			amounts = append(amounts, it.Amount)
		}
		totals := billing.TotalsFromAmounts(amounts, taxRate)
		fields["subtotal"] = totals.Subtotal
		fields["tax_amount"] = totals.TaxAmount
		fields["total"] = totals.Total
	}

	return s.invoices.Update(id, fields, newItems)
}

func (s *InvoiceService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.invoices.Delete(id)
}

func buildItems(inputs []InvoiceItemInput, taxRate float64) ([]models.InvoiceItem, billing.Totals) {
	calc := make([]billing.ItemInput, 0, len(inputs))
	items := make([]models.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		calc = append(calc, billing.ItemInput{Quantity: in.Quantity, Rate: in.Rate})
		items = append(items, models.InvoiceItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			Rate:        in.Rate,
			Amount:      billing.ComputeItemAmount(in.Quantity, in.Rate),
		})
	}
	return items, billing.ComputeTotals(calc, taxRate)
}
