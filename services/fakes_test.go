package services_test

import (
	"fmt"
	"strings"
	"time"

	"invoicing-backend/models"
	"invoicing-backend/services"

	"gorm.io/gorm"
)

// In-memory repository fakes. The services only ever see the interfaces in
// repository.go, so these stand in for the GORM implementations.

type fakeCustomerRepo struct {
	customers map[string]*models.Customer
	invoices  *fakeInvoiceRepo
	nextID    int
}

func newFakeCustomerRepo(invoices *fakeInvoiceRepo) *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]*models.Customer{}, invoices: invoices}
}

func (r *fakeCustomerRepo) FindMany(opts services.ListOptions) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCustomerRepo) FindUnique(id string) (*models.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) Create(c *models.Customer) error {
	r.nextID++
	if c.ID == "" {
		c.ID = fmt.Sprintf("cust-%d", r.nextID)
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) Update(id string, fields map[string]any) (*models.Customer, error) {
	c := r.customers[id]
	for k, v := range fields {
		switch k {
		case "name":
			c.Name = v.(string)
		case "email":
			c.Email = v.(string)
		case "phone":
			c.Phone = v.(string)
		case "company":
			c.Company = v.(string)
		case "address":
			c.Address = v.(string)
		case "tax_id":
			c.TaxID = v.(string)
		}
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) Delete(id string) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) HasInvoices(id string) (bool, error) {
	if r.invoices == nil {
		return false, nil
	}
	for _, inv := range r.invoices.invoices {
		if inv.CustomerID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeInvoiceRepo struct {
	invoices map[string]*models.Invoice
	order    []string // creation order
	nextID   int

	// duplicateOnce simulates a concurrent creation stealing the number:
	// the first Create fails with ErrDuplicatedKey after registering a
	// competing invoice with that number.
	duplicateOnce bool
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[string]*models.Invoice{}}
}

func (r *fakeInvoiceRepo) FindMany(opts services.ListOptions) ([]models.Invoice, error) {
	var out []models.Invoice
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, *r.invoices[r.order[i]])
	}
	return out, nil
}

func (r *fakeInvoiceRepo) FindUnique(id string) (*models.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	cp.Items = append([]models.InvoiceItem(nil), inv.Items...)
	cp.Payments = append([]models.Payment(nil), inv.Payments...)
	return &cp, nil
}

func (r *fakeInvoiceRepo) Create(inv *models.Invoice) error {
	if r.duplicateOnce {
		r.duplicateOnce = false
		competing := *inv
		competing.ID = "inv-concurrent"
		r.store(&competing)
		return gorm.ErrDuplicatedKey
	}
	for _, existing := range r.invoices {
		if existing.Number == inv.Number {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	if inv.ID == "" {
		inv.ID = fmt.Sprintf("inv-%d", r.nextID)
	}
	cp := *inv
	r.store(&cp)
	return nil
}

func (r *fakeInvoiceRepo) store(inv *models.Invoice) {
	inv.CreatedAt = time.Now().Add(time.Duration(len(r.order)) * time.Millisecond)
	r.invoices[inv.ID] = inv
	r.order = append(r.order, inv.ID)
}

func (r *fakeInvoiceRepo) Update(id string, fields map[string]any, items []models.InvoiceItem) (*models.Invoice, error) {
	inv := r.invoices[id]
	if items != nil {
		inv.Items = items
	}
	for k, v := range fields {
		switch k {
		case "customer_id":
			inv.CustomerID = v.(string)
		case "issue_date":
			inv.IssueDate = v.(time.Time)
		case "due_date":
			inv.DueDate = v.(time.Time)
		case "status":
			inv.Status = v.(string)
		case "notes":
			inv.Notes = v.(string)
		case "tax_rate":
			inv.TaxRate = v.(float64)
		case "subtotal":
			inv.Subtotal = v.(float64)
		case "tax_amount":
			inv.TaxAmount = v.(float64)
		case "total":
			inv.Total = v.(float64)
		}
	}
	return r.FindUnique(id)
}

func (r *fakeInvoiceRepo) Delete(id string) error {
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) LastNumberForYear(prefix string) (string, error) {
	for i := len(r.order) - 1; i >= 0; i-- {
		if inv, ok := r.invoices[r.order[i]]; ok && strings.HasPrefix(inv.Number, prefix) {
			return inv.Number, nil
		}
	}
	return "", nil
}

type fakePaymentRepo struct {
	payments map[string]*models.Payment
	invoices *fakeInvoiceRepo
	nextID   int
}

func newFakePaymentRepo(invoices *fakeInvoiceRepo) *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]*models.Payment{}, invoices: invoices}
}

func (r *fakePaymentRepo) FindUnique(id string) (*models.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) ListByInvoice(invoiceID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) Create(p *models.Payment, invoicePaidTotal float64) error {
	r.nextID++
	if p.ID == "" {
		p.ID = fmt.Sprintf("pay-%d", r.nextID)
	}
	cp := *p
	r.payments[p.ID] = &cp
	r.invoices.invoices[p.InvoiceID].PaidTotal = invoicePaidTotal
	return nil
}

func (r *fakePaymentRepo) Delete(p *models.Payment, invoicePaidTotal float64) error {
	delete(r.payments, p.ID)
	r.invoices.invoices[p.InvoiceID].PaidTotal = invoicePaidTotal
	return nil
}
