package services

import (
	"errors"

	"invoicing-backend/models"

	"gorm.io/gorm"
)

// CustomerService orchestrates validation-then-persistence for customers.
type CustomerService struct {
	repo CustomerRepository
}

func NewCustomerService(repo CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Address string
	TaxID   string
}

func (s *CustomerService) List(opts ListOptions) ([]models.Customer, error) {
	return s.repo.FindMany(opts)
}

func (s *CustomerService) Get(id string) (*models.Customer, error) {
	customer, err := s.repo.FindUnique(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("customer not found")
		}
		return nil, err
	}
	if customer == nil {
		return nil, NotFound("customer not found")
	}
	return customer, nil
}

func (s *CustomerService) Create(in CustomerInput) (*models.Customer, error) {
	customer := &models.Customer{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
		Address: in.Address,
		TaxID:   in.TaxID,
	}
	if err := s.repo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Update(id string, fields map[string]any) (*models.Customer, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	return s.repo.Update(id, fields)
}

// Delete removes a customer unless any invoice still references it; this is
// the referential guard, not a cascade.
func (s *CustomerService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	has, err := s.repo.HasInvoices(id)
	if err != nil {
		return err
	}
	if has {
		return Conflict("cannot delete customer with existing invoices")
	}
	return s.repo.Delete(id)
}
