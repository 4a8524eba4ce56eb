package repositories

import (
	"errors"
	"strings"

	"invoicing-backend/models"
	"invoicing-backend/services"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) FindMany(opts services.ListOptions) ([]models.Customer, error) {
	var customers []models.Customer

	q := r.db.Model(&models.Customer{}).Order("created_at DESC")
	if s := strings.TrimSpace(opts.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company) LIKE ?", like, like, like)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if err := q.Find(&customers).Error; err != nil {
		return nil, err
	}
	for i := range customers {
		if err := r.countInvoices(&customers[i]); err != nil {
			return nil, err
		}
	}
	return customers, nil
}

func (r *CustomerRepository) FindUnique(id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.
		Preload("Invoices", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(10)
		}).
		First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.countInvoices(&customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Create(c *models.Customer) error {
	return r.db.Create(c).Error
}

func (r *CustomerRepository) Update(id string, fields map[string]any) (*models.Customer, error) {
	if len(fields) > 0 {
		if err := r.db.Model(&models.Customer{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.FindUnique(id)
}

func (r *CustomerRepository) Delete(id string) error {
	return r.db.Delete(&models.Customer{}, "id = ?", id).Error
}

func (r *CustomerRepository) HasInvoices(id string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Invoice{}).Where("customer_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *CustomerRepository) countInvoices(c *models.Customer) error {
	return r.db.Model(&models.Invoice{}).
		Where("customer_id = ?", c.ID).
		Count(&c.InvoiceCount).Error
}
