package controllers

import (
	"strings"
	"time"

	"invoicing-backend/middlewares"
	"invoicing-backend/services"

	"github.com/gofiber/fiber/v2"
)

type InvoiceItemDTO struct {
	Description string  `json:"description" validate:"required,min=1,max=255"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	Rate        float64 `json:"rate" validate:"gt=0"`
}

type InvoiceCreateDTO struct {
	CustomerID string           `json:"customer_id" validate:"required"`
	Number     string           `json:"number" validate:"omitempty,max=50"`
	IssueDate  time.Time        `json:"issue_date" validate:"required"`
	DueDate    time.Time        `json:"due_date" validate:"required"`
	TaxRate    float64          `json:"tax_rate" validate:"gte=0,lte=1"`
	Notes      string           `json:"notes" validate:"omitempty,max=1000"`
	Items      []InvoiceItemDTO `json:"items" validate:"required,min=1,dive"`
}

type InvoiceUpdateDTO struct {
	CustomerID *string          `json:"customer_id" validate:"omitempty,min=1"`
	IssueDate  *time.Time       `json:"issue_date"`
	DueDate    *time.Time       `json:"due_date"`
	Status     *string          `json:"status" validate:"omitempty,oneof=DRAFT SENT PAID OVERDUE CANCELLED"`
	TaxRate    *float64         `json:"tax_rate" validate:"omitempty,gte=0,lte=1"`
	Notes      *string          `json:"notes" validate:"omitempty,max=1000"`
	Items      []InvoiceItemDTO `json:"items" validate:"omitempty,min=1,dive"`
}

type InvoiceController struct {
	svc *services.InvoiceService
}

func NewInvoiceController(svc *services.InvoiceService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

// GET /api/invoices
func (ctl *InvoiceController) List(c *fiber.Ctx) error {
	invoices, err := ctl.svc.List(listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"invoices": invoices})
}

// GET /api/invoices/:id
func (ctl *InvoiceController) Get(c *fiber.Ctx) error {
	invoice, err := ctl.svc.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

// POST /api/invoices
func (ctl *InvoiceController) Create(c *fiber.Ctx) error {
	var in InvoiceCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	invoice, err := ctl.svc.Create(services.CreateInvoiceInput{
		CustomerID: strings.TrimSpace(in.CustomerID),
		Number:     strings.TrimSpace(in.Number),
		IssueDate:  in.IssueDate,
		DueDate:    in.DueDate,
		TaxRate:    in.TaxRate,
		Notes:      strings.TrimSpace(in.Notes),
		Items:      toItemInputs(in.Items),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// PUT /api/invoices/:id
func (ctl *InvoiceController) Update(c *fiber.Ctx) error {
	var in InvoiceUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	update := services.UpdateInvoiceInput{
		CustomerID: in.CustomerID,
		IssueDate:  in.IssueDate,
		DueDate:    in.DueDate,
		Status:     in.Status,
		TaxRate:    in.TaxRate,
		Notes:      in.Notes,
	}
	if in.Items != nil {
		update.Items = toItemInputs(in.Items)
	}

	invoice, err := ctl.svc.Update(c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

// DELETE /api/invoices/:id
func (ctl *InvoiceController) Delete(c *fiber.Ctx) error {
	if err := ctl.svc.Delete(c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "invoice deleted"})
}

func toItemInputs(items []InvoiceItemDTO) []services.InvoiceItemInput {
	out := make([]services.InvoiceItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, services.InvoiceItemInput{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		})
	}
	return out
}
