package controllers

import (
	"strings"
	"time"

	"invoicing-backend/middlewares"
	"invoicing-backend/services"

	"github.com/gofiber/fiber/v2"
)

type PaymentCreateDTO struct {
	Amount      float64   `json:"amount" validate:"gt=0"`
	PaymentDate time.Time `json:"payment_date" validate:"required"`
	Method      string    `json:"method" validate:"required,oneof=CASH CHECK BANK_TRANSFER CREDIT_CARD OTHER"`
	Reference   string    `json:"reference" validate:"omitempty,max=255"`
	Notes       string    `json:"notes" validate:"omitempty,max=1000"`
}

type PaymentController struct {
	svc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{svc: svc}
}

// POST /api/invoices/:id/payments
func (ctl *PaymentController) Create(c *fiber.Ctx) error {
	var in PaymentCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	payment, err := ctl.svc.Add(c.Params("id"), services.PaymentInput{
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		Method:      in.Method,
		Reference:   strings.TrimSpace(in.Reference),
		Notes:       strings.TrimSpace(in.Notes),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// GET /api/invoices/:id/payments
func (ctl *PaymentController) List(c *fiber.Ctx) error {
	payments, err := ctl.svc.List(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"payments": payments})
}

// DELETE /api/payments/:id
func (ctl *PaymentController) Delete(c *fiber.Ctx) error {
	if err := ctl.svc.Delete(c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "payment deleted"})
}
