package controllers

import (
	"strings"

	"invoicing-backend/middlewares"
	"invoicing-backend/services"
	"invoicing-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CustomerCreateDTO struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Company string `json:"company" validate:"omitempty,max=255"`
	Address string `json:"address" validate:"omitempty,max=500"`
	TaxID   string `json:"tax_id" validate:"omitempty,max=50"`
}

type CustomerUpdateDTO struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Company *string `json:"company" validate:"omitempty,max=255"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	TaxID   *string `json:"tax_id" validate:"omitempty,max=50"`
}

type CustomerController struct {
	svc *services.CustomerService
}

func NewCustomerController(svc *services.CustomerService) *CustomerController {
	return &CustomerController{svc: svc}
}

// GET /api/customers
func (ctl *CustomerController) List(c *fiber.Ctx) error {
	customers, err := ctl.svc.List(listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"customers": customers})
}

// GET /api/customers/:id
func (ctl *CustomerController) Get(c *fiber.Ctx) error {
	customer, err := ctl.svc.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(customer)
}

// POST /api/customers
func (ctl *CustomerController) Create(c *fiber.Ctx) error {
	var in CustomerCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	customer, err := ctl.svc.Create(services.CustomerInput{
		Name:    in.Name,
		Email:   strings.ToLower(in.Email),
		Phone:   in.Phone,
		Company: in.Company,
		Address: in.Address,
		TaxID:   in.TaxID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// PUT /api/customers/:id
func (ctl *CustomerController) Update(c *fiber.Ctx) error {
	var in CustomerUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)
	if in.Email != nil {
		lowered := strings.ToLower(*in.Email)
		in.Email = &lowered
	}

	customer, err := ctl.svc.Update(c.Params("id"), utils.UpdatesFromPtrDTO(&in, nil))
	if err != nil {
		return err
	}
	return c.JSON(customer)
}

// DELETE /api/customers/:id
func (ctl *CustomerController) Delete(c *fiber.Ctx) error {
	if err := ctl.svc.Delete(c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "customer deleted"})
}

func listOptions(c *fiber.Ctx) services.ListOptions {
	return services.ListOptions{
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  utils.ParseIntDefault(c.Query("limit"), 0),
		Offset: utils.ParseIntDefault(c.Query("offset"), 0),
	}
}
