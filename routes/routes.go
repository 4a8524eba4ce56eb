package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"invoicing-backend/controllers"
	"invoicing-backend/middlewares"
	"invoicing-backend/repositories"
	"invoicing-backend/services"
)

// Register wires repositories, services, controllers and all HTTP routes.
func Register(app *fiber.App, db *gorm.DB) {
	customerRepo := repositories.NewCustomerRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	customers := controllers.NewCustomerController(services.NewCustomerService(customerRepo))
	invoices := controllers.NewInvoiceController(services.NewInvoiceService(invoiceRepo, customerRepo))
	payments := controllers.NewPaymentController(services.NewPaymentService(paymentRepo, invoiceRepo))

	api := app.Group("/api")

	// Idempotency guard for mutating requests
	api.Use(middlewares.Idempotency())

	// Customers
	api.Get("/customers", customers.List)
	api.Post("/customers", customers.Create)
	api.Get("/customers/:id", customers.Get)
	api.Put("/customers/:id", customers.Update)
	api.Delete("/customers/:id", customers.Delete)

	// Invoices
	api.Get("/invoices", invoices.List)
	api.Post("/invoices", invoices.Create)
	api.Get("/invoices/:id", invoices.Get)
	api.Put("/invoices/:id", invoices.Update)
	api.Delete("/invoices/:id", invoices.Delete)

	// Payments
	api.Post("/invoices/:id/payments", payments.Create)
	api.Get("/invoices/:id/payments", payments.List)
	api.Delete("/payments/:id", payments.Delete)
}
