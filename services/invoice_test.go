package services_test

import (
	"fmt"
	"testing"
	"time"

	"invoicing-backend/models"
	"invoicing-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoiceFixture(t *testing.T) (*services.InvoiceService, *fakeInvoiceRepo, *models.Customer) {
	t.Helper()

	invoices := newFakeInvoiceRepo()
	customers := newFakeCustomerRepo(invoices)
	svc := services.NewInvoiceService(invoices, customers)

	customer := &models.Customer{Name: "Acme", Email: "a@acme.test"}
	require.NoError(t, customers.Create(customer))
	return svc, invoices, customer
}

func createInput(customerID string) services.CreateInvoiceInput {
	return services.CreateInvoiceInput{
		CustomerID: customerID,
		IssueDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		TaxRate:    0.08,
		Items: []services.InvoiceItemInput{
			{Description: "Consulting", Quantity: 2, Rate: 10.005},
			{Description: "Support", Quantity: 1, Rate: 5},
		},
	}
}

func TestInvoiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("computes totals and assigns the first number", func(t *testing.T) {
		t.Parallel()

		svc, _, customer := newInvoiceFixture(t)

		inv, err := svc.Create(createInput(customer.ID))
		require.NoError(t, err)

		prefix := fmt.Sprintf("INV-%d-", time.Now().Year())
		assert.Equal(t, prefix+"001", inv.Number)
		assert.Equal(t, models.StatusDraft, inv.Status)
		assert.InDelta(t, 25.01, inv.Subtotal, 1e-9)
		assert.InDelta(t, 2.00, inv.TaxAmount, 1e-9)
		assert.InDelta(t, 27.01, inv.Total, 1e-9)
		require.Len(t, inv.Items, 2)
		assert.InDelta(t, 20.01, inv.Items[0].Amount, 1e-9)
		assert.InDelta(t, 5.00, inv.Items[1].Amount, 1e-9)
	})

	t.Run("continues the year sequence", func(t *testing.T) {
		t.Parallel()

		svc, invoices, customer := newInvoiceFixture(t)
		prefix := fmt.Sprintf("INV-%d-", time.Now().Year())
		require.NoError(t, invoices.Create(&models.Invoice{Number: prefix + "047", CustomerID: customer.ID}))

		inv, err := svc.Create(createInput(customer.ID))
		require.NoError(t, err)
		assert.Equal(t, prefix+"048", inv.Number)
	})

	t.Run("prior year does not leak into the new sequence", func(t *testing.T) {
		t.Parallel()

		svc, invoices, customer := newInvoiceFixture(t)
		require.NoError(t, invoices.Create(&models.Invoice{Number: "INV-2019-310", CustomerID: customer.ID}))

		inv, err := svc.Create(createInput(customer.ID))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-001", time.Now().Year()), inv.Number)
	})

	t.Run("at least one item is required", func(t *testing.T) {
		t.Parallel()

		svc, invoices, customer := newInvoiceFixture(t)

		in := createInput(customer.ID)
		in.Items = nil
		_, err := svc.Create(in)
		require.Error(t, err)
		assert.Equal(t, services.KindValidation, services.KindOf(err))
		assert.Empty(t, invoices.invoices)
	})

	t.Run("unknown customer creates nothing", func(t *testing.T) {
		t.Parallel()

		svc, invoices, _ := newInvoiceFixture(t)

		_, err := svc.Create(createInput("missing"))
		require.Error(t, err)
		assert.Equal(t, services.KindValidation, services.KindOf(err))
		assert.Empty(t, invoices.invoices)
	})

	t.Run("number collision is retried with a fresh number", func(t *testing.T) {
		t.Parallel()

		svc, invoices, customer := newInvoiceFixture(t)
		invoices.duplicateOnce = true

		inv, err := svc.Create(createInput(customer.ID))
		require.NoError(t, err)
		// The concurrent creation took 001; the retry recomputed 002.
		assert.Equal(t, fmt.Sprintf("INV-%d-002", time.Now().Year()), inv.Number)
	})

	t.Run("caller-supplied number collision is a conflict", func(t *testing.T) {
		t.Parallel()

		svc, invoices, customer := newInvoiceFixture(t)
		require.NoError(t, invoices.Create(&models.Invoice{Number: "INV-2024-100", CustomerID: customer.ID}))

		in := createInput(customer.ID)
		in.Number = "INV-2024-100"
		_, err := svc.Create(in)
		require.Error(t, err)
		assert.Equal(t, services.KindConflict, services.KindOf(err))
	})

	t.Run("corrupt stored number is fatal, not recovered", func(t *testing.T) {
		t.Parallel()

		svc, invoices, customer := newInvoiceFixture(t)
		prefix := fmt.Sprintf("INV-%d-", time.Now().Year())
		require.NoError(t, invoices.Create(&models.Invoice{Number: prefix + "oops", CustomerID: customer.ID}))

		_, err := svc.Create(createInput(customer.ID))
		require.Error(t, err)
		assert.Equal(t, services.KindInternal, services.KindOf(err))
	})
}

func TestInvoiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("items are replaced wholesale", func(t *testing.T) {
		t.Parallel()

		svc, _, customer := newInvoiceFixture(t)
		inv, err := svc.Create(createInput(customer.ID))
		require.NoError(t, err)
		require.Len(t, inv.Items, 2)

		updated, err := svc.Update(inv.ID, services.UpdateInvoiceInput{
			Items: []services.InvoiceItemInput{{Description: "Retainer", Quantity: 1, Rate: 100}},
		})
		require.NoError(t, err)

		require.Len(t, updated.Items, 1)
		assert.Equal(t, "Retainer", updated.Items[0].Description)
		assert.InDelta(t, 100.00, updated.Subtotal, 1e-9)
		assert.InDelta(t, 8.00, updated.TaxAmount, 1e-9)
		assert.InDelta(t, 108.00, updated.Total, 1e-9)
	})

	t.Run("tax rate change recomputes totals from existing lines", func(t *testing.T) {
		t.Parallel()

		svc, _, customer := newInvoiceFixture(t)
		inv, err := svc.Create(createInput(customer.ID))
		require.NoError(t, err)

		zero := 0.0
		updated, err := svc.Update(inv.ID, services.UpdateInvoiceInput{TaxRate: &zero})
		require.NoError(t, err)

		assert.InDelta(t, 25.01, updated.Subtotal, 1e-9)
		assert.InDelta(t, 0, updated.TaxAmount, 1e-9)
		assert.InDelta(t, 25.01, updated.Total, 1e-9)
		assert.Len(t, updated.Items, 2) // untouched
	})

	t.Run("tax rate change trusts stored amounts over rates", func(t *testing.T) {
		t.Parallel()

		svc, invoices, customer := newInvoiceFixture(t)
		inv, err := svc.Create(createInput(customer.ID))
		require.NoError(t, err)
		require.InDelta(t, 25.01, inv.Subtotal, 1e-9)

		// A rate can lose sub-cent precision on a storage round-trip
		// (10.005 -> 10.01) while the line amount keeps its computed value.
		// The recompute must sum the amounts, not rebuild from the rates.
		invoices.invoices[inv.ID].Items[0].Rate = 10.01

		zero := 0.0
		updated, err := svc.Update(inv.ID, services.UpdateInvoiceInput{TaxRate: &zero})
		require.NoError(t, err)

		var amountSum float64
		for _, it := range updated.Items {
			amountSum += it.Amount
		}
		assert.InDelta(t, 25.01, amountSum, 1e-9)
		assert.InDelta(t, 25.01, updated.Subtotal, 1e-9) // not 25.02
		assert.InDelta(t, 25.01, updated.Total, 1e-9)
	})

	t.Run("empty replacement set is rejected", func(t *testing.T) {
		t.Parallel()

		svc, _, customer := newInvoiceFixture(t)
		inv, err := svc.Create(createInput(customer.ID))
		require.NoError(t, err)

		_, err = svc.Update(inv.ID, services.UpdateInvoiceInput{Items: []services.InvoiceItemInput{}})
		require.Error(t, err)
		assert.Equal(t, services.KindValidation, services.KindOf(err))

		// The item set must be untouched.
		current, err := svc.Get(inv.ID)
		require.NoError(t, err)
		assert.Len(t, current.Items, 2)
	})

	t.Run("status patch leaves money alone", func(t *testing.T) {
		t.Parallel()

		svc, _, customer := newInvoiceFixture(t)
		inv, err := svc.Create(createInput(customer.ID))
		require.NoError(t, err)

		sent := models.StatusSent
		updated, err := svc.Update(inv.ID, services.UpdateInvoiceInput{Status: &sent})
		require.NoError(t, err)
		assert.Equal(t, models.StatusSent, updated.Status)
		assert.InDelta(t, inv.Total, updated.Total, 1e-9)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newInvoiceFixture(t)
		_, err := svc.Update("missing", services.UpdateInvoiceInput{})
		require.Error(t, err)
		assert.Equal(t, services.KindNotFound, services.KindOf(err))
	})

	t.Run("moving to an unknown customer is rejected", func(t *testing.T) {
		t.Parallel()

		svc, _, customer := newInvoiceFixture(t)
		inv, err := svc.Create(createInput(customer.ID))
		require.NoError(t, err)

		missing := "missing"
		_, err = svc.Update(inv.ID, services.UpdateInvoiceInput{CustomerID: &missing})
		require.Error(t, err)
		assert.Equal(t, services.KindValidation, services.KindOf(err))
	})
}

func TestInvoiceDelete(t *testing.T) {
	t.Parallel()

	svc, _, customer := newInvoiceFixture(t)
	inv, err := svc.Create(createInput(customer.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(inv.ID))
	_, err = svc.Get(inv.ID)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))

	err = svc.Delete("missing")
	require.Error(t, err)
	assert.Equal(t, services.KindNotFound, services.KindOf(err))
}

func TestInvoiceList(t *testing.T) {
	t.Parallel()

	svc, invoices, customer := newInvoiceFixture(t)
	inv, err := svc.Create(createInput(customer.ID))
	require.NoError(t, err)

	stored := invoices.invoices[inv.ID]
	stored.Customer = *customer
	stored.Payments = []models.Payment{{Amount: 10.00}, {Amount: 7.014}}

	items, err := svc.List(services.ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, inv.Number, items[0].Number)
	assert.Equal(t, customer.Name, items[0].Customer.Name)
	assert.InDelta(t, 17.01, items[0].PaidAmount, 1e-9) // rolled up and rounded
}
