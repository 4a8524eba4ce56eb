package database

import (
	"fmt"

	"invoicing-backend/models"

	"gorm.io/gorm"
)

// Migrate applies idempotent schema migrations:
//   - AutoMigrate (tables/columns/index tags)
//   - Money column types (NUMERIC(12,2) at the storage boundary)
//   - Unique invoice-number index (the storage-level guard the sequencer
//     depends on under concurrent creation)
//   - Basic CHECK constraints on invoice and item bounds
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.Customer{},
			&models.Invoice{},
			&models.InvoiceItem{},
			&models.Payment{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE invoices      ALTER COLUMN subtotal   TYPE numeric(12,2)`,
			`ALTER TABLE invoices      ALTER COLUMN tax_amount TYPE numeric(12,2)`,
			`ALTER TABLE invoices      ALTER COLUMN total      TYPE numeric(12,2)`,
			`ALTER TABLE invoices      ALTER COLUMN paid_total TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items ALTER COLUMN amount     TYPE numeric(12,2)`,
			`ALTER TABLE payments      ALTER COLUMN amount     TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Indexes (idempotent) ---
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_number ON invoices (number)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_payments_invoice_paid_at ON payments (invoice_id, payment_date)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- CHECK constraints (idempotent via DO blocks) ---
		checks := []string{
			checkConstraint("invoices", "chk_invoices_tax_rate", "tax_rate >= 0 AND tax_rate <= 1"),
			checkConstraint("invoice_items", "chk_invoice_items_quantity", "quantity > 0"),
			checkConstraint("invoice_items", "chk_invoice_items_rate", "rate > 0"),
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}

func checkConstraint(table, name, expr string) string {
	return fmt.Sprintf(`
DO $$
BEGIN
  IF NOT EXISTS (
    SELECT 1 FROM pg_constraint WHERE conname = '%s'
  ) THEN
    ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
  END IF;
END $$;`, name, table, name, expr)
}
