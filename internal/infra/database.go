package infra

import (
	"fmt"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches GORM
// cannot express (the invoice number sequence and the partial unique index on
// the payment ledger).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus the schema patches. Exposed so
// integration tests can migrate a fresh database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Dog{},
		&model.Vaccination{},
		&model.Course{},
		&model.TrainingSession{},
		&model.Booking{},
		&model.TrainingLog{},
		&model.TrainingAttachment{},
		&model.CreditPackage{},
		&model.CustomerCredit{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Payment{},
		&model.Setting{},
		&model.AnamnesisTemplate{},
		&model.AnamnesisQuestion{},
		&model.AnamnesisResponse{},
		&model.AnamnesisAnswer{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// Each statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Sequence backing the RE-YYYY-NNNNN invoice numbers
		{"invoice number sequence",
			`CREATE SEQUENCE IF NOT EXISTS invoice_number_seq START WITH 1`},

		// Ledger idempotency: one row per (method, transaction_id). Partial
		// index because manual cash payments carry no transaction id.
		{"payments method+transaction_id unique index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_payments_method_transaction') THEN
    CREATE UNIQUE INDEX uni_payments_method_transaction
        ON payments (method, transaction_id)
        WHERE transaction_id IS NOT NULL;
  END IF;
END $$`},

		// Sweep query support: open invoices past due date
		{"invoices overdue sweep index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_invoices_open_due') THEN
    CREATE INDEX idx_invoices_open_due
        ON invoices (due_at)
        WHERE status = 'open' AND due_at IS NOT NULL;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
