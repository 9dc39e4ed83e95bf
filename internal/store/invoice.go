package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/deskhive/apiserver/types"
	"github.com/lib/pq"
)

// InvoiceRepository handles persistence for invoices.
type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts a new invoice. A second invoice for the same booking
// violates the unique booking index and returns ErrDuplicate.
func (r *InvoiceRepository) Create(ctx context.Context, invoice types.Invoice) (types.Invoice, error) {
	now := time.Now()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	const query = `
		INSERT INTO invoices (booking_id, user_id, invoice_number, amount, tax_amount,
			currency, gst_percentage, status, issued_at, paid_at, zoho_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		invoice.BookingID,
		invoice.UserID,
		invoice.InvoiceNumber,
		invoice.Amount,
		invoice.TaxAmount,
		invoice.Currency,
		invoice.GSTPercentage,
		invoice.Status,
		invoice.IssuedAt,
		invoice.PaidAt,
		invoice.ZohoID,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Scan(&invoice.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return types.Invoice{}, ErrDuplicate
		}
		return types.Invoice{}, err
	}
	return invoice, nil
}

func (r *InvoiceRepository) GetByBookingID(ctx context.Context, bookingID int) (types.Invoice, error) {
	const query = `
		SELECT id, booking_id, user_id, invoice_number, amount, tax_amount,
			currency, gst_percentage, status, issued_at, paid_at, zoho_id, created_at, updated_at
		FROM invoices
		WHERE booking_id = $1`
	var invoice types.Invoice
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&invoice.ID,
		&invoice.BookingID,
		&invoice.UserID,
		&invoice.InvoiceNumber,
		&invoice.Amount,
		&invoice.TaxAmount,
		&invoice.Currency,
		&invoice.GSTPercentage,
		&invoice.Status,
		&invoice.IssuedAt,
		&invoice.PaidAt,
		&invoice.ZohoID,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Invoice{}, ErrNotFound
		}
		return types.Invoice{}, err
	}
	return invoice, nil
}
