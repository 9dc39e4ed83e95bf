package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/deskhive/apiserver/internal/store"
	"github.com/deskhive/apiserver/types"
	"github.com/google/uuid"
)

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice types.Invoice) (types.Invoice, error)
	GetByBookingID(ctx context.Context, bookingID int) (types.Invoice, error)
}

// InvoiceService produces draft invoices from booking events. Issuing
// and settlement happen in external systems.
type InvoiceService struct {
	repo InvoiceRepository
}

func NewInvoiceService(repo InvoiceRepository) *InvoiceService {
	return &InvoiceService{repo: repo}
}

// HandleBookingCreated consumes a booking.created payload and writes a
// draft invoice for the booking. Redeliveries are absorbed: a booking
// that already has an invoice is skipped.
func (s *InvoiceService) HandleBookingCreated(ctx context.Context, payload []byte) error {
	var event types.BookingCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("invalid booking event payload: %w", err)
	}
	if event.BookingID == 0 || event.UserID == 0 {
		return errors.New("booking event missing booking or user id")
	}

	invoice := DraftInvoice(event)
	created, err := s.repo.Create(ctx, invoice)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			slog.Info("invoice already exists for booking", "booking_id", event.BookingID)
			return nil
		}
		return err
	}

	slog.Info("draft invoice created",
		"invoice_id", created.ID,
		"invoice_number", created.InvoiceNumber,
		"booking_id", created.BookingID,
		"amount", created.Amount,
		"tax_amount", created.TaxAmount,
	)
	return nil
}

// DraftInvoice builds an unsaved draft invoice for the booking event.
// The booking amount is treated as GST-inclusive and split into base
// and tax portions.
func DraftInvoice(event types.BookingCreatedEvent) types.Invoice {
	gross := event.Amount
	base := gross * 100 / (100 + types.DefaultGSTPercentage)

	currency := event.Currency
	if currency == "" {
		currency = types.DefaultCurrency
	}

	return types.Invoice{
		BookingID:     event.BookingID,
		UserID:        event.UserID,
		InvoiceNumber: fmt.Sprintf("INV-%s", uuid.NewString()),
		Amount:        base,
		TaxAmount:     gross - base,
		Currency:      currency,
		GSTPercentage: types.DefaultGSTPercentage,
		Status:        types.InvoiceDraft,
		IssuedAt:      time.Now(),
	}
}
