package services

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/deskhive/apiserver/internal/store"
	"github.com/deskhive/apiserver/types"
)

type fakeInvoiceRepo struct {
	nextID   int
	invoices map[int]types.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{nextID: 1, invoices: make(map[int]types.Invoice)}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice types.Invoice) (types.Invoice, error) {
	for _, existing := range r.invoices {
		if existing.BookingID == invoice.BookingID {
			return types.Invoice{}, store.ErrDuplicate
		}
	}
	invoice.ID = r.nextID
	r.nextID++
	r.invoices[invoice.ID] = invoice
	return invoice, nil
}

func (r *fakeInvoiceRepo) GetByBookingID(_ context.Context, bookingID int) (types.Invoice, error) {
	for _, invoice := range r.invoices {
		if invoice.BookingID == bookingID {
			return invoice, nil
		}
	}
	return types.Invoice{}, store.ErrNotFound
}

func testEvent() types.BookingCreatedEvent {
	return types.BookingCreatedEvent{
		BookingID: 11,
		UserID:    3,
		Plan:      types.PlanDaily,
		Amount:    118,
		Currency:  "INR",
		StartTime: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestDraftInvoice(t *testing.T) {
	invoice := DraftInvoice(testEvent())

	// 118 gross at 18% GST splits into 100 base and 18 tax.
	if math.Abs(invoice.Amount-100) > 1e-9 {
		t.Fatalf("base amount = %v, want 100", invoice.Amount)
	}
	if math.Abs(invoice.TaxAmount-18) > 1e-9 {
		t.Fatalf("tax amount = %v, want 18", invoice.TaxAmount)
	}
	if invoice.BookingID != 11 || invoice.UserID != 3 {
		t.Fatalf("unexpected references: %+v", invoice)
	}
	if invoice.Status != types.InvoiceDraft {
		t.Fatalf("status = %q, want %q", invoice.Status, types.InvoiceDraft)
	}
	if invoice.GSTPercentage != types.DefaultGSTPercentage {
		t.Fatalf("gst = %v, want %v", invoice.GSTPercentage, types.DefaultGSTPercentage)
	}
	if !strings.HasPrefix(invoice.InvoiceNumber, "INV-") {
		t.Fatalf("invoice number = %q, want INV- prefix", invoice.InvoiceNumber)
	}
}

func TestDraftInvoiceDefaultCurrency(t *testing.T) {
	event := testEvent()
	event.Currency = ""

	invoice := DraftInvoice(event)
	if invoice.Currency != types.DefaultCurrency {
		t.Fatalf("currency = %q, want %q", invoice.Currency, types.DefaultCurrency)
	}
}

func TestHandleBookingCreated(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service := NewInvoiceService(repo)

	payload, err := json.Marshal(testEvent())
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	if err := service.HandleBookingCreated(context.Background(), payload); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	invoice, err := repo.GetByBookingID(context.Background(), 11)
	if err != nil {
		t.Fatalf("invoice not persisted: %v", err)
	}
	if invoice.Status != types.InvoiceDraft {
		t.Fatalf("status = %q, want %q", invoice.Status, types.InvoiceDraft)
	}
}

func TestHandleBookingCreatedRedelivery(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service := NewInvoiceService(repo)

	payload, err := json.Marshal(testEvent())
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	// The broker may redeliver; only the first delivery writes an invoice.
	for i := 0; i < 3; i++ {
		if err := service.HandleBookingCreated(context.Background(), payload); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}
	if len(repo.invoices) != 1 {
		t.Fatalf("invoices = %d, want 1", len(repo.invoices))
	}
}

func TestHandleBookingCreatedRejectsBadPayload(t *testing.T) {
	repo := newFakeInvoiceRepo()
	service := NewInvoiceService(repo)

	if err := service.HandleBookingCreated(context.Background(), []byte("{not json")); err == nil {
		t.Fatal("expected malformed payload to be rejected")
	}
	if err := service.HandleBookingCreated(context.Background(), []byte(`{"booking_id":0,"user_id":5}`)); err == nil {
		t.Fatal("expected event without booking id to be rejected")
	}
	if len(repo.invoices) != 0 {
		t.Fatalf("invoices = %d, want 0", len(repo.invoices))
	}
}
