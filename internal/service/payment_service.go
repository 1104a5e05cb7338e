package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePaymentRequest struct {
	Amount     string `json:"amount" binding:"required"`
	Direction  string `json:"direction" binding:"required,oneof=INBOUND OUTBOUND"`
	Method     string `json:"method" binding:"required,oneof=BANK_TRANSFER CASH CARD CHECK"`
	PaidAt     string `json:"paid_at" binding:"required"` // YYYY-MM-DD
	DocumentID string `json:"document_id"`
	Reference  string `json:"reference"`
}

type PaymentResponse struct {
	ID             string  `json:"id"`
	Amount         string  `json:"amount"`
	Direction      string  `json:"direction"`
	Method         string  `json:"method"`
	PaidAt         string  `json:"paid_at"`
	DocumentID     *string `json:"document_id"`
	DocumentNumber string  `json:"document_number,omitempty"`
	Reference      string  `json:"reference"`
	CreatedAt      string  `json:"created_at"`
}

type PaymentFilter struct {
	Direction  string
	Method     string
	DocumentID string
	Page       int
	Limit      int
}

// --- Interface ---

// PaymentService owns payment records and is the only writer of a
// document's paid amount and payment-driven status after posting.
// Payments are immutable: an edit is a delete followed by a recreate,
// and both paths re-run reconciliation.
type PaymentService interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest, userID string) (PaymentResponse, error)
	DeletePayment(ctx context.Context, id, userID string) error
	GetPayment(ctx context.Context, id string) (PaymentResponse, error)
	ListPayments(ctx context.Context, filter PaymentFilter) ([]PaymentResponse, int64, error)

	// Reconcile recomputes paid amount and status of a document from its
	// full set of linked payments. A missing document is a no-op: it may
	// have been deleted concurrently.
	Reconcile(ctx context.Context, documentID uuid.UUID) error
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	docRepo     repository.DocumentRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *websocket.Hub
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	docRepo repository.DocumentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		docRepo:     docRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Implementation ---

func (s *paymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest, userID string) (PaymentResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return PaymentResponse{}, fmt.Errorf("payment amount must be positive")
	}

	paidAt, err := time.Parse(dateLayout, req.PaidAt)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid paid_at: %w", err)
	}

	payment := model.Payment{
		Amount:    amount,
		Direction: req.Direction,
		Method:    req.Method,
		PaidAt:    paidAt,
		Reference: req.Reference,
	}

	if req.DocumentID != "" {
		docID, parseErr := uuid.Parse(req.DocumentID)
		if parseErr != nil {
			return PaymentResponse{}, fmt.Errorf("invalid document_id: %w", parseErr)
		}

		doc, findErr := s.docRepo.FindByID(ctx, docID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return PaymentResponse{}, ErrDocumentNotFound
			}
			return PaymentResponse{}, findErr
		}

		if doc.Type != model.DocTypeVendorBill && doc.Type != model.DocTypeInvoice {
			return PaymentResponse{}, fmt.Errorf("payments can only be linked to vendor bills or invoices")
		}
		if doc.Status == model.StatusDraft || doc.Status == model.StatusCancelled {
			return PaymentResponse{}, fmt.Errorf("document %s is not open for payments", doc.Number)
		}
		if doc.Type == model.DocTypeInvoice && req.Direction != model.DirectionInbound {
			return PaymentResponse{}, fmt.Errorf("invoice payments must be INBOUND")
		}
		if doc.Type == model.DocTypeVendorBill && req.Direction != model.DirectionOutbound {
			return PaymentResponse{}, fmt.Errorf("vendor bill payments must be OUTBOUND")
		}
		payment.DocumentID = &docID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.paymentRepo.Create(txCtx, &payment); createErr != nil {
			return fmt.Errorf("failed to create payment: %w", createErr)
		}
		if payment.DocumentID != nil {
			if recErr := s.Reconcile(txCtx, *payment.DocumentID); recErr != nil {
				return recErr
			}
		}
		s.audit(txCtx, userID, model.ActionCreatePayment, &payment)
		return nil
	})
	if err != nil {
		return PaymentResponse{}, err
	}

	s.broadcastPayment("payment.created", &payment)

	reloaded, err := s.paymentRepo.FindByID(ctx, payment.ID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("failed to reload payment: %w", err)
	}
	return toPaymentResponse(*reloaded), nil
}

func (s *paymentService) DeletePayment(ctx context.Context, id, userID string) error {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid payment id: %w", err)
	}

	var payment *model.Payment
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		payment, findErr = s.paymentRepo.FindByID(txCtx, paymentID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return findErr
		}

		if deleteErr := s.paymentRepo.Delete(txCtx, paymentID); deleteErr != nil {
			return deleteErr
		}
		if payment.DocumentID != nil {
			if recErr := s.Reconcile(txCtx, *payment.DocumentID); recErr != nil {
				return recErr
			}
		}
		s.audit(txCtx, userID, model.ActionDeletePayment, payment)
		return nil
	})
	if err != nil {
		return err
	}

	s.broadcastPayment("payment.deleted", payment)
	return nil
}

// Reconcile sums the document's linked payments and derives the status:
// totalPaid >= total means PAID, any positive amount means PARTIALLY_PAID,
// and zero falls back to the type's posted base status — never DRAFT.
// Overpayment is allowed: the document simply stays PAID with the excess
// visible as a negative balance due.
func (s *paymentService) Reconcile(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	payments, err := s.paymentRepo.ListByDocument(ctx, documentID)
	if err != nil {
		return err
	}

	totalPaid := decimal.Zero
	for _, p := range payments {
		totalPaid = totalPaid.Add(p.Amount)
	}

	status := reconciledStatus(doc.Type, doc.TotalAmount, totalPaid)
	return s.docRepo.UpdatePaymentState(ctx, documentID, totalPaid, status)
}

// reconciledStatus derives a document's payment-driven status.
func reconciledStatus(docType string, total, totalPaid decimal.Decimal) string {
	switch {
	case totalPaid.IsPositive() && totalPaid.GreaterThanOrEqual(total):
		return model.StatusPaid
	case totalPaid.IsPositive():
		return model.StatusPartiallyPaid
	default:
		return model.PostedStatus(docType)
	}
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (PaymentResponse, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid payment id: %w", err)
	}

	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentResponse{}, ErrNotFound
		}
		return PaymentResponse{}, err
	}
	return toPaymentResponse(*payment), nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter PaymentFilter) ([]PaymentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.PaymentListFilter{
		Direction: filter.Direction,
		Method:    filter.Method,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	if filter.DocumentID != "" {
		docID, err := uuid.Parse(filter.DocumentID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid document_id: %w", err)
		}
		repoFilter.DocumentID = &docID
	}

	payments, total, err := s.paymentRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	result := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, toPaymentResponse(p))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *paymentService) audit(ctx context.Context, userID, action string, payment *model.Payment) {
	entry := model.AuditLog{
		Action:   action,
		EntityID: payment.ID.String(),
		Details:  fmt.Sprintf(`{"amount":%q,"direction":%q,"method":%q}`, payment.Amount.StringFixed(4), payment.Direction, payment.Method),
	}
	if parsed, err := uuid.Parse(userID); err == nil {
		entry.UserID = &parsed
	}
	_ = s.auditRepo.Log(ctx, &entry)
}

func (s *paymentService) broadcastPayment(event string, payment *model.Payment) {
	if s.hub == nil {
		return
	}
	msg := map[string]interface{}{
		"event":     event,
		"id":        payment.ID.String(),
		"amount":    payment.Amount.StringFixed(4),
		"direction": payment.Direction,
	}
	if payment.DocumentID != nil {
		msg["document_id"] = payment.DocumentID.String()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case s.hub.Broadcast <- payload:
	default:
	}
}

// --- Mapping ---

func toPaymentResponse(payment model.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:        payment.ID.String(),
		Amount:    payment.Amount.StringFixed(4),
		Direction: payment.Direction,
		Method:    payment.Method,
		PaidAt:    payment.PaidAt.Format(dateLayout),
		Reference: payment.Reference,
		CreatedAt: payment.CreatedAt.Format(time.RFC3339),
	}
	if payment.DocumentID != nil {
		docID := payment.DocumentID.String()
		resp.DocumentID = &docID
	}
	if payment.Document != nil {
		resp.DocumentNumber = payment.Document.Number
	}
	return resp
}
