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

const dateLayout = "2006-01-02"

// --- DTOs ---

type DocumentLineRequest struct {
	ProductID    string `json:"product_id" binding:"required"`
	Description  string `json:"description"`
	Quantity     string `json:"quantity" binding:"required"`
	UnitPrice    string `json:"unit_price" binding:"required"`
	TaxRate      string `json:"tax_rate"`
	CostCenterID string `json:"cost_center_id"` // optional, resolved by rules when empty
}

type DocumentRequest struct {
	ContactID    string                `json:"contact_id" binding:"required"`
	DocumentDate string                `json:"document_date" binding:"required"` // YYYY-MM-DD
	DueDate      string                `json:"due_date"`
	Notes        string                `json:"notes"`
	Lines        []DocumentLineRequest `json:"lines" binding:"required"`
}

type DocumentLineResponse struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name,omitempty"`
	Description    string  `json:"description"`
	Quantity       string  `json:"quantity"`
	UnitPrice      string  `json:"unit_price"`
	TaxRate        string  `json:"tax_rate"`
	Subtotal       string  `json:"subtotal"`
	TaxAmount      string  `json:"tax_amount"`
	LineTotal      string  `json:"line_total"`
	CostCenterID   *string `json:"cost_center_id"`
	CostCenterCode string  `json:"cost_center_code,omitempty"`
}

type DocumentResponse struct {
	ID               string                 `json:"id"`
	Number           string                 `json:"number"`
	Type             string                 `json:"type"`
	ContactID        string                 `json:"contact_id"`
	ContactName      string                 `json:"contact_name,omitempty"`
	DocumentDate     string                 `json:"document_date"`
	DueDate          *string                `json:"due_date"`
	Status           string                 `json:"status"`
	Subtotal         string                 `json:"subtotal"`
	TaxAmount        string                 `json:"tax_amount"`
	TotalAmount      string                 `json:"total_amount"`
	PaidAmount       string                 `json:"paid_amount"`
	BalanceDue       string                 `json:"balance_due"`
	Notes            string                 `json:"notes"`
	SourceDocumentID *string                `json:"source_document_id"`
	Lines            []DocumentLineResponse `json:"lines,omitempty"`
	CreatedAt        string                 `json:"created_at"`
}

type DocumentFilter struct {
	Status    string
	ContactID string
	Search    string
	Page      int
	Limit     int
}

// --- Interface ---

type DocumentService interface {
	Create(ctx context.Context, docType string, req DocumentRequest) (DocumentResponse, error)
	Update(ctx context.Context, docType, id string, req DocumentRequest) (DocumentResponse, error)
	Get(ctx context.Context, docType, id string) (DocumentResponse, error)
	List(ctx context.Context, docType string, filter DocumentFilter) ([]DocumentResponse, int64, error)
	Post(ctx context.Context, docType, id, userID string) (DocumentResponse, error)
	Cancel(ctx context.Context, docType, id, userID string) (DocumentResponse, error)
	Delete(ctx context.Context, docType, id string) error

	// Convert copies a posted purchase order into a draft vendor bill, or a
	// sent sales order into a draft invoice, linking back to the source.
	Convert(ctx context.Context, docType, id string) (DocumentResponse, error)
}

type documentService struct {
	docRepo       repository.DocumentRepository
	paymentRepo   repository.PaymentRepository
	productRepo   repository.ProductRepository
	contactRepo   repository.ContactRepository
	sequenceRepo  repository.SequenceRepository
	auditRepo     repository.AuditRepository
	costCenterSvc CostCenterService
	txManager     repository.TransactionManager
	hub           *websocket.Hub
}

func NewDocumentService(
	docRepo repository.DocumentRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	contactRepo repository.ContactRepository,
	sequenceRepo repository.SequenceRepository,
	auditRepo repository.AuditRepository,
	costCenterSvc CostCenterService,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) DocumentService {
	return &documentService{
		docRepo:       docRepo,
		paymentRepo:   paymentRepo,
		productRepo:   productRepo,
		contactRepo:   contactRepo,
		sequenceRepo:  sequenceRepo,
		auditRepo:     auditRepo,
		costCenterSvc: costCenterSvc,
		txManager:     txManager,
		hub:           hub,
	}
}

// --- Line pricer ---

// pricedLine is a fully validated line ready to persist.
type lineInput struct {
	ProductID    uuid.UUID
	Description  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal
	CostCenterID *uuid.UUID
}

var oneHundred = decimal.NewFromInt(100)

// priceLines computes per-line subtotal/tax/total and the document
// aggregates. Tax is applied per line, then summed — the document's tax
// amount is the sum of per-line amounts, never the rate applied to the
// aggregate subtotal.
func priceLines(inputs []lineInput) ([]model.DocumentLine, decimal.Decimal, decimal.Decimal, error) {
	subtotal := decimal.Zero
	taxAmount := decimal.Zero
	lines := make([]model.DocumentLine, 0, len(inputs))

	for _, in := range inputs {
		if !in.Quantity.IsPositive() || in.UnitPrice.IsNegative() || in.TaxRate.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, ErrInvalidLineValue
		}

		lineSubtotal := in.Quantity.Mul(in.UnitPrice)
		lineTax := lineSubtotal.Mul(in.TaxRate).Div(oneHundred)
		lineTotal := lineSubtotal.Add(lineTax)

		lines = append(lines, model.DocumentLine{
			ProductID:    in.ProductID,
			Description:  in.Description,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
			TaxRate:      in.TaxRate,
			Subtotal:     lineSubtotal,
			TaxAmount:    lineTax,
			LineTotal:    lineTotal,
			CostCenterID: in.CostCenterID,
		})

		subtotal = subtotal.Add(lineSubtotal)
		taxAmount = taxAmount.Add(lineTax)
	}

	return lines, subtotal, taxAmount, nil
}

// linesEditable reports whether the document's lines may still be changed:
// any document in DRAFT, or a bill/invoice that has no payments yet.
func linesEditable(doc *model.Document, paymentCount int) bool {
	switch doc.Status {
	case model.StatusDraft:
		return true
	case model.StatusPosted, model.StatusSent:
		if doc.Type == model.DocTypeVendorBill || doc.Type == model.DocTypeInvoice {
			return paymentCount == 0
		}
	}
	return false
}

// --- Operations ---

func (s *documentService) Create(ctx context.Context, docType string, req DocumentRequest) (DocumentResponse, error) {
	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid contact_id: %w", err)
	}
	if _, err := s.contactRepo.FindByID(ctx, contactID); err != nil {
		return DocumentResponse{}, fmt.Errorf("contact not found: %w", err)
	}

	docDate, err := time.Parse(dateLayout, req.DocumentDate)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid document_date: %w", err)
	}
	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, parseErr := time.Parse(dateLayout, req.DueDate)
		if parseErr != nil {
			return DocumentResponse{}, fmt.Errorf("invalid due_date: %w", parseErr)
		}
		dueDate = &parsed
	}

	lines, subtotal, taxAmount, err := s.buildLines(ctx, docType, contactID, req.Lines)
	if err != nil {
		return DocumentResponse{}, err
	}

	doc := model.Document{
		Type:         docType,
		ContactID:    contactID,
		DocumentDate: docDate,
		DueDate:      dueDate,
		Status:       model.StatusDraft,
		Subtotal:     subtotal,
		TaxAmount:    taxAmount,
		TotalAmount:  subtotal.Add(taxAmount),
		PaidAmount:   decimal.Zero,
		Notes:        req.Notes,
		Lines:        lines,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		seq, seqErr := s.sequenceRepo.Next(txCtx, docType)
		if seqErr != nil {
			return fmt.Errorf("failed to generate document number: %w", seqErr)
		}
		doc.Number = fmt.Sprintf("%s-%05d", model.NumberPrefix(docType), seq)
		return s.docRepo.Create(txCtx, &doc)
	})
	if err != nil {
		return DocumentResponse{}, err
	}

	return s.reload(ctx, doc.ID)
}

func (s *documentService) Update(ctx context.Context, docType, id string, req DocumentRequest) (DocumentResponse, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid document id: %w", err)
	}

	docDate, err := time.Parse(dateLayout, req.DocumentDate)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid document_date: %w", err)
	}
	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, parseErr := time.Parse(dateLayout, req.DueDate)
		if parseErr != nil {
			return DocumentResponse{}, fmt.Errorf("invalid due_date: %w", parseErr)
		}
		dueDate = &parsed
	}

	// Replacing lines and rewriting aggregates must be one atomic unit so a
	// concurrent reader never sees new lines with stale totals.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		doc, findErr := s.findTyped(txCtx, docType, docID)
		if findErr != nil {
			return findErr
		}

		payments, payErr := s.paymentRepo.ListByDocument(txCtx, docID)
		if payErr != nil {
			return payErr
		}
		if !linesEditable(doc, len(payments)) {
			return ErrDocumentLocked
		}

		lines, subtotal, taxAmount, buildErr := s.buildLines(txCtx, docType, doc.ContactID, req.Lines)
		if buildErr != nil {
			return buildErr
		}

		doc.DocumentDate = docDate
		doc.DueDate = dueDate
		doc.Notes = req.Notes
		doc.Subtotal = subtotal
		doc.TaxAmount = taxAmount
		doc.TotalAmount = subtotal.Add(taxAmount)

		return s.docRepo.ReplaceLines(txCtx, doc, lines)
	})
	if err != nil {
		return DocumentResponse{}, err
	}

	return s.reload(ctx, docID)
}

// buildLines parses, resolves missing cost centers through the rule engine,
// and prices the request lines. Nothing is persisted here; any validation
// failure leaves the document untouched.
func (s *documentService) buildLines(ctx context.Context, docType string, contactID uuid.UUID, reqLines []DocumentLineRequest) ([]model.DocumentLine, decimal.Decimal, decimal.Decimal, error) {
	var vendorID *uuid.UUID
	if docType == model.DocTypePurchaseOrder || docType == model.DocTypeVendorBill {
		vendorID = &contactID
	}

	inputs := make([]lineInput, 0, len(reqLines))
	for i, reqLine := range reqLines {
		productID, err := uuid.Parse(reqLine.ProductID)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("line %d: invalid product_id: %w", i+1, err)
		}

		quantity, err := decimal.NewFromString(reqLine.Quantity)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("line %d: invalid quantity: %w", i+1, err)
		}
		unitPrice, err := decimal.NewFromString(reqLine.UnitPrice)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("line %d: invalid unit_price: %w", i+1, err)
		}
		taxRate := decimal.Zero
		if reqLine.TaxRate != "" {
			taxRate, err = decimal.NewFromString(reqLine.TaxRate)
			if err != nil {
				return nil, decimal.Zero, decimal.Zero, fmt.Errorf("line %d: invalid tax_rate: %w", i+1, err)
			}
		}

		var costCenterID *uuid.UUID
		if reqLine.CostCenterID != "" {
			parsed, parseErr := uuid.Parse(reqLine.CostCenterID)
			if parseErr != nil {
				return nil, decimal.Zero, decimal.Zero, fmt.Errorf("line %d: invalid cost_center_id: %w", i+1, parseErr)
			}
			costCenterID = &parsed
		} else {
			resolved, resolveErr := s.costCenterSvc.ResolveCostCenter(ctx, productID, vendorID)
			if resolveErr != nil {
				return nil, decimal.Zero, decimal.Zero, fmt.Errorf("line %d: %w", i+1, resolveErr)
			}
			costCenterID = resolved
		}

		inputs = append(inputs, lineInput{
			ProductID:    productID,
			Description:  reqLine.Description,
			Quantity:     quantity,
			UnitPrice:    unitPrice,
			TaxRate:      taxRate,
			CostCenterID: costCenterID,
		})
	}

	return priceLines(inputs)
}

func (s *documentService) Get(ctx context.Context, docType, id string) (DocumentResponse, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid document id: %w", err)
	}

	doc, err := s.docRepo.FindByIDWithLines(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, ErrDocumentNotFound
		}
		return DocumentResponse{}, err
	}
	if doc.Type != docType {
		return DocumentResponse{}, ErrDocumentNotFound
	}
	return toDocumentResponse(*doc), nil
}

func (s *documentService) List(ctx context.Context, docType string, filter DocumentFilter) ([]DocumentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.DocumentListFilter{
		Type:   docType,
		Status: filter.Status,
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.ContactID != "" {
		contactID, err := uuid.Parse(filter.ContactID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid contact_id: %w", err)
		}
		repoFilter.ContactID = &contactID
	}

	docs, total, err := s.docRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch documents: %w", err)
	}

	result := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		result = append(result, toDocumentResponse(doc))
	}
	return result, total, nil
}

func (s *documentService) Post(ctx context.Context, docType, id, userID string) (DocumentResponse, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid document id: %w", err)
	}

	var doc *model.Document
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		doc, findErr = s.docRepo.FindByIDWithLines(txCtx, docID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrDocumentNotFound
			}
			return findErr
		}
		if doc.Type != docType {
			return ErrDocumentNotFound
		}
		if doc.Status != model.StatusDraft {
			return fmt.Errorf("only draft documents can be posted, current status is %s", doc.Status)
		}
		if len(doc.Lines) == 0 {
			return fmt.Errorf("document must have at least one line to be posted")
		}

		newStatus := model.PostedStatus(docType)
		if updateErr := s.docRepo.UpdateStatus(txCtx, docID, newStatus); updateErr != nil {
			return updateErr
		}
		doc.Status = newStatus

		s.audit(txCtx, userID, model.ActionPostDocument, doc)
		return nil
	})
	if err != nil {
		return DocumentResponse{}, err
	}

	s.broadcast("document.posted", doc)
	return toDocumentResponse(*doc), nil
}

func (s *documentService) Cancel(ctx context.Context, docType, id, userID string) (DocumentResponse, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid document id: %w", err)
	}

	var doc *model.Document
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		doc, findErr = s.findTyped(txCtx, docType, docID)
		if findErr != nil {
			return findErr
		}
		if doc.Status == model.StatusCancelled {
			return fmt.Errorf("document is already cancelled")
		}
		if doc.Status == model.StatusPaid {
			return fmt.Errorf("%w: paid documents cannot be cancelled", ErrDependentRecordsExist)
		}

		payments, payErr := s.paymentRepo.ListByDocument(txCtx, docID)
		if payErr != nil {
			return payErr
		}
		if len(payments) > 0 {
			return fmt.Errorf("%w: document has linked payments", ErrDependentRecordsExist)
		}

		if docType == model.DocTypePurchaseOrder || docType == model.DocTypeSalesOrder {
			dependents, depErr := s.docRepo.CountBySource(txCtx, docID)
			if depErr != nil {
				return depErr
			}
			if dependents > 0 {
				return fmt.Errorf("%w: order has dependent documents", ErrDependentRecordsExist)
			}
		}

		// Soft cancel: a status flag, never row deletion.
		if updateErr := s.docRepo.UpdateStatus(txCtx, docID, model.StatusCancelled); updateErr != nil {
			return updateErr
		}
		doc.Status = model.StatusCancelled

		s.audit(txCtx, userID, model.ActionCancelDocument, doc)
		return nil
	})
	if err != nil {
		return DocumentResponse{}, err
	}

	s.broadcast("document.cancelled", doc)
	return toDocumentResponse(*doc), nil
}

func (s *documentService) Delete(ctx context.Context, docType, id string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid document id: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		doc, findErr := s.findTyped(txCtx, docType, docID)
		if findErr != nil {
			return findErr
		}
		if doc.Status != model.StatusDraft {
			return fmt.Errorf("%w: only draft documents can be deleted", ErrDependentRecordsExist)
		}
		return s.docRepo.Delete(txCtx, docID)
	})
}

func (s *documentService) Convert(ctx context.Context, docType, id string) (DocumentResponse, error) {
	var targetType string
	switch docType {
	case model.DocTypePurchaseOrder:
		targetType = model.DocTypeVendorBill
	case model.DocTypeSalesOrder:
		targetType = model.DocTypeInvoice
	default:
		return DocumentResponse{}, fmt.Errorf("documents of type %s cannot be converted", docType)
	}

	docID, err := uuid.Parse(id)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid document id: %w", err)
	}

	source, err := s.docRepo.FindByIDWithLines(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, ErrDocumentNotFound
		}
		return DocumentResponse{}, err
	}
	if source.Type != docType {
		return DocumentResponse{}, ErrDocumentNotFound
	}
	if source.Status == model.StatusDraft || source.Status == model.StatusCancelled {
		return DocumentResponse{}, fmt.Errorf("only posted orders can be converted, current status is %s", source.Status)
	}

	lines := make([]model.DocumentLine, 0, len(source.Lines))
	for _, line := range source.Lines {
		lines = append(lines, model.DocumentLine{
			ProductID:    line.ProductID,
			Description:  line.Description,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			TaxRate:      line.TaxRate,
			Subtotal:     line.Subtotal,
			TaxAmount:    line.TaxAmount,
			LineTotal:    line.LineTotal,
			CostCenterID: line.CostCenterID,
			Position:     line.Position,
		})
	}

	target := model.Document{
		Type:             targetType,
		ContactID:        source.ContactID,
		DocumentDate:     time.Now().Truncate(24 * time.Hour),
		DueDate:          source.DueDate,
		Status:           model.StatusDraft,
		Subtotal:         source.Subtotal,
		TaxAmount:        source.TaxAmount,
		TotalAmount:      source.TotalAmount,
		PaidAmount:       decimal.Zero,
		Notes:            source.Notes,
		SourceDocumentID: &source.ID,
		Lines:            lines,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		seq, seqErr := s.sequenceRepo.Next(txCtx, targetType)
		if seqErr != nil {
			return fmt.Errorf("failed to generate document number: %w", seqErr)
		}
		target.Number = fmt.Sprintf("%s-%05d", model.NumberPrefix(targetType), seq)
		return s.docRepo.Create(txCtx, &target)
	})
	if err != nil {
		return DocumentResponse{}, err
	}

	return s.reload(ctx, target.ID)
}

// --- Helpers ---

func (s *documentService) findTyped(ctx context.Context, docType string, id uuid.UUID) (*model.Document, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if doc.Type != docType {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (s *documentService) reload(ctx context.Context, id uuid.UUID) (DocumentResponse, error) {
	reloaded, err := s.docRepo.FindByIDWithLines(ctx, id)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("failed to reload document: %w", err)
	}
	return toDocumentResponse(*reloaded), nil
}

func (s *documentService) audit(ctx context.Context, userID, action string, doc *model.Document) {
	entry := model.AuditLog{
		Action:     action,
		EntityID:   doc.ID.String(),
		EntityName: doc.Number,
		Details:    fmt.Sprintf(`{"type":%q,"status":%q,"total":%q}`, doc.Type, doc.Status, doc.TotalAmount.StringFixed(4)),
	}
	if parsed, err := uuid.Parse(userID); err == nil {
		entry.UserID = &parsed
	}
	// Audit failure never blocks the business operation.
	_ = s.auditRepo.Log(ctx, &entry)
}

func (s *documentService) broadcast(event string, doc *model.Document) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"event":  event,
		"id":     doc.ID.String(),
		"number": doc.Number,
		"type":   doc.Type,
		"status": doc.Status,
	})
	if err != nil {
		return
	}
	select {
	case s.hub.Broadcast <- payload:
	default: // no listeners, drop
	}
}

// --- Mapping ---

func toDocumentResponse(doc model.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:           doc.ID.String(),
		Number:       doc.Number,
		Type:         doc.Type,
		ContactID:    doc.ContactID.String(),
		DocumentDate: doc.DocumentDate.Format(dateLayout),
		Status:       doc.Status,
		Subtotal:     doc.Subtotal.StringFixed(4),
		TaxAmount:    doc.TaxAmount.StringFixed(4),
		TotalAmount:  doc.TotalAmount.StringFixed(4),
		PaidAmount:   doc.PaidAmount.StringFixed(4),
		BalanceDue:   doc.TotalAmount.Sub(doc.PaidAmount).StringFixed(4),
		Notes:        doc.Notes,
		CreatedAt:    doc.CreatedAt.Format(time.RFC3339),
	}
	if doc.Contact != nil {
		resp.ContactName = doc.Contact.Name
	}
	if doc.DueDate != nil {
		due := doc.DueDate.Format(dateLayout)
		resp.DueDate = &due
	}
	if doc.SourceDocumentID != nil {
		src := doc.SourceDocumentID.String()
		resp.SourceDocumentID = &src
	}

	for _, line := range doc.Lines {
		lineResp := DocumentLineResponse{
			ID:          line.ID.String(),
			ProductID:   line.ProductID.String(),
			Description: line.Description,
			Quantity:    line.Quantity.StringFixed(4),
			UnitPrice:   line.UnitPrice.StringFixed(4),
			TaxRate:     line.TaxRate.StringFixed(4),
			Subtotal:    line.Subtotal.StringFixed(4),
			TaxAmount:   line.TaxAmount.StringFixed(4),
			LineTotal:   line.LineTotal.StringFixed(4),
		}
		if line.Product != nil {
			lineResp.ProductName = line.Product.Name
		}
		if line.CostCenterID != nil {
			cc := line.CostCenterID.String()
			lineResp.CostCenterID = &cc
		}
		if line.CostCenter != nil {
			lineResp.CostCenterCode = line.CostCenter.Code
		}
		resp.Lines = append(resp.Lines, lineResp)
	}

	return resp
}
