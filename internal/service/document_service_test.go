package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestPriceLinesComputesPerLineTaxAndAggregates(t *testing.T) {
	inputs := []lineInput{
		{
			ProductID: uuid.New(),
			Quantity:  mustDecimal(t, "2"),
			UnitPrice: mustDecimal(t, "25000"),
			TaxRate:   mustDecimal(t, "18"),
		},
		{
			ProductID: uuid.New(),
			Quantity:  mustDecimal(t, "1"),
			UnitPrice: mustDecimal(t, "42000"),
			TaxRate:   mustDecimal(t, "18"),
		},
	}

	lines, subtotal, taxAmount, err := priceLines(inputs)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.True(t, mustDecimal(t, "50000").Equal(lines[0].Subtotal))
	assert.True(t, mustDecimal(t, "9000").Equal(lines[0].TaxAmount))
	assert.True(t, mustDecimal(t, "59000").Equal(lines[0].LineTotal))
	assert.True(t, mustDecimal(t, "42000").Equal(lines[1].Subtotal))
	assert.True(t, mustDecimal(t, "7560").Equal(lines[1].TaxAmount))

	assert.True(t, mustDecimal(t, "92000").Equal(subtotal))
	assert.True(t, mustDecimal(t, "16560").Equal(taxAmount))
	assert.True(t, mustDecimal(t, "108560").Equal(subtotal.Add(taxAmount)))
}

func TestPriceLinesMixedRates(t *testing.T) {
	inputs := []lineInput{
		{ProductID: uuid.New(), Quantity: mustDecimal(t, "1"), UnitPrice: mustDecimal(t, "100"), TaxRate: mustDecimal(t, "5")},
		{ProductID: uuid.New(), Quantity: mustDecimal(t, "1"), UnitPrice: mustDecimal(t, "200"), TaxRate: mustDecimal(t, "10")},
		{ProductID: uuid.New(), Quantity: mustDecimal(t, "3"), UnitPrice: mustDecimal(t, "50"), TaxRate: decimal.Zero},
	}

	lines, subtotal, taxAmount, err := priceLines(inputs)
	require.NoError(t, err)

	assert.True(t, mustDecimal(t, "450").Equal(subtotal))
	assert.True(t, mustDecimal(t, "25").Equal(taxAmount))
	assert.True(t, decimal.Zero.Equal(lines[2].TaxAmount))
}

func TestPriceLinesRejectsInvalidValues(t *testing.T) {
	base := lineInput{
		ProductID: uuid.New(),
		Quantity:  mustDecimal(t, "1"),
		UnitPrice: mustDecimal(t, "10"),
		TaxRate:   mustDecimal(t, "0"),
	}

	zeroQty := base
	zeroQty.Quantity = decimal.Zero
	negQty := base
	negQty.Quantity = mustDecimal(t, "-1")
	negPrice := base
	negPrice.UnitPrice = mustDecimal(t, "-5")
	negTax := base
	negTax.TaxRate = mustDecimal(t, "-18")

	for _, in := range []lineInput{zeroQty, negQty, negPrice, negTax} {
		_, _, _, err := priceLines([]lineInput{in})
		assert.ErrorIs(t, err, ErrInvalidLineValue)
	}

	// Zero price and zero tax are fine, e.g. free-of-charge lines.
	free := base
	free.UnitPrice = decimal.Zero
	_, _, _, err := priceLines([]lineInput{free})
	assert.NoError(t, err)
}

func TestLinesEditable(t *testing.T) {
	cases := []struct {
		name         string
		docType      string
		status       string
		paymentCount int
		want         bool
	}{
		{"draft invoice", model.DocTypeInvoice, model.StatusDraft, 0, true},
		{"draft purchase order", model.DocTypePurchaseOrder, model.StatusDraft, 0, true},
		{"posted purchase order", model.DocTypePurchaseOrder, model.StatusPosted, 0, false},
		{"sent sales order", model.DocTypeSalesOrder, model.StatusSent, 0, false},
		{"sent invoice without payments", model.DocTypeInvoice, model.StatusSent, 0, true},
		{"sent invoice with payments", model.DocTypeInvoice, model.StatusSent, 1, false},
		{"posted bill without payments", model.DocTypeVendorBill, model.StatusPosted, 0, true},
		{"posted bill with payments", model.DocTypeVendorBill, model.StatusPosted, 2, false},
		{"partially paid invoice", model.DocTypeInvoice, model.StatusPartiallyPaid, 1, false},
		{"paid bill", model.DocTypeVendorBill, model.StatusPaid, 3, false},
		{"cancelled invoice", model.DocTypeInvoice, model.StatusCancelled, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := &model.Document{Type: tc.docType, Status: tc.status}
			assert.Equal(t, tc.want, linesEditable(doc, tc.paymentCount))
		})
	}
}

// --- Lifecycle tests on fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeDocumentRepo struct {
	repository.DocumentRepository
	docs          map[uuid.UUID]*model.Document
	sourceCounts  map[uuid.UUID]int64
	statusUpdates map[uuid.UUID]string
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{
		docs:          make(map[uuid.UUID]*model.Document),
		sourceCounts:  make(map[uuid.UUID]int64),
		statusUpdates: make(map[uuid.UUID]string),
	}
}

func (f *fakeDocumentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return doc, nil
}

func (f *fakeDocumentRepo) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeDocumentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	f.statusUpdates[id] = status
	if doc, ok := f.docs[id]; ok {
		doc.Status = status
	}
	return nil
}

func (f *fakeDocumentRepo) CountBySource(ctx context.Context, sourceID uuid.UUID) (int64, error) {
	return f.sourceCounts[sourceID], nil
}

type fakePaymentRepo struct {
	repository.PaymentRepository
	byDocument map[uuid.UUID][]model.Payment
}

func (f *fakePaymentRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]model.Payment, error) {
	return f.byDocument[documentID], nil
}

type fakeAuditRepo struct {
	repository.AuditRepository
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func newLifecycleService(docRepo *fakeDocumentRepo, paymentRepo *fakePaymentRepo, auditRepo *fakeAuditRepo) DocumentService {
	return NewDocumentService(docRepo, paymentRepo, nil, nil, nil, auditRepo, nil, fakeTxManager{}, nil)
}

func TestPostRequiresDraftWithLines(t *testing.T) {
	docRepo := newFakeDocumentRepo()
	paymentRepo := &fakePaymentRepo{byDocument: map[uuid.UUID][]model.Payment{}}
	auditRepo := &fakeAuditRepo{}
	svc := newLifecycleService(docRepo, paymentRepo, auditRepo)

	empty := &model.Document{ID: uuid.New(), Type: model.DocTypeInvoice, Status: model.StatusDraft}
	docRepo.docs[empty.ID] = empty

	_, err := svc.Post(context.Background(), model.DocTypeInvoice, empty.ID.String(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one line")

	withLine := &model.Document{
		ID:     uuid.New(),
		Type:   model.DocTypeInvoice,
		Status: model.StatusDraft,
		Lines:  []model.DocumentLine{{ProductID: uuid.New()}},
	}
	docRepo.docs[withLine.ID] = withLine

	resp, err := svc.Post(context.Background(), model.DocTypeInvoice, withLine.ID.String(), uuid.New().String())
	require.NoError(t, err)
	assert.Equal(t, model.StatusSent, resp.Status)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionPostDocument, auditRepo.entries[0].Action)

	// Posting again fails: the document is no longer a draft.
	_, err = svc.Post(context.Background(), model.DocTypeInvoice, withLine.ID.String(), "")
	assert.Error(t, err)
}

func TestPostUsesPostedStatusForPurchaseSide(t *testing.T) {
	docRepo := newFakeDocumentRepo()
	svc := newLifecycleService(docRepo, &fakePaymentRepo{}, &fakeAuditRepo{})

	po := &model.Document{
		ID:     uuid.New(),
		Type:   model.DocTypePurchaseOrder,
		Status: model.StatusDraft,
		Lines:  []model.DocumentLine{{ProductID: uuid.New()}},
	}
	docRepo.docs[po.ID] = po

	resp, err := svc.Post(context.Background(), model.DocTypePurchaseOrder, po.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPosted, resp.Status)
}

func TestCancelBlockedByPayments(t *testing.T) {
	docRepo := newFakeDocumentRepo()
	invoice := &model.Document{ID: uuid.New(), Type: model.DocTypeInvoice, Status: model.StatusSent}
	docRepo.docs[invoice.ID] = invoice

	paymentRepo := &fakePaymentRepo{byDocument: map[uuid.UUID][]model.Payment{
		invoice.ID: {{ID: uuid.New(), Amount: mustDecimal(t, "100")}},
	}}
	svc := newLifecycleService(docRepo, paymentRepo, &fakeAuditRepo{})

	_, err := svc.Cancel(context.Background(), model.DocTypeInvoice, invoice.ID.String(), "")
	assert.ErrorIs(t, err, ErrDependentRecordsExist)
	assert.Equal(t, model.StatusSent, invoice.Status)
}

func TestCancelBlockedByDependentDocuments(t *testing.T) {
	docRepo := newFakeDocumentRepo()
	order := &model.Document{ID: uuid.New(), Type: model.DocTypeSalesOrder, Status: model.StatusSent}
	docRepo.docs[order.ID] = order
	docRepo.sourceCounts[order.ID] = 1

	svc := newLifecycleService(docRepo, &fakePaymentRepo{byDocument: map[uuid.UUID][]model.Payment{}}, &fakeAuditRepo{})

	_, err := svc.Cancel(context.Background(), model.DocTypeSalesOrder, order.ID.String(), "")
	assert.ErrorIs(t, err, ErrDependentRecordsExist)
}

func TestCancelSoftCancelsCleanDocument(t *testing.T) {
	docRepo := newFakeDocumentRepo()
	auditRepo := &fakeAuditRepo{}
	order := &model.Document{ID: uuid.New(), Type: model.DocTypeSalesOrder, Status: model.StatusSent, Number: "SO-01001"}
	docRepo.docs[order.ID] = order

	svc := newLifecycleService(docRepo, &fakePaymentRepo{byDocument: map[uuid.UUID][]model.Payment{}}, auditRepo)

	resp, err := svc.Cancel(context.Background(), model.DocTypeSalesOrder, order.ID.String(), uuid.New().String())
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, resp.Status)
	assert.Equal(t, model.StatusCancelled, docRepo.statusUpdates[order.ID])
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, model.ActionCancelDocument, auditRepo.entries[0].Action)
}

func TestGetRejectsWrongTypeAsNotFound(t *testing.T) {
	docRepo := newFakeDocumentRepo()
	invoice := &model.Document{ID: uuid.New(), Type: model.DocTypeInvoice, Status: model.StatusSent}
	docRepo.docs[invoice.ID] = invoice

	svc := newLifecycleService(docRepo, &fakePaymentRepo{}, &fakeAuditRepo{})

	_, err := svc.Get(context.Background(), model.DocTypeVendorBill, invoice.ID.String())
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
