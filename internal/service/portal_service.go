package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"backend/internal/model"
	"backend/internal/notifier"
	"backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type InviteCustomerRequest struct {
	ContactID string `json:"contact_id" binding:"required"`
	Username  string `json:"username" binding:"required"`
}

type InviteCustomerResponse struct {
	UserID            string `json:"user_id"`
	Email             string `json:"email"`
	TemporaryPassword string `json:"temporary_password"`
}

// --- Interface ---

// PortalService backs the customer self-service portal. Portal users are
// regular users with the customer role, bound to one contact; they only
// ever see that contact's invoices and payments.
type PortalService interface {
	InviteCustomer(ctx context.Context, req InviteCustomerRequest, invitedBy string) (InviteCustomerResponse, error)
	ListMyInvoices(ctx context.Context, contactID string, page, limit int) ([]DocumentResponse, int64, error)
	GetMyInvoice(ctx context.Context, contactID, invoiceID string) (DocumentResponse, error)
	ListMyPayments(ctx context.Context, contactID string, page, limit int) ([]PaymentResponse, int64, error)
}

type portalService struct {
	userRepo    repository.UserRepository
	contactRepo repository.ContactRepository
	docRepo     repository.DocumentRepository
	paymentRepo repository.PaymentRepository
	auditRepo   repository.AuditRepository
	mailer      notifier.Notifier
}

func NewPortalService(
	userRepo repository.UserRepository,
	contactRepo repository.ContactRepository,
	docRepo repository.DocumentRepository,
	paymentRepo repository.PaymentRepository,
	auditRepo repository.AuditRepository,
	mailer notifier.Notifier,
) PortalService {
	return &portalService{
		userRepo:    userRepo,
		contactRepo: contactRepo,
		docRepo:     docRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		mailer:      mailer,
	}
}

// --- Implementation ---

func (s *portalService) InviteCustomer(ctx context.Context, req InviteCustomerRequest, invitedBy string) (InviteCustomerResponse, error) {
	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		return InviteCustomerResponse{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InviteCustomerResponse{}, ErrNotFound
		}
		return InviteCustomerResponse{}, err
	}
	if contact.Type == model.ContactTypeVendor {
		return InviteCustomerResponse{}, fmt.Errorf("only customer contacts can be invited to the portal")
	}
	if contact.Email == "" {
		return InviteCustomerResponse{}, fmt.Errorf("contact has no email address")
	}
	if _, err := s.userRepo.GetByEmail(ctx, contact.Email); err == nil {
		return InviteCustomerResponse{}, fmt.Errorf("a portal account already exists for %s", contact.Email)
	}
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return InviteCustomerResponse{}, fmt.Errorf("username already exists")
	}

	tempPassword, err := randomPassword()
	if err != nil {
		return InviteCustomerResponse{}, fmt.Errorf("failed to generate password: %w", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return InviteCustomerResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username:  req.Username,
		Email:     contact.Email,
		Password:  string(hashed),
		Role:      model.RoleCustomer,
		ContactID: &contactID,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return InviteCustomerResponse{}, fmt.Errorf("failed to create portal user: %w", err)
	}

	entry := model.AuditLog{
		Action:     model.ActionInviteCustomer,
		EntityID:   user.ID.String(),
		EntityName: contact.Name,
		Details:    fmt.Sprintf(`{"email":%q}`, contact.Email),
	}
	if parsed, parseErr := uuid.Parse(invitedBy); parseErr == nil {
		entry.UserID = &parsed
	}
	_ = s.auditRepo.Log(ctx, &entry)

	// Fire and forget: document operations never wait on mail delivery.
	go func(email, name, password string) {
		body := fmt.Sprintf("Hello %s,\n\nA portal account has been created for you.\nTemporary password: %s\n\nPlease log in and change it.", name, password)
		if sendErr := s.mailer.Send(email, "Your customer portal access", body); sendErr != nil {
			log.Printf("portal invite mail failed: %v", sendErr)
		}
	}(contact.Email, contact.Name, tempPassword)

	return InviteCustomerResponse{
		UserID:            user.ID.String(),
		Email:             contact.Email,
		TemporaryPassword: tempPassword,
	}, nil
}

func randomPassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *portalService) ListMyInvoices(ctx context.Context, contactID string, page, limit int) ([]DocumentResponse, int64, error) {
	cid, err := uuid.Parse(contactID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid contact id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	docs, total, err := s.docRepo.List(ctx, repository.DocumentListFilter{
		Type:      model.DocTypeInvoice,
		ContactID: &cid,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, 0, err
	}

	result := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		if doc.Status == model.StatusDraft {
			continue // drafts stay internal until sent
		}
		result = append(result, toDocumentResponse(doc))
	}
	return result, total, nil
}

func (s *portalService) GetMyInvoice(ctx context.Context, contactID, invoiceID string) (DocumentResponse, error) {
	cid, err := uuid.Parse(contactID)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid contact id: %w", err)
	}
	docID, err := uuid.Parse(invoiceID)
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	doc, err := s.docRepo.FindByIDWithLines(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, ErrDocumentNotFound
		}
		return DocumentResponse{}, err
	}
	// Another contact's invoice is indistinguishable from a missing one.
	if doc.Type != model.DocTypeInvoice || doc.ContactID != cid || doc.Status == model.StatusDraft {
		return DocumentResponse{}, ErrDocumentNotFound
	}
	return toDocumentResponse(*doc), nil
}

func (s *portalService) ListMyPayments(ctx context.Context, contactID string, page, limit int) ([]PaymentResponse, int64, error) {
	cid, err := uuid.Parse(contactID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid contact id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	docs, _, err := s.docRepo.List(ctx, repository.DocumentListFilter{
		Type:      model.DocTypeInvoice,
		ContactID: &cid,
		Page:      1,
		Limit:     1000,
	})
	if err != nil {
		return nil, 0, err
	}

	var all []model.Payment
	for _, doc := range docs {
		payments, listErr := s.paymentRepo.ListByDocument(ctx, doc.ID)
		if listErr != nil {
			return nil, 0, listErr
		}
		all = append(all, payments...)
	}

	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	result := make([]PaymentResponse, 0, end-start)
	for _, p := range all[start:end] {
		result = append(result, toPaymentResponse(p))
	}
	return result, total, nil
}
