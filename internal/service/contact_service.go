package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Address DTO ---

type AddressPayload struct {
	AddressType string `json:"address_type"`
	FullAddress string `json:"full_address"`
	IsDefault   bool   `json:"is_default"`
}

type AddressResponse struct {
	ID          uuid.UUID `json:"id"`
	ContactID   uuid.UUID `json:"contact_id"`
	AddressType string    `json:"address_type"`
	FullAddress string    `json:"full_address"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Contact DTOs ---

type CreateContactRequest struct {
	Name          string           `json:"name" binding:"required"`
	Type          string           `json:"type" binding:"required"`
	TaxCode       string           `json:"tax_code"`
	CompanyName   string           `json:"company_name"`
	BankAccount   string           `json:"bank_account"`
	ContactPerson string           `json:"contact_person"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email"`
	Addresses     []AddressPayload `json:"addresses"`
}

type UpdateContactRequest struct {
	Name          *string           `json:"name"`
	Type          *string           `json:"type"`
	TaxCode       *string           `json:"tax_code"`
	CompanyName   *string           `json:"company_name"`
	BankAccount   *string           `json:"bank_account"`
	ContactPerson *string           `json:"contact_person"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	IsActive      *bool             `json:"is_active"`
	Addresses     *[]AddressPayload `json:"addresses"` // pointer so nil = not sent, [] = clear all
}

type ContactResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	TaxCode       string            `json:"tax_code"`
	CompanyName   string            `json:"company_name"`
	BankAccount   string            `json:"bank_account"`
	ContactPerson string            `json:"contact_person"`
	Phone         string            `json:"phone"`
	Email         string            `json:"email"`
	IsActive      bool              `json:"is_active"`
	Addresses     []AddressResponse `json:"addresses"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// --- Interface ---

type ContactService interface {
	CreateContact(ctx context.Context, req CreateContactRequest) (ContactResponse, error)
	UpdateContact(ctx context.Context, id string, req UpdateContactRequest) (ContactResponse, error)
	DeleteContact(ctx context.Context, id string) error
	GetContact(ctx context.Context, id string) (ContactResponse, error)
	GetContacts(ctx context.Context, contactType, search string, page, limit int) ([]ContactResponse, int64, error)
}

// --- Implementation ---

type contactService struct {
	contactRepo repository.ContactRepository
	txManager   repository.TransactionManager
}

func NewContactService(contactRepo repository.ContactRepository, txManager repository.TransactionManager) ContactService {
	return &contactService{contactRepo: contactRepo, txManager: txManager}
}

// --- Validation helpers ---

var validContactTypes = map[string]bool{
	model.ContactTypeCustomer: true,
	model.ContactTypeVendor:   true,
	model.ContactTypeBoth:     true,
}

var validAddressTypes = map[string]bool{
	model.AddressTypeBilling:  true,
	model.AddressTypeShipping: true,
}

func validateAddresses(addresses []AddressPayload) error {
	for i, addr := range addresses {
		if !validAddressTypes[addr.AddressType] {
			return fmt.Errorf("addresses[%d]: address_type must be one of: BILLING, SHIPPING", i)
		}
		if addr.FullAddress == "" {
			return fmt.Errorf("addresses[%d]: full_address is required", i)
		}
	}
	return nil
}

func (s *contactService) CreateContact(ctx context.Context, req CreateContactRequest) (ContactResponse, error) {
	if !validContactTypes[req.Type] {
		return ContactResponse{}, fmt.Errorf("type must be one of: CUSTOMER, VENDOR, BOTH")
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return ContactResponse{}, fmt.Errorf("invalid email address")
		}
	}
	if err := validateAddresses(req.Addresses); err != nil {
		return ContactResponse{}, err
	}

	contact := model.Contact{
		Name:          req.Name,
		Type:          req.Type,
		TaxCode:       req.TaxCode,
		CompanyName:   req.CompanyName,
		BankAccount:   req.BankAccount,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		IsActive:      true,
	}
	for _, addr := range req.Addresses {
		contact.Addresses = append(contact.Addresses, model.ContactAddress{
			AddressType: addr.AddressType,
			FullAddress: addr.FullAddress,
			IsDefault:   addr.IsDefault,
		})
	}

	if err := s.contactRepo.Create(ctx, &contact); err != nil {
		return ContactResponse{}, fmt.Errorf("failed to create contact: %w", err)
	}

	reloaded, err := s.contactRepo.FindByID(ctx, contact.ID)
	if err != nil {
		return ContactResponse{}, err
	}
	return toContactResponse(*reloaded), nil
}

func (s *contactService) UpdateContact(ctx context.Context, id string, req UpdateContactRequest) (ContactResponse, error) {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return ContactResponse{}, fmt.Errorf("invalid contact id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		contact, findErr := s.contactRepo.FindByID(txCtx, contactID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return findErr
		}

		if req.Type != nil {
			if !validContactTypes[*req.Type] {
				return fmt.Errorf("type must be one of: CUSTOMER, VENDOR, BOTH")
			}
			contact.Type = *req.Type
		}
		if req.Name != nil {
			contact.Name = *req.Name
		}
		if req.TaxCode != nil {
			contact.TaxCode = *req.TaxCode
		}
		if req.CompanyName != nil {
			contact.CompanyName = *req.CompanyName
		}
		if req.BankAccount != nil {
			contact.BankAccount = *req.BankAccount
		}
		if req.ContactPerson != nil {
			contact.ContactPerson = *req.ContactPerson
		}
		if req.Phone != nil {
			contact.Phone = *req.Phone
		}
		if req.Email != nil {
			if *req.Email != "" {
				if _, mailErr := mail.ParseAddress(*req.Email); mailErr != nil {
					return fmt.Errorf("invalid email address")
				}
			}
			contact.Email = *req.Email
		}
		if req.IsActive != nil {
			contact.IsActive = *req.IsActive
		}

		if req.Addresses != nil {
			if addrErr := validateAddresses(*req.Addresses); addrErr != nil {
				return addrErr
			}
			if delErr := s.contactRepo.DeleteAddressesByContactID(txCtx, contactID); delErr != nil {
				return delErr
			}
			addresses := make([]model.ContactAddress, 0, len(*req.Addresses))
			for _, addr := range *req.Addresses {
				addresses = append(addresses, model.ContactAddress{
					ContactID:   contactID,
					AddressType: addr.AddressType,
					FullAddress: addr.FullAddress,
					IsDefault:   addr.IsDefault,
				})
			}
			if createErr := s.contactRepo.CreateAddresses(txCtx, addresses); createErr != nil {
				return createErr
			}
			contact.Addresses = nil
		}

		return s.contactRepo.Update(txCtx, contact)
	})
	if err != nil {
		return ContactResponse{}, err
	}

	reloaded, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return ContactResponse{}, err
	}
	return toContactResponse(*reloaded), nil
}

func (s *contactService) DeleteContact(ctx context.Context, id string) error {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid contact id: %w", err)
	}
	if _, err := s.contactRepo.FindByID(ctx, contactID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.contactRepo.Delete(ctx, contactID)
}

func (s *contactService) GetContact(ctx context.Context, id string) (ContactResponse, error) {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return ContactResponse{}, fmt.Errorf("invalid contact id: %w", err)
	}
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ContactResponse{}, ErrNotFound
		}
		return ContactResponse{}, err
	}
	return toContactResponse(*contact), nil
}

func (s *contactService) GetContacts(ctx context.Context, contactType, search string, page, limit int) ([]ContactResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	contacts, total, err := s.contactRepo.List(ctx, contactType, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	result := make([]ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		result = append(result, toContactResponse(contact))
	}
	return result, total, nil
}

// --- Mapping ---

func toContactResponse(contact model.Contact) ContactResponse {
	resp := ContactResponse{
		ID:            contact.ID,
		Name:          contact.Name,
		Type:          contact.Type,
		TaxCode:       contact.TaxCode,
		CompanyName:   contact.CompanyName,
		BankAccount:   contact.BankAccount,
		ContactPerson: contact.ContactPerson,
		Phone:         contact.Phone,
		Email:         contact.Email,
		IsActive:      contact.IsActive,
		CreatedAt:     contact.CreatedAt,
		UpdatedAt:     contact.UpdatedAt,
	}
	for _, addr := range contact.Addresses {
		resp.Addresses = append(resp.Addresses, AddressResponse{
			ID:          addr.ID,
			ContactID:   addr.ContactID,
			AddressType: addr.AddressType,
			FullAddress: addr.FullAddress,
			IsDefault:   addr.IsDefault,
			CreatedAt:   addr.CreatedAt,
			UpdatedAt:   addr.UpdatedAt,
		})
	}
	return resp
}
