package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaabkitab/hisaab_backend/internal/core/ports/services"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

// partyService manages the customer/vendor registry.
type partyService struct {
	BaseService
	partyRepo portsrepo.PartyRepository
}

// NewPartyService creates a new PartyService.
func NewPartyService(partyRepo portsrepo.PartyRepository) portssvc.PartySvcFacade {
	return &partyService{partyRepo: partyRepo}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

// CreateParty registers a new customer or vendor.
func (s *partyService) CreateParty(ctx context.Context, req dto.CreatePartyRequest, creatorUserID string) (*domain.Party, error) {
	now := time.Now().UTC()
	party := domain.Party{
		PartyID:   uuid.NewString(),
		Name:      req.Name,
		PartyType: req.PartyType,
		GSTIN:     req.GSTIN,
		StateCode: req.StateCode,
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		s.LogError(ctx, err, "Failed to save party", "party_name", req.Name)
		return nil, fmt.Errorf("failed to save party: %w", err)
	}

	s.LogInfo(ctx, "Party created", "party_id", party.PartyID, "party_type", string(party.PartyType))
	return &party, nil
}

// GetPartyByID retrieves a single party.
func (s *partyService) GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find party", "party_id", partyID)
		}
		return nil, err
	}
	return party, nil
}

// ListParties retrieves parties, optionally narrowed to one type.
func (s *partyService) ListParties(ctx context.Context, partyType *domain.PartyType, limit, offset int) ([]domain.Party, error) {
	if limit <= 0 {
		limit = 50
	}
	parties, err := s.partyRepo.ListParties(ctx, partyType, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list parties")
		return nil, fmt.Errorf("failed to retrieve parties: %w", err)
	}
	return parties, nil
}

// UpdateParty applies partial updates to a party.
func (s *partyService) UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.GSTIN != nil {
		party.GSTIN = *req.GSTIN
	}
	if req.StateCode != nil {
		party.StateCode = *req.StateCode
	}
	if req.Email != nil {
		party.Email = *req.Email
	}
	if req.Phone != nil {
		party.Phone = *req.Phone
	}
	if req.IsActive != nil {
		party.IsActive = *req.IsActive
	}
	party.LastUpdatedAt = time.Now().UTC()
	party.LastUpdatedBy = userID

	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		s.LogError(ctx, err, "Failed to update party", "party_id", partyID)
		return nil, fmt.Errorf("failed to update party: %w", err)
	}

	s.LogInfo(ctx, "Party updated", "party_id", partyID)
	return party, nil
}
