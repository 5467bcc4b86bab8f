package services

import (
	"context"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/hisaabkitab/hisaab_backend/internal/dto"
)

// PartySvcFacade manages the customer/vendor registry.
type PartySvcFacade interface {
	CreateParty(ctx context.Context, req dto.CreatePartyRequest, creatorUserID string) (*domain.Party, error)
	GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, partyType *domain.PartyType, limit, offset int) ([]domain.Party, error)
	UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error)
}
