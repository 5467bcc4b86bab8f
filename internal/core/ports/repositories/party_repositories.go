package repositories

import (
	"context"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
)

// PartyRepository defines persistence operations for customers and vendors.
type PartyRepository interface {
	SaveParty(ctx context.Context, party domain.Party) error
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, partyType *domain.PartyType, limit, offset int) ([]domain.Party, error)
	UpdateParty(ctx context.Context, party domain.Party) error
}
