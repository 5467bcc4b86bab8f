package dto

import (
	"time"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
)

// CreatePartyRequest defines the payload for creating a customer or vendor.
type CreatePartyRequest struct {
	Name      string           `json:"name" binding:"required"`
	PartyType domain.PartyType `json:"partyType" binding:"required,oneof=CUSTOMER VENDOR"`
	GSTIN     string           `json:"gstin" binding:"omitempty,len=15"`
	StateCode string           `json:"stateCode" binding:"required,len=2"`
	Email     string           `json:"email" binding:"omitempty,email"`
	Phone     string           `json:"phone"`
}

// UpdatePartyRequest defines the payload for updating a party. Nil fields
// are left unchanged.
type UpdatePartyRequest struct {
	Name      *string `json:"name,omitempty"`
	GSTIN     *string `json:"gstin,omitempty" binding:"omitempty,len=15"`
	StateCode *string `json:"stateCode,omitempty" binding:"omitempty,len=2"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// PartyResponse defines the data returned for a party.
type PartyResponse struct {
	PartyID   string    `json:"partyID"`
	Name      string    `json:"name"`
	PartyType string    `json:"partyType"`
	GSTIN     string    `json:"gstin,omitempty"`
	StateCode string    `json:"stateCode"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToPartyResponse converts a domain.Party to its response DTO.
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:   p.PartyID,
		Name:      p.Name,
		PartyType: string(p.PartyType),
		GSTIN:     p.GSTIN,
		StateCode: p.StateCode,
		Email:     p.Email,
		Phone:     p.Phone,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}

// ToPartyResponses converts a slice of parties to response DTOs.
func ToPartyResponses(parties []domain.Party) []PartyResponse {
	responses := make([]PartyResponse, len(parties))
	for i := range parties {
		responses[i] = ToPartyResponse(&parties[i])
	}
	return responses
}
