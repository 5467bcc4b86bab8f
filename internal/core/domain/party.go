package domain

// PartyType distinguishes the two roles a party can play on documents.
type PartyType string

const (
	Customer PartyType = "CUSTOMER"
	Vendor   PartyType = "VENDOR"
)

// Party is a customer or vendor. StateCode drives the place-of-supply default
// for documents raised against the party.
type Party struct {
	PartyID   string    `json:"partyID"` // Primary Key (UUID)
	Name      string    `json:"name"`
	PartyType PartyType `json:"partyType"`
	GSTIN     string    `json:"gstin"`     // Nullable; 15-char GST registration
	StateCode string    `json:"stateCode"` // Two-digit GST state code
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	AuditFields
}
