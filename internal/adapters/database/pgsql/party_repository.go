package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaabkitab/hisaab_backend/internal/core/ports/repositories"
)

const partyColumns = `party_id, name, party_type, gstin, state_code, email, phone, is_active,
		created_at, created_by, last_updated_at, last_updated_by`

type partyRepository struct {
	pool *pgxpool.Pool
}

// NewPartyRepository creates a new repository for party data.
func NewPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepository {
	return &partyRepository{pool: pool}
}

var _ portsrepo.PartyRepository = (*partyRepository)(nil)

func scanParty(row pgx.Row) (*domain.Party, error) {
	var p domain.Party
	err := row.Scan(
		&p.PartyID,
		&p.Name,
		&p.PartyType,
		&p.GSTIN,
		&p.StateCode,
		&p.Email,
		&p.Phone,
		&p.IsActive,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveParty inserts a new party.
func (r *partyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		party.PartyID,
		party.Name,
		party.PartyType,
		party.GSTIN,
		party.StateCode,
		party.Email,
		party.Phone,
		party.IsActive,
		party.CreatedAt,
		party.CreatedBy,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert party %s: %w", party.PartyID, err)
	}
	return nil
}

// FindPartyByID retrieves a party by its ID.
func (r *partyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_id = $1;`
	p, err := scanParty(r.pool.QueryRow(ctx, query, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find party by ID %s: %w", partyID, err)
	}
	return p, nil
}

// ListParties retrieves parties ordered by name, optionally narrowed to one type.
func (r *partyRepository) ListParties(ctx context.Context, partyType *domain.PartyType, limit, offset int) ([]domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties`
	args := []any{}
	if partyType != nil {
		args = append(args, *partyType)
		query += " WHERE party_type = $1"
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties: %w", err)
	}
	defer rows.Close()

	parties := []domain.Party{}
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan party row: %w", err)
		}
		parties = append(parties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating party rows: %w", err)
	}
	return parties, nil
}

// UpdateParty replaces a party's mutable fields.
func (r *partyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	query := `
		UPDATE parties
		SET name = $2, gstin = $3, state_code = $4, email = $5, phone = $6, is_active = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE party_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		party.PartyID,
		party.Name,
		party.GSTIN,
		party.StateCode,
		party.Email,
		party.Phone,
		party.IsActive,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update party %s: %w", party.PartyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
