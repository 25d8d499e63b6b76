package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/questbay/questbay/internal/domain"
)

const listingColumns = `id, title, game, description, price, image_url, seller, available, created_at, updated_at`

func (s *Store) CreateListing(ctx context.Context, l domain.Listing) error {
	seller, err := json.Marshal(l.Seller)
	if err != nil {
		return err
	}
	_, err = s.q(ctx).Exec(ctx,
		`INSERT INTO listings (`+listingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.ID, l.Title, l.Game, l.Description, l.Price, l.ImageURL, seller, l.Available, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (s *Store) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	return scanListing(s.q(ctx).QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1`, id))
}

// GetListingForUpdate takes a row lock so the availability check and flip
// in deal creation are serialized across concurrent requests.
func (s *Store) GetListingForUpdate(ctx context.Context, id string) (domain.Listing, error) {
	return scanListing(s.q(ctx).QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) ListListings(ctx context.Context, skip, limit int) ([]domain.Listing, error) {
	rows, err := s.q(ctx).Query(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (s *Store) UpdateListing(ctx context.Context, l domain.Listing) error {
	seller, err := json.Marshal(l.Seller)
	if err != nil {
		return err
	}
	tag, err := s.q(ctx).Exec(ctx,
		`UPDATE listings
		 SET title = $2, game = $3, description = $4, price = $5, image_url = $6,
		     seller = $7, available = $8, updated_at = $9
		 WHERE id = $1`,
		l.ID, l.Title, l.Game, l.Description, l.Price, l.ImageURL, seller, l.Available, l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("listing not found")
	}
	return nil
}

func (s *Store) SetListingAvailable(ctx context.Context, id string, available bool) error {
	tag, err := s.q(ctx).Exec(ctx,
		`UPDATE listings SET available = $2, updated_at = NOW() WHERE id = $1`,
		id, available,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("listing not found")
	}
	return nil
}

func (s *Store) DeleteListing(ctx context.Context, id string) error {
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("listing not found")
	}
	return nil
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var (
		l      domain.Listing
		seller []byte
	)
	err := row.Scan(&l.ID, &l.Title, &l.Game, &l.Description, &l.Price, &l.ImageURL,
		&seller, &l.Available, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Listing{}, domain.NotFound("listing not found")
	}
	if err != nil {
		return domain.Listing{}, err
	}
	if err := json.Unmarshal(seller, &l.Seller); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}
