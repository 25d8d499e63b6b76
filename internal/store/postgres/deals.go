package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/questbay/questbay/internal/domain"
)

const dealColumns = `id, seller_id, buyer_id, listing_id, status, created_at, updated_at`

func (s *Store) CreateDeal(ctx context.Context, d domain.Deal) error {
	_, err := s.q(ctx).Exec(ctx,
		`INSERT INTO deals (`+dealColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.SellerID, d.BuyerID, d.ListingID, d.Status, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (s *Store) GetDeal(ctx context.Context, id string) (domain.Deal, error) {
	return scanDeal(s.q(ctx).QueryRow(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = $1`, id))
}

func (s *Store) GetDealForUpdate(ctx context.Context, id string) (domain.Deal, error) {
	return scanDeal(s.q(ctx).QueryRow(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = $1 FOR UPDATE`, id))
}

func (s *Store) ListDeals(ctx context.Context, skip, limit int, status *domain.DealStatus) ([]domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, skip)

	rows, err := s.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := []domain.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (s *Store) UpdateDealStatus(ctx context.Context, id string, status domain.DealStatus) error {
	tag, err := s.q(ctx).Exec(ctx,
		`UPDATE deals SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("deal not found")
	}
	return nil
}

func (s *Store) CountDealsByListing(ctx context.Context, listingID string) (int, error) {
	var n int
	err := s.q(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM deals WHERE listing_id = $1`, listingID).Scan(&n)
	return n, err
}

func scanDeal(row pgx.Row) (domain.Deal, error) {
	var d domain.Deal
	err := row.Scan(&d.ID, &d.SellerID, &d.BuyerID, &d.ListingID, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Deal{}, domain.NotFound("deal not found")
	}
	return d, err
}
