package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/questbay/questbay/internal/domain"
)

func (s *Store) CreateReview(ctx context.Context, r domain.Review) error {
	_, err := s.q(ctx).Exec(ctx,
		`INSERT INTO reviews (id, deal_id, rating, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.DealID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt,
	)
	// The unique index on deal_id backs up the service-level check when two
	// requests race past it.
	if isUniqueViolation(err) {
		return domain.Conflict("review already exists for this deal")
	}
	return err
}

func (s *Store) GetReviewByDeal(ctx context.Context, dealID string) (domain.Review, error) {
	var r domain.Review
	err := s.q(ctx).QueryRow(ctx,
		`SELECT id, deal_id, rating, comment, created_at, updated_at
		 FROM reviews WHERE deal_id = $1`, dealID,
	).Scan(&r.ID, &r.DealID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Review{}, domain.NotFound("review not found")
	}
	return r, err
}

func (s *Store) UpdateReview(ctx context.Context, r domain.Review) error {
	tag, err := s.q(ctx).Exec(ctx,
		`UPDATE reviews SET rating = $2, comment = $3, updated_at = $4 WHERE deal_id = $1`,
		r.DealID, r.Rating, r.Comment, r.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("review not found")
	}
	return nil
}
