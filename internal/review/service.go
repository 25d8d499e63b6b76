// Package review keeps post-completion feedback: at most one review per
// deal, and only once the deal has completed.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/questbay/questbay/internal/domain"
)

const maxCommentLen = 1000

type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetDeal(ctx context.Context, id string) (domain.Deal, error)
	GetDealForUpdate(ctx context.Context, id string) (domain.Deal, error)
	CreateReview(ctx context.Context, r domain.Review) error
	GetReviewByDeal(ctx context.Context, dealID string) (domain.Review, error)
	UpdateReview(ctx context.Context, r domain.Review) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	DealID  string
	Rating  int
	Comment string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return domain.Review{}, domain.Invalid("rating must be between 1 and 5")
	}
	if len(in.Comment) > maxCommentLen {
		return domain.Review{}, domain.Invalid("comment too long (max 1000 characters)")
	}

	now := s.now().UTC()
	var result domain.Review

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		d, err := s.repo.GetDealForUpdate(txCtx, in.DealID)
		if err != nil {
			return err
		}
		if d.Status != domain.DealStatusCompleted {
			return domain.Conflict("deal not completed")
		}

		if _, err := s.repo.GetReviewByDeal(txCtx, in.DealID); err == nil {
			return domain.Conflict("review already exists for this deal")
		} else if !domain.IsKind(err, domain.KindNotFound) {
			return err
		}

		result = domain.Review{
			ID:        uuid.New().String(),
			DealID:    in.DealID,
			Rating:    in.Rating,
			Comment:   in.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.repo.CreateReview(txCtx, result)
	})
	if err != nil {
		return domain.Review{}, err
	}
	return result, nil
}

func (s *Service) GetByDeal(ctx context.Context, dealID string) (domain.Review, error) {
	if _, err := s.repo.GetDeal(ctx, dealID); err != nil {
		return domain.Review{}, err
	}
	return s.repo.GetReviewByDeal(ctx, dealID)
}

// Patch carries a partial review update; nil means "leave unchanged".
type Patch struct {
	Rating  *int
	Comment *string
}

func (s *Service) Update(ctx context.Context, dealID string, p Patch) (domain.Review, error) {
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return domain.Review{}, domain.Invalid("rating must be between 1 and 5")
	}
	if p.Comment != nil && len(*p.Comment) > maxCommentLen {
		return domain.Review{}, domain.Invalid("comment too long (max 1000 characters)")
	}

	var result domain.Review
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		r, err := s.repo.GetReviewByDeal(txCtx, dealID)
		if err != nil {
			return err
		}
		if p.Rating != nil {
			r.Rating = *p.Rating
		}
		if p.Comment != nil {
			r.Comment = *p.Comment
		}
		r.UpdatedAt = s.now().UTC()
		if err := s.repo.UpdateReview(txCtx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return domain.Review{}, err
	}
	return result, nil
}
