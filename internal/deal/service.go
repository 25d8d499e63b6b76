// Package deal runs the transaction lifecycle: a deal is struck over an
// available listing, holds it while pending, and either completes (listing
// stays sold) or cancels (listing returns to the storefront).
package deal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/questbay/questbay/internal/domain"
)

// Repository is the slice of the store this service needs. The *ForUpdate
// reads inside WithTx are what make check-and-flip safe under concurrency.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetListingForUpdate(ctx context.Context, id string) (domain.Listing, error)
	SetListingAvailable(ctx context.Context, id string, available bool) error
	GetUser(ctx context.Context, id string) (domain.User, error)
	CreateDeal(ctx context.Context, d domain.Deal) error
	GetDeal(ctx context.Context, id string) (domain.Deal, error)
	GetDealForUpdate(ctx context.Context, id string) (domain.Deal, error)
	ListDeals(ctx context.Context, skip, limit int, status *domain.DealStatus) ([]domain.Deal, error)
	UpdateDealStatus(ctx context.Context, id string, status domain.DealStatus) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	SellerID  string
	BuyerID   string
	ListingID string
}

// Create strikes a deal over an available listing. Locking the listing row,
// checking availability, flipping it off and inserting the pending deal all
// happen in one transaction, so two buyers racing for the same listing
// cannot both win.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Deal, error) {
	if in.BuyerID == in.SellerID {
		return domain.Deal{}, domain.Invalid("buyer and seller cannot be the same user")
	}

	now := s.now().UTC()
	var result domain.Deal

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		l, err := s.repo.GetListingForUpdate(txCtx, in.ListingID)
		if err != nil {
			return err
		}
		if l.Seller.ID != in.SellerID {
			return domain.Invalid("seller does not match the listing")
		}
		if !l.Available {
			return domain.Conflict("listing is not available")
		}

		if _, err := s.repo.GetUser(txCtx, in.SellerID); err != nil {
			return err
		}
		if _, err := s.repo.GetUser(txCtx, in.BuyerID); err != nil {
			return err
		}

		if err := s.repo.SetListingAvailable(txCtx, in.ListingID, false); err != nil {
			return err
		}

		result = domain.Deal{
			ID:        uuid.New().String(),
			SellerID:  in.SellerID,
			BuyerID:   in.BuyerID,
			ListingID: in.ListingID,
			Status:    domain.DealStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.repo.CreateDeal(txCtx, result)
	})
	if err != nil {
		return domain.Deal{}, err
	}
	return result, nil
}

// Transition moves a deal to a new status. Only two moves exist:
// pending→completed keeps the listing off the storefront, and
// pending→cancelled puts it back. Completed and cancelled are terminal.
func (s *Service) Transition(ctx context.Context, dealID string, to domain.DealStatus) (domain.Deal, error) {
	if !to.Valid() {
		return domain.Deal{}, domain.Invalid("unknown deal status")
	}

	var result domain.Deal
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		d, err := s.repo.GetDealForUpdate(txCtx, dealID)
		if err != nil {
			return err
		}
		if d.Status != domain.DealStatusPending || to == domain.DealStatusPending {
			return domain.Conflict("invalid transition from " + string(d.Status) + " to " + string(to))
		}

		if to == domain.DealStatusCancelled {
			if err := s.repo.SetListingAvailable(txCtx, d.ListingID, true); err != nil {
				return err
			}
		}

		if err := s.repo.UpdateDealStatus(txCtx, dealID, to); err != nil {
			return err
		}
		d.Status = to
		d.UpdatedAt = s.now().UTC()
		result = d
		return nil
	})
	if err != nil {
		return domain.Deal{}, err
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Deal, error) {
	return s.repo.GetDeal(ctx, id)
}

func (s *Service) List(ctx context.Context, skip, limit int, status *domain.DealStatus) ([]domain.Deal, error) {
	return s.repo.ListDeals(ctx, skip, limit, status)
}
