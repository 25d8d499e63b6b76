// Package listing owns the catalogue of game accounts offered for sale.
package listing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/questbay/questbay/internal/domain"
)

// Repository is the slice of the store this service needs.
type Repository interface {
	CreateListing(ctx context.Context, l domain.Listing) error
	GetListing(ctx context.Context, id string) (domain.Listing, error)
	ListListings(ctx context.Context, skip, limit int) ([]domain.Listing, error)
	UpdateListing(ctx context.Context, l domain.Listing) error
	DeleteListing(ctx context.Context, id string) error
	CountDealsByListing(ctx context.Context, listingID string) (int, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	Title       string
	Game        string
	Description string
	Price       float64
	ImageURL    string
	Seller      domain.SellerInfo
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Listing, error) {
	if in.Title == "" {
		return domain.Listing{}, domain.Invalid("title is required")
	}
	if in.Game == "" {
		return domain.Listing{}, domain.Invalid("game is required")
	}
	if in.Price <= 0 {
		return domain.Listing{}, domain.Invalid("price must be positive")
	}

	now := s.now().UTC()
	l := domain.Listing{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Game:        in.Game,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Seller:      in.Seller,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateListing(ctx, l); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Listing, error) {
	return s.repo.GetListing(ctx, id)
}

func (s *Service) List(ctx context.Context, skip, limit int) ([]domain.Listing, error) {
	return s.repo.ListListings(ctx, skip, limit)
}

// Patch describes a partial update. Nil pointers mean "leave unchanged";
// ClearImage clears the image reference (an explicit null in the request).
// Availability is deliberately absent: only the deal engine flips it.
type Patch struct {
	Title       *string
	Game        *string
	Description *string
	Price       *float64
	ImageURL    *string
	ClearImage  bool
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (domain.Listing, error) {
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}

	if p.Title != nil {
		if *p.Title == "" {
			return domain.Listing{}, domain.Invalid("title cannot be empty")
		}
		l.Title = *p.Title
	}
	if p.Game != nil {
		if *p.Game == "" {
			return domain.Listing{}, domain.Invalid("game cannot be empty")
		}
		l.Game = *p.Game
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Price != nil {
		if *p.Price <= 0 {
			return domain.Listing{}, domain.Invalid("price must be positive")
		}
		l.Price = *p.Price
	}
	if p.ClearImage {
		l.ImageURL = ""
	} else if p.ImageURL != nil {
		l.ImageURL = *p.ImageURL
	}

	l.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateListing(ctx, l); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}

// Delete removes a listing. Listings with deal history cannot be deleted:
// deals keep a foreign key to the listing they were struck over.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetListing(ctx, id); err != nil {
		return err
	}
	n, err := s.repo.CountDealsByListing(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflict("listing has deals and cannot be deleted")
	}
	return s.repo.DeleteListing(ctx, id)
}
