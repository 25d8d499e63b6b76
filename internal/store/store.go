// Package store defines the persistence gateway the services talk to.
// Implementations live in the memory and postgres subpackages; business
// code only ever sees these interfaces.
package store

import (
	"context"

	"github.com/questbay/questbay/internal/domain"
)

// Tx runs fn as one atomic unit. Reads taken through *ForUpdate methods
// inside fn stay stable until fn returns: either via row locks (postgres)
// or a store-wide critical section (memory). Returning an error rolls the
// unit back.
type Tx interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (domain.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

type Listings interface {
	CreateListing(ctx context.Context, l domain.Listing) error
	GetListing(ctx context.Context, id string) (domain.Listing, error)
	// GetListingForUpdate locks the listing row; valid only inside WithTx.
	GetListingForUpdate(ctx context.Context, id string) (domain.Listing, error)
	ListListings(ctx context.Context, skip, limit int) ([]domain.Listing, error)
	UpdateListing(ctx context.Context, l domain.Listing) error
	SetListingAvailable(ctx context.Context, id string, available bool) error
	DeleteListing(ctx context.Context, id string) error
}

type Deals interface {
	CreateDeal(ctx context.Context, d domain.Deal) error
	GetDeal(ctx context.Context, id string) (domain.Deal, error)
	// GetDealForUpdate locks the deal row; valid only inside WithTx.
	GetDealForUpdate(ctx context.Context, id string) (domain.Deal, error)
	ListDeals(ctx context.Context, skip, limit int, status *domain.DealStatus) ([]domain.Deal, error)
	UpdateDealStatus(ctx context.Context, id string, status domain.DealStatus) error
	CountDealsByListing(ctx context.Context, listingID string) (int, error)
}

type Reviews interface {
	CreateReview(ctx context.Context, r domain.Review) error
	GetReviewByDeal(ctx context.Context, dealID string) (domain.Review, error)
	UpdateReview(ctx context.Context, r domain.Review) error
}

// Gateway is the full persistence surface, handed to service constructors.
type Gateway interface {
	Tx
	Users
	Listings
	Deals
	Reviews
}
