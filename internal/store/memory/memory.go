// Package memory is an in-memory store.Gateway. It backs unit tests and
// local development without Postgres. WithTx units run under one store-wide
// mutex, which gives the same serializability the postgres store gets from
// row locks.
package memory

import (
	"context"
	"sync"

	"github.com/questbay/questbay/internal/domain"
	"github.com/questbay/questbay/internal/store"
)

type txKey struct{}

type Store struct {
	mu sync.Mutex

	users    map[string]domain.User
	listings map[string]domain.Listing
	deals    map[string]domain.Deal
	reviews  map[string]domain.Review // keyed by deal id

	listingOrder []string
	dealOrder    []string
	userOrder    []string
}

func New() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		listings: make(map[string]domain.Listing),
		deals:    make(map[string]domain.Deal),
		reviews:  make(map[string]domain.Review),
	}
}

// WithTx holds the store mutex for the whole unit so concurrent units see
// each other's writes in full or not at all.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

// lock takes the mutex unless the context already runs inside WithTx.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ----- users -----

func (s *Store) CreateUser(ctx context.Context, u domain.User) error {
	defer s.lock(ctx)()
	// Mirrors the telegram_id unique index in the postgres schema.
	for _, id := range s.userOrder {
		if other, ok := s.users[id]; ok && other.TelegramID == u.TelegramID {
			return domain.Conflict("user already exists")
		}
	}
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	defer s.lock(ctx)()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.NotFound("user not found")
	}
	return u, nil
}

func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (domain.User, error) {
	defer s.lock(ctx)()
	for _, id := range s.userOrder {
		if u, ok := s.users[id]; ok && u.TelegramID == telegramID {
			return u, nil
		}
	}
	return domain.User{}, domain.NotFound("user not found")
}

func (s *Store) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	defer s.lock(ctx)()
	out := make([]domain.User, 0, limit)
	for i := skip; i < len(s.userOrder) && len(out) < limit; i++ {
		if u, ok := s.users[s.userOrder[i]]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, u domain.User) error {
	defer s.lock(ctx)()
	if _, ok := s.users[u.ID]; !ok {
		return domain.NotFound("user not found")
	}
	s.users[u.ID] = u
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	defer s.lock(ctx)()
	if _, ok := s.users[id]; !ok {
		return domain.NotFound("user not found")
	}
	delete(s.users, id)
	return nil
}

// ----- listings -----

func (s *Store) CreateListing(ctx context.Context, l domain.Listing) error {
	defer s.lock(ctx)()
	s.listings[l.ID] = l
	s.listingOrder = append(s.listingOrder, l.ID)
	return nil
}

func (s *Store) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	defer s.lock(ctx)()
	l, ok := s.listings[id]
	if !ok {
		return domain.Listing{}, domain.NotFound("listing not found")
	}
	return l, nil
}

func (s *Store) GetListingForUpdate(ctx context.Context, id string) (domain.Listing, error) {
	// The WithTx mutex is the lock; a plain read suffices here.
	return s.GetListing(ctx, id)
}

func (s *Store) ListListings(ctx context.Context, skip, limit int) ([]domain.Listing, error) {
	defer s.lock(ctx)()
	out := make([]domain.Listing, 0, limit)
	for i := skip; i < len(s.listingOrder) && len(out) < limit; i++ {
		if l, ok := s.listings[s.listingOrder[i]]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) UpdateListing(ctx context.Context, l domain.Listing) error {
	defer s.lock(ctx)()
	if _, ok := s.listings[l.ID]; !ok {
		return domain.NotFound("listing not found")
	}
	s.listings[l.ID] = l
	return nil
}

func (s *Store) SetListingAvailable(ctx context.Context, id string, available bool) error {
	defer s.lock(ctx)()
	l, ok := s.listings[id]
	if !ok {
		return domain.NotFound("listing not found")
	}
	l.Available = available
	s.listings[id] = l
	return nil
}

func (s *Store) DeleteListing(ctx context.Context, id string) error {
	defer s.lock(ctx)()
	if _, ok := s.listings[id]; !ok {
		return domain.NotFound("listing not found")
	}
	delete(s.listings, id)
	return nil
}

// ----- deals -----

func (s *Store) CreateDeal(ctx context.Context, d domain.Deal) error {
	defer s.lock(ctx)()
	s.deals[d.ID] = d
	s.dealOrder = append(s.dealOrder, d.ID)
	return nil
}

func (s *Store) GetDeal(ctx context.Context, id string) (domain.Deal, error) {
	defer s.lock(ctx)()
	d, ok := s.deals[id]
	if !ok {
		return domain.Deal{}, domain.NotFound("deal not found")
	}
	return d, nil
}

func (s *Store) GetDealForUpdate(ctx context.Context, id string) (domain.Deal, error) {
	return s.GetDeal(ctx, id)
}

func (s *Store) ListDeals(ctx context.Context, skip, limit int, status *domain.DealStatus) ([]domain.Deal, error) {
	defer s.lock(ctx)()
	out := make([]domain.Deal, 0, limit)
	skipped := 0
	for _, id := range s.dealOrder {
		d, ok := s.deals[id]
		if !ok || (status != nil && d.Status != *status) {
			continue
		}
		if skipped < skip {
			skipped++
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) UpdateDealStatus(ctx context.Context, id string, status domain.DealStatus) error {
	defer s.lock(ctx)()
	d, ok := s.deals[id]
	if !ok {
		return domain.NotFound("deal not found")
	}
	d.Status = status
	s.deals[id] = d
	return nil
}

func (s *Store) CountDealsByListing(ctx context.Context, listingID string) (int, error) {
	defer s.lock(ctx)()
	n := 0
	for _, d := range s.deals {
		if d.ListingID == listingID {
			n++
		}
	}
	return n, nil
}

// ----- reviews -----

func (s *Store) CreateReview(ctx context.Context, r domain.Review) error {
	defer s.lock(ctx)()
	if _, ok := s.reviews[r.DealID]; ok {
		return domain.Conflict("review already exists for this deal")
	}
	s.reviews[r.DealID] = r
	return nil
}

func (s *Store) GetReviewByDeal(ctx context.Context, dealID string) (domain.Review, error) {
	defer s.lock(ctx)()
	r, ok := s.reviews[dealID]
	if !ok {
		return domain.Review{}, domain.NotFound("review not found")
	}
	return r, nil
}

func (s *Store) UpdateReview(ctx context.Context, r domain.Review) error {
	defer s.lock(ctx)()
	if _, ok := s.reviews[r.DealID]; !ok {
		return domain.NotFound("review not found")
	}
	s.reviews[r.DealID] = r
	return nil
}

// compile-time check that the memory store covers the full gateway.
var _ store.Gateway = (*Store)(nil)
