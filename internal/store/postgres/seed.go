package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/questbay/questbay/internal/domain"
)

// Seed inserts demo users and listings for local development. It is a no-op
// when the database already has users.
func (s *Store) Seed(ctx context.Context) error {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	seller := domain.User{
		ID:         uuid.New().String(),
		TelegramID: 123456789,
		Name:       "testuser1",
		Rating:     4.5,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	buyer := domain.User{
		ID:         uuid.New().String(),
		TelegramID: 987654321,
		Name:       "testuser2",
		Rating:     5.0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, u := range []domain.User{seller, buyer} {
		if err := s.CreateUser(ctx, u); err != nil {
			return err
		}
	}

	sellerInfo := domain.SellerInfo{ID: seller.ID, Name: seller.Name, Rating: seller.Rating}
	listings := []domain.Listing{
		{
			ID:          uuid.New().String(),
			Title:       "Dota 2 Immortal account",
			Game:        "Dota 2",
			Description: "Immortal rank, 6000 MMR, all heroes unlocked",
			Price:       15000,
			ImageURL:    "https://example.com/dota2.jpg",
			Seller:      sellerInfo,
			Available:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Title:       "CS:GO Global Elite account",
			Game:        "CS:GO",
			Description: "Global Elite, 50k inventory",
			Price:       25000,
			ImageURL:    "https://example.com/csgo.jpg",
			Seller:      sellerInfo,
			Available:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	for _, l := range listings {
		if err := s.CreateListing(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
