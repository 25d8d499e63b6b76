// Package user is the read/maintenance surface of the user directory.
// Accounts are created only by the login upsert in the auth package.
package user

import (
	"context"
	"time"

	"github.com/questbay/questbay/internal/domain"
)

type Repository interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (domain.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) GetByTelegramID(ctx context.Context, telegramID int64) (domain.User, error) {
	return s.repo.GetUserByTelegramID(ctx, telegramID)
}

func (s *Service) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	return s.repo.ListUsers(ctx, skip, limit)
}

// Patch carries a partial profile update; nil means "leave unchanged".
type Patch struct {
	Name *string
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (domain.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if p.Name != nil {
		if *p.Name == "" {
			return domain.User{}, domain.Invalid("name cannot be empty")
		}
		u.Name = *p.Name
	}
	u.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}
