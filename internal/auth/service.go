// Package auth establishes caller identity. Every trusted caller starts
// from a signed Telegram payload; after a login the API hands out a session
// JWT so the mini-app does not replay the payload on each request.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/questbay/questbay/internal/domain"
	"github.com/questbay/questbay/internal/telegram"
)

type UserStore interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) error
}

type Service struct {
	users    UserStore
	botToken string
	tokens   *TokenIssuer
	now      func() time.Time
}

func NewService(users UserStore, botToken string, tokens *TokenIssuer) *Service {
	return &Service{users: users, botToken: botToken, tokens: tokens, now: time.Now}
}

// Authenticate verifies a raw payload from the X-Telegram-Data header and
// upserts the user it attests to: first verification creates the account,
// later ones refresh the display name.
func (s *Service) Authenticate(ctx context.Context, rawPayload []byte) (domain.User, error) {
	fields, err := telegram.ParsePayload(rawPayload)
	if err != nil {
		return domain.User{}, err
	}
	id, err := telegram.Verify(fields, s.botToken, s.now())
	if err != nil {
		return domain.User{}, err
	}
	return s.upsert(ctx, id)
}

// Login is Authenticate plus a session token.
func (s *Service) Login(ctx context.Context, rawPayload []byte) (domain.User, string, error) {
	u, err := s.Authenticate(ctx, rawPayload)
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return domain.User{}, "", domain.Internal(err)
	}
	return u, token, nil
}

func (s *Service) upsert(ctx context.Context, id telegram.Identity) (domain.User, error) {
	now := s.now().UTC()

	u, err := s.users.GetUserByTelegramID(ctx, id.TelegramID)
	switch {
	case err == nil:
		if name := id.DisplayName(); name != "" && name != u.Name {
			u.Name = name
			u.UpdatedAt = now
			if err := s.users.UpdateUser(ctx, u); err != nil {
				return domain.User{}, err
			}
		}
		return u, nil
	case domain.IsKind(err, domain.KindNotFound):
		u = domain.User{
			ID:         uuid.New().String(),
			TelegramID: id.TelegramID,
			Name:       id.DisplayName(),
			Rating:     0,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.users.CreateUser(ctx, u); err != nil {
			// Two first logins racing: the loser re-reads the winner's row.
			if domain.IsKind(err, domain.KindConflict) {
				return s.users.GetUserByTelegramID(ctx, id.TelegramID)
			}
			return domain.User{}, err
		}
		return u, nil
	default:
		return domain.User{}, err
	}
}
