package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/questbay/questbay/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, u domain.User) error {
	_, err := s.q(ctx).Exec(ctx,
		`INSERT INTO users (id, telegram_id, name, rating, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.TelegramID, u.Name, u.Rating, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.Conflict("user already exists")
	}
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.scanUser(s.q(ctx).QueryRow(ctx,
		`SELECT id, telegram_id, name, rating, created_at, updated_at
		 FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (domain.User, error) {
	return s.scanUser(s.q(ctx).QueryRow(ctx,
		`SELECT id, telegram_id, name, rating, created_at, updated_at
		 FROM users WHERE telegram_id = $1`, telegramID))
}

func (s *Store) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	rows, err := s.q(ctx).Query(ctx,
		`SELECT id, telegram_id, name, rating, created_at, updated_at
		 FROM users ORDER BY created_at LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.Name, &u.Rating, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, u domain.User) error {
	tag, err := s.q(ctx).Exec(ctx,
		`UPDATE users SET name = $2, rating = $3, updated_at = $4 WHERE id = $1`,
		u.ID, u.Name, u.Rating, u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("user not found")
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("user not found")
	}
	return nil
}

func (s *Store) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.TelegramID, &u.Name, &u.Rating, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.NotFound("user not found")
	}
	return u, err
}
