package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/paytrack/paytrack-backend/internal/domain"
)

const ownerColumns = `id, username, password_hash, created_at`

const uniqueViolation = "23505"

type OwnerRepository struct {
	db *sql.DB
}

func NewOwnerRepository(db *sql.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

func (r *OwnerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO owners (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		owner.ID, owner.Username, owner.PasswordHash, owner.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateOwner)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *OwnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id,
	)
	o, err := scanOwner(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return o, nil
}

func (r *OwnerRepository) GetByUsername(ctx context.Context, username string) (*domain.Owner, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ownerColumns+` FROM owners WHERE username = $1`, username,
	)
	o, err := scanOwner(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByUsername: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByUsername: %w", err)
	}
	return o, nil
}

func scanOwner(s scanner) (*domain.Owner, error) {
	var o domain.Owner
	err := s.Scan(&o.ID, &o.Username, &o.PasswordHash, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
