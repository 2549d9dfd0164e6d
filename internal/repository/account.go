package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"frontline-tracker/internal/constants"
	"frontline-tracker/internal/domain"
)

type AccountRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAccountRepository(db *sql.DB, logger zerolog.Logger) *AccountRepository {
	return &AccountRepository{db: db, logger: logger}
}

// Get returns nil without error when the account does not exist.
func (r *AccountRepository) Get(ctx context.Context, db domain.Database, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT id, db, username, created_at FROM accounts WHERE db = ? AND username = ?`,
		string(db), username)

	var acc domain.Account
	if err := row.Scan(&acc.ID, &acc.Database, &acc.Username, &acc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &acc, nil
}

func (r *AccountRepository) GetOrCreate(ctx context.Context, db domain.Database, username string) (*domain.Account, error) {
	acc, err := r.Get(ctx, db, username)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		return acc, nil
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate account id: %w", err)
	}

	acc = &domain.Account{
		ID:        id,
		Database:  db,
		Username:  username,
		CreatedAt: time.Now(),
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, db, username, created_at) VALUES (?, ?, ?, ?)`,
		acc.ID, string(acc.Database), acc.Username, acc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	r.logger.Debug().Str("db", string(db)).Str("username", username).Msg("account created")
	return acc, nil
}
