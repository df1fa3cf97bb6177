package repository

import (
	"context"
	"time"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

func (r *Repository) GetAccountByID(id int64) (*domain.Account, error) {
	query := `
		SELECT username, password_hash, email, role, is_active, created_at, version
		FROM accounts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	account := &domain.Account{
		ID: id,
	}

	dst := []any{&account.Username, &account.PasswordHash, &account.Email, &account.Role, &account.IsActive, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return account, nil
}

func (r *Repository) GetAccountByUsername(username string) (*domain.Account, error) {
	query := `
		SELECT id, password_hash, email, role, is_active, created_at, version
		FROM accounts WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	account := &domain.Account{
		Username: username,
	}

	dst := []any{&account.ID, &account.PasswordHash, &account.Email, &account.Role, &account.IsActive, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return account, nil
}

func (r *Repository) GetAllAccounts() ([]*domain.Account, error) {
	query := `
		SELECT id, username, password_hash, email, role, is_active, created_at, version
		FROM accounts ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account := &domain.Account{}
		dst := []any{&account.ID, &account.Username, &account.PasswordHash, &account.Email, &account.Role, &account.IsActive, &account.CreatedAt, &account.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *Repository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts (username, password_hash, email, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{account.Username, account.PasswordHash, account.Email, account.Role, account.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&account.ID, &account.CreatedAt, &account.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateAccount(account *domain.Account) error {
	query := `
		UPDATE accounts
		SET
			password_hash = $1,
			email = $2,
			role = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING username, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{account.PasswordHash, account.Email, account.Role, account.IsActive, account.ID, account.Version}
	dst := []any{&account.Username, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAccount(id int64) error {
	query := `
		DELETE FROM accounts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
