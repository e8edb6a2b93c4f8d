package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository fornece acesso à tabela de administradores.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByEmail busca um administrador pela chave de e-mail.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	const query = `
        SELECT id, email, user_id, created_at
        FROM admins
        WHERE lower(email) = lower($1)
    `
	row := r.pool.QueryRow(ctx, query, strings.TrimSpace(email))
	return scanAdmin(row)
}

// FindByUserID busca um administrador pelo user_id externo.
func (r *Repository) FindByUserID(ctx context.Context, userID string) (*Admin, error) {
	const query = `
        SELECT id, email, user_id, created_at
        FROM admins
        WHERE user_id = $1
    `
	row := r.pool.QueryRow(ctx, query, strings.TrimSpace(userID))
	return scanAdmin(row)
}

// List devolve todos os administradores, mais antigos primeiro.
func (r *Repository) List(ctx context.Context) ([]Admin, error) {
	const query = `
        SELECT id, email, user_id, created_at
        FROM admins
        ORDER BY created_at ASC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []Admin{}
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *admin)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return admins, nil
}

// HasAny indica se existe pelo menos um administrador.
func (r *Repository) HasAny(ctx context.Context) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM admins)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Insert grava a concessão; chaves já existentes são ignoradas
// (adição idempotente).
func (r *Repository) Insert(ctx context.Context, email, userID *string) error {
	const query = `
        INSERT INTO admins (email, user_id)
        VALUES (lower($1), $2)
        ON CONFLICT DO NOTHING
    `
	_, err := r.pool.Exec(ctx, query, email, userID)
	return err
}

// InsertFirst grava o primeiro administrador somente se o registro
// estiver vazio. A condição e o INSERT rodam na mesma instrução, então
// o banco serializa bootstraps concorrentes e admite exatamente um.
func (r *Repository) InsertFirst(ctx context.Context, email, userID *string) error {
	const query = `
        INSERT INTO admins (email, user_id)
        SELECT lower($1), $2
        WHERE NOT EXISTS (SELECT 1 FROM admins)
    `
	tag, err := r.pool.Exec(ctx, query, email, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyInitialized
	}
	return nil
}

// DeleteByEmail remove a concessão pela chave de e-mail; ausência é no-op.
func (r *Repository) DeleteByEmail(ctx context.Context, email string) error {
	const query = `DELETE FROM admins WHERE lower(email) = lower($1)`
	_, err := r.pool.Exec(ctx, query, strings.TrimSpace(email))
	return err
}

func scanAdmin(row pgx.Row) (*Admin, error) {
	var a Admin
	if err := row.Scan(&a.ID, &a.Email, &a.UserID, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
