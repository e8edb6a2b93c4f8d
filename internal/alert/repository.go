package alert

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaozabele/alertas/internal/db"
)

// Repository fornece acesso às tabelas de alertas.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const alertColumns = `id, type, description, location, lat, lng, user_id, status, created_at`

// Create insere o alerta e as referências de imagem na mesma transação.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Alert, error) {
	var created *Alert

	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		const insertAlert = `
            INSERT INTO alerts (type, description, location, lat, lng, user_id, status)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING ` + alertColumns

		row := tx.QueryRow(ctx, insertAlert,
			strings.TrimSpace(input.Type),
			strings.TrimSpace(input.Description),
			strings.TrimSpace(input.Location),
			input.Lat,
			input.Lng,
			input.UserID,
			StatusNew,
		)

		alert, err := scanAlert(row)
		if err != nil {
			return err
		}

		const insertImage = `
            INSERT INTO alert_images (alert_id, storage_key, content_type)
            VALUES ($1, $2, $3)
            RETURNING id, storage_key, content_type, uploaded_at
        `
		for _, img := range input.Images {
			var stored Image
			row := tx.QueryRow(ctx, insertImage, alert.ID, strings.TrimSpace(img.StorageKey), strings.TrimSpace(img.ContentType))
			if err := row.Scan(&stored.ID, &stored.StorageKey, &stored.ContentType, &stored.UploadedAt); err != nil {
				return err
			}
			alert.Images = append(alert.Images, stored)
		}

		created = alert
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.Notes = []Note{}
	return created, nil
}

// ListAll devolve todos os alertas, mais recentes primeiro.
func (r *Repository) ListAll(ctx context.Context) ([]Alert, error) {
	const query = `
        SELECT ` + alertColumns + `
        FROM alerts
        ORDER BY created_at DESC
    `
	return r.queryAlerts(ctx, query)
}

// ListByUser devolve os alertas do usuário, mais recentes primeiro.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Alert, error) {
	const query = `
        SELECT ` + alertColumns + `
        FROM alerts
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	return r.queryAlerts(ctx, query, userID)
}

// GetByID carrega o alerta com imagens e notas.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	const query = `
        SELECT ` + alertColumns + `
        FROM alerts
        WHERE id = $1
    `
	row := r.pool.QueryRow(ctx, query, id)
	alert, err := scanAlert(row)
	if err != nil {
		return nil, err
	}

	if err := r.attachImages(ctx, []*Alert{alert}); err != nil {
		return nil, err
	}

	notes, err := r.listNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	alert.Notes = notes

	return alert, nil
}

// UpdateStatus substitui o status do alerta.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Alert, error) {
	const query = `
        UPDATE alerts
        SET status = $2
        WHERE id = $1
        RETURNING ` + alertColumns

	row := r.pool.QueryRow(ctx, query, id, strings.ToLower(strings.TrimSpace(status)))
	alert, err := scanAlert(row)
	if err != nil {
		return nil, err
	}

	if err := r.attachImages(ctx, []*Alert{alert}); err != nil {
		return nil, err
	}

	notes, err := r.listNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	alert.Notes = notes

	return alert, nil
}

// InsertNote acrescenta uma nota ao alerta. O INSERT em tabela filha é o
// append atômico do banco: duas notas concorrentes nunca se perdem, ao
// contrário do padrão ler-array-e-regravar.
func (r *Repository) InsertNote(ctx context.Context, alertID uuid.UUID, authorID, text string) (*Note, error) {
	const exists = `SELECT EXISTS (SELECT 1 FROM alerts WHERE id = $1)`
	var found bool
	if err := r.pool.QueryRow(ctx, exists, alertID).Scan(&found); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}

	const query = `
        INSERT INTO alert_notes (alert_id, author_id, text)
        VALUES ($1, $2, $3)
        RETURNING id, alert_id, author_id, text, created_at
    `
	var n Note
	row := r.pool.QueryRow(ctx, query, alertID, authorID, strings.TrimSpace(text))
	if err := row.Scan(&n.ID, &n.AlertID, &n.AuthorID, &n.Text, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *Repository) queryAlerts(ctx context.Context, query string, args ...any) ([]Alert, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []Alert{}
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *alert)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	refs := make([]*Alert, len(alerts))
	for i := range alerts {
		refs[i] = &alerts[i]
	}
	if err := r.attachImages(ctx, refs); err != nil {
		return nil, err
	}

	return alerts, nil
}

func (r *Repository) attachImages(ctx context.Context, alerts []*Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*Alert, len(alerts))
	ids := make([]uuid.UUID, 0, len(alerts))
	for _, a := range alerts {
		a.Images = []Image{}
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	const query = `
        SELECT alert_id, id, storage_key, content_type, uploaded_at
        FROM alert_images
        WHERE alert_id = ANY($1)
        ORDER BY uploaded_at ASC
    `
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var alertID uuid.UUID
		var img Image
		if err := rows.Scan(&alertID, &img.ID, &img.StorageKey, &img.ContentType, &img.UploadedAt); err != nil {
			return err
		}
		if a, ok := byID[alertID]; ok {
			a.Images = append(a.Images, img)
		}
	}
	return rows.Err()
}

func (r *Repository) listNotes(ctx context.Context, alertID uuid.UUID) ([]Note, error) {
	const query = `
        SELECT id, alert_id, author_id, text, created_at
        FROM alert_notes
        WHERE alert_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.pool.Query(ctx, query, alertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.AlertID, &n.AuthorID, &n.Text, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return notes, nil
}

func scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	if err := row.Scan(&a.ID, &a.Type, &a.Description, &a.Location, &a.Lat, &a.Lng, &a.UserID, &a.Status, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.Images = []Image{}
	a.Notes = []Note{}
	return &a, nil
}
