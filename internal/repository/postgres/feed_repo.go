package postgres

import (
	"context"

	"agroskills-platform/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type feedRepo struct {
	db *pgxpool.Pool
}

func NewFeedRepository(db *pgxpool.Pool) domain.FeedRepository {
	return &feedRepo{db: db}
}

func (r *feedRepo) ListNews(ctx context.Context, limit, offset int) ([]domain.News, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM news`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, titulo, COALESCE(descricao, ''), COALESCE(imagem_url, ''), data_publicacao,
		       COALESCE(fonte_site, ''), link
		FROM news
		ORDER BY data_publicacao DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []domain.News{}
	for rows.Next() {
		var n domain.News
		if err := rows.Scan(&n.ID, &n.Titulo, &n.Descricao, &n.ImagemURL, &n.DataPublicacao,
			&n.FonteSite, &n.Link); err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, rows.Err()
}

func (r *feedRepo) CreateNews(ctx context.Context, n *domain.News) error {
	query := `INSERT INTO news (titulo, descricao, imagem_url, data_publicacao, fonte_site, link)
              VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, query, n.Titulo, n.Descricao, n.ImagemURL, n.DataPublicacao,
		n.FonteSite, n.Link).Scan(&n.ID)
	return mapError(err)
}

func (r *feedRepo) ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, titulo, COALESCE(descricao, ''), data_evento, COALESCE(horario, ''),
		       COALESCE(local, ''), COALESCE(imagem_url, ''), COALESCE(link, '')
		FROM events
		ORDER BY data_evento ASC, id ASC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Titulo, &e.Descricao, &e.DataEvento, &e.Horario,
			&e.Local, &e.ImagemURL, &e.Link); err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *feedRepo) CreateEvent(ctx context.Context, e *domain.Event) error {
	query := `INSERT INTO events (titulo, descricao, data_evento, horario, local, imagem_url, link)
              VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, '')) RETURNING id`
	err := r.db.QueryRow(ctx, query, e.Titulo, e.Descricao, e.DataEvento, e.Horario, e.Local,
		e.ImagemURL, e.Link).Scan(&e.ID)
	return mapError(err)
}
