package postgres

import (
	"context"

	"agroskills-platform/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type interestRepo struct {
	db *pgxpool.Pool
}

func NewInterestRepository(db *pgxpool.Pool) domain.InterestRepository {
	return &interestRepo{db: db}
}

func (r *interestRepo) Create(ctx context.Context, i *domain.Interest) error {
	query := `INSERT INTO interesses (usuario_id, vaga_id, created_at) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRow(ctx, query, i.UsuarioID, i.VagaID, i.DataInteresse).Scan(&i.ID)
	return mapError(err)
}

func (r *interestRepo) Delete(ctx context.Context, userID string, jobID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM interesses WHERE usuario_id = $1 AND vaga_id = $2`, userID, jobID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *interestRepo) Exists(ctx context.Context, userID string, jobID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM interesses WHERE usuario_id = $1 AND vaga_id = $2)`, userID, jobID,
	).Scan(&exists)
	return exists, err
}

func (r *interestRepo) ListByUser(ctx context.Context, userID string) ([]domain.Interest, error) {
	query := `
		SELECT i.id, i.usuario_id, i.vaga_id, i.created_at,
		       j.id, j.nome, j.descricao, j.cidade, COALESCE(j.uf, ''), j.modalidade,
		       COALESCE(j.remuneracao, ''), j.empresa_id, COALESCE(c.name, ''), j.tipo,
		       COALESCE(j.external_url, ''), j.status, j.created_at
		FROM interesses i
		JOIN jobs j ON j.id = i.vaga_id
		LEFT JOIN companies c ON c.id = j.empresa_id
		WHERE i.usuario_id = $1
		ORDER BY i.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Interest{}
	for rows.Next() {
		var (
			i domain.Interest
			j domain.Job
		)
		if err := rows.Scan(&i.ID, &i.UsuarioID, &i.VagaID, &i.DataInteresse,
			&j.ID, &j.Nome, &j.Descricao, &j.Cidade, &j.UF, &j.Modalidade,
			&j.Salario, &j.EmpresaID, &j.Empresa, &j.Tipo,
			&j.URLExterna, &j.Status, &j.CreatedAt); err != nil {
			return nil, err
		}
		i.Vaga = &j
		out = append(out, i)
	}
	return out, rows.Err()
}
