package postgres

import (
	"context"

	"agroskills-platform/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type candidacyRepo struct {
	db *pgxpool.Pool
}

func NewCandidacyRepository(db *pgxpool.Pool) domain.CandidacyRepository {
	return &candidacyRepo{db: db}
}

// candidacySelect joins the job and the applicant so lists can be rendered
// without extra round trips.
const candidacySelect = `
	SELECT ca.id, ca.usuario_id, ca.vaga_id, COALESCE(ca.mensagem, ''), ca.status, ca.created_at,
	       j.id, j.nome, j.cidade, COALESCE(j.uf, ''), j.modalidade, j.tipo, j.status, j.empresa_id,
	       COALESCE(co.name, ''),
	       u.id, u.name, u.email
	FROM candidaturas ca
	JOIN jobs j ON j.id = ca.vaga_id
	LEFT JOIN companies co ON co.id = j.empresa_id
	JOIN users u ON u.id = ca.usuario_id`

func scanCandidacy(row interface{ Scan(...any) error }) (*domain.Candidacy, error) {
	var (
		c domain.Candidacy
		j domain.Job
		u domain.User
	)
	err := row.Scan(&c.ID, &c.UsuarioID, &c.VagaID, &c.Mensagem, &c.Status, &c.AppliedAt,
		&j.ID, &j.Nome, &j.Cidade, &j.UF, &j.Modalidade, &j.Tipo, &j.Status, &j.EmpresaID,
		&j.Empresa,
		&u.ID, &u.Name, &u.Email)
	if err != nil {
		return nil, mapError(err)
	}
	c.Vaga = &j
	c.Usuario = &u
	return &c, nil
}

func (r *candidacyRepo) Create(ctx context.Context, c *domain.Candidacy) error {
	query := `INSERT INTO candidaturas (usuario_id, vaga_id, mensagem, status, created_at)
              VALUES ($1, $2, NULLIF($3, ''), $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, query, c.UsuarioID, c.VagaID, c.Mensagem, c.Status, c.AppliedAt).Scan(&c.ID)
	return mapError(err)
}

func (r *candidacyRepo) GetByID(ctx context.Context, id int64) (*domain.Candidacy, error) {
	return scanCandidacy(r.db.QueryRow(ctx, candidacySelect+` WHERE ca.id = $1`, id))
}

func (r *candidacyRepo) Exists(ctx context.Context, userID string, jobID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM candidaturas WHERE usuario_id = $1 AND vaga_id = $2)`,
		userID, jobID,
	).Scan(&exists)
	return exists, err
}

func (r *candidacyRepo) ListByUser(ctx context.Context, userID string) ([]domain.Candidacy, error) {
	return r.list(ctx, candidacySelect+` WHERE ca.usuario_id = $1 ORDER BY ca.created_at DESC`, userID)
}

func (r *candidacyRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Candidacy, error) {
	return r.list(ctx, candidacySelect+` WHERE ca.vaga_id = $1 ORDER BY ca.created_at DESC`, jobID)
}

func (r *candidacyRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE candidaturas SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidacyRepo) list(ctx context.Context, query string, arg any) ([]domain.Candidacy, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Candidacy{}
	for rows.Next() {
		c, err := scanCandidacy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
