package postgres

import (
	"context"
	"fmt"
	"strings"

	"agroskills-platform/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobSelect = `
	SELECT j.id, j.nome, j.descricao, j.cidade, COALESCE(j.uf, ''), j.modalidade,
	       COALESCE(j.remuneracao, ''), COALESCE(j.beneficios, ''), j.empresa_id,
	       COALESCE(c.name, ''), j.tipo, COALESCE(j.external_url, ''), j.status,
	       COALESCE(j.created_by, ''), j.created_at, j.updated_at
	FROM jobs j
	LEFT JOIN companies c ON c.id = j.empresa_id`

func scanJob(row interface{ Scan(...any) error }) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(&j.ID, &j.Nome, &j.Descricao, &j.Cidade, &j.UF, &j.Modalidade,
		&j.Salario, &j.Beneficios, &j.EmpresaID, &j.Empresa, &j.Tipo, &j.URLExterna,
		&j.Status, &j.CreatedByID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &j, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (nome, descricao, cidade, uf, modalidade, remuneracao, beneficios,
              empresa_id, tipo, external_url, status, created_by, created_at, updated_at)
              VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, NULLIF($10, ''), $11, NULLIF($12, ''), $13, $14)
              RETURNING id`
	err := r.db.QueryRow(ctx, query,
		job.Nome, job.Descricao, job.Cidade, job.UF, job.Modalidade, job.Salario, job.Beneficios,
		job.EmpresaID, job.Tipo, job.URLExterna, job.Status, job.CreatedByID,
		job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
	return mapError(err)
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	return scanJob(r.db.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id))
}

func (r *jobRepo) Fetch(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(j.nome ILIKE $%[1]d OR j.descricao ILIKE $%[1]d OR c.name ILIKE $%[1]d)", len(args)))
	}
	if filter.EmpresaID > 0 {
		args = append(args, filter.EmpresaID)
		where = append(where, fmt.Sprintf("j.empresa_id = $%d", len(args)))
	}
	if filter.Cidade != "" {
		args = append(args, filter.Cidade)
		where = append(where, fmt.Sprintf("j.cidade ILIKE $%d", len(args)))
	}
	if filter.Modalidade != "" {
		args = append(args, filter.Modalidade)
		where = append(where, fmt.Sprintf("j.modalidade = $%d", len(args)))
	}
	if filter.Tipo != "" {
		args = append(args, filter.Tipo)
		where = append(where, fmt.Sprintf("j.tipo = $%d", len(args)))
	}
	if filter.OnlyActive {
		args = append(args, domain.JobStatusActive)
		where = append(where, fmt.Sprintf("j.status = $%d", len(args)))
	}

	cond := ""
	if len(where) > 0 {
		cond = ` WHERE ` + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM jobs j LEFT JOIN companies c ON c.id = j.empresa_id` + cond
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := jobSelect + cond + ` ORDER BY j.created_at DESC, j.id DESC`
	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		args = append(args, filter.Limit, offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, total, rows.Err()
}

func (r *jobRepo) FetchByCompanyID(ctx context.Context, companyID int64) ([]domain.Job, error) {
	rows, err := r.db.Query(ctx, jobSelect+` WHERE j.empresa_id = $1 ORDER BY j.created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET nome = $2, descricao = $3, cidade = $4, uf = NULLIF($5, ''),
              modalidade = $6, remuneracao = $7, beneficios = $8, empresa_id = $9, tipo = $10,
              external_url = NULLIF($11, ''), status = $12, updated_at = $13
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, job.ID, job.Nome, job.Descricao, job.Cidade, job.UF,
		job.Modalidade, job.Salario, job.Beneficios, job.EmpresaID, job.Tipo, job.URLExterna,
		job.Status, job.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
