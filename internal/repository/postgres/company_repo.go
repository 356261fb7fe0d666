package postgres

import (
	"context"
	"fmt"
	"strings"

	"agroskills-platform/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `id, name, cnpj, COALESCE(corporate_name, ''), COALESCE(address, ''),
	COALESCE(obs, ''), COALESCE(responsible, ''), COALESCE(responsible_email, ''),
	is_active, slug, created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }) (*domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.ID, &c.Name, &c.CNPJ, &c.CorporateName, &c.Address, &c.Obs,
		&c.Responsible, &c.ResponsibleEmail, &c.IsActive, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *companyRepo) List(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%[1]d OR corporate_name ILIKE $%[1]d OR cnpj LIKE $%[1]d)", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := `SELECT ` + companyColumns + ` FROM companies`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

func (r *companyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	return scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
}

func (r *companyRepo) Create(ctx context.Context, c *domain.Company) error {
	query := `INSERT INTO companies (name, cnpj, corporate_name, address, obs, responsible,
              responsible_email, is_active, slug, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := r.db.QueryRow(ctx, query,
		c.Name, c.CNPJ, c.CorporateName, c.Address, c.Obs, c.Responsible,
		c.ResponsibleEmail, c.IsActive, c.Slug, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	return mapError(err)
}

func (r *companyRepo) Update(ctx context.Context, c *domain.Company) error {
	query := `UPDATE companies SET name = $2, cnpj = $3, corporate_name = $4, address = $5,
              obs = $6, responsible = $7, responsible_email = $8, is_active = $9, slug = $10,
              updated_at = $11 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, c.ID, c.Name, c.CNPJ, c.CorporateName, c.Address,
		c.Obs, c.Responsible, c.ResponsibleEmail, c.IsActive, c.Slug, c.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *companyRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *companyRepo) Options(ctx context.Context) ([]domain.CompanyOption, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM companies WHERE is_active ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []domain.CompanyOption{}
	for rows.Next() {
		var o domain.CompanyOption
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (r *companyRepo) Count(ctx context.Context) (*domain.CompanyCount, error) {
	var c domain.CompanyCount
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_active),
		       COUNT(*) FILTER (WHERE NOT is_active)
		FROM companies`).Scan(&c.Total, &c.Active, &c.Inactive)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM companies WHERE slug = $1 AND id <> $2)`, slug, excludeID,
	).Scan(&exists)
	return exists, err
}
