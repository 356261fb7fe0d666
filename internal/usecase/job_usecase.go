package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

const (
	defaultJobPageSize = 15
	maxJobPageSize     = 100
)

type jobUsecase struct {
	jobRepo     domain.JobRepository
	companyRepo domain.CompanyRepository
	validate    *validator.Validate
	now         func() time.Time
}

func NewJobUsecase(jobRepo domain.JobRepository, companyRepo domain.CompanyRepository, validate *validator.Validate) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		validate:    validate,
		now:         time.Now,
	}
}

func (u *jobUsecase) CreateJob(ctx context.Context, userID, role string, in domain.JobInput) (*domain.Job, error) {
	if !canManageJobs(role) {
		return nil, apperror.Forbidden("Apenas empresas e administradores podem publicar vagas")
	}
	if err := u.checkInput(ctx, &in); err != nil {
		return nil, err
	}

	now := u.now()
	job := &domain.Job{CreatedByID: userID, CreatedAt: now, UpdatedAt: now}
	applyJobInput(job, in)

	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, notFoundOr(err, "Empresa não encontrada")
	}
	return u.GetJobDetails(ctx, job.ID)
}

func (u *jobUsecase) GetJobDetails(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Vaga não encontrada")
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultJobPageSize
	}
	if filter.Limit > maxJobPageSize {
		filter.Limit = maxJobPageSize
	}
	jobs, total, err := u.jobRepo.Fetch(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return jobs, total, nil
}

func (u *jobUsecase) ListJobsByCompany(ctx context.Context, companyID int64) ([]domain.Job, error) {
	if _, err := u.companyRepo.GetByID(ctx, companyID); err != nil {
		return nil, notFoundOr(err, "Empresa não encontrada")
	}
	jobs, err := u.jobRepo.FetchByCompanyID(ctx, companyID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, role string, id int64, in domain.JobInput) (*domain.Job, error) {
	if !canManageJobs(role) {
		return nil, apperror.Forbidden("Apenas empresas e administradores podem editar vagas")
	}
	if err := u.checkInput(ctx, &in); err != nil {
		return nil, err
	}

	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Vaga não encontrada")
	}
	applyJobInput(job, in)
	job.UpdatedAt = u.now()

	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, notFoundOr(err, "Vaga não encontrada")
	}
	return u.GetJobDetails(ctx, id)
}

func (u *jobUsecase) DeleteJob(ctx context.Context, role string, id int64) error {
	if !canManageJobs(role) {
		return apperror.Forbidden("Apenas empresas e administradores podem excluir vagas")
	}
	return notFoundOr(u.jobRepo.Delete(ctx, id), "Vaga não encontrada")
}

func (u *jobUsecase) checkInput(ctx context.Context, in *domain.JobInput) error {
	in.Tipo = strings.ToLower(strings.TrimSpace(in.Tipo))
	in.Modalidade = strings.ToLower(strings.TrimSpace(in.Modalidade))
	in.UF = strings.ToUpper(strings.TrimSpace(in.UF))
	if in.Tipo == domain.JobTypeInternal {
		in.URLExterna = ""
	}
	if err := validate(u.validate, *in); err != nil {
		return err
	}
	if _, err := u.companyRepo.GetByID(ctx, in.EmpresaID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.BadRequest("Empresa: não encontrada")
		}
		return apperror.Internal(err)
	}
	return nil
}

func applyJobInput(job *domain.Job, in domain.JobInput) {
	job.Nome = strings.TrimSpace(in.Nome)
	job.Descricao = strings.TrimSpace(in.Descricao)
	job.Cidade = strings.TrimSpace(in.Cidade)
	job.UF = in.UF
	job.Modalidade = in.Modalidade
	job.Salario = strings.TrimSpace(in.Salario)
	job.Beneficios = strings.TrimSpace(in.Beneficios)
	job.EmpresaID = in.EmpresaID
	job.Tipo = in.Tipo
	job.URLExterna = strings.TrimSpace(in.URLExterna)
	job.Status = in.Status
	if job.Status == "" {
		job.Status = domain.JobStatusActive
	}
}
