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

type candidacyUsecase struct {
	candidacyRepo domain.CandidacyRepository
	jobRepo       domain.JobRepository
	validate      *validator.Validate
	now           func() time.Time
}

func NewCandidacyUsecase(candidacyRepo domain.CandidacyRepository, jobRepo domain.JobRepository, validate *validator.Validate) domain.CandidacyUsecase {
	return &candidacyUsecase{
		candidacyRepo: candidacyRepo,
		jobRepo:       jobRepo,
		validate:      validate,
		now:           time.Now,
	}
}

// Apply registers a candidacy for an internal job. The applicant always
// comes from the token, never from the payload.
func (u *candidacyUsecase) Apply(ctx context.Context, userID string, req domain.CreateCandidacyRequest) (*domain.Candidacy, error) {
	if req.UsuarioID != "" && req.UsuarioID != userID {
		return nil, apperror.Forbidden("Você só pode se candidatar em seu próprio nome")
	}
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	job, err := u.jobRepo.GetByID(ctx, req.VagaID)
	if err != nil {
		return nil, notFoundOr(err, "Vaga não encontrada")
	}
	if job.IsExternal() {
		return nil, apperror.BadRequest("Vaga externa: candidate-se pelo site da empresa")
	}
	if job.Status != "" && job.Status != domain.JobStatusActive {
		return nil, apperror.BadRequest("Vaga encerrada")
	}

	exists, err := u.candidacyRepo.Exists(ctx, userID, req.VagaID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("Você já se candidatou a esta vaga")
	}

	c := &domain.Candidacy{
		UsuarioID: userID,
		VagaID:    req.VagaID,
		Mensagem:  strings.TrimSpace(req.Mensagem),
		Status:    domain.CandidacyStatusPending,
		AppliedAt: u.now(),
		Vaga:      job,
	}
	if err := u.candidacyRepo.Create(ctx, c); err != nil {
		// a concurrent request won the unique constraint
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("Você já se candidatou a esta vaga")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (u *candidacyUsecase) ListByUser(ctx context.Context, requesterID, role, userID string) ([]domain.Candidacy, error) {
	if requesterID != userID && !isAdmin(role) {
		return nil, apperror.Forbidden("Você só pode ver suas próprias candidaturas")
	}
	list, err := u.candidacyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *candidacyUsecase) ListByJob(ctx context.Context, role string, jobID int64) ([]domain.Candidacy, error) {
	if !canManageJobs(role) {
		return nil, apperror.Forbidden("Apenas recrutadores podem ver os candidatos da vaga")
	}
	if _, err := u.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, notFoundOr(err, "Vaga não encontrada")
	}
	list, err := u.candidacyRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *candidacyUsecase) UpdateStatus(ctx context.Context, role string, id int64, status string) (*domain.Candidacy, error) {
	if !canManageJobs(role) {
		return nil, apperror.Forbidden("Apenas recrutadores podem alterar o status")
	}
	if err := validate(u.validate, domain.UpdateCandidacyStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	if err := u.candidacyRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, "Candidatura não encontrada")
	}
	c, err := u.candidacyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Candidatura não encontrada")
	}
	return c, nil
}
