package usecase

import (
	"context"
	"errors"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"
)

type interestUsecase struct {
	interestRepo domain.InterestRepository
	jobRepo      domain.JobRepository
	now          func() time.Time
}

func NewInterestUsecase(interestRepo domain.InterestRepository, jobRepo domain.JobRepository) domain.InterestUsecase {
	return &interestUsecase{interestRepo: interestRepo, jobRepo: jobRepo, now: time.Now}
}

// Register bookmarks an external job. Internal jobs take candidacies instead.
func (u *interestUsecase) Register(ctx context.Context, userID string, jobID int64) (*domain.Interest, error) {
	if jobID <= 0 {
		return nil, apperror.BadRequest("Vaga: obrigatório")
	}
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, "Vaga não encontrada")
	}
	if !job.IsExternal() {
		return nil, apperror.BadRequest("Interesse só pode ser registrado em vagas externas")
	}

	exists, err := u.interestRepo.Exists(ctx, userID, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("Interesse já registrado")
	}

	i := &domain.Interest{UsuarioID: userID, VagaID: jobID, DataInteresse: u.now(), Vaga: job}
	if err := u.interestRepo.Create(ctx, i); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("Interesse já registrado")
		}
		return nil, apperror.Internal(err)
	}
	return i, nil
}

func (u *interestUsecase) Remove(ctx context.Context, userID string, jobID int64) error {
	return notFoundOr(u.interestRepo.Delete(ctx, userID, jobID), "Interesse não encontrado")
}

func (u *interestUsecase) Status(ctx context.Context, userID string, jobID int64) (*domain.InterestStatus, error) {
	exists, err := u.interestRepo.Exists(ctx, userID, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.InterestStatus{HasInterest: exists}, nil
}

func (u *interestUsecase) ListMine(ctx context.Context, userID string) ([]domain.Interest, error) {
	list, err := u.interestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}
