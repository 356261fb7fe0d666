package usecase_test

import (
	"context"
	"testing"

	"agroskills-platform/internal/domain"
	"agroskills-platform/internal/usecase"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApplyToJob(t *testing.T) {
	ctx := context.Background()
	internalJob := &domain.Job{ID: 5, Tipo: domain.JobTypeInternal, Status: domain.JobStatusActive}

	t.Run("Should reject applying on behalf of someone else", func(t *testing.T) {
		uc := usecase.NewCandidacyUsecase(new(MockCandidacyRepo), new(MockJobRepo), validation.New())
		_, err := uc.Apply(ctx, "u1", domain.CreateCandidacyRequest{UsuarioID: "u2", VagaID: 5})
		assert.Equal(t, 403, apperror.StatusOf(err))
	})

	t.Run("Should reject external jobs", func(t *testing.T) {
		jobs := new(MockJobRepo)
		jobs.On("GetByID", ctx, int64(6)).Return(&domain.Job{ID: 6, Tipo: domain.JobTypeExternal}, nil)
		uc := usecase.NewCandidacyUsecase(new(MockCandidacyRepo), jobs, validation.New())
		_, err := uc.Apply(ctx, "u1", domain.CreateCandidacyRequest{VagaID: 6})
		assert.Equal(t, 400, apperror.StatusOf(err))
	})

	t.Run("Should reject closed jobs", func(t *testing.T) {
		jobs := new(MockJobRepo)
		jobs.On("GetByID", ctx, int64(7)).Return(&domain.Job{ID: 7, Tipo: domain.JobTypeInternal, Status: domain.JobStatusClosed}, nil)
		uc := usecase.NewCandidacyUsecase(new(MockCandidacyRepo), jobs, validation.New())
		_, err := uc.Apply(ctx, "u1", domain.CreateCandidacyRequest{VagaID: 7})
		assert.Equal(t, 400, apperror.StatusOf(err))
	})

	t.Run("Should return conflict when already applied", func(t *testing.T) {
		jobs := new(MockJobRepo)
		repo := new(MockCandidacyRepo)
		jobs.On("GetByID", ctx, int64(5)).Return(internalJob, nil)
		repo.On("Exists", ctx, "u1", int64(5)).Return(true, nil)
		uc := usecase.NewCandidacyUsecase(repo, jobs, validation.New())
		_, err := uc.Apply(ctx, "u1", domain.CreateCandidacyRequest{VagaID: 5})
		assert.Equal(t, 409, apperror.StatusOf(err))
	})

	t.Run("Should map a lost race to conflict", func(t *testing.T) {
		jobs := new(MockJobRepo)
		repo := new(MockCandidacyRepo)
		jobs.On("GetByID", ctx, int64(5)).Return(internalJob, nil)
		repo.On("Exists", ctx, "u1", int64(5)).Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicate)
		uc := usecase.NewCandidacyUsecase(repo, jobs, validation.New())
		_, err := uc.Apply(ctx, "u1", domain.CreateCandidacyRequest{VagaID: 5})
		assert.Equal(t, 409, apperror.StatusOf(err))
	})

	t.Run("Should create a pending candidacy", func(t *testing.T) {
		jobs := new(MockJobRepo)
		repo := new(MockCandidacyRepo)
		jobs.On("GetByID", ctx, int64(5)).Return(internalJob, nil)
		repo.On("Exists", ctx, "u1", int64(5)).Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		uc := usecase.NewCandidacyUsecase(repo, jobs, validation.New())
		c, err := uc.Apply(ctx, "u1", domain.CreateCandidacyRequest{UsuarioID: "u1", VagaID: 5, Mensagem: "  Olá  "})
		require.NoError(t, err)
		assert.Equal(t, domain.CandidacyStatusPending, c.Status)
		assert.Equal(t, "Olá", c.Mensagem)
	})
}

func TestCandidacyAccess(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCandidacyRepo)
	repo.On("ListByUser", ctx, "u2").Return([]domain.Candidacy{{ID: 1}}, nil)
	uc := usecase.NewCandidacyUsecase(repo, new(MockJobRepo), validation.New())

	_, err := uc.ListByUser(ctx, "u1", domain.RoleCandidate, "u2")
	assert.Equal(t, 403, apperror.StatusOf(err))

	list, err := uc.ListByUser(ctx, "adm", domain.RoleAdmin, "u2")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.UpdateStatus(ctx, domain.RoleCandidate, 1, domain.CandidacyStatusApproved)
	assert.Equal(t, 403, apperror.StatusOf(err))

	_, err = uc.UpdateStatus(ctx, domain.RoleAdmin, 1, "qualquer")
	assert.Equal(t, 400, apperror.StatusOf(err))
}

func TestInterest(t *testing.T) {
	ctx := context.Background()

	t.Run("Should only accept external jobs", func(t *testing.T) {
		jobs := new(MockJobRepo)
		jobs.On("GetByID", ctx, int64(5)).Return(&domain.Job{ID: 5, Tipo: domain.JobTypeInternal}, nil)
		_, err := usecase.NewInterestUsecase(new(MockInterestRepo), jobs).Register(ctx, "u1", 5)
		assert.Equal(t, 400, apperror.StatusOf(err))
	})

	t.Run("Should register once", func(t *testing.T) {
		jobs := new(MockJobRepo)
		repo := new(MockInterestRepo)
		jobs.On("GetByID", ctx, int64(6)).Return(&domain.Job{ID: 6, Tipo: domain.JobTypeExternal, URLExterna: "https://x.example.com"}, nil)
		repo.On("Exists", ctx, "u1", int64(6)).Return(false, nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(nil)
		repo.On("Exists", ctx, "u1", int64(6)).Return(true, nil)
		uc := usecase.NewInterestUsecase(repo, jobs)

		i, err := uc.Register(ctx, "u1", 6)
		require.NoError(t, err)
		assert.Equal(t, int64(6), i.VagaID)

		_, err = uc.Register(ctx, "u1", 6)
		assert.Equal(t, 409, apperror.StatusOf(err))

		st, err := uc.Status(ctx, "u1", 6)
		require.NoError(t, err)
		assert.True(t, st.HasInterest)
	})

	t.Run("Should 404 when removing a missing interest", func(t *testing.T) {
		repo := new(MockInterestRepo)
		repo.On("Delete", ctx, "u1", int64(9)).Return(domain.ErrNotFound)
		err := usecase.NewInterestUsecase(repo, new(MockJobRepo)).Remove(ctx, "u1", 9)
		assert.Equal(t, 404, apperror.StatusOf(err))
	})
}
