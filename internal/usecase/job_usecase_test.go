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

func validJobInput() domain.JobInput {
	return domain.JobInput{
		Nome:       "Operador de Colheitadeira",
		Descricao:  "Operação de máquinas na safra de soja",
		Cidade:     "Sorriso",
		UF:         "mt",
		Modalidade: "Presencial",
		EmpresaID:  3,
		Tipo:       "interna",
		URLExterna: "https://ignored.example.com",
	}
}

func TestCreateJob(t *testing.T) {
	ctx := context.Background()

	t.Run("Should forbid candidates", func(t *testing.T) {
		uc := usecase.NewJobUsecase(new(MockJobRepo), new(MockCompanyRepo), validation.New())
		_, err := uc.CreateJob(ctx, "u1", domain.RoleCandidate, validJobInput())
		assert.Equal(t, 403, apperror.StatusOf(err))
	})

	t.Run("Should normalize input and default to active", func(t *testing.T) {
		jobs := new(MockJobRepo)
		companies := new(MockCompanyRepo)
		companies.On("GetByID", ctx, int64(3)).Return(&domain.Company{ID: 3}, nil)
		jobs.On("Create", ctx, mock.MatchedBy(func(j *domain.Job) bool {
			return j.UF == "MT" && j.Modalidade == "presencial" && j.URLExterna == "" &&
				j.Status == domain.JobStatusActive && j.CreatedByID == "rec"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Job).ID = 10
		}).Return(nil)
		jobs.On("GetByID", ctx, int64(10)).Return(&domain.Job{ID: 10, Empresa: "Fazenda"}, nil)

		job, err := usecase.NewJobUsecase(jobs, companies, validation.New()).CreateJob(ctx, "rec", domain.RoleCompany, validJobInput())
		require.NoError(t, err)
		assert.Equal(t, int64(10), job.ID)
		jobs.AssertExpectations(t)
	})

	t.Run("Should require a link for external jobs", func(t *testing.T) {
		in := validJobInput()
		in.Tipo = "externa"
		in.URLExterna = ""
		uc := usecase.NewJobUsecase(new(MockJobRepo), new(MockCompanyRepo), validation.New())
		_, err := uc.CreateJob(ctx, "rec", domain.RoleAdmin, in)
		assert.Equal(t, 400, apperror.StatusOf(err))
	})

	t.Run("Should reject an unknown company", func(t *testing.T) {
		companies := new(MockCompanyRepo)
		companies.On("GetByID", ctx, int64(3)).Return(nil, domain.ErrNotFound)
		uc := usecase.NewJobUsecase(new(MockJobRepo), companies, validation.New())
		_, err := uc.CreateJob(ctx, "rec", domain.RoleAdmin, validJobInput())
		assert.Equal(t, 400, apperror.StatusOf(err))
	})
}

func TestListJobsClampsPaging(t *testing.T) {
	ctx := context.Background()
	jobs := new(MockJobRepo)
	jobs.On("Fetch", ctx, domain.JobFilter{Search: "soja", Page: 1, Limit: 15}).Return([]domain.Job{{ID: 1}}, int64(31), nil)
	jobs.On("Fetch", ctx, domain.JobFilter{Page: 2, Limit: 100}).Return([]domain.Job{}, int64(0), nil)
	uc := usecase.NewJobUsecase(jobs, new(MockCompanyRepo), validation.New())

	list, total, err := uc.ListJobs(ctx, domain.JobFilter{Search: "soja"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(31), total)

	_, _, err = uc.ListJobs(ctx, domain.JobFilter{Page: 2, Limit: 500})
	require.NoError(t, err)
	jobs.AssertExpectations(t)
}

func TestJobsByUnknownCompany(t *testing.T) {
	ctx := context.Background()
	companies := new(MockCompanyRepo)
	companies.On("GetByID", ctx, int64(9)).Return(nil, domain.ErrNotFound)

	_, err := usecase.NewJobUsecase(new(MockJobRepo), companies, validation.New()).ListJobsByCompany(ctx, 9)
	assert.Equal(t, 404, apperror.StatusOf(err))
}
