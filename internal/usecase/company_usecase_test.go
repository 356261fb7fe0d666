package usecase_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/internal/usecase"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "agropecuaria-sao-joao", usecase.Slugify("  Agropecuária São João "))
	assert.Equal(t, "coop-a-b", usecase.Slugify("Coop. A & B!"))
	assert.Equal(t, "", usecase.Slugify("***"))
}

func TestFormatCNPJ(t *testing.T) {
	assert.Equal(t, "12.345.678/0001-90", usecase.FormatCNPJ("12345678000190"))
	assert.Equal(t, "12345678901", usecase.FormatCNPJ("12345678901"))
}

func TestCreateCompany(t *testing.T) {
	ctx := context.Background()
	in := domain.CompanyInput{Name: "Fazenda Boa Vista", CNPJ: "12.345.678/0001-90"}

	t.Run("Should forbid candidates", func(t *testing.T) {
		_, err := usecase.NewCompanyUsecase(new(MockCompanyRepo), validation.New()).Create(ctx, domain.RoleCandidate, in)
		assert.Equal(t, 403, apperror.StatusOf(err))
	})

	t.Run("Should store digits only and pick a free slug", func(t *testing.T) {
		repo := new(MockCompanyRepo)
		repo.On("SlugExists", ctx, "fazenda-boa-vista", int64(0)).Return(true, nil)
		repo.On("SlugExists", ctx, "fazenda-boa-vista-2", int64(0)).Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		c, err := usecase.NewCompanyUsecase(repo, validation.New()).Create(ctx, domain.RoleCompany, in)
		require.NoError(t, err)
		assert.Equal(t, "12345678000190", c.CNPJ)
		assert.Equal(t, "fazenda-boa-vista-2", c.Slug)
		assert.True(t, c.IsActive)
	})

	t.Run("Should reject an invalid CNPJ", func(t *testing.T) {
		bad := in
		bad.CNPJ = "123"
		_, err := usecase.NewCompanyUsecase(new(MockCompanyRepo), validation.New()).Create(ctx, domain.RoleAdmin, bad)
		assert.Equal(t, 400, apperror.StatusOf(err))
		assert.Contains(t, err.Error(), "CNPJ")
	})

	t.Run("Should map duplicate CNPJ to conflict", func(t *testing.T) {
		repo := new(MockCompanyRepo)
		repo.On("SlugExists", ctx, mock.Anything, int64(0)).Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicate)

		_, err := usecase.NewCompanyUsecase(repo, validation.New()).Create(ctx, domain.RoleAdmin, in)
		assert.Equal(t, 409, apperror.StatusOf(err))
	})
}

func TestDeleteCompanyRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepo)
	repo.On("Delete", ctx, int64(7)).Return(domain.ErrNotFound)
	uc := usecase.NewCompanyUsecase(repo, validation.New())

	assert.Equal(t, 403, apperror.StatusOf(uc.Delete(ctx, domain.RoleCompany, 7)))
	assert.Equal(t, 404, apperror.StatusOf(uc.Delete(ctx, domain.RoleAdmin, 7)))
}

func TestExportCompanies(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCompanyRepo)
	repo.On("List", ctx, domain.CompanyFilter{}).Return([]domain.Company{
		{ID: 1, Name: "Fazenda Boa Vista", CNPJ: "12345678000190", IsActive: true, CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
	}, nil)

	data, err := usecase.NewCompanyUsecase(repo, validation.New()).ExportXLSX(ctx, domain.RoleAdmin, domain.CompanyFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, _ := f.GetCellValue("Empresas", "A1")
	name, _ := f.GetCellValue("Empresas", "B2")
	cnpj, _ := f.GetCellValue("Empresas", "C2")
	assert.Equal(t, "ID", header)
	assert.Equal(t, "Fazenda Boa Vista", name)
	assert.Equal(t, "12.345.678/0001-90", cnpj)
}
