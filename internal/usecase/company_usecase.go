package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

type companyUsecase struct {
	companyRepo domain.CompanyRepository
	validate    *validator.Validate
	now         func() time.Time
}

func NewCompanyUsecase(companyRepo domain.CompanyRepository, validate *validator.Validate) domain.CompanyUsecase {
	return &companyUsecase{
		companyRepo: companyRepo,
		validate:    validate,
		now:         time.Now,
	}
}

func (u *companyUsecase) List(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	companies, err := u.companyRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return companies, nil
}

func (u *companyUsecase) Get(ctx context.Context, id int64) (*domain.Company, error) {
	c, err := u.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Empresa não encontrada")
	}
	return c, nil
}

func (u *companyUsecase) Create(ctx context.Context, role string, in domain.CompanyInput) (*domain.Company, error) {
	if !canManageJobs(role) {
		return nil, apperror.Forbidden("Apenas administradores e empresas podem cadastrar empresas")
	}
	if err := validate(u.validate, in); err != nil {
		return nil, err
	}

	now := u.now()
	c := &domain.Company{CreatedAt: now, UpdatedAt: now, IsActive: true}
	applyCompanyInput(c, in)

	slug, err := u.uniqueSlug(ctx, c.Name, 0)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	c.Slug = slug

	if err := u.companyRepo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("CNPJ já cadastrado")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (u *companyUsecase) Update(ctx context.Context, role string, id int64, in domain.CompanyInput) (*domain.Company, error) {
	if !canManageJobs(role) {
		return nil, apperror.Forbidden("Apenas administradores e empresas podem editar empresas")
	}
	if err := validate(u.validate, in); err != nil {
		return nil, err
	}

	c, err := u.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Empresa não encontrada")
	}

	previousName := c.Name
	applyCompanyInput(c, in)
	if c.Name != previousName {
		slug, err := u.uniqueSlug(ctx, c.Name, c.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		c.Slug = slug
	}
	c.UpdatedAt = u.now()

	if err := u.companyRepo.Update(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("CNPJ já cadastrado")
		}
		return nil, notFoundOr(err, "Empresa não encontrada")
	}
	return c, nil
}

func (u *companyUsecase) Delete(ctx context.Context, role string, id int64) error {
	if !isAdmin(role) {
		return apperror.Forbidden("Apenas administradores podem excluir empresas")
	}
	return notFoundOr(u.companyRepo.Delete(ctx, id), "Empresa não encontrada")
}

func (u *companyUsecase) Options(ctx context.Context) ([]domain.CompanyOption, error) {
	options, err := u.companyRepo.Options(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return options, nil
}

func (u *companyUsecase) Count(ctx context.Context) (*domain.CompanyCount, error) {
	count, err := u.companyRepo.Count(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return count, nil
}

// ExportXLSX renders the filtered company list as a spreadsheet.
func (u *companyUsecase) ExportXLSX(ctx context.Context, role string, filter domain.CompanyFilter) ([]byte, error) {
	if !canManageJobs(role) {
		return nil, apperror.Forbidden("Sem permissão para exportar empresas")
	}

	companies, err := u.companyRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	const sheetName = "Empresas"
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheetName)

	columns := []string{"ID", "Nome", "CNPJ", "Razão social", "Endereço", "Responsável", "E-mail do responsável", "Ativa", "Cadastrada em"}
	for i, header := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#2E7D32"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, c := range companies {
		active := "Não"
		if c.IsActive {
			active = "Sim"
		}
		values := []any{c.ID, c.Name, FormatCNPJ(c.CNPJ), c.CorporateName, c.Address, c.Responsible,
			c.ResponsibleEmail, active, c.CreatedAt.Format("02/01/2006")}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range columns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperror.Internal(fmt.Errorf("write xlsx: %w", err))
	}
	return buf.Bytes(), nil
}

func applyCompanyInput(c *domain.Company, in domain.CompanyInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.CNPJ = validation.OnlyDigits(in.CNPJ)
	c.CorporateName = strings.TrimSpace(in.CorporateName)
	c.Address = strings.TrimSpace(in.Address)
	c.Obs = strings.TrimSpace(in.Obs)
	c.Responsible = strings.TrimSpace(in.Responsible)
	c.ResponsibleEmail = strings.ToLower(strings.TrimSpace(in.ResponsibleEmail))
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

func (u *companyUsecase) uniqueSlug(ctx context.Context, name string, excludeID int64) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "empresa"
	}
	slug := base
	for i := 2; ; i++ {
		exists, err := u.companyRepo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "ê", "e", "è", "e", "ë", "e",
	"í", "i", "î", "i", "ì", "i", "ï", "i",
	"ó", "o", "ô", "o", "õ", "o", "ò", "o", "ö", "o",
	"ú", "u", "û", "u", "ù", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// Slugify lowercases, strips Portuguese accents and joins words with '-'.
func Slugify(s string) string {
	s = accentReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// FormatCNPJ renders 14 digits as 00.000.000/0000-00; other lengths are
// returned unchanged.
func FormatCNPJ(digits string) string {
	if len(digits) != 14 {
		return digits
	}
	return digits[0:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14]
}
