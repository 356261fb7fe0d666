package validation_test

import (
	"testing"

	"agroskills-platform/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type companyForm struct {
	Name             string `validate:"required,valid_name"`
	CNPJ             string `validate:"required,cnpj"`
	ResponsibleEmail string `validate:"omitempty,email"`
	Phone            string `validate:"valid_phone"`
}

func TestValidators(t *testing.T) {
	v := validation.New()

	t.Run("Should accept a formatted CNPJ", func(t *testing.T) {
		err := v.Struct(companyForm{Name: "Fazenda Boa Vista", CNPJ: "12.345.678/0001-90"})
		assert.NoError(t, err)
	})

	t.Run("Should reject a CNPJ with fewer than 11 digits", func(t *testing.T) {
		err := v.Struct(companyForm{Name: "Fazenda", CNPJ: "123.456"})
		require.Error(t, err)
		assert.Contains(t, validation.Message(err), "CNPJ")
	})

	t.Run("Should reject emoji in names", func(t *testing.T) {
		err := v.Struct(companyForm{Name: "Fazenda 🌱", CNPJ: "12345678000190"})
		assert.Error(t, err)
	})

	t.Run("Should accept Brazilian phone formats", func(t *testing.T) {
		err := v.Struct(companyForm{Name: "Coop", CNPJ: "12345678000190", Phone: "+55 (34) 99999-1234"})
		assert.NoError(t, err)
	})

	t.Run("Should label required fields in Portuguese", func(t *testing.T) {
		err := v.Struct(companyForm{})
		require.Error(t, err)
		msgs := validation.FormatValidationErrors(err)
		assert.Contains(t, msgs, "Nome: obrigatório")
	})
}

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "12345678000190", validation.OnlyDigits("12.345.678/0001-90"))
	assert.Equal(t, "+5534999991234", validation.OnlyDigitsKeepPlus(" +55 (34) 99999-1234"))
}
