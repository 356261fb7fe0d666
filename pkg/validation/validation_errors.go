package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the pt-BR labels shown in forms.
var FieldLabels = map[string]string{
	// Auth
	"Email":    "E-mail",
	"Password": "Senha",
	"Name":     "Nome",
	"Token":    "Token",
	"Role":     "Perfil",

	// Profile
	"About":        "Sobre",
	"Linkedin":     "LinkedIn",
	"CurriculoURL": "Currículo",
	"Title":        "Cargo",
	"Company":      "Empresa",
	"Institution":  "Instituição",
	"Course":       "Curso",
	"Degree":       "Grau",
	"StartDate":    "Data de início",
	"EndDate":      "Data de término",
	"Description":  "Descrição",
	"Image":        "Imagem",

	// Company
	"CNPJ":             "CNPJ",
	"CorporateName":    "Razão social",
	"Address":          "Endereço",
	"Responsible":      "Responsável",
	"ResponsibleEmail": "E-mail do responsável",
	"Obs":              "Observações",

	// Jobs
	"Nome":       "Título da vaga",
	"Descricao":  "Descrição",
	"Cidade":     "Cidade",
	"Modalidade": "Modalidade",
	"Salario":    "Salário",
	"Tipo":       "Tipo",
	"URLExterna": "Link externo",
	"EmpresaID":  "Empresa",

	// Candidacies / interests
	"UsuarioID": "Usuário",
	"VagaID":    "Vaga",
	"Mensagem":  "Mensagem",
}

// FormatValidationErrors converts validator errors into user-facing messages.
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins the formatted errors into one line.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: obrigatório", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: mínimo de %s caracteres", label, param)
		}
		return fmt.Sprintf("%s: mínimo %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: máximo de %s caracteres", label, param)
		}
		return fmt.Sprintf("%s: máximo %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: deve ser um de: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s: formato de e-mail inválido", label)
	case "url":
		return fmt.Sprintf("%s: URL inválida", label)
	case "valid_name":
		return fmt.Sprintf("%s: apenas letras, espaços e pontuação comum", label)
	case "valid_phone":
		return fmt.Sprintf("%s: telefone inválido", label)
	case "no_emoji":
		return fmt.Sprintf("%s: não pode conter emoji", label)
	case "cnpj":
		return fmt.Sprintf("%s: deve ter pelo menos 11 dígitos", label)
	default:
		return fmt.Sprintf("%s: inválido (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
