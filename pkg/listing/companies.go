package listing

import (
	"cmp"
	"strings"

	"agroskills-platform/internal/domain"
)

// CompanyMatcher matches the company table search box and status filter.
// CNPJ search ignores punctuation.
func CompanyMatcher(search string, active *bool) func(domain.Company) bool {
	digits := onlyDigits(search)
	return func(c domain.Company) bool {
		if active != nil && c.IsActive != *active {
			return false
		}
		if ContainsFold(search, c.Name, c.CorporateName, c.Responsible, c.ResponsibleEmail) {
			return true
		}
		return digits != "" && strings.Contains(onlyDigits(c.CNPJ), digits)
	}
}

func CompaniesByName(a, b domain.Company) int {
	if c := strings.Compare(Fold(a.Name), Fold(b.Name)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// JobMatcher filters job cards by text, city and modality.
func JobMatcher(search, cidade, modalidade string) func(domain.Job) bool {
	return func(j domain.Job) bool {
		if cidade != "" && Fold(j.Cidade) != Fold(cidade) {
			return false
		}
		if modalidade != "" && Fold(j.Modalidade) != Fold(modalidade) {
			return false
		}
		return ContainsFold(search, j.Nome, j.Descricao, j.Empresa, j.Cidade)
	}
}

// JobsNewestFirst orders by creation time, newest first.
func JobsNewestFirst(a, b domain.Job) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
