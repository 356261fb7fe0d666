package listing_test

import (
	"fmt"
	"testing"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func companies(n int) []domain.Company {
	out := make([]domain.Company, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Company{
			ID:       int64(i),
			Name:     fmt.Sprintf("Fazenda %02d", i),
			CNPJ:     fmt.Sprintf("11.222.333/0001-%02d", i),
			IsActive: i%3 != 0,
		})
	}
	return out
}

func TestPaginateFilteredCompanies(t *testing.T) {
	active := true
	all := companies(47)
	filtered := listing.Sort(listing.Filter(all, listing.CompanyMatcher("fazenda", &active)), listing.CompaniesByName)
	require.Len(t, filtered, 32)

	for _, size := range []int{1, 7, 15, 32, 50} {
		t.Run(fmt.Sprintf("page size %d", size), func(t *testing.T) {
			first := listing.Paginate(filtered, 1, size)
			seen := map[int64]bool{}
			var joined []domain.Company
			for p := 1; p <= first.TotalPages; p++ {
				page := listing.Paginate(filtered, p, size)
				assert.Equal(t, p, page.Page)
				for _, c := range page.Items {
					assert.False(t, seen[c.ID], "company %d on two pages", c.ID)
					seen[c.ID] = true
				}
				joined = append(joined, page.Items...)
			}
			// contiguous and covering: concatenation equals the filtered list
			assert.Equal(t, filtered, joined)
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	t.Run("Should default to fifteen per page", func(t *testing.T) {
		p := listing.Paginate(items, 1, 0)
		assert.Len(t, p.Items, 15)
		assert.Equal(t, 2, p.TotalPages)
		assert.True(t, p.HasNext())
		assert.False(t, p.HasPrev())
	})

	t.Run("Should clamp pages out of range", func(t *testing.T) {
		assert.Equal(t, []int{16}, listing.Paginate(items, 9, 15).Items)
		assert.Equal(t, 1, listing.Paginate(items, -2, 15).Page)
	})

	t.Run("Should return one empty page for an empty list", func(t *testing.T) {
		p := listing.Paginate([]int{}, 3, 15)
		assert.Empty(t, p.Items)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 1, p.TotalPages)
	})

	t.Run("Should not let appends leak into the next page", func(t *testing.T) {
		p := listing.Paginate(items, 1, 4)
		_ = append(p.Items, 99)
		assert.Equal(t, 5, items[4])
	})
}

func TestCompanyMatcher(t *testing.T) {
	list := []domain.Company{
		{ID: 1, Name: "Cooperativa São João", CNPJ: "12345678000190", IsActive: true},
		{ID: 2, Name: "AgroSul", Responsible: "José Araújo", CNPJ: "98765432000110", IsActive: false},
	}
	assert.Len(t, listing.Filter(list, listing.CompanyMatcher("sao joao", nil)), 1)
	assert.Len(t, listing.Filter(list, listing.CompanyMatcher("ARAUJO", nil)), 1)
	assert.Len(t, listing.Filter(list, listing.CompanyMatcher("12.345.678", nil)), 1)
	inactive := false
	got := listing.Filter(list, listing.CompanyMatcher("", &inactive))
	require.Len(t, got, 1)
	assert.EqualValues(t, 2, got[0].ID)
}

func TestApplyJobs(t *testing.T) {
	now := time.Now()
	jobs := []domain.Job{
		{ID: 1, Nome: "Operador de colheitadeira", Cidade: "Sorriso", Modalidade: "presencial", CreatedAt: now.Add(-time.Hour)},
		{ID: 2, Nome: "Agrônomo", Cidade: "Sorriso", Modalidade: "presencial", CreatedAt: now},
		{ID: 3, Nome: "Analista de dados", Cidade: "Campinas", Modalidade: "remoto", CreatedAt: now},
	}
	page := listing.Apply(jobs, listing.Query[domain.Job]{
		Match:   listing.JobMatcher("", "sorriso", "presencial"),
		Compare: listing.JobsNewestFirst,
		Page:    1,
	})
	require.Len(t, page.Items, 2)
	assert.EqualValues(t, 2, page.Items[0].ID)
	assert.Len(t, listing.Filter(jobs, listing.JobMatcher("agronomo", "", "")), 1)
}
