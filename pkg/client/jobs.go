package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"agroskills-platform/internal/domain"

	"golang.org/x/sync/errgroup"
)

type JobQuery struct {
	Search     string
	Cidade     string
	Modalidade string
	Tipo       string
	EmpresaID  int64
	// IncludeClosed lists closed postings too.
	IncludeClosed bool
	Page          int
	Limit         int
}

func (q JobQuery) encode() string {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", q.Search)
	set("cidade", q.Cidade)
	set("modalidade", q.Modalidade)
	set("tipo", q.Tipo)
	if q.EmpresaID > 0 {
		v.Set("empresa_id", strconv.FormatInt(q.EmpresaID, 10))
	}
	if q.IncludeClosed {
		v.Set("all", "true")
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListJobs(ctx context.Context, q JobQuery) Result[domain.Page[domain.Job]] {
	return doJSON[domain.Page[domain.Job]](ctx, c, http.MethodGet, "/api/recruitment/jobs"+q.encode(), nil, authOptional)
}

func (c *Client) GetJob(ctx context.Context, id int64) Result[*domain.Job] {
	return doJSON[*domain.Job](ctx, c, http.MethodGet, fmt.Sprintf("/api/recruitment/jobs/%d", id), nil, authOptional)
}

func (c *Client) JobsByCompany(ctx context.Context, companyID int64) Result[[]domain.Job] {
	return doJSON[[]domain.Job](ctx, c, http.MethodGet, fmt.Sprintf("/api/vagas/empresa/%d", companyID), nil, authOptional)
}

func (c *Client) CreateJob(ctx context.Context, in domain.JobInput) Result[*domain.Job] {
	return doJSON[*domain.Job](ctx, c, http.MethodPost, "/api/recruitment/jobs", in, authRequired)
}

func (c *Client) UpdateJob(ctx context.Context, id int64, in domain.JobInput) Result[*domain.Job] {
	return doJSON[*domain.Job](ctx, c, http.MethodPut, fmt.Sprintf("/api/recruitment/jobs/%d", id), in, authRequired)
}

func (c *Client) DeleteJob(ctx context.Context, id int64) Result[struct{}] {
	return doJSON[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/api/recruitment/jobs/%d", id), nil, authRequired)
}

// JobBoard is one page of jobs annotated with the user's applications and
// saved external postings.
type JobBoard struct {
	Jobs       domain.Page[domain.Job]
	Applied    map[int64]bool
	Interested map[int64]bool
}

// LoadJobBoard fetches the job page, the user's candidacies and interests
// concurrently. Any failure fails the whole board.
func (c *Client) LoadJobBoard(ctx context.Context, userID string, q JobQuery) Result[*JobBoard] {
	board := &JobBoard{Applied: map[int64]bool{}, Interested: map[int64]bool{}}

	var (
		candidacies []domain.Candidacy
		interests   []domain.Interest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := c.ListJobs(gctx, q).Unwrap()
		board.Jobs = page
		return err
	})
	g.Go(func() error {
		var err error
		candidacies, err = c.MyCandidacies(gctx, userID).Unwrap()
		return err
	})
	g.Go(func() error {
		var err error
		interests, err = c.MyInterests(gctx).Unwrap()
		return err
	})
	if err := g.Wait(); err != nil {
		return failed[*JobBoard](err)
	}

	for _, cand := range candidacies {
		board.Applied[cand.VagaID] = true
	}
	for _, in := range interests {
		board.Interested[in.VagaID] = true
	}
	return Result[*JobBoard]{Success: true, Data: board}
}
