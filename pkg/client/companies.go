package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"agroskills-platform/internal/domain"
)

type CompanyQuery struct {
	Search string
	Active *bool
}

func (q CompanyQuery) encode() string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListCompanies(ctx context.Context, q CompanyQuery) Result[[]domain.Company] {
	return doJSON[[]domain.Company](ctx, c, http.MethodGet, "/api/companies"+q.encode(), nil, authRequired)
}

// CompanyOptions feeds company pickers.
func (c *Client) CompanyOptions(ctx context.Context) Result[[]domain.CompanyOption] {
	return doJSON[[]domain.CompanyOption](ctx, c, http.MethodGet, "/api/companies/select", nil, authRequired)
}

func (c *Client) CountCompanies(ctx context.Context) Result[domain.CompanyCount] {
	return doJSON[domain.CompanyCount](ctx, c, http.MethodGet, "/api/companies/count", nil, authRequired)
}

func (c *Client) GetCompany(ctx context.Context, id int64) Result[*domain.Company] {
	return doJSON[*domain.Company](ctx, c, http.MethodGet, fmt.Sprintf("/api/companies/%d", id), nil, authRequired)
}

func (c *Client) CreateCompany(ctx context.Context, in domain.CompanyInput) Result[*domain.Company] {
	return doJSON[*domain.Company](ctx, c, http.MethodPost, "/api/companies", in, authRequired)
}

func (c *Client) UpdateCompany(ctx context.Context, id int64, in domain.CompanyInput) Result[*domain.Company] {
	return doJSON[*domain.Company](ctx, c, http.MethodPut, fmt.Sprintf("/api/companies/%d", id), in, authRequired)
}

func (c *Client) DeleteCompany(ctx context.Context, id int64) Result[struct{}] {
	return doJSON[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/api/companies/%d", id), nil, authRequired)
}

// ExportCompanies downloads the spreadsheet export as raw XLSX bytes.
func (c *Client) ExportCompanies(ctx context.Context, q CompanyQuery) Result[[]byte] {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/companies/export"+q.encode(), nil)
	if err != nil {
		return failed[[]byte](err)
	}
	body, err := c.send(req, authRequired)
	if err != nil {
		return failed[[]byte](err)
	}
	return Result[[]byte]{Success: true, Data: body}
}
