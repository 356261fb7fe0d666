package client

import (
	"context"
	"fmt"
	"net/http"

	"agroskills-platform/internal/domain"
)

func pageQuery(page, limit int) string {
	if page < 1 {
		page = 1
	}
	q := fmt.Sprintf("?page=%d", page)
	if limit > 0 {
		q += fmt.Sprintf("&limit=%d", limit)
	}
	return q
}

func (c *Client) ListNews(ctx context.Context, page, limit int) Result[domain.Page[domain.News]] {
	return doJSON[domain.Page[domain.News]](ctx, c, http.MethodGet, "/api/news"+pageQuery(page, limit), nil, authNone)
}

func (c *Client) ListEvents(ctx context.Context, page, limit int) Result[domain.Page[domain.Event]] {
	return doJSON[domain.Page[domain.Event]](ctx, c, http.MethodGet, "/api/events"+pageQuery(page, limit), nil, authNone)
}

func (c *Client) CreateNews(ctx context.Context, in domain.NewsInput) Result[*domain.News] {
	return doJSON[*domain.News](ctx, c, http.MethodPost, "/api/news", in, authRequired)
}

func (c *Client) CreateEvent(ctx context.Context, in domain.EventInput) Result[*domain.Event] {
	return doJSON[*domain.Event](ctx, c, http.MethodPost, "/api/events", in, authRequired)
}
