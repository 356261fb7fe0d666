package client

import (
	"context"
	"fmt"
	"net/http"

	"agroskills-platform/internal/domain"
)

// RegisterInterest saves an external posting to the user's list.
func (c *Client) RegisterInterest(ctx context.Context, jobID int64) Result[*domain.Interest] {
	return doJSON[*domain.Interest](ctx, c, http.MethodPost, "/api/interesses",
		map[string]int64{"vaga_id": jobID}, authRequired)
}

func (c *Client) RemoveInterest(ctx context.Context, jobID int64) Result[struct{}] {
	return doJSON[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/api/interesses/vaga/%d", jobID), nil, authRequired)
}

func (c *Client) InterestStatus(ctx context.Context, jobID int64) Result[domain.InterestStatus] {
	return doJSON[domain.InterestStatus](ctx, c, http.MethodGet, fmt.Sprintf("/api/interesses/vaga/%d/status", jobID), nil, authRequired)
}

func (c *Client) MyInterests(ctx context.Context) Result[[]domain.Interest] {
	return doJSON[[]domain.Interest](ctx, c, http.MethodGet, "/api/interesses/meus-interesses", nil, authRequired)
}
