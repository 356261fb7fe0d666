package client

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"agroskills-platform/internal/domain"
)

var lastItemID atomic.Int64

// NewItemID returns a timestamp based id for a new experience, education or
// skill entry. Ids stay unique within the process even when generated in
// the same millisecond.
func NewItemID() string {
	for {
		now := time.Now().UnixMilli()
		prev := lastItemID.Load()
		if now <= prev {
			now = prev + 1
		}
		if lastItemID.CompareAndSwap(prev, now) {
			return strconv.FormatInt(now, 10)
		}
	}
}

func (c *Client) GetProfile(ctx context.Context) Result[*domain.Profile] {
	return doJSON[*domain.Profile](ctx, c, http.MethodGet, "/api/profile", nil, authRequired)
}

func (c *Client) UpdateAbout(ctx context.Context, about string) Result[*domain.Profile] {
	return doJSON[*domain.Profile](ctx, c, http.MethodPatch, "/api/profile/about",
		map[string]string{"about": about}, authRequired)
}

func (c *Client) UpdateExperiences(ctx context.Context, items []domain.Experience) Result[*domain.Profile] {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = NewItemID()
		}
	}
	return doJSON[*domain.Profile](ctx, c, http.MethodPatch, "/api/profile/experiences",
		map[string][]domain.Experience{"experiences": items}, authRequired)
}

func (c *Client) UpdateEducation(ctx context.Context, items []domain.Education) Result[*domain.Profile] {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = NewItemID()
		}
	}
	return doJSON[*domain.Profile](ctx, c, http.MethodPatch, "/api/profile/education",
		map[string][]domain.Education{"education": items}, authRequired)
}

func (c *Client) UpdateSkills(ctx context.Context, items []domain.Skill) Result[*domain.Profile] {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = NewItemID()
		}
	}
	return doJSON[*domain.Profile](ctx, c, http.MethodPatch, "/api/profile/skills",
		map[string][]domain.Skill{"skills": items}, authRequired)
}

// UpdateProfileImage uploads a base64 encoded image (data URL accepted).
func (c *Client) UpdateProfileImage(ctx context.Context, base64Image string) Result[*domain.Profile] {
	return doJSON[*domain.Profile](ctx, c, http.MethodPatch, "/api/profile/profile-image",
		map[string]string{"profile_image": base64Image}, authRequired)
}

func (c *Client) DeleteProfileImage(ctx context.Context) Result[*domain.Profile] {
	return doJSON[*domain.Profile](ctx, c, http.MethodDelete, "/api/profile/profile-image", nil, authRequired)
}
