package client

import (
	"context"
	"net/http"
	"net/url"

	"agroskills-platform/internal/domain"
)

func (c *Client) MarkLesson(ctx context.Context, userID, trilhaID, lessonID string) Result[struct{}] {
	return doJSON[struct{}](ctx, c, http.MethodPost, "/api/progress/lesson", domain.LessonCompletion{
		UserID:      userID,
		TrilhaID:    trilhaID,
		LessonID:    lessonID,
		CompletedAt: c.now().UTC(),
	}, authRequired)
}

func (c *Client) TrackProgress(ctx context.Context, userID, trilhaID string) Result[domain.TrackProgress] {
	path := "/api/progress/trilha/" + url.PathEscape(trilhaID) + "/user/" + url.PathEscape(userID)
	return doJSON[domain.TrackProgress](ctx, c, http.MethodGet, path, nil, authRequired)
}

func (c *Client) LessonStatus(ctx context.Context, userID, lessonID string) Result[domain.LessonStatus] {
	path := "/api/progress/lesson/" + url.PathEscape(lessonID) + "/user/" + url.PathEscape(userID)
	return doJSON[domain.LessonStatus](ctx, c, http.MethodGet, path, nil, authRequired)
}
