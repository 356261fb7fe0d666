package domain

import (
	"context"
	"time"
)

type LessonCompletion struct {
	UserID      string    `json:"userId" validate:"required"`
	LessonID    string    `json:"lessonId" validate:"required,max=100"`
	TrilhaID    string    `json:"trilhaId" validate:"required,max=100"`
	CompletedAt time.Time `json:"completedAt"`
}

type TrackProgress struct {
	CompletedLessons []string `json:"completedLessons"`
	Progress         int      `json:"progress"`
	IsCompleted      bool     `json:"isCompleted"`
}

type LessonStatus struct {
	IsCompleted bool `json:"isCompleted"`
}

type ProgressRepository interface {
	MarkLesson(ctx context.Context, c *LessonCompletion) error
	CompletedLessons(ctx context.Context, userID, trilhaID string) ([]string, error)
	IsLessonCompleted(ctx context.Context, userID, lessonID string) (bool, error)
	TrackLessonCount(ctx context.Context, trilhaID string) (int, error)
}

type ProgressUsecase interface {
	MarkLesson(ctx context.Context, requesterID string, c LessonCompletion) error
	TrackProgress(ctx context.Context, userID, trilhaID string) (*TrackProgress, error)
	LessonStatus(ctx context.Context, userID, lessonID string) (*LessonStatus, error)
}
