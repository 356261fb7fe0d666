package usecase_test

import (
	"context"
	"errors"
	"testing"

	"agroskills-platform/internal/domain"
	"agroskills-platform/internal/usecase"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMarkLesson(t *testing.T) {
	ctx := context.Background()

	t.Run("Should only mark own progress", func(t *testing.T) {
		uc := usecase.NewProgressUsecase(new(MockProgressRepo), validation.New())
		err := uc.MarkLesson(ctx, "u1", domain.LessonCompletion{UserID: "u2", LessonID: "l1", TrilhaID: "t1"})
		assert.Equal(t, 403, apperror.StatusOf(err))
	})

	t.Run("Should default user and completion time", func(t *testing.T) {
		repo := new(MockProgressRepo)
		repo.On("MarkLesson", ctx, mock.MatchedBy(func(c *domain.LessonCompletion) bool {
			return c.UserID == "u1" && !c.CompletedAt.IsZero()
		})).Return(nil)
		err := usecase.NewProgressUsecase(repo, validation.New()).MarkLesson(ctx, "u1", domain.LessonCompletion{LessonID: "l1", TrilhaID: "t1"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestTrackProgress(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		done      []string
		total     int
		progress  int
		completed bool
	}{
		{"rounds to nearest percent", []string{"a"}, 3, 33, false},
		{"rounds half up", []string{"a", "b"}, 3, 67, false},
		{"complete track", []string{"a", "b", "c"}, 3, 100, true},
		{"caps over-complete tracks", []string{"a", "b", "c", "d"}, 3, 100, true},
		{"empty track is never complete", nil, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockProgressRepo)
			repo.On("CompletedLessons", ctx, "u1", "t1").Return(tc.done, nil)
			repo.On("TrackLessonCount", ctx, "t1").Return(tc.total, nil)

			p, err := usecase.NewProgressUsecase(repo, validation.New()).TrackProgress(ctx, "u1", "t1")
			require.NoError(t, err)
			assert.Equal(t, tc.progress, p.Progress)
			assert.Equal(t, tc.completed, p.IsCompleted)
		})
	}

	t.Run("Should surface repository errors as 500", func(t *testing.T) {
		repo := new(MockProgressRepo)
		repo.On("CompletedLessons", ctx, "u1", "t1").Return(nil, errors.New("db down"))
		_, err := usecase.NewProgressUsecase(repo, validation.New()).TrackProgress(ctx, "u1", "t1")
		assert.Equal(t, 500, apperror.StatusOf(err))
	})
}
