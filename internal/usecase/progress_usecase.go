package usecase

import (
	"context"
	"math"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type progressUsecase struct {
	progressRepo domain.ProgressRepository
	validate     *validator.Validate
	now          func() time.Time
}

func NewProgressUsecase(progressRepo domain.ProgressRepository, validate *validator.Validate) domain.ProgressUsecase {
	return &progressUsecase{progressRepo: progressRepo, validate: validate, now: time.Now}
}

func (u *progressUsecase) MarkLesson(ctx context.Context, requesterID string, c domain.LessonCompletion) error {
	if c.UserID == "" {
		c.UserID = requesterID
	}
	if c.UserID != requesterID {
		return apperror.Forbidden("Você só pode registrar o seu próprio progresso")
	}
	if err := validate(u.validate, c); err != nil {
		return err
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = u.now()
	}
	if err := u.progressRepo.MarkLesson(ctx, &c); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// TrackProgress reports the rounded completion percentage. A track with no
// registered lessons is never complete.
func (u *progressUsecase) TrackProgress(ctx context.Context, userID, trilhaID string) (*domain.TrackProgress, error) {
	done, err := u.progressRepo.CompletedLessons(ctx, userID, trilhaID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	total, err := u.progressRepo.TrackLessonCount(ctx, trilhaID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	result := &domain.TrackProgress{CompletedLessons: done}
	if total > 0 {
		pct := int(math.Round(float64(len(done)) / float64(total) * 100))
		if pct > 100 {
			pct = 100
		}
		result.Progress = pct
		result.IsCompleted = len(done) >= total
	}
	return result, nil
}

func (u *progressUsecase) LessonStatus(ctx context.Context, userID, lessonID string) (*domain.LessonStatus, error) {
	done, err := u.progressRepo.IsLessonCompleted(ctx, userID, lessonID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.LessonStatus{IsCompleted: done}, nil
}
