package usecase

import (
	"time"

	"agroskills-platform/internal/domain"
)

func SetAuthClock(uc domain.AuthUsecase, now func() time.Time, sleep func(time.Duration)) {
	a := uc.(*authUsecase)
	a.now = now
	a.sleep = sleep
}

func SetMockInterviewClock(uc domain.MockInterviewUsecase, now func() time.Time) {
	uc.(*mockInterviewUsecase).now = now
}
