package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/internal/usecase"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/questionbank"
	"agroskills-platform/pkg/storage"
	"agroskills-platform/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// minimal EBML header with a "webm" DocType
var webmVideo = append([]byte{
	0x1A, 0x45, 0xDF, 0xA3, 0x9F, 0x42, 0x86, 0x81, 0x01, 0x42, 0xF7, 0x81, 0x01,
	0x42, 0xF2, 0x81, 0x04, 0x42, 0xF3, 0x81, 0x08, 0x42, 0x82, 0x84, 'w', 'e', 'b', 'm',
	0x42, 0x87, 0x81, 0x04, 0x42, 0x85, 0x81, 0x02,
}, make([]byte, 256)...)

var vagaAgro = &domain.VagaTeste{ID: 1, Nome: "Engenheiro Agrônomo", Empresa: "Fazenda Santa Rita", Area: "agronomia"}

type interviewFixture struct {
	repo    *MockInterviewRepo
	queue   *MockQueue
	limiter *MockLimiter
	uc      domain.MockInterviewUsecase
	now     time.Time
}

func newInterviewFixture(t *testing.T) *interviewFixture {
	t.Helper()
	return buildInterviewFixture(t, false)
}

func newLimitedInterviewFixture(t *testing.T) *interviewFixture {
	t.Helper()
	return buildInterviewFixture(t, true)
}

func buildInterviewFixture(t *testing.T, limited bool) *interviewFixture {
	t.Helper()
	bank, err := questionbank.Load("")
	require.NoError(t, err)
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	f := &interviewFixture{
		repo:  new(MockInterviewRepo),
		queue: new(MockQueue),
		now:   time.Date(2025, 5, 10, 14, 0, 0, 0, time.UTC),
	}
	deps := usecase.MockInterviewDeps{
		Repo:          f.repo,
		Questions:     bank,
		Store:         store,
		Queue:         f.queue,
		Validate:      validation.New(),
		MaxVideoBytes: 1024 * 1024,
	}
	if limited {
		f.limiter = new(MockLimiter)
		deps.UploadLimiter = f.limiter
	}
	f.uc = usecase.NewMockInterviewUsecase(deps)
	usecase.SetMockInterviewClock(f.uc, fixedClock(f.now))
	return f
}

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }

func TestMockApply(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject duplicates with conflict", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetVagaTeste", ctx, int64(1)).Return(vagaAgro, nil)
		f.repo.On("CandidacyExists", ctx, "u1", int64(1)).Return(true, nil)

		_, err := f.uc.Apply(ctx, "u1", domain.CreateMockCandidacyRequest{VagaTesteID: 1})
		assert.Equal(t, 409, apperror.StatusOf(err))
	})

	t.Run("Should 404 on unknown practice jobs", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetVagaTeste", ctx, int64(99)).Return(nil, domain.ErrNotFound)

		_, err := f.uc.Apply(ctx, "u1", domain.CreateMockCandidacyRequest{VagaTesteID: 99})
		assert.Equal(t, 404, apperror.StatusOf(err))
	})

	t.Run("Should create a pending candidacy", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetVagaTeste", ctx, int64(1)).Return(vagaAgro, nil)
		f.repo.On("CandidacyExists", ctx, "u1", int64(1)).Return(false, nil)
		f.repo.On("CreateCandidacy", ctx, mock.Anything).Return(nil)

		c, err := f.uc.Apply(ctx, "u1", domain.CreateMockCandidacyRequest{UsuarioID: "u1", VagaTesteID: 1})
		require.NoError(t, err)
		assert.Equal(t, domain.MockStatusPending, c.Status)
		assert.Equal(t, vagaAgro, c.VagaTeste)
	})
}

func TestMockCheckAndCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Should allow starting a fresh candidacy", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetCandidacy", ctx, int64(3)).Return(&domain.MockCandidacy{ID: 3, UsuarioID: "u1", Status: domain.MockStatusPending}, nil)

		check, err := f.uc.CheckCandidacy(ctx, "u1", 3)
		require.NoError(t, err)
		assert.True(t, check.CanStartInterview)
		assert.False(t, check.HasInterview)
	})

	t.Run("Should forbid other users", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetCandidacy", ctx, int64(3)).Return(&domain.MockCandidacy{ID: 3, UsuarioID: "u1"}, nil)

		_, err := f.uc.CheckCandidacy(ctx, "u2", 3)
		assert.Equal(t, 403, apperror.StatusOf(err))
	})

	t.Run("Should refuse to cancel with an interview", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetCandidacy", ctx, int64(3)).Return(&domain.MockCandidacy{
			ID: 3, UsuarioID: "u1", Status: domain.MockStatusInInterview, InterviewID: int64Ptr(8), HasInterview: true,
		}, nil)

		err := f.uc.CancelCandidacy(ctx, "u1", 3)
		assert.Equal(t, 400, apperror.StatusOf(err))
		assert.Contains(t, err.Error(), "entrevista associada")
	})

	t.Run("Should report the status when cancel is not allowed", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetCandidacy", ctx, int64(3)).Return(&domain.MockCandidacy{ID: 3, UsuarioID: "u1", Status: domain.MockStatusCancelled}, nil)

		err := f.uc.CancelCandidacy(ctx, "u1", 3)
		assert.Contains(t, err.Error(), "Status atual: cancelada")
	})

	t.Run("Should delete a pending candidacy", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetCandidacy", ctx, int64(3)).Return(&domain.MockCandidacy{ID: 3, UsuarioID: "u1", Status: domain.MockStatusPending}, nil)
		f.repo.On("DeleteCandidacy", ctx, int64(3)).Return(nil)

		require.NoError(t, f.uc.CancelCandidacy(ctx, "u1", 3))
		f.repo.AssertExpectations(t)
	})
}

func TestCreateInterview(t *testing.T) {
	ctx := context.Background()

	t.Run("Should render area questions for the practice job", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetCandidacy", ctx, int64(3)).Return(&domain.MockCandidacy{
			ID: 3, UsuarioID: "u1", VagaTesteID: 1, Status: domain.MockStatusPending, VagaTeste: vagaAgro,
		}, nil)
		f.repo.On("CreateInterview", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Interview).ID = 8
		}).Return(nil)

		iv, err := f.uc.CreateInterview(ctx, "u1", 3, "  ")
		require.NoError(t, err)
		assert.Equal(t, int64(8), iv.ID)
		assert.Equal(t, "Candidato", iv.CandidateName)
		assert.Equal(t, domain.InterviewScheduled, iv.Status)
		require.Len(t, iv.Questions, 5)
		assert.Equal(t, iv.QuestionsCount, len(iv.Questions))
		assert.Contains(t, iv.Questions[0].Text, "Engenheiro Agrônomo")
		assert.Contains(t, iv.Questions[1].Text, "pragas resistentes")
	})

	t.Run("Should resume an unfinished interview", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetCandidacy", ctx, int64(3)).Return(&domain.MockCandidacy{
			ID: 3, UsuarioID: "u1", InterviewID: int64Ptr(8), HasInterview: true, VagaTeste: vagaAgro,
		}, nil)
		f.repo.On("GetInterview", ctx, int64(8)).Return(&domain.Interview{ID: 8, UserID: "u1", Status: domain.InterviewInProgress}, nil)

		iv, err := f.uc.CreateInterview(ctx, "u1", 3, "Maria")
		require.NoError(t, err)
		assert.Equal(t, int64(8), iv.ID)
		f.repo.AssertNotCalled(t, "CreateInterview", mock.Anything, mock.Anything)
	})
}

func inProgressInterview() *domain.Interview {
	return &domain.Interview{
		ID:     8,
		UserID: "u1",
		Status: domain.InterviewInProgress,
		Questions: []domain.Question{
			{Number: 1, Text: "Fale sobre você", Type: "geral"},
			{Number: 2, Text: "Pergunta técnica", Type: "tecnica"},
		},
		QuestionsCount: 2,
	}
}

func TestUploadResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("Should store the video and queue analysis", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetInterview", ctx, int64(8)).Return(inProgressInterview(), nil)
		f.repo.On("UpsertResponse", ctx, mock.MatchedBy(func(r *domain.InterviewResponse) bool {
			return r.QuestionNumber == 2 && r.QuestionType == "tecnica" &&
				r.ProcessingStatus == domain.ProcessingPending && r.DurationSeconds == 120 &&
				strings.HasPrefix(r.VideoKey, "interviews/8/q2-") && strings.HasSuffix(r.VideoKey, ".webm")
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.InterviewResponse).ID = 31
		}).Return(nil)
		f.queue.On("Enqueue", domain.AnalysisJob{ResponseID: 31, InterviewID: 8}).Return(nil)

		res, err := f.uc.UploadResponse(ctx, "u1", 8, domain.VideoUpload{
			QuestionNumber:  2,
			Data:            webmVideo,
			FaceSamples:     []domain.FaceSample{{Expression: "happy"}, {Expression: "neutral"}},
			DurationSeconds: 300,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(31), res.ResponseID)
		assert.Equal(t, 2, res.FaceDataPoints)
		assert.Equal(t, domain.ProcessingPending, res.ProcessingStatus)
		assert.True(t, strings.HasPrefix(res.VideoURL, "/uploads/interviews/8/"))
		f.queue.AssertExpectations(t)
	})

	t.Run("Should reject out of range question numbers", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetInterview", ctx, int64(8)).Return(inProgressInterview(), nil)

		_, err := f.uc.UploadResponse(ctx, "u1", 8, domain.VideoUpload{QuestionNumber: 3, Data: webmVideo})
		assert.Equal(t, 400, apperror.StatusOf(err))
	})

	t.Run("Should reject empty and non-video payloads", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetInterview", ctx, int64(8)).Return(inProgressInterview(), nil)

		_, err := f.uc.UploadResponse(ctx, "u1", 8, domain.VideoUpload{QuestionNumber: 1})
		assert.Equal(t, 400, apperror.StatusOf(err))

		_, err = f.uc.UploadResponse(ctx, "u1", 8, domain.VideoUpload{QuestionNumber: 1, Data: []byte("just some text")})
		assert.Equal(t, 400, apperror.StatusOf(err))
	})

	t.Run("Should reject oversized videos with 413", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetInterview", ctx, int64(8)).Return(inProgressInterview(), nil)

		big := append(append([]byte{}, webmVideo...), make([]byte, 2*1024*1024)...)
		_, err := f.uc.UploadResponse(ctx, "u1", 8, domain.VideoUpload{QuestionNumber: 1, Data: big})
		assert.Equal(t, 413, apperror.StatusOf(err))
	})

	t.Run("Should mark the answer failed when the queue is full", func(t *testing.T) {
		f := newInterviewFixture(t)
		f.repo.On("GetInterview", ctx, int64(8)).Return(inProgressInterview(), nil)
		f.repo.On("UpsertResponse", ctx, mock.Anything).Return(nil)
		f.queue.On("Enqueue", mock.Anything).Return(errors.New("queue full"))
		f.repo.On("UpdateResponseAnalysis", ctx, mock.MatchedBy(func(r *domain.InterviewResponse) bool {
			return r.ProcessingStatus == domain.ProcessingFailed
		})).Return(nil)

		res, err := f.uc.UploadResponse(ctx, "u1", 8, domain.VideoUpload{QuestionNumber: 1, Data: webmVideo})
		require.NoError(t, err)
		assert.Equal(t, domain.ProcessingFailed, res.ProcessingStatus)
	})

	t.Run("Should answer 429 with the retry delay when the limit is hit", func(t *testing.T) {
		f := newLimitedInterviewFixture(t)
		f.repo.On("GetInterview", ctx, int64(8)).Return(inProgressInterview(), nil)
		f.limiter.On("AllowUpload", ctx, "10.0.0.7", "u1").Return(false, 30*time.Second, nil)

		_, err := f.uc.UploadResponse(ctx, "u1", 8, domain.VideoUpload{QuestionNumber: 1, Data: webmVideo, IP: "10.0.0.7"})
		assert.Equal(t, 429, apperror.StatusOf(err))
		assert.Contains(t, err.Error(), "31 segundos")
		f.repo.AssertNotCalled(t, "UpsertResponse", mock.Anything, mock.Anything)
	})

	t.Run("Should answer 503 when the limiter backend is down", func(t *testing.T) {
		f := newLimitedInterviewFixture(t)
		f.repo.On("GetInterview", ctx, int64(8)).Return(inProgressInterview(), nil)
		f.limiter.On("AllowUpload", ctx, "10.0.0.7", "u1").
			Return(false, time.Duration(0), errors.New("rate limit check failed: dial tcp: connection refused"))

		_, err := f.uc.UploadResponse(ctx, "u1", 8, domain.VideoUpload{QuestionNumber: 1, Data: webmVideo, IP: "10.0.0.7"})
		require.Error(t, err)
		assert.Equal(t, 503, apperror.StatusOf(err))
		assert.NotContains(t, err.Error(), "segundos")
		assert.NotContains(t, err.Error(), "Limite")
		f.repo.AssertNotCalled(t, "UpsertResponse", mock.Anything, mock.Anything)
		f.queue.AssertNotCalled(t, "Enqueue", mock.Anything)
	})

	t.Run("Should refuse uploads to a finished interview", func(t *testing.T) {
		f := newInterviewFixture(t)
		iv := inProgressInterview()
		iv.Status = domain.InterviewCompleted
		f.repo.On("GetInterview", ctx, int64(8)).Return(iv, nil)

		_, err := f.uc.UploadResponse(ctx, "u1", 8, domain.VideoUpload{QuestionNumber: 1, Data: webmVideo})
		assert.Equal(t, 400, apperror.StatusOf(err))
	})
}

func TestCompleteInterview(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t)
	f.repo.On("GetInterview", ctx, int64(8)).Return(inProgressInterview(), nil)
	f.repo.On("ListResponses", ctx, int64(8)).Return([]domain.InterviewResponse{
		{QuestionNumber: 1, ProcessingStatus: domain.ProcessingCompleted, Score: float64Ptr(8),
			FaceAnalysis: []domain.FaceSample{{Expressions: map[string]float64{"happy": 0.8, "neutral": 0.2}}}},
		{QuestionNumber: 2, ProcessingStatus: domain.ProcessingCompleted, Score: float64Ptr(7),
			FaceAnalysis: []domain.FaceSample{{Expression: "neutral"}}},
	}, nil)
	f.repo.On("UpdateInterview", ctx, mock.Anything).Return(nil)

	iv, err := f.uc.CompleteInterview(ctx, "u1", 8)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewCompleted, iv.Status)
	require.NotNil(t, iv.TotalScore)
	assert.Equal(t, 7.5, *iv.TotalScore)
	assert.Equal(t, 2, iv.AnsweredQuestions)
	assert.InDelta(t, 0.4, iv.EmotionSummary["happy"], 0.001)
	assert.InDelta(t, 0.6, iv.EmotionSummary["neutral"], 0.001)
	assert.Equal(t, f.now, *iv.CompletedAt)
}

func TestResponseStatusOwnership(t *testing.T) {
	ctx := context.Background()
	f := newInterviewFixture(t)
	f.repo.On("GetInterview", ctx, int64(8)).Return(inProgressInterview(), nil)
	f.repo.On("GetResponse", ctx, int64(8), int64(31)).Return(&domain.InterviewResponse{
		ID: 31, ProcessingStatus: domain.ProcessingCompleted, Score: float64Ptr(6.5), Transcription: "Eu trabalho com soja",
	}, nil)

	_, err := f.uc.ResponseStatus(ctx, "intruso", 8, 31)
	assert.Equal(t, 403, apperror.StatusOf(err))

	st, err := f.uc.ResponseStatus(ctx, "u1", 8, 31)
	require.NoError(t, err)
	assert.Equal(t, domain.ProcessingCompleted, st.Status)
	assert.Equal(t, 6.5, *st.AnalysisScore)
}

func TestRecommendation(t *testing.T) {
	assert.Equal(t, domain.RecommendationHire, usecase.Recommendation(8))
	assert.Equal(t, domain.RecommendationEvaluate, usecase.Recommendation(7.9))
	assert.Equal(t, domain.RecommendationEvaluate, usecase.Recommendation(6))
	assert.Equal(t, domain.RecommendationNoHire, usecase.Recommendation(5.9))
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2025, 5, 10, 15, 0, 0, 0, time.UTC)
	iv := &domain.Interview{ID: 8, CandidateName: "Maria", QuestionsCount: 5}

	t.Run("Should score analysed answers only", func(t *testing.T) {
		responses := []domain.InterviewResponse{
			{QuestionNumber: 1, QuestionType: "geral", ProcessingStatus: domain.ProcessingCompleted, Score: float64Ptr(9)},
			{QuestionNumber: 2, QuestionType: "tecnica", ProcessingStatus: domain.ProcessingCompleted, Score: float64Ptr(4)},
			{QuestionNumber: 3, QuestionType: "situacional", ProcessingStatus: domain.ProcessingFailed},
		}
		rep := usecase.BuildReport(iv, responses, vagaAgro, now)

		assert.Equal(t, 6.5, rep.OverallScore)
		assert.Equal(t, domain.RecommendationEvaluate, rep.Recommendation)
		assert.Equal(t, 3, rep.CompletedQuestions)
		assert.Equal(t, 5, rep.TotalQuestions)
		assert.Len(t, rep.Responses, 3)
		assert.Len(t, rep.Sections.PontosFortes, 1)
		assert.Len(t, rep.Sections.AreasDesenvolvimento, 1)
		assert.Contains(t, rep.Sections.PlanoDesenvolvimento[0], "agronomia")
		assert.Contains(t, rep.DetailedAnalysis, "Pergunta 3")
		assert.Equal(t, now, rep.Timestamp)
	})

	t.Run("Should hold the recommendation while nothing is analysed", func(t *testing.T) {
		rep := usecase.BuildReport(iv, []domain.InterviewResponse{{QuestionNumber: 1, ProcessingStatus: domain.ProcessingPending}}, nil, now)
		assert.Equal(t, 0.0, rep.OverallScore)
		assert.Equal(t, domain.RecommendationEvaluate, rep.Recommendation)
		assert.NotEmpty(t, rep.Sections.PlanoDesenvolvimento)
	})
}

func TestEmotionSummaryWithoutSamples(t *testing.T) {
	assert.Nil(t, usecase.EmotionSummary([]domain.InterviewResponse{{QuestionNumber: 1}}))
}
