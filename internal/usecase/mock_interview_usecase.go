package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/logger"
	"agroskills-platform/pkg/questionbank"
	"agroskills-platform/pkg/security"
	"agroskills-platform/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AnalysisQueue accepts uploaded answers for asynchronous scoring.
type AnalysisQueue interface {
	Enqueue(job domain.AnalysisJob) error
}

// UploadLimiter decides whether an answer upload may proceed.
type UploadLimiter interface {
	AllowUpload(ctx context.Context, ip, userID string) (bool, time.Duration, error)
}

// MockInterviewDeps groups the collaborators of the mock interview flow.
type MockInterviewDeps struct {
	Repo          domain.MockInterviewRepository
	Questions     *questionbank.Bank
	Store         storage.Store
	Queue         AnalysisQueue
	UploadLimiter UploadLimiter
	Validate      *validator.Validate
	MaxVideoBytes int64
}

type mockInterviewUsecase struct {
	repo          domain.MockInterviewRepository
	questions     *questionbank.Bank
	store         storage.Store
	queue         AnalysisQueue
	limiter       UploadLimiter
	validate      *validator.Validate
	maxVideoBytes int64
	secLog        *security.SecurityLogger
	now           func() time.Time
}

func NewMockInterviewUsecase(deps MockInterviewDeps) domain.MockInterviewUsecase {
	return &mockInterviewUsecase{
		repo:          deps.Repo,
		questions:     deps.Questions,
		store:         deps.Store,
		queue:         deps.Queue,
		limiter:       deps.UploadLimiter,
		validate:      deps.Validate,
		maxVideoBytes: deps.MaxVideoBytes,
		secLog:        security.DefaultLogger(),
		now:           time.Now,
	}
}

// cancellable and startable candidacy states
var openCandidacyStatuses = map[string]bool{
	domain.MockStatusPending:  true,
	domain.MockStatusApproved: true,
}

func (u *mockInterviewUsecase) ListVagasTeste(ctx context.Context) ([]domain.VagaTeste, error) {
	list, err := u.repo.ListVagasTeste(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *mockInterviewUsecase) ListUserCandidacies(ctx context.Context, requesterID, role, userID string) ([]domain.MockCandidacy, error) {
	if requesterID != userID && !isAdmin(role) {
		return nil, apperror.Forbidden("Você só pode ver suas próprias candidaturas")
	}
	list, err := u.repo.ListCandidaciesByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *mockInterviewUsecase) Apply(ctx context.Context, userID string, req domain.CreateMockCandidacyRequest) (*domain.MockCandidacy, error) {
	if req.UsuarioID != "" && req.UsuarioID != userID {
		return nil, apperror.Forbidden("Você só pode se candidatar em seu próprio nome")
	}
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	vaga, err := u.repo.GetVagaTeste(ctx, req.VagaTesteID)
	if err != nil {
		return nil, notFoundOr(err, "Vaga de teste não encontrada")
	}

	exists, err := u.repo.CandidacyExists(ctx, userID, req.VagaTesteID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("Você já se candidatou a esta vaga")
	}

	c := &domain.MockCandidacy{
		UsuarioID:   userID,
		VagaTesteID: req.VagaTesteID,
		Mensagem:    strings.TrimSpace(req.Mensagem),
		Status:      domain.MockStatusPending,
		VagaTeste:   vaga,
		CreatedAt:   u.now(),
	}
	if err := u.repo.CreateCandidacy(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("Você já se candidatou a esta vaga")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func (u *mockInterviewUsecase) ownCandidacy(ctx context.Context, userID string, id int64) (*domain.MockCandidacy, error) {
	c, err := u.repo.GetCandidacy(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Candidatura não encontrada")
	}
	if c.UsuarioID != userID {
		return nil, apperror.Forbidden("Candidatura pertence a outro usuário")
	}
	return c, nil
}

func (u *mockInterviewUsecase) CheckCandidacy(ctx context.Context, userID string, candidaturaID int64) (*domain.MockCandidacyCheck, error) {
	c, err := u.ownCandidacy(ctx, userID, candidaturaID)
	if err != nil {
		return nil, err
	}
	return &domain.MockCandidacyCheck{
		CanStartInterview: !c.HasInterview && openCandidacyStatuses[c.Status],
		HasInterview:      c.HasInterview,
		InterviewID:       c.InterviewID,
		Status:            c.Status,
	}, nil
}

func (u *mockInterviewUsecase) CancelCandidacy(ctx context.Context, userID string, candidaturaID int64) error {
	c, err := u.ownCandidacy(ctx, userID, candidaturaID)
	if err != nil {
		return err
	}
	if c.HasInterview {
		return apperror.BadRequest("Não é possível cancelar candidatura com entrevista associada")
	}
	if !openCandidacyStatuses[c.Status] {
		return apperror.BadRequest("Candidatura não pode ser cancelada. Status atual: " + c.Status)
	}
	return notFoundOr(u.repo.DeleteCandidacy(ctx, candidaturaID), "Candidatura não encontrada")
}

// CreateInterview builds the question list for the candidacy's practice job.
// Calling it again for an unfinished interview returns that interview.
func (u *mockInterviewUsecase) CreateInterview(ctx context.Context, userID string, candidaturaID int64, candidateName string) (*domain.Interview, error) {
	c, err := u.ownCandidacy(ctx, userID, candidaturaID)
	if err != nil {
		return nil, err
	}

	if c.InterviewID != nil {
		iv, err := u.repo.GetInterview(ctx, *c.InterviewID)
		if err != nil {
			return nil, notFoundOr(err, "Entrevista não encontrada")
		}
		if iv.Status == domain.InterviewCompleted {
			return nil, apperror.Conflict("Entrevista já concluída para esta candidatura")
		}
		iv.Vaga = c.VagaTeste
		return iv, nil
	}
	if !openCandidacyStatuses[c.Status] {
		return nil, apperror.BadRequest("Candidatura não permite entrevista. Status atual: " + c.Status)
	}

	vaga := c.VagaTeste
	if vaga == nil {
		if vaga, err = u.repo.GetVagaTeste(ctx, c.VagaTesteID); err != nil {
			return nil, notFoundOr(err, "Vaga de teste não encontrada")
		}
	}

	rendered, err := u.questions.For(vaga.Area, vaga.Nome, vaga.Empresa)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("render questions: %w", err))
	}
	questions := make([]domain.Question, len(rendered))
	for i, q := range rendered {
		questions[i] = domain.Question{Number: q.Number, Text: q.Text, Type: q.Type}
	}

	candidateName = strings.TrimSpace(candidateName)
	if candidateName == "" {
		candidateName = "Candidato"
	}
	now := u.now()
	iv := &domain.Interview{
		CandidaturaID:  c.ID,
		UserID:         userID,
		CandidateName:  candidateName,
		Status:         domain.InterviewScheduled,
		Questions:      questions,
		QuestionsCount: len(questions),
		Vaga:           vaga,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.repo.CreateInterview(ctx, iv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("Entrevista já criada para esta candidatura")
		}
		return nil, apperror.Internal(err)
	}
	return iv, nil
}

func (u *mockInterviewUsecase) ownInterview(ctx context.Context, userID string, id int64) (*domain.Interview, error) {
	iv, err := u.repo.GetInterview(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Entrevista não encontrada")
	}
	if iv.UserID != userID {
		return nil, apperror.Forbidden("Entrevista pertence a outro usuário")
	}
	return iv, nil
}

func (u *mockInterviewUsecase) StartInterview(ctx context.Context, userID string, interviewID int64) (*domain.Interview, error) {
	iv, err := u.ownInterview(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	switch iv.Status {
	case domain.InterviewInProgress:
		return iv, nil
	case domain.InterviewScheduled:
	default:
		return nil, apperror.BadRequest("Entrevista não pode ser iniciada. Status atual: " + iv.Status)
	}

	now := u.now()
	iv.Status = domain.InterviewInProgress
	iv.StartedAt = &now
	iv.UpdatedAt = now
	if err := u.repo.UpdateInterview(ctx, iv); err != nil {
		return nil, notFoundOr(err, "Entrevista não encontrada")
	}
	return iv, nil
}

// UploadResponse validates and stores one recorded answer, then queues it
// for analysis. Re-uploading a question replaces the earlier answer.
func (u *mockInterviewUsecase) UploadResponse(ctx context.Context, userID string, interviewID int64, up domain.VideoUpload) (*domain.UploadResult, error) {
	iv, err := u.ownInterview(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status == domain.InterviewCompleted || iv.Status == domain.InterviewCancelled {
		return nil, apperror.BadRequest("Entrevista encerrada")
	}
	if up.QuestionNumber < 1 || up.QuestionNumber > len(iv.Questions) {
		return nil, apperror.BadRequest(fmt.Sprintf("Número da pergunta deve estar entre 1 e %d", len(iv.Questions)))
	}

	if u.limiter != nil {
		allowed, retryAfter, err := u.limiter.AllowUpload(ctx, up.IP, userID)
		if err != nil {
			logger.Log.Warn("upload limiter unavailable", "error", err)
			u.secLog.LogUploadRejected(ctx, userID, up.IP, up.RequestID, "limiter_unavailable")
			return nil, apperror.New(http.StatusServiceUnavailable, "Envio temporariamente indisponível. Tente novamente em instantes", err)
		}
		if !allowed {
			u.secLog.LogUploadRejected(ctx, userID, up.IP, up.RequestID, "rate_limited")
			return nil, apperror.TooManyRequests(fmt.Sprintf("Limite de uploads atingido. Tente novamente em %d segundos", int(retryAfter.Seconds())+1))
		}
	}

	check := security.ValidateFile(security.KindVideo, up.Data, u.maxVideoBytes)
	if !check.Valid {
		u.secLog.LogUploadRejected(ctx, userID, up.IP, up.RequestID, check.Error)
		if u.maxVideoBytes > 0 && int64(len(up.Data)) > u.maxVideoBytes {
			return nil, apperror.PayloadTooLarge("Vídeo: " + check.Error)
		}
		return nil, apperror.BadRequest("Vídeo: " + check.Error)
	}

	if iv.Status == domain.InterviewScheduled {
		if iv, err = u.StartInterview(ctx, userID, interviewID); err != nil {
			return nil, err
		}
	}

	key := fmt.Sprintf("interviews/%d/q%d-%s%s", iv.ID, up.QuestionNumber, uuid.NewString(), check.Extension)
	obj, err := u.store.Put(ctx, key, bytes.NewReader(up.Data), int64(len(up.Data)), check.DetectedMIME)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("store video: %w", err))
	}

	question := iv.Questions[up.QuestionNumber-1]
	resp := &domain.InterviewResponse{
		InterviewID:      iv.ID,
		QuestionNumber:   up.QuestionNumber,
		QuestionText:     question.Text,
		QuestionType:     question.Type,
		VideoKey:         obj.Key,
		VideoURL:         obj.URL,
		ContentType:      check.DetectedMIME,
		ProcessingStatus: domain.ProcessingPending,
		FaceAnalysis:     up.FaceSamples,
		FaceDataPoints:   len(up.FaceSamples),
		DurationSeconds:  clampDuration(up.DurationSeconds),
		CreatedAt:        u.now(),
	}
	if err := u.repo.UpsertResponse(ctx, resp); err != nil {
		return nil, apperror.Internal(err)
	}

	if u.queue != nil {
		if err := u.queue.Enqueue(domain.AnalysisJob{ResponseID: resp.ID, InterviewID: iv.ID}); err != nil {
			logger.Log.Error("failed to queue analysis", "response_id", resp.ID, "error", err)
			resp.ProcessingStatus = domain.ProcessingFailed
			resp.ErrorMessage = "análise indisponível no momento"
			if err := u.repo.UpdateResponseAnalysis(ctx, resp); err != nil {
				logger.Log.Error("failed to mark response as failed", "response_id", resp.ID, "error", err)
			}
		}
	}

	return &domain.UploadResult{
		ResponseID:       resp.ID,
		VideoURL:         obj.URL,
		StreamURL:        obj.URL,
		ProcessingStatus: resp.ProcessingStatus,
		FaceDataPoints:   resp.FaceDataPoints,
	}, nil
}

func clampDuration(seconds int) int {
	limit := int(domain.MaxAnswerDuration / time.Second)
	if seconds < 0 {
		return 0
	}
	if seconds > limit {
		return limit
	}
	return seconds
}

func (u *mockInterviewUsecase) ResponseStatus(ctx context.Context, userID string, interviewID, responseID int64) (*domain.ResponseStatus, error) {
	if _, err := u.ownInterview(ctx, userID, interviewID); err != nil {
		return nil, err
	}
	resp, err := u.repo.GetResponse(ctx, interviewID, responseID)
	if err != nil {
		return nil, notFoundOr(err, "Resposta não encontrada")
	}
	return statusOf(resp), nil
}

func statusOf(r *domain.InterviewResponse) *domain.ResponseStatus {
	return &domain.ResponseStatus{
		QuestionNumber: r.QuestionNumber,
		Status:         r.ProcessingStatus,
		Transcription:  r.Transcription,
		AnalysisScore:  r.Score,
		AIAnalysis:     r.AIAnalysis,
		ErrorMessage:   r.ErrorMessage,
	}
}

// CompleteInterview closes the interview and stores the aggregate score and
// emotion summary of the answered questions. Completing twice is a no-op.
func (u *mockInterviewUsecase) CompleteInterview(ctx context.Context, userID string, interviewID int64) (*domain.Interview, error) {
	iv, err := u.ownInterview(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status == domain.InterviewCompleted {
		return iv, nil
	}
	if iv.Status == domain.InterviewCancelled {
		return nil, apperror.BadRequest("Entrevista cancelada")
	}

	responses, err := u.repo.ListResponses(ctx, interviewID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := u.now()
	iv.Status = domain.InterviewCompleted
	iv.CompletedAt = &now
	if iv.StartedAt == nil {
		iv.StartedAt = &now
	}
	iv.UpdatedAt = now
	iv.AnsweredQuestions = len(responses)
	iv.TotalScore = averageScore(responses)
	iv.EmotionSummary = EmotionSummary(responses)
	iv.AIFeedback = completionFeedback(iv)

	if err := u.repo.UpdateInterview(ctx, iv); err != nil {
		return nil, notFoundOr(err, "Entrevista não encontrada")
	}
	iv.Responses = responses
	return iv, nil
}

func (u *mockInterviewUsecase) Report(ctx context.Context, userID string, interviewID int64) (*domain.InterviewReport, error) {
	iv, err := u.ownInterview(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	responses, err := u.repo.ListResponses(ctx, interviewID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var vaga *domain.VagaTeste
	if c, err := u.repo.GetCandidacy(ctx, iv.CandidaturaID); err == nil {
		vaga = c.VagaTeste
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	return &domain.InterviewReport{
		Report: BuildReport(iv, responses, vaga, u.now()),
		Vaga:   vaga,
	}, nil
}

func completionFeedback(iv *domain.Interview) string {
	if iv.TotalScore == nil {
		return fmt.Sprintf("%d de %d perguntas respondidas. Análise das respostas em processamento.",
			iv.AnsweredQuestions, iv.QuestionsCount)
	}
	return fmt.Sprintf("%d de %d perguntas respondidas. Nota média %.1f.",
		iv.AnsweredQuestions, iv.QuestionsCount, *iv.TotalScore)
}
