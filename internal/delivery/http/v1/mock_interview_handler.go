package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// multipartOverhead covers the form fields sent next to the video part.
const multipartOverhead = 1 << 20

type MockInterviewHandler struct {
	interviewUC   domain.MockInterviewUsecase
	maxVideoBytes int64
}

func NewMockInterviewHandler(protected *gin.RouterGroup, interviewUC domain.MockInterviewUsecase, maxVideoBytes int64) {
	handler := &MockInterviewHandler{interviewUC: interviewUC, maxVideoBytes: maxVideoBytes}

	mock := protected.Group("/mock-interviews")
	{
		mock.GET("/vagas-teste", handler.ListVagasTeste)
		mock.GET("/user/:userId", handler.ListUserCandidacies)

		mock.POST("/candidatura", handler.Apply)
		mock.GET("/candidatura/:id/check", handler.CheckCandidacy)
		mock.POST("/candidatura/:id", handler.CreateInterview)
		mock.DELETE("/candidatura/:id", handler.CancelCandidacy)

		mock.POST("/:id/start", handler.Start)
		mock.POST("/:id/responses/upload-video", handler.UploadVideo)
		mock.GET("/:id/responses/:responseId/status", handler.ResponseStatus)
		mock.POST("/:id/complete", handler.Complete)
		mock.GET("/:id/report", handler.Report)
	}
}

type CreateInterviewRequest struct {
	CandidateName string `json:"candidate_name"`
	UserID        string `json:"user_id"`
}

// ListVagasTeste godoc
// @Summary      Practice jobs available for mock interviews
// @Tags         mock-interviews
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /mock-interviews/vagas-teste [get]
// @Security     BearerAuth
func (h *MockInterviewHandler) ListVagasTeste(c *gin.Context) {
	vagas, err := h.interviewUC.ListVagasTeste(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Vagas de teste", vagas)
}

// ListUserCandidacies godoc
// @Summary      Mock candidacies of a user
// @Tags         mock-interviews
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /mock-interviews/user/{userId} [get]
// @Security     BearerAuth
func (h *MockInterviewHandler) ListUserCandidacies(c *gin.Context) {
	requesterID, role := currentUser(c)

	items, err := h.interviewUC.ListUserCandidacies(c.Request.Context(), requesterID, role, c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidaturas retrieved", items)
}

// Apply godoc
// @Summary      Apply to a practice job
// @Tags         mock-interviews
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateMockCandidacyRequest  true  "Candidacy"
// @Success      201   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /mock-interviews/candidatura [post]
// @Security     BearerAuth
func (h *MockInterviewHandler) Apply(c *gin.Context) {
	var req domain.CreateMockCandidacyRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)

	candidacy, err := h.interviewUC.Apply(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Candidatura realizada com sucesso", candidacy)
}

// CheckCandidacy godoc
// @Summary      Whether an interview can be started for a candidacy
// @Tags         mock-interviews
// @Produce      json
// @Param        id   path      int  true  "Candidacy ID"
// @Success      200  {object}  response.Response
// @Router       /mock-interviews/candidatura/{id}/check [get]
// @Security     BearerAuth
func (h *MockInterviewHandler) CheckCandidacy(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := currentUser(c)

	check, err := h.interviewUC.CheckCandidacy(c.Request.Context(), userID, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidatura verificada", check)
}

// CreateInterview godoc
// @Summary      Create (or resume) the interview of a candidacy
// @Tags         mock-interviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true   "Candidacy ID"
// @Param        body  body      CreateInterviewRequest  false  "Candidate name"
// @Success      201   {object}  response.Response
// @Failure      409   {object}  response.Response  "Interview already completed"
// @Router       /mock-interviews/candidatura/{id} [post]
// @Security     BearerAuth
func (h *MockInterviewHandler) CreateInterview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CreateInterviewRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)
	if req.UserID != "" && req.UserID != userID {
		c.Error(apperror.Forbidden("Você só pode iniciar suas próprias entrevistas"))
		return
	}

	interview, err := h.interviewUC.CreateInterview(c.Request.Context(), userID, id, req.CandidateName)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Entrevista criada", interview)
}

// CancelCandidacy godoc
// @Summary      Cancel a candidacy without interview
// @Tags         mock-interviews
// @Produce      json
// @Param        id   path      int  true  "Candidacy ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /mock-interviews/candidatura/{id} [delete]
// @Security     BearerAuth
func (h *MockInterviewHandler) CancelCandidacy(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := currentUser(c)

	if err := h.interviewUC.CancelCandidacy(c.Request.Context(), userID, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidatura cancelada", nil)
}

// Start godoc
// @Summary      Start an interview
// @Tags         mock-interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response
// @Router       /mock-interviews/{id}/start [post]
// @Security     BearerAuth
func (h *MockInterviewHandler) Start(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := currentUser(c)

	interview, err := h.interviewUC.StartInterview(c.Request.Context(), userID, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Entrevista iniciada", interview)
}

// UploadVideo godoc
// @Summary      Upload the recorded answer to one question
// @Description  The video is checked by magic bytes, stored and queued for analysis.
// @Tags         mock-interviews
// @Accept       multipart/form-data
// @Produce      json
// @Param        id                path      int     true   "Interview ID"
// @Param        video             formData  file    true   "WebM or MP4 recording"
// @Param        questionNumber    formData  int     true   "1-based question number"
// @Param        faceAnalysisData  formData  string  false  "JSON array of face samples"
// @Param        duration          formData  int     false  "Recording length in seconds"
// @Success      201               {object}  response.Response
// @Failure      400               {object}  response.Response
// @Failure      413               {object}  response.Response
// @Failure      429               {object}  response.Response
// @Router       /mock-interviews/{id}/responses/upload-video [post]
// @Security     BearerAuth
func (h *MockInterviewHandler) UploadVideo(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxVideoBytes+multipartOverhead)

	fileHeader, err := c.FormFile("video")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(apperror.PayloadTooLarge("Vídeo excede o tamanho máximo permitido"))
			return
		}
		c.Error(apperror.BadRequest("Vídeo: obrigatório"))
		return
	}

	questionNumber, err := strconv.Atoi(c.PostForm("questionNumber"))
	if err != nil {
		c.Error(apperror.BadRequest("questionNumber inválido"))
		return
	}

	var samples []domain.FaceSample
	if raw := c.PostForm("faceAnalysisData"); raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &samples); err != nil {
			c.Error(apperror.BadRequest("faceAnalysisData inválido"))
			return
		}
	}
	duration, _ := strconv.Atoi(c.PostForm("duration"))

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the usecase to report 413.
	data, err := io.ReadAll(io.LimitReader(file, h.maxVideoBytes+1))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	userID, _ := currentUser(c)
	result, err := h.interviewUC.UploadResponse(c.Request.Context(), userID, id, domain.VideoUpload{
		QuestionNumber:  questionNumber,
		Filename:        fileHeader.Filename,
		Data:            data,
		FaceSamples:     samples,
		DurationSeconds: duration,
		IP:              c.ClientIP(),
		RequestID:       c.GetString("RequestID"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Vídeo enviado com sucesso", result)
}

// ResponseStatus godoc
// @Summary      Analysis status of one answer
// @Tags         mock-interviews
// @Produce      json
// @Param        id          path      int  true  "Interview ID"
// @Param        responseId  path      int  true  "Response ID"
// @Success      200         {object}  response.Response
// @Router       /mock-interviews/{id}/responses/{responseId}/status [get]
// @Security     BearerAuth
func (h *MockInterviewHandler) ResponseStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	responseID, ok := pathID(c, "responseId")
	if !ok {
		return
	}
	userID, _ := currentUser(c)

	status, err := h.interviewUC.ResponseStatus(c.Request.Context(), userID, id, responseID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Status da análise", status)
}

// Complete godoc
// @Summary      Finish an interview
// @Tags         mock-interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response
// @Router       /mock-interviews/{id}/complete [post]
// @Security     BearerAuth
func (h *MockInterviewHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := currentUser(c)

	interview, err := h.interviewUC.CompleteInterview(c.Request.Context(), userID, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Entrevista concluída", interview)
}

// Report godoc
// @Summary      Interview report
// @Tags         mock-interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response
// @Router       /mock-interviews/{id}/report [get]
// @Security     BearerAuth
func (h *MockInterviewHandler) Report(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := currentUser(c)

	report, err := h.interviewUC.Report(c.Request.Context(), userID, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Relatório da entrevista", report)
}
