package v1

import (
	"net/http"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

type CandidacyHandler struct {
	candidacyUC domain.CandidacyUsecase
	interestUC  domain.InterestUsecase
}

func NewCandidacyHandler(protected *gin.RouterGroup, candidacyUC domain.CandidacyUsecase, interestUC domain.InterestUsecase) {
	handler := &CandidacyHandler{candidacyUC: candidacyUC, interestUC: interestUC}

	candidaturas := protected.Group("/candidaturas")
	{
		candidaturas.POST("", handler.Apply)
		candidaturas.GET("/usuario/:userId", handler.ListByUser)
		candidaturas.GET("/vaga/:jobId", handler.ListByJob)
		candidaturas.PATCH("/:id/status", handler.UpdateStatus)
	}

	interesses := protected.Group("/interesses")
	{
		interesses.POST("", handler.RegisterInterest)
		interesses.DELETE("/vaga/:jobId", handler.RemoveInterest)
		interesses.GET("/vaga/:jobId/status", handler.InterestStatus)
		interesses.GET("/meus-interesses", handler.ListInterests)
	}
}

type InterestRequest struct {
	VagaID int64 `json:"vaga_id" binding:"required,gt=0"`
}

// Apply godoc
// @Summary      Apply to an internal job
// @Tags         candidaturas
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateCandidacyRequest  true  "Candidacy"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response  "External job"
// @Failure      409   {object}  response.Response  "Already applied"
// @Router       /candidaturas [post]
// @Security     BearerAuth
func (h *CandidacyHandler) Apply(c *gin.Context) {
	var req domain.CreateCandidacyRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)

	candidacy, err := h.candidacyUC.Apply(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Candidatura enviada", candidacy)
}

// ListByUser godoc
// @Summary      Candidacies of a user
// @Tags         candidaturas
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /candidaturas/usuario/{userId} [get]
// @Security     BearerAuth
func (h *CandidacyHandler) ListByUser(c *gin.Context) {
	requesterID, role := currentUser(c)

	items, err := h.candidacyUC.ListByUser(c.Request.Context(), requesterID, role, c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidaturas retrieved", items)
}

// ListByJob godoc
// @Summary      Candidates of a job (recruiter view)
// @Tags         candidaturas
// @Produce      json
// @Param        jobId  path      int  true  "Job ID"
// @Success      200    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Router       /candidaturas/vaga/{jobId} [get]
// @Security     BearerAuth
func (h *CandidacyHandler) ListByJob(c *gin.Context) {
	jobID, ok := pathID(c, "jobId")
	if !ok {
		return
	}
	_, role := currentUser(c)

	items, err := h.candidacyUC.ListByJob(c.Request.Context(), role, jobID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidaturas retrieved", items)
}

// UpdateStatus godoc
// @Summary      Change a candidacy status
// @Tags         candidaturas
// @Accept       json
// @Produce      json
// @Param        id    path      int                                  true  "Candidacy ID"
// @Param        body  body      domain.UpdateCandidacyStatusRequest  true  "Status"
// @Success      200   {object}  response.Response
// @Router       /candidaturas/{id}/status [patch]
// @Security     BearerAuth
func (h *CandidacyHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateCandidacyStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	_, role := currentUser(c)

	candidacy, err := h.candidacyUC.UpdateStatus(c.Request.Context(), role, id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Status atualizado", candidacy)
}

// RegisterInterest godoc
// @Summary      Bookmark an external job
// @Tags         interesses
// @Accept       json
// @Produce      json
// @Param        body  body      InterestRequest  true  "Job"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response  "Internal job"
// @Failure      409   {object}  response.Response  "Already registered"
// @Router       /interesses [post]
// @Security     BearerAuth
func (h *CandidacyHandler) RegisterInterest(c *gin.Context) {
	var req InterestRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)

	interest, err := h.interestUC.Register(c.Request.Context(), userID, req.VagaID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Interesse registrado", interest)
}

// RemoveInterest godoc
// @Summary      Remove a bookmark
// @Tags         interesses
// @Produce      json
// @Param        jobId  path      int  true  "Job ID"
// @Success      200    {object}  response.Response
// @Router       /interesses/vaga/{jobId} [delete]
// @Security     BearerAuth
func (h *CandidacyHandler) RemoveInterest(c *gin.Context) {
	jobID, ok := pathID(c, "jobId")
	if !ok {
		return
	}
	userID, _ := currentUser(c)

	if err := h.interestUC.Remove(c.Request.Context(), userID, jobID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interesse removido", nil)
}

// InterestStatus godoc
// @Summary      Whether the caller bookmarked a job
// @Tags         interesses
// @Produce      json
// @Param        jobId  path      int  true  "Job ID"
// @Success      200    {object}  response.Response
// @Router       /interesses/vaga/{jobId}/status [get]
// @Security     BearerAuth
func (h *CandidacyHandler) InterestStatus(c *gin.Context) {
	jobID, ok := pathID(c, "jobId")
	if !ok {
		return
	}
	userID, _ := currentUser(c)

	status, err := h.interestUC.Status(c.Request.Context(), userID, jobID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Status retrieved", status)
}

// ListInterests godoc
// @Summary      The caller's bookmarks
// @Tags         interesses
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /interesses/meus-interesses [get]
// @Security     BearerAuth
func (h *CandidacyHandler) ListInterests(c *gin.Context) {
	userID, _ := currentUser(c)

	items, err := h.interestUC.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interesses retrieved", items)
}
