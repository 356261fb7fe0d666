package v1

import (
	"net/http"
	"strconv"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

// Mirrors the paging clamp applied by the job usecase.
const (
	jobPageSize    = 15
	maxJobPageSize = 100
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	// PUBLIC routes: the job board is browsable without an account
	publicJobs := public.Group("/recruitment/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.GetDetails)
	}
	public.GET("/vagas/empresa/:companyId", handler.ListByCompany)

	protectedJobs := protected.Group("/recruitment/jobs")
	{
		protectedJobs.POST("", handler.Create)
		protectedJobs.PUT("/:id", handler.Update)
		protectedJobs.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Param        search      query     string  false  "Title, description or company"
// @Param        empresa_id  query     int     false  "Company"
// @Param        cidade      query     string  false  "City"
// @Param        modalidade  query     string  false  "presencial, remoto or hibrido"
// @Param        tipo        query     string  false  "interna or externa"
// @Param        all         query     bool    false  "Include closed jobs"
// @Param        page        query     int     false  "Page (1-based)"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  response.Response
// @Router       /recruitment/jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	filter := domain.JobFilter{
		Search:     c.Query("search"),
		Cidade:     c.Query("cidade"),
		Modalidade: c.Query("modalidade"),
		Tipo:       c.Query("tipo"),
		OnlyActive: c.Query("all") != "true",
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", 0),
	}
	if v, err := strconv.ParseInt(c.Query("empresa_id"), 10, 64); err == nil {
		filter.EmpresaID = v
	}

	jobs, total, err := h.jobUC.ListJobs(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 1:
		limit = jobPageSize
	case limit > maxJobPageSize:
		limit = maxJobPageSize
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	response.Success(c, http.StatusOK, "Jobs retrieved", domain.Page[domain.Job]{
		Data:       jobs,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	})
}

// GetDetails godoc
// @Summary      Job details
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /recruitment/jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	job, err := h.jobUC.GetJobDetails(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// ListByCompany godoc
// @Summary      Jobs of a company
// @Tags         jobs
// @Produce      json
// @Param        companyId  path      int  true  "Company ID"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /vagas/empresa/{companyId} [get]
func (h *JobHandler) ListByCompany(c *gin.Context) {
	companyID, ok := pathID(c, "companyId")
	if !ok {
		return
	}
	jobs, err := h.jobUC.ListJobsByCompany(c.Request.Context(), companyID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", jobs)
}

// Create godoc
// @Summary      Publish a job
// @Description  Company and admin accounts only.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.JobInput  true  "Job"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /recruitment/jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var in domain.JobInput
	if !bindJSON(c, &in) {
		return
	}
	userID, role := currentUser(c)

	job, err := h.jobUC.CreateJob(c.Request.Context(), userID, role, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

// Update godoc
// @Summary      Update a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      int              true  "Job ID"
// @Param        job  body      domain.JobInput  true  "Job"
// @Success      200  {object}  response.Response
// @Router       /recruitment/jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in domain.JobInput
	if !bindJSON(c, &in) {
		return
	}
	_, role := currentUser(c)

	job, err := h.jobUC.UpdateJob(c.Request.Context(), role, id, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// Delete godoc
// @Summary      Delete a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Router       /recruitment/jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	_, role := currentUser(c)

	if err := h.jobUC.DeleteJob(c.Request.Context(), role, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}
