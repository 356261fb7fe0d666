package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CompanyHandler struct {
	companyUC domain.CompanyUsecase
}

func NewCompanyHandler(protected *gin.RouterGroup, companyUC domain.CompanyUsecase) {
	handler := &CompanyHandler{companyUC: companyUC}

	companies := protected.Group("/companies")
	{
		companies.GET("", handler.List)
		companies.GET("/select", handler.Options)
		companies.GET("/count", handler.Count)
		companies.GET("/export", handler.Export)
		companies.GET("/:id", handler.Get)
		companies.POST("", handler.Create)
		companies.PUT("/:id", handler.Update)
		companies.DELETE("/:id", handler.Delete)
	}
}

func companyFilter(c *gin.Context) domain.CompanyFilter {
	filter := domain.CompanyFilter{Search: c.Query("search")}
	if v, err := strconv.ParseBool(c.Query("active")); err == nil {
		filter.Active = &v
	}
	return filter
}

// List godoc
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Param        search  query     string  false  "Name, CNPJ or responsible"
// @Param        active  query     bool    false  "Only active or inactive"
// @Success      200     {object}  response.Response
// @Router       /companies [get]
// @Security     BearerAuth
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyUC.List(c.Request.Context(), companyFilter(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Companies retrieved", companies)
}

// Options godoc
// @Summary      Compact company list for select inputs
// @Tags         companies
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /companies/select [get]
// @Security     BearerAuth
func (h *CompanyHandler) Options(c *gin.Context) {
	options, err := h.companyUC.Options(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Companies retrieved", options)
}

// Count godoc
// @Summary      Company totals
// @Tags         companies
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /companies/count [get]
// @Security     BearerAuth
func (h *CompanyHandler) Count(c *gin.Context) {
	count, err := h.companyUC.Count(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Companies counted", count)
}

// Export godoc
// @Summary      Export companies as XLSX
// @Tags         companies
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        search  query  string  false  "Filter"
// @Param        active  query  bool    false  "Filter"
// @Success      200
// @Failure      403     {object}  response.Response
// @Router       /companies/export [get]
// @Security     BearerAuth
func (h *CompanyHandler) Export(c *gin.Context) {
	_, role := currentUser(c)

	data, err := h.companyUC.ExportXLSX(c.Request.Context(), role, companyFilter(c))
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("empresas-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Get godoc
// @Summary      Company details
// @Tags         companies
// @Produce      json
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /companies/{id} [get]
// @Security     BearerAuth
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	company, err := h.companyUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company retrieved", company)
}

// Create godoc
// @Summary      Register a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CompanyInput  true  "Company"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /companies [post]
// @Security     BearerAuth
func (h *CompanyHandler) Create(c *gin.Context) {
	var in domain.CompanyInput
	if !bindJSON(c, &in) {
		return
	}
	_, role := currentUser(c)

	company, err := h.companyUC.Create(c.Request.Context(), role, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Company created", company)
}

// Update godoc
// @Summary      Update a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Company ID"
// @Param        body  body      domain.CompanyInput  true  "Company"
// @Success      200   {object}  response.Response
// @Router       /companies/{id} [put]
// @Security     BearerAuth
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in domain.CompanyInput
	if !bindJSON(c, &in) {
		return
	}
	_, role := currentUser(c)

	company, err := h.companyUC.Update(c.Request.Context(), role, id, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company updated", company)
}

// Delete godoc
// @Summary      Delete a company
// @Tags         companies
// @Produce      json
// @Param        id   path      int  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /companies/{id} [delete]
// @Security     BearerAuth
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	_, role := currentUser(c)

	if err := h.companyUC.Delete(c.Request.Context(), role, id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company deleted", nil)
}
