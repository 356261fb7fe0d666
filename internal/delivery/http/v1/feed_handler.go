package v1

import (
	"net/http"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedUC domain.FeedUsecase
}

func NewFeedHandler(public *gin.RouterGroup, protected *gin.RouterGroup, feedUC domain.FeedUsecase) {
	handler := &FeedHandler{feedUC: feedUC}

	public.GET("/news", handler.ListNews)
	public.GET("/events", handler.ListEvents)

	protected.POST("/news", handler.CreateNews)
	protected.POST("/events", handler.CreateEvent)
}

// ListNews godoc
// @Summary      Paginated agribusiness news
// @Tags         feed
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response
// @Router       /news [get]
func (h *FeedHandler) ListNews(c *gin.Context) {
	page, err := h.feedUC.ListNews(c.Request.Context(), queryInt(c, "page", 1), queryInt(c, "limit", 0))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "News retrieved", page)
}

// ListEvents godoc
// @Summary      Paginated events
// @Tags         feed
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response
// @Router       /events [get]
func (h *FeedHandler) ListEvents(c *gin.Context) {
	page, err := h.feedUC.ListEvents(c.Request.Context(), queryInt(c, "page", 1), queryInt(c, "limit", 0))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Events retrieved", page)
}

// CreateNews godoc
// @Summary      Publish a news item
// @Description  Missing title or image are filled from the article's OpenGraph tags.
// @Tags         feed
// @Accept       json
// @Produce      json
// @Param        body  body      domain.NewsInput  true  "News"
// @Success      201   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /news [post]
// @Security     BearerAuth
func (h *FeedHandler) CreateNews(c *gin.Context) {
	var in domain.NewsInput
	if !bindJSON(c, &in) {
		return
	}
	_, role := currentUser(c)

	news, err := h.feedUC.CreateNews(c.Request.Context(), role, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "News created", news)
}

// CreateEvent godoc
// @Summary      Publish an event
// @Tags         feed
// @Accept       json
// @Produce      json
// @Param        body  body      domain.EventInput  true  "Event"
// @Success      201   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /events [post]
// @Security     BearerAuth
func (h *FeedHandler) CreateEvent(c *gin.Context) {
	var in domain.EventInput
	if !bindJSON(c, &in) {
		return
	}
	_, role := currentUser(c)

	event, err := h.feedUC.CreateEvent(c.Request.Context(), role, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Event created", event)
}
