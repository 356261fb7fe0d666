package v1

import (
	"net/http"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressUC domain.ProgressUsecase
}

func NewProgressHandler(protected *gin.RouterGroup, progressUC domain.ProgressUsecase) {
	handler := &ProgressHandler{progressUC: progressUC}

	progress := protected.Group("/progress")
	{
		progress.POST("/lesson", handler.MarkLesson)
		progress.GET("/trilha/:trilhaId/user/:userId", handler.TrackProgress)
		progress.GET("/lesson/:lessonId/user/:userId", handler.LessonStatus)
	}
}

// ownerOrAdmin records a 403 unless the caller is userID or an admin.
func ownerOrAdmin(c *gin.Context, userID string) bool {
	requesterID, role := currentUser(c)
	if requesterID != userID && role != domain.RoleAdmin {
		c.Error(apperror.Forbidden("Você só pode consultar o seu próprio progresso"))
		return false
	}
	return true
}

// MarkLesson godoc
// @Summary      Mark a lesson as completed
// @Tags         progress
// @Accept       json
// @Produce      json
// @Param        body  body      domain.LessonCompletion  true  "Lesson"
// @Success      200   {object}  response.Response
// @Router       /progress/lesson [post]
// @Security     BearerAuth
func (h *ProgressHandler) MarkLesson(c *gin.Context) {
	var req domain.LessonCompletion
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)

	if err := h.progressUC.MarkLesson(c.Request.Context(), userID, req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Aula concluída", nil)
}

// TrackProgress godoc
// @Summary      Progress of a user in a track
// @Tags         progress
// @Produce      json
// @Param        trilhaId  path      string  true  "Track ID"
// @Param        userId    path      string  true  "User ID"
// @Success      200       {object}  response.Response
// @Router       /progress/trilha/{trilhaId}/user/{userId} [get]
// @Security     BearerAuth
func (h *ProgressHandler) TrackProgress(c *gin.Context) {
	userID := c.Param("userId")
	if !ownerOrAdmin(c, userID) {
		return
	}

	progress, err := h.progressUC.TrackProgress(c.Request.Context(), userID, c.Param("trilhaId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Progress retrieved", progress)
}

// LessonStatus godoc
// @Summary      Whether a user completed a lesson
// @Tags         progress
// @Produce      json
// @Param        lessonId  path      string  true  "Lesson ID"
// @Param        userId    path      string  true  "User ID"
// @Success      200       {object}  response.Response
// @Router       /progress/lesson/{lessonId}/user/{userId} [get]
// @Security     BearerAuth
func (h *ProgressHandler) LessonStatus(c *gin.Context) {
	userID := c.Param("userId")
	if !ownerOrAdmin(c, userID) {
		return
	}

	status, err := h.progressUC.LessonStatus(c.Request.Context(), userID, c.Param("lessonId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Lesson status retrieved", status)
}
