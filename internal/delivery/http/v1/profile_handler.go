package v1

import (
	"net/http"

	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/internal/domain"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	profile := protected.Group("/profile")
	{
		profile.GET("", handler.Get)
		profile.PATCH("/about", handler.UpdateAbout)
		profile.PATCH("/experiences", handler.UpdateExperiences)
		profile.PATCH("/education", handler.UpdateEducation)
		profile.PATCH("/skills", handler.UpdateSkills)
		profile.PATCH("/profile-image", handler.UpdateImage)
		profile.DELETE("/profile-image", handler.DeleteImage)
	}
}

type AboutRequest struct {
	About string `json:"about"`
}

type ExperiencesRequest struct {
	Experiences []domain.Experience `json:"experiences"`
}

type EducationRequest struct {
	Education []domain.Education `json:"education"`
}

type SkillsRequest struct {
	Skills []domain.Skill `json:"skills"`
}

// ProfileImageRequest carries a base64 image, optionally as a data URL.
type ProfileImageRequest struct {
	ProfileImage string `json:"profile_image" binding:"required"`
}

// Get godoc
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, _ := currentUser(c)
	profile, err := h.profileUC.Get(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpdateAbout godoc
// @Summary      Replace the "about" text
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      AboutRequest  true  "About"
// @Success      200   {object}  response.Response
// @Router       /profile/about [patch]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateAbout(c *gin.Context) {
	var req AboutRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)
	h.respond(c)(h.profileUC.UpdateAbout(c.Request.Context(), userID, req.About))
}

// UpdateExperiences godoc
// @Summary      Replace the experience list
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      ExperiencesRequest  true  "Experiences"
// @Success      200   {object}  response.Response
// @Router       /profile/experiences [patch]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateExperiences(c *gin.Context) {
	var req ExperiencesRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)
	h.respond(c)(h.profileUC.UpdateExperiences(c.Request.Context(), userID, req.Experiences))
}

// UpdateEducation godoc
// @Summary      Replace the education list
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      EducationRequest  true  "Education"
// @Success      200   {object}  response.Response
// @Router       /profile/education [patch]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateEducation(c *gin.Context) {
	var req EducationRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)
	h.respond(c)(h.profileUC.UpdateEducation(c.Request.Context(), userID, req.Education))
}

// UpdateSkills godoc
// @Summary      Replace the skill list
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      SkillsRequest  true  "Skills"
// @Success      200   {object}  response.Response
// @Router       /profile/skills [patch]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateSkills(c *gin.Context) {
	var req SkillsRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)
	h.respond(c)(h.profileUC.UpdateSkills(c.Request.Context(), userID, req.Skills))
}

// UpdateImage godoc
// @Summary      Upload a profile picture
// @Description  Accepts base64 JPEG, PNG or WebP; stored resized as JPEG.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      ProfileImageRequest  true  "Image"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Router       /profile/profile-image [patch]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateImage(c *gin.Context) {
	var req ProfileImageRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := currentUser(c)
	h.respond(c)(h.profileUC.UpdateImage(c.Request.Context(), userID, req.ProfileImage))
}

// DeleteImage godoc
// @Summary      Remove the profile picture
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /profile/profile-image [delete]
// @Security     BearerAuth
func (h *ProfileHandler) DeleteImage(c *gin.Context) {
	userID, _ := currentUser(c)
	h.respond(c)(h.profileUC.DeleteImage(c.Request.Context(), userID))
}

func (h *ProfileHandler) respond(c *gin.Context) func(*domain.Profile, error) {
	return func(profile *domain.Profile, err error) {
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusOK, "Profile updated", profile)
	}
}
