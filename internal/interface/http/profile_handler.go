package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/pkg/response"
)

type ProfileHandler struct {
	Svc    *app.ProfileService
	Logger logrus.FieldLogger
}

func NewProfileHandler(svc *app.ProfileService, logger logrus.FieldLogger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

func (h *ProfileHandler) Test(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"msg": "Profile Works"}, "ok", nil)
}

func (h *ProfileHandler) GetOwn(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	p, err := h.Svc.GetOwn(c.Request.Context(), id.ID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

func (h *ProfileHandler) All(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "profiles", map[string]any{"count": len(list)})
}

func (h *ProfileHandler) ByHandle(c *gin.Context) {
	p, err := h.Svc.ByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

func (h *ProfileHandler) ByUser(c *gin.Context) {
	p, err := h.Svc.ByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// Search is GET /profile/search?q=...&size=...
func (h *ProfileHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	list, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "search results", map[string]any{"count": len(list)})
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	var in app.ProfileInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.Svc.Upsert(c.Request.Context(), id.ID, in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile saved", nil)
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	var in app.ExperienceInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.Svc.AddExperience(c.Request.Context(), id.ID, in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "experience added", nil)
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	p, err := h.Svc.RemoveExperience(c.Request.Context(), id.ID, c.Param("exp_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "experience removed", nil)
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	var in app.EducationInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.Svc.AddEducation(c.Request.Context(), id.ID, in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "education added", nil)
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	p, err := h.Svc.RemoveEducation(c.Request.Context(), id.ID, c.Param("edu_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "education removed", nil)
}
