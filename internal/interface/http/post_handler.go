package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/pkg/response"
)

type PostHandler struct {
	Svc    *app.PostService
	Logger logrus.FieldLogger
}

func NewPostHandler(svc *app.PostService, logger logrus.FieldLogger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

func (h *PostHandler) Test(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"msg": "Posts Works"}, "ok", nil)
}

func (h *PostHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "posts", map[string]any{"count": len(list)})
}

func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post", nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	var in app.PostInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), *id, in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post created", nil)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id.ID, c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true}, "post deleted", nil)
}

func (h *PostHandler) Like(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	p, err := h.Svc.Like(c.Request.Context(), id.ID, c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post liked", nil)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	p, err := h.Svc.Unlike(c.Request.Context(), id.ID, c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "post unliked", nil)
}

func (h *PostHandler) Comment(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	var in app.CommentInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.Svc.Comment(c.Request.Context(), *id, c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "comment added", nil)
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	p, err := h.Svc.DeleteComment(c.Request.Context(), id.ID, c.Param("id"), c.Param("comment_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "comment removed", nil)
}
