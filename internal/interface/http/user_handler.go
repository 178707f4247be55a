package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/pkg/response"
)

type UserHandler struct {
	Svc    *app.UserService
	Logger logrus.FieldLogger
}

func NewUserHandler(svc *app.UserService, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func (h *UserHandler) Test(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"msg": "Users Works"}, "ok", nil)
}

func (h *UserHandler) Register(c *gin.Context) {
	var in app.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user registered", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var in app.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

func (h *UserHandler) Current(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	cur, err := h.Svc.Current(id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cur, "current user", nil)
}

// DeleteAccount removes the caller's user and profile.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	id, ok := identity(c, h.Logger)
	if !ok {
		return
	}
	if err := h.Svc.DeleteAccount(c.Request.Context(), id.ID); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true}, "account deleted", nil)
}
