package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/apperror"
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/response"
	"github.com/oksasatya/devconnector/pkg/validation"
)

var kindMessages = map[apperror.Kind]string{
	apperror.KindValidation:        "validation failed",
	apperror.KindConflict:          "already exists",
	apperror.KindUnauthenticated:   "unauthorized",
	apperror.KindForbidden:         "forbidden",
	apperror.KindNotFound:          "not found",
	apperror.KindInvalidCredential: "invalid credentials",
	apperror.KindBadRequest:        "bad request",
	apperror.KindStoreUnavailable:  "service unavailable",
	apperror.KindInternal:          "internal server error",
}

// writeError maps err to its fixed status and writes the envelope. Field
// details are only sent for client errors; causes are only logged.
func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	kind := apperror.KindOf(err)
	status := kind.Status()

	fields := logrus.Fields{
		"kind":       kind,
		"status":     status,
		"request_id": c.GetString("request_id"),
	}
	var ae *apperror.Error
	if errors.As(err, &ae) && ae.Op != "" {
		fields["op"] = ae.Op
	}
	if uid := c.GetString(middleware.CtxUserIDKey); uid != "" {
		fields["user_id"] = uid
	}
	if id := c.Param("id"); id != "" {
		fields["entity_id"] = id
	}

	var details any
	if status >= http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, fields)
	} else {
		if f := apperror.FieldsOf(err); len(f) > 0 {
			details = f
		}
		if logger != nil {
			logger.WithFields(fields).WithField("error", err.Error()).Info("request rejected")
		}
	}
	response.Error[any](c, status, kindMessages[kind], details)
}

// bindJSON decodes the body into dst. An empty body decodes as {} so the
// validators report the missing fields.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

// identity returns the caller set by middleware.Auth, writing 401 when absent.
func identity(c *gin.Context, logger logrus.FieldLogger) (*helpers.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, logger, apperror.New(apperror.KindUnauthenticated, "http.identity", map[string]string{"unauthorized": "Unauthorized"}))
		return nil, false
	}
	return id, true
}
