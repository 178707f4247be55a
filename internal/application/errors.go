package application

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/devconnector/pkg/apperror"
	"github.com/oksasatya/devconnector/pkg/validation"
)

// Client-facing messages keyed the way the web client reads them.
const (
	msgEmailExists      = "Email already exists"
	msgUserNotFound     = "User not found"
	msgPasswordWrong    = "Password incorrect"
	msgNoProfile        = "There is no profile for this user"
	msgHandleTaken      = "That handle already exists"
	msgNoPost           = "No post found with that ID"
	msgNotAuthorized    = "User not authorized"
	msgAlreadyLiked     = "User already liked this post"
	msgNotLiked         = "You have not yet liked this post"
	msgCommentNotExists = "Comment does not exist"
	msgToBeforeFrom     = "To date cannot be before from date"
)

const sideEffectTimeout = 3 * time.Second

// check runs the struct rules of in and returns a ValidationFailed error.
func check(op string, in any) error {
	if fields, ok := validation.Validate(in); !ok {
		return apperror.Validation(op, fields)
	}
	return nil
}

// notFoundAs replaces a bare NotFound with a client-facing field message and
// passes every other error through.
func notFoundAs(err error, op, field, msg string) error {
	if apperror.KindOf(err) == apperror.KindNotFound {
		e := apperror.Field(apperror.KindNotFound, op, field, msg)
		e.Err = err
		return e
	}
	return err
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// detached returns a context for best-effort side effects that should not be
// cut short by the client going away.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
}
