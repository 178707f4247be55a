package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/devconnector/pkg/mailer/templates"
)

// ErrBadJob marks a message that can never be delivered and should be dropped.
var ErrBadJob = errors.New("bad email job")

// Compose renders the job into subject, text and html bodies.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", fmt.Errorf("%w: missing recipient", ErrBadJob)
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", fmt.Errorf("%w: empty message", ErrBadJob)
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	subject, text, html, err = mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	return strings.TrimSpace(subject), text, html, nil
}

// Deliver decodes one queue message, renders it and hands it to s.
// Errors wrapping ErrBadJob are permanent; anything else may be retried.
func Deliver(ctx context.Context, s Sender, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	subject, text, html, err := Compose(job)
	if err != nil {
		return err
	}
	return s.Send(ctx, job.To, subject, text, html)
}

// Welcome builds the job sent after registration.
func Welcome(appName, siteURL, name, email string) EmailJob {
	return EmailJob{
		To:       email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(appName, name, email, mailtpl.WithSiteURL(siteURL)),
	}
}
