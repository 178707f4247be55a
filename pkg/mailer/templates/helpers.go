package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// WithSiteURL sets the site link and the "create your profile" link under it.
func WithSiteURL(url string) Option {
	return func(d *EmailData) {
		url = strings.TrimRight(strings.TrimSpace(url), "/")
		if url == "" {
			return
		}
		d.SiteURL = url
		d.ProfileURL = url + "/create-profile"
	}
}

func NewWelcomeData(appName, name, email string, opts ...Option) map[string]any {
	d := EmailData{Name: name, Email: email, AppName: appName}
	for _, opt := range append([]Option{WithTime(time.Now())}, opts...) {
		opt(&d)
	}
	return ToMap(d)
}
