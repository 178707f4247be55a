package helpers

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

const gravatarBase = "https://www.gravatar.com/avatar/"

// GravatarURL derives the avatar URL for an email: 200px, PG rating, mystery-man fallback.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")
	return gravatarBase + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
