package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name         string `json:"name" validate:"notblank,min=2"`
	Email        string `json:"email" validate:"notblank,email"`
	Password     string `json:"password" validate:"pwd"`
	Confirm      string `json:"passwordConfirm" validate:"eqfield=Password"`
	Website      string `json:"website" validate:"omitempty,url"`
	From         string `json:"from" validate:"omitempty,ymd"`
	FieldOfStudy string `json:"fieldOfStudy" validate:"notblank"`
	Hidden       string `json:"-"`
}

func TestValidateOK(t *testing.T) {
	fields, ok := Validate(sample{
		Name: "Alice", Email: "a@x.com", Password: "secret1", Confirm: "secret1",
		Website: "https://a.dev", From: "2020-02-29", FieldOfStudy: "CS",
	})
	assert.True(t, ok)
	assert.Empty(t, fields)
}

func TestValidateMessages(t *testing.T) {
	fields, ok := Validate(sample{
		Name: "   ", Email: "nope", Password: "abc", Confirm: "abd",
		Website: "x", From: "2020-13-01",
	})
	assert.False(t, ok)
	assert.Equal(t, map[string]string{
		"name":            "Name field is required",
		"email":           "Email is invalid",
		"password":        "Password must be between 6 and 30 characters",
		"passwordConfirm": "Passwords must match",
		"website":         "Not a valid URL",
		"from":            "From must be a date formatted as YYYY-MM-DD",
		"fieldOfStudy":    "Field of study field is required",
	}, fields)
}

func TestToDetails(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte("{bad"), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("x")))
	assert.Nil(t, ToDetails(nil))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Field of study", Label("fieldOfStudy"))
	assert.Equal(t, "Password confirm", Label("passwordConfirm"))
	assert.Equal(t, "Field", Label(""))
}

func TestPasswordByteLimit(t *testing.T) {
	type pw struct {
		Password string `json:"password" validate:"pwd"`
	}

	fields, ok := Validate(pw{Password: strings.Repeat("密", 30)})
	assert.False(t, ok)
	assert.Equal(t, "Password is too long", fields["password"])

	_, ok = Validate(pw{Password: strings.Repeat("密", 24)})
	assert.True(t, ok)
}

func TestExcludedIfMessage(t *testing.T) {
	type entry struct {
		To      string `json:"to" validate:"omitempty,ymd,excluded_if=Current true"`
		Current bool   `json:"current"`
	}

	fields, ok := Validate(entry{To: "2021-01-01", Current: true})
	assert.False(t, ok)
	assert.Equal(t, "To must be empty when current is set", fields["to"])

	_, ok = Validate(entry{Current: true})
	assert.True(t, ok)
	_, ok = Validate(entry{To: "2021-01-01"})
	assert.True(t, ok)
}
