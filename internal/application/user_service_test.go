package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector/pkg/apperror"
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/mailer"
)

func TestRegister(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret123", PasswordConfirm: "secret123"})
	require.Error(t, err, "name shorter than 2 characters")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Nil(t, u)

	u, err = e.users.Register(ctx, RegisterInput{Name: "Alice", Email: " A@X.com ", Password: "secret123", PasswordConfirm: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, helpers.GravatarURL("a@x.com"), u.AvatarURL)
	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, strings.HasPrefix(u.Password, "$2"))

	require.Len(t, e.jobs.jobs, 1)
	job, ok := e.jobs.jobs[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", job.To)
	assert.Equal(t, "welcome", job.Template)
}

func TestRegisterTwiceConflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.register(t, "Alice", "a@x.com")

	_, err := e.users.Register(ctx, RegisterInput{Name: "Other", Email: "a@x.com", Password: "another1", PasswordConfirm: "another1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, map[string]string{"email": "Email already exists"}, apperror.FieldsOf(err))

	stored, err := e.store.Users().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Alice", stored.Name)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		name  string
		in    RegisterInput
		field string
		msg   string
	}{
		{"blank name", RegisterInput{Name: "  ", Email: "a@x.com", Password: "secret123", PasswordConfirm: "secret123"}, "name", "Name field is required"},
		{"bad email", RegisterInput{Name: "Alice", Email: "nope", Password: "secret123", PasswordConfirm: "secret123"}, "email", "Email is invalid"},
		{"short password", RegisterInput{Name: "Alice", Email: "a@x.com", Password: "abc", PasswordConfirm: "abc"}, "password", "Password must be between 6 and 30 characters"},
		{"multi-byte password over bcrypt limit", RegisterInput{Name: "Alice", Email: "a@x.com", Password: strings.Repeat("密", 30), PasswordConfirm: strings.Repeat("密", 30)}, "password", "Password is too long"},
		{"mismatch", RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret123", PasswordConfirm: "secret124"}, "passwordConfirm", "Passwords must match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.users.Register(context.Background(), tc.in)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
			assert.Equal(t, tc.msg, apperror.FieldsOf(err)[tc.field])
		})
	}
	assert.Empty(t, e.jobs.jobs)
}

func TestRegisterMultiByteWithinLimit(t *testing.T) {
	e := newEnv(t)
	pw := strings.Repeat("密", 24) // 72 bytes

	_, err := e.users.Register(context.Background(), RegisterInput{Name: "Alice", Email: "a@x.com", Password: pw, PasswordConfirm: pw})
	require.NoError(t, err)

	res, err := e.users.Login(context.Background(), LoginInput{Email: "a@x.com", Password: pw})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestRegisterSurvivesPublishFailure(t *testing.T) {
	e := newEnv(t)
	e.jobs.err = errUnavailable

	_, err := e.users.Register(context.Background(), RegisterInput{Name: "Alice", Email: "a@x.com", Password: "secret123", PasswordConfirm: "secret123"})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id := e.register(t, "Alice", "a@x.com")

	res, err := e.users.Login(ctx, LoginInput{Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.True(t, strings.HasPrefix(res.Token, "Bearer "))

	got, err := e.jwt.Verify(strings.TrimPrefix(res.Token, "Bearer "))
	require.NoError(t, err)
	assert.Equal(t, id, *got)
}

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "Alice", "a@x.com")

	_, err := e.users.Login(ctx, LoginInput{Email: "a@x.com", Password: "wrong-pass"})
	assert.Equal(t, apperror.KindInvalidCredential, apperror.KindOf(err))
	assert.Equal(t, map[string]string{"password": "Password incorrect"}, apperror.FieldsOf(err))

	_, err = e.users.Login(ctx, LoginInput{Email: "b@x.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, map[string]string{"email": "User not found"}, apperror.FieldsOf(err))

	_, err = e.users.Login(ctx, LoginInput{Email: "a@x.com"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Equal(t, "Password field is required", apperror.FieldsOf(err)["password"])
}

func TestCurrent(t *testing.T) {
	e := newEnv(t)

	_, err := e.users.Current(nil)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	id := helpers.Identity{ID: "u1", Name: "Alice", AvatarURL: "x"}
	got, err := e.users.Current(&id)
	require.NoError(t, err)
	assert.Equal(t, id, *got)
}

func TestDeleteAccountRemovesOnlyOwnProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "a@x.com")
	b := e.register(t, "Bob", "b@x.com")
	e.profile(t, a.ID, "alice")
	e.profile(t, b.ID, "bob")
	post, err := e.posts.Create(ctx, a, PostInput{Text: "a post that stays around"})
	require.NoError(t, err)

	require.NoError(t, e.users.DeleteAccount(ctx, a.ID))

	_, err = e.profiles.GetOwn(ctx, a.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = e.store.Users().GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	other, err := e.profiles.GetOwn(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", other.Handle)

	_, err = e.posts.Get(ctx, post.ID)
	assert.NoError(t, err, "posts are not cascaded")

	assert.Equal(t, []string{a.ID}, e.index.removed)
	_, indexed := e.index.docs[b.ID]
	assert.True(t, indexed)

	assert.ErrorIs(t, e.users.DeleteAccount(ctx, a.ID), apperror.ErrNotFound)
}

func TestDeleteAccountThenRegisterAgain(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "a@x.com")
	require.NoError(t, e.users.DeleteAccount(ctx, a.ID))

	again := e.register(t, "Alice", "a@x.com")
	assert.NotEqual(t, a.ID, again.ID)
}
