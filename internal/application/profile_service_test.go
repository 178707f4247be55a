package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector/pkg/apperror"
)

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"go", "sql", "docker"}, SplitSkills(" go, sql,,docker ,"))
	assert.Empty(t, SplitSkills(" , "))
}

func TestUpsertCreatesAndUpdates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "a@x.com")

	p, err := e.profiles.Upsert(ctx, a.ID, ProfileInput{
		Handle:  "alice",
		Status:  "Developer",
		Skills:  "go, sql , docker",
		Website: "https://alice.dev",
		Twitter: "https://twitter.com/alice",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql", "docker"}, p.Skills)
	assert.Equal(t, "https://twitter.com/alice", p.Social.Twitter)
	require.NotNil(t, p.User)
	assert.Equal(t, "Alice", p.User.Name)
	assert.Empty(t, p.Experience)
	created := p.CreatedAt

	_, err = e.profiles.AddExperience(ctx, a.ID, ExperienceInput{Title: "Dev", Company: "Acme", From: "2020-01-02"})
	require.NoError(t, err)

	p, err = e.profiles.Upsert(ctx, a.ID, ProfileInput{Handle: "alice2", Status: "Lead", Skills: "go"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", p.Handle)
	assert.Equal(t, "Lead", p.Status)
	assert.Empty(t, p.Social.Twitter, "upsert overwrites every scalar field")
	assert.Len(t, p.Experience, 1)
	assert.Equal(t, created, p.CreatedAt)

	_, err = e.profiles.ByHandle(ctx, "alice")
	assert.ErrorIs(t, err, apperror.ErrNotFound, "the old handle is released")

	assert.Equal(t, "alice2", e.index.docs[a.ID].Handle)
}

func TestUpsertHandleCollision(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "a@x.com")
	b := e.register(t, "Bob", "b@x.com")
	e.profile(t, a.ID, "taken")

	_, err := e.profiles.Upsert(ctx, b.ID, ProfileInput{Handle: "taken", Status: "Dev", Skills: "go"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, map[string]string{"handle": "That handle already exists"}, apperror.FieldsOf(err))

	_, err = e.profiles.Upsert(ctx, a.ID, ProfileInput{Handle: "taken", Status: "Still me", Skills: "go"})
	assert.NoError(t, err, "keeping one's own handle is fine")
}

func TestUpsertValidation(t *testing.T) {
	e := newEnv(t)
	a := e.register(t, "Alice", "a@x.com")

	_, err := e.profiles.Upsert(context.Background(), a.ID, ProfileInput{Handle: "x", Website: "not a url", Skills: " , "})
	require.Error(t, err)
	fields := apperror.FieldsOf(err)
	assert.Equal(t, "Handle must be at least 2 characters", fields["handle"])
	assert.Equal(t, "Status field is required", fields["status"])
	assert.Equal(t, "Not a valid URL", fields["website"])

	_, err = e.profiles.Upsert(context.Background(), a.ID, ProfileInput{Handle: "alice", Status: "Dev", Skills: " , "})
	assert.Equal(t, map[string]string{"skills": "Skills field is required"}, apperror.FieldsOf(err))
}

func TestProfileReads(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	list, err := e.profiles.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	a := e.register(t, "Alice", "a@x.com")
	b := e.register(t, "Bob", "b@x.com")

	_, err = e.profiles.GetOwn(ctx, a.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, map[string]string{"noprofile": "There is no profile for this user"}, apperror.FieldsOf(err))

	e.profile(t, a.ID, "alice")
	e.profile(t, b.ID, "bob")

	list, err = e.profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bob", list[0].Handle, "newest first")

	p, err := e.profiles.ByUserID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Handle)

	p, err = e.profiles.ByHandle(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, b.ID, p.UserID)
	assert.Equal(t, "Bob", p.User.Name)

	_, err = e.profiles.ByUserID(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestExperienceLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "a@x.com")

	_, err := e.profiles.AddExperience(ctx, a.ID, ExperienceInput{Title: "Dev", Company: "Acme", From: "2020-01-01"})
	assert.ErrorIs(t, err, apperror.ErrNotFound, "a profile is required first")

	e.profile(t, a.ID, "alice")

	p, err := e.profiles.AddExperience(ctx, a.ID, ExperienceInput{Title: "Dev", Company: "Acme", From: "2018-03-01", To: "2020-01-01"})
	require.NoError(t, err)
	p, err = e.profiles.AddExperience(ctx, a.ID, ExperienceInput{Title: "Lead", Company: "Initech", From: "2020-02-01", Current: true})
	require.NoError(t, err)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "Lead", p.Experience[0].Title, "most recent first")
	assert.Nil(t, p.Experience[0].To)
	assert.Equal(t, time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC), p.Experience[1].From)
	require.NotNil(t, p.Experience[1].To)
	lead, dev := p.Experience[0].ID, p.Experience[1].ID
	assert.NotEqual(t, lead, dev)

	p, err = e.profiles.RemoveExperience(ctx, a.ID, "does-not-exist")
	require.NoError(t, err)
	assert.Len(t, p.Experience, 2, "unknown id removes nothing")

	p, err = e.profiles.RemoveExperience(ctx, a.ID, lead)
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, dev, p.Experience[0].ID)
}

func TestExperienceValidation(t *testing.T) {
	e := newEnv(t)
	a := e.register(t, "Alice", "a@x.com")
	e.profile(t, a.ID, "alice")

	_, err := e.profiles.AddExperience(context.Background(), a.ID, ExperienceInput{From: "01/02/2020", To: "later"})
	require.Error(t, err)
	fields := apperror.FieldsOf(err)
	assert.Equal(t, "Title field is required", fields["title"])
	assert.Equal(t, "Company field is required", fields["company"])
	assert.Equal(t, "From must be a date formatted as YYYY-MM-DD", fields["from"])
	assert.Equal(t, "To must be a date formatted as YYYY-MM-DD", fields["to"])
}

func TestEntryDatesMustAgree(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "a@x.com")
	e.profile(t, a.ID, "alice")

	_, err := e.profiles.AddExperience(ctx, a.ID, ExperienceInput{Title: "Dev", Company: "Acme", From: "2020-01-01", To: "2021-01-01", Current: true})
	require.Error(t, err)
	assert.Equal(t, "To must be empty when current is set", apperror.FieldsOf(err)["to"])

	_, err = e.profiles.AddExperience(ctx, a.ID, ExperienceInput{Title: "Dev", Company: "Acme", From: "2020-01-01", To: "2019-12-31"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Equal(t, "To date cannot be before from date", apperror.FieldsOf(err)["to"])

	_, err = e.profiles.AddEducation(ctx, a.ID, EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2014-09-01", To: "2010-06-01"})
	require.Error(t, err)
	assert.Equal(t, "To date cannot be before from date", apperror.FieldsOf(err)["to"])

	_, err = e.profiles.AddEducation(ctx, a.ID, EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2014-09-01", To: "2018-06-01", Current: true})
	require.Error(t, err)
	assert.Equal(t, "To must be empty when current is set", apperror.FieldsOf(err)["to"])

	// same day is allowed
	p, err := e.profiles.AddExperience(ctx, a.ID, ExperienceInput{Title: "Dev", Company: "Acme", From: "2020-01-01", To: "2020-01-01"})
	require.NoError(t, err)
	assert.Len(t, p.Experience, 1)
	assert.Empty(t, p.Education)
}

func TestEducationLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "a@x.com")
	e.profile(t, a.ID, "alice")

	_, err := e.profiles.AddEducation(ctx, a.ID, EducationInput{School: "MIT", Degree: "BSc", From: "2010-09-01"})
	require.Error(t, err)
	assert.Equal(t, "Field of study field is required", apperror.FieldsOf(err)["fieldOfStudy"])

	p, err := e.profiles.AddEducation(ctx, a.ID, EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01", To: "2014-06-01"})
	require.NoError(t, err)
	p, err = e.profiles.AddEducation(ctx, a.ID, EducationInput{School: "ETH", Degree: "MSc", FieldOfStudy: "CS", From: "2014-09-01"})
	require.NoError(t, err)
	require.Len(t, p.Education, 2)
	assert.Equal(t, "ETH", p.Education[0].School)

	p, err = e.profiles.RemoveEducation(ctx, a.ID, p.Education[1].ID)
	require.NoError(t, err)
	require.Len(t, p.Education, 1)
	assert.Equal(t, "ETH", p.Education[0].School)

	b := e.register(t, "Bob", "b@x.com")
	_, err = e.profiles.RemoveEducation(ctx, b.ID, "any")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSearch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "a@x.com")
	e.profile(t, a.ID, "alice")

	_, err := e.profiles.Search(ctx, "  ", 10)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	out, err := e.profiles.Search(ctx, "ali", 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, a.ID, out[0].UserID)

	e.index.err = errUnavailable
	_, err = e.profiles.Search(ctx, "ali", 10)
	assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)

	e.profiles.Index = nil
	out, err = e.profiles.Search(ctx, "ali", 10)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestIndexFailureDoesNotFailWrites(t *testing.T) {
	e := newEnv(t)
	a := e.register(t, "Alice", "a@x.com")
	e.index.err = errUnavailable

	_, err := e.profiles.Upsert(context.Background(), a.ID, ProfileInput{Handle: "alice", Status: "Dev", Skills: "go"})
	assert.NoError(t, err)
}
