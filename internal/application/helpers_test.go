package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/infrastructure/memory"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, body)
	return nil
}

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]entity.Profile
	removed []string
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]entity.Profile{}} }

func (f *fakeIndex) Index(_ context.Context, p *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.docs[p.UserID] = *p
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, userID)
	f.removed = append(f.removed, userID)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, q string, _ int) ([]entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []entity.Profile{}
	for _, p := range f.docs {
		if strings.Contains(p.Handle, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

var errUnavailable = errors.New("backend unavailable")

type env struct {
	store    *memory.Store
	users    *UserService
	profiles *ProfileService
	posts    *PostService
	jobs     *fakePublisher
	index    *fakeIndex
	jwt      *helpers.JWTManager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	jobs := &fakePublisher{}
	index := newFakeIndex()

	users := NewUserService(store.Users(), store, helpers.NewPasswordHasher(bcrypt.MinCost), jwt, nil)
	users.Jobs = jobs
	users.Index = index
	users.AppName = "DevConnector"

	profiles := NewProfileService(store.Profiles(), nil)
	profiles.Index = index

	return &env{
		store:    store,
		users:    users,
		profiles: profiles,
		posts:    NewPostService(store.Posts(), nil),
		jobs:     jobs,
		index:    index,
		jwt:      jwt,
	}
}

func (e *env) register(t *testing.T, name, email string) helpers.Identity {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "secret123", PasswordConfirm: "secret123",
	})
	require.NoError(t, err)
	return helpers.Identity{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

func (e *env) profile(t *testing.T, userID, handle string) *entity.Profile {
	t.Helper()
	p, err := e.profiles.Upsert(context.Background(), userID, ProfileInput{
		Handle: handle, Status: "Developer", Skills: "go, sql",
	})
	require.NoError(t, err)
	return p
}
