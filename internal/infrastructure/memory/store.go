package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/apperror"
)

// Store is an in-process document store. All three collections share one lock,
// which makes every mutation, including the account cascade, atomic.
type Store struct {
	mu       sync.RWMutex
	seq      int64
	users    map[string]userDoc
	emails   map[string]string // lower(email) -> user id
	profiles map[string]profileDoc
	handles  map[string]string // handle -> user id
	posts    map[string]postDoc

	now func() time.Time
}

type userDoc struct {
	entity.User
	seq int64
}

type profileDoc struct {
	entity.Profile
	seq int64
}

type postDoc struct {
	entity.Post
	seq int64
}

func NewStore() *Store {
	return &Store{
		users:    map[string]userDoc{},
		emails:   map[string]string{},
		profiles: map[string]profileDoc{},
		handles:  map[string]string{},
		posts:    map[string]postDoc{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Profiles() *ProfileRepository { return &ProfileRepository{s: s} }
func (s *Store) Posts() *PostRepository       { return &PostRepository{s: s} }

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func notFound(op string) error { return apperror.New(apperror.KindNotFound, op, nil) }

func ctxErr(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return apperror.Wrap(apperror.KindStoreUnavailable, op, err)
	}
	return nil
}

// DeleteAccount removes the user's profile and then the user under one lock.
func (s *Store) DeleteAccount(ctx context.Context, userID string) error {
	const op = "memory.DeleteAccount"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return notFound(op)
	}
	if p, ok := s.profiles[userID]; ok {
		delete(s.handles, p.Handle)
		delete(s.profiles, userID)
	}
	delete(s.emails, strings.ToLower(u.Email))
	delete(s.users, userID)
	return nil
}

// UserRepository is the users collection of a Store.
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	const op = "memory.Users.Create"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, taken := s.emails[key]; taken {
		return apperror.Field(apperror.KindConflict, op, "email", "Email already exists")
	}
	u.ID = uuid.NewString()
	u.CreatedAt = s.now()
	s.users[u.ID] = userDoc{User: *u, seq: s.next()}
	s.emails[key] = u.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	const op = "memory.Users.GetByID"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.users[id]
	if !ok {
		return nil, notFound(op)
	}
	u := d.User
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const op = "memory.Users.GetByEmail"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[strings.ToLower(email)]
	if !ok {
		return nil, notFound(op)
	}
	u := r.s.users[id].User
	return &u, nil
}

// ProfileRepository is the profiles collection of a Store.
type ProfileRepository struct{ s *Store }

// populate copies the profile and attaches the owner summary. Callers hold the lock.
func (r *ProfileRepository) populate(d profileDoc) entity.Profile {
	p := d.Profile
	p.Skills = slices.Clone(p.Skills)
	p.Experience = slices.Clone(p.Experience)
	p.Education = slices.Clone(p.Education)
	if u, ok := r.s.users[p.UserID]; ok {
		sum := u.Summary()
		p.User = &sum
	} else {
		p.User = nil
	}
	return p
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	const op = "memory.Profiles.GetByUserID"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.profiles[userID]
	if !ok {
		return nil, notFound(op)
	}
	p := r.populate(d)
	return &p, nil
}

func (r *ProfileRepository) GetByHandle(ctx context.Context, handle string) (*entity.Profile, error) {
	const op = "memory.Profiles.GetByHandle"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.handles[handle]
	if !ok {
		return nil, notFound(op)
	}
	p := r.populate(r.s.profiles[id])
	return &p, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]entity.Profile, error) {
	if err := ctxErr(ctx, "memory.Profiles.List"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	docs := make([]profileDoc, 0, len(r.s.profiles))
	for _, d := range r.s.profiles {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].seq > docs[j].seq })
	out := make([]entity.Profile, 0, len(docs))
	for _, d := range docs {
		out = append(out, r.populate(d))
	}
	return out, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *entity.Profile) (*entity.Profile, error) {
	const op = "memory.Profiles.Upsert"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, taken := s.handles[p.Handle]; taken && owner != p.UserID {
		return nil, apperror.Field(apperror.KindConflict, op, "handle", "That handle already exists")
	}
	next := *p
	next.User = nil
	next.Skills = slices.Clone(p.Skills)
	d, exists := s.profiles[p.UserID]
	if exists {
		delete(s.handles, d.Handle)
		next.Experience = d.Experience
		next.Education = d.Education
		next.CreatedAt = d.CreatedAt
		next.Version = d.Profile.Version + 1
	} else {
		d.seq = s.next()
		next.Experience = []entity.Experience{}
		next.Education = []entity.Education{}
		next.CreatedAt = s.now()
		next.Version = 1
	}
	d.Profile = next
	s.profiles[p.UserID] = d
	s.handles[p.Handle] = p.UserID
	out := r.populate(d)
	return &out, nil
}

// mutate applies fn to the stored profile of userID under the write lock.
func (r *ProfileRepository) mutate(ctx context.Context, op, userID string, fn func(p *entity.Profile)) (*entity.Profile, error) {
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.profiles[userID]
	if !ok {
		return nil, notFound(op)
	}
	fn(&d.Profile)
	d.Profile.Version++
	r.s.profiles[userID] = d
	out := r.populate(d)
	return &out, nil
}

func (r *ProfileRepository) PrependExperience(ctx context.Context, userID string, e entity.Experience) (*entity.Profile, error) {
	return r.mutate(ctx, "memory.Profiles.PrependExperience", userID, func(p *entity.Profile) {
		p.Experience = append([]entity.Experience{e}, p.Experience...)
	})
}

func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID, expID string) (*entity.Profile, error) {
	return r.mutate(ctx, "memory.Profiles.RemoveExperience", userID, func(p *entity.Profile) {
		p.Experience = slices.DeleteFunc(slices.Clone(p.Experience), func(e entity.Experience) bool { return e.ID == expID })
	})
}

func (r *ProfileRepository) PrependEducation(ctx context.Context, userID string, e entity.Education) (*entity.Profile, error) {
	return r.mutate(ctx, "memory.Profiles.PrependEducation", userID, func(p *entity.Profile) {
		p.Education = append([]entity.Education{e}, p.Education...)
	})
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID, eduID string) (*entity.Profile, error) {
	return r.mutate(ctx, "memory.Profiles.RemoveEducation", userID, func(p *entity.Profile) {
		p.Education = slices.DeleteFunc(slices.Clone(p.Education), func(e entity.Education) bool { return e.ID == eduID })
	})
}

// PostRepository is the posts collection of a Store.
type PostRepository struct{ s *Store }

func clonePost(d postDoc) *entity.Post {
	p := d.Post
	p.Likes = slices.Clone(p.Likes)
	p.Comments = slices.Clone(p.Comments)
	return &p
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	if err := ctxErr(ctx, "memory.Posts.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = r.s.now()
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []entity.Comment{}
	}
	r.s.posts[p.ID] = postDoc{Post: *clonePost(postDoc{Post: *p}), seq: r.s.next()}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	const op = "memory.Posts.GetByID"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.posts[id]
	if !ok {
		return nil, notFound(op)
	}
	return clonePost(d), nil
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	if err := ctxErr(ctx, "memory.Posts.List"); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	docs := make([]postDoc, 0, len(r.s.posts))
	for _, d := range r.s.posts {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].seq > docs[j].seq })
	out := make([]entity.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, *clonePost(d))
	}
	return out, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	const op = "memory.Posts.Delete"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return notFound(op)
	}
	delete(r.s.posts, id)
	return nil
}

// mutate applies fn to the stored post under the write lock; fn reports
// whether it changed anything.
func (r *PostRepository) mutate(ctx context.Context, op, id string, fn func(p *entity.Post) bool) (*entity.Post, bool, error) {
	if err := ctxErr(ctx, op); err != nil {
		return nil, false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.posts[id]
	if !ok {
		return nil, false, notFound(op)
	}
	p := clonePost(d)
	if !fn(p) {
		return p, false, nil
	}
	d.Post = *p
	r.s.posts[id] = d
	return clonePost(d), true, nil
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) (*entity.Post, bool, error) {
	return r.mutate(ctx, "memory.Posts.AddLike", postID, func(p *entity.Post) bool {
		if p.LikedBy(userID) {
			return false
		}
		p.Likes = append(p.Likes, userID)
		return true
	})
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) (*entity.Post, bool, error) {
	return r.mutate(ctx, "memory.Posts.RemoveLike", postID, func(p *entity.Post) bool {
		if !p.LikedBy(userID) {
			return false
		}
		p.Likes = slices.DeleteFunc(p.Likes, func(id string) bool { return id == userID })
		return true
	})
}

func (r *PostRepository) PrependComment(ctx context.Context, postID string, c entity.Comment) (*entity.Post, error) {
	p, _, err := r.mutate(ctx, "memory.Posts.PrependComment", postID, func(p *entity.Post) bool {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = r.s.now()
		}
		p.Comments = append([]entity.Comment{c}, p.Comments...)
		return true
	})
	return p, err
}

func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID, authorID string) (*entity.Post, bool, error) {
	return r.mutate(ctx, "memory.Posts.RemoveComment", postID, func(p *entity.Post) bool {
		c := p.Comment(commentID)
		if c == nil || c.UserID != authorID {
			return false
		}
		p.Comments = slices.DeleteFunc(p.Comments, func(c entity.Comment) bool { return c.ID == commentID })
		return true
	})
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.ProfileRepository = (*ProfileRepository)(nil)
	_ repository.PostRepository    = (*PostRepository)(nil)
	_ repository.AccountStore      = (*Store)(nil)
)
