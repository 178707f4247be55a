package repository

import (
	"context"

	"github.com/oksasatya/devconnector/internal/domain/entity"
)

// Implementations report failures as *apperror.Error: NotFound for a missing
// document, Conflict for a unique index violation, StoreUnavailable for
// timeouts and connection failures.

// UserRepository defines the interface for user-related store operations.
type UserRepository interface {
	// Create assigns ID and CreatedAt. A duplicate email is a Conflict.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// ProfileRepository stores profiles keyed by user id. Every returned profile has
// its User summary populated.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*entity.Profile, error)
	List(ctx context.Context) ([]entity.Profile, error)
	// Upsert creates the profile of p.UserID or replaces its scalar fields,
	// keeping experience, education and createdAt. A handle taken by another
	// user is a Conflict.
	Upsert(ctx context.Context, p *entity.Profile) (*entity.Profile, error)
	PrependExperience(ctx context.Context, userID string, e entity.Experience) (*entity.Profile, error)
	// RemoveExperience is a no-op when no entry has the id.
	RemoveExperience(ctx context.Context, userID, expID string) (*entity.Profile, error)
	PrependEducation(ctx context.Context, userID string, e entity.Education) (*entity.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*entity.Profile, error)
}

// PostRepository mutates likes and comments with atomic store updates so
// concurrent requests on the same post do not lose writes.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// List returns posts newest first.
	List(ctx context.Context) ([]entity.Post, error)
	Delete(ctx context.Context, id string) error
	// AddLike returns added=false, with the current post, when userID already likes it.
	AddLike(ctx context.Context, postID, userID string) (p *entity.Post, added bool, err error)
	// RemoveLike returns removed=false when userID did not like the post.
	RemoveLike(ctx context.Context, postID, userID string) (p *entity.Post, removed bool, err error)
	PrependComment(ctx context.Context, postID string, c entity.Comment) (*entity.Post, error)
	// RemoveComment deletes the comment only if authorID wrote it; removed
	// reports whether a comment was deleted.
	RemoveComment(ctx context.Context, postID, commentID, authorID string) (p *entity.Post, removed bool, err error)
}

// AccountStore removes a user together with the profile it owns.
type AccountStore interface {
	// DeleteAccount deletes the profile of userID and then the user in one
	// transaction. A missing user is NotFound; a missing profile is fine.
	DeleteAccount(ctx context.Context, userID string) error
}

// ProfileIndex is the search side of profiles.
type ProfileIndex interface {
	Index(ctx context.Context, p *entity.Profile) error
	Remove(ctx context.Context, userID string) error
	Search(ctx context.Context, q string, size int) ([]entity.Profile, error)
}
