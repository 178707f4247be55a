package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/apperror"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

type PostService struct {
	Posts  repo.PostRepository
	Logger logrus.FieldLogger

	now func() time.Time
}

func NewPostService(posts repo.PostRepository, logger logrus.FieldLogger) *PostService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &PostService{Posts: posts, Logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

func postNotFound(err error, op string) error {
	return notFoundAs(apperror.Wrap(apperror.KindInternal, op, err), op, "nopostfound", msgNoPost)
}

func notAuthorized(op string) error {
	return apperror.Field(apperror.KindForbidden, op, "notauthorized", msgNotAuthorized)
}

// List returns all posts newest first.
func (s *PostService) List(ctx context.Context) ([]entity.Post, error) {
	out, err := s.Posts.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "posts.List", err)
	}
	return out, nil
}

func (s *PostService) Get(ctx context.Context, postID string) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, postNotFound(err, "posts.Get")
	}
	return p, nil
}

// Create stores a post signed with the author's current name and avatar.
func (s *PostService) Create(ctx context.Context, author helpers.Identity, in PostInput) (*entity.Post, error) {
	const op = "posts.Create"
	in.Text = strings.TrimSpace(in.Text)
	if err := check(op, in); err != nil {
		return nil, err
	}
	p := &entity.Post{
		Text:      in.Text,
		Name:      author.Name,
		AvatarURL: author.AvatarURL,
		UserID:    author.ID,
		Likes:     []string{},
		Comments:  []entity.Comment{},
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, op, err)
	}
	return p, nil
}

// Delete removes a post owned by userID.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	const op = "posts.Delete"
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return postNotFound(err, op)
	}
	if p.UserID != userID {
		return notAuthorized(op)
	}
	if err := s.Posts.Delete(ctx, postID); err != nil {
		return postNotFound(err, op)
	}
	helpers.LogInfo(s.Logger, "post deleted", logrus.Fields{"op": op, "user_id": userID, "entity_id": postID})
	return nil
}

// Like adds userID to the post's likes. A second like is rejected and leaves
// the likes unchanged.
func (s *PostService) Like(ctx context.Context, userID, postID string) (*entity.Post, error) {
	const op = "posts.Like"
	p, added, err := s.Posts.AddLike(ctx, postID, userID)
	if err != nil {
		return nil, postNotFound(err, op)
	}
	if !added {
		return nil, apperror.Field(apperror.KindBadRequest, op, "alreadyliked", msgAlreadyLiked)
	}
	return p, nil
}

func (s *PostService) Unlike(ctx context.Context, userID, postID string) (*entity.Post, error) {
	const op = "posts.Unlike"
	p, removed, err := s.Posts.RemoveLike(ctx, postID, userID)
	if err != nil {
		return nil, postNotFound(err, op)
	}
	if !removed {
		return nil, apperror.Field(apperror.KindBadRequest, op, "notliked", msgNotLiked)
	}
	return p, nil
}

// Comment puts a new comment at the front of the post's comments.
func (s *PostService) Comment(ctx context.Context, author helpers.Identity, postID string, in CommentInput) (*entity.Post, error) {
	const op = "posts.Comment"
	in.Text = strings.TrimSpace(in.Text)
	if err := check(op, in); err != nil {
		return nil, err
	}
	p, err := s.Posts.PrependComment(ctx, postID, entity.Comment{
		ID:        uuid.NewString(),
		Text:      in.Text,
		Name:      author.Name,
		AvatarURL: author.AvatarURL,
		UserID:    author.ID,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, postNotFound(err, op)
	}
	return p, nil
}

// DeleteComment removes a comment written by userID.
func (s *PostService) DeleteComment(ctx context.Context, userID, postID, commentID string) (*entity.Post, error) {
	const op = "posts.DeleteComment"
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, postNotFound(err, op)
	}
	c := p.Comment(commentID)
	if c == nil {
		return nil, apperror.Field(apperror.KindNotFound, op, "commentnotexists", msgCommentNotExists)
	}
	if c.UserID != userID {
		return nil, notAuthorized(op)
	}
	p, removed, err := s.Posts.RemoveComment(ctx, postID, commentID, userID)
	if err != nil {
		return nil, postNotFound(err, op)
	}
	if !removed {
		// deleted by a concurrent request between the read and the update
		return nil, apperror.Field(apperror.KindNotFound, op, "commentnotexists", msgCommentNotExists)
	}
	return p, nil
}
