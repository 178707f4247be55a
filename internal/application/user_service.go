package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/apperror"
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/mailer"
)

// JobPublisher puts a JSON job on a queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type UserService struct {
	Users    repo.UserRepository
	Accounts repo.AccountStore
	Hasher   *helpers.PasswordHasher
	JWT      *helpers.JWTManager
	Logger   logrus.FieldLogger

	// Optional collaborators; nil disables them.
	Index   repo.ProfileIndex
	Jobs    JobPublisher
	AppName string
	SiteURL string
}

func NewUserService(users repo.UserRepository, accounts repo.AccountStore, hasher *helpers.PasswordHasher, jwt *helpers.JWTManager, logger logrus.FieldLogger) *UserService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &UserService{
		Users:    users,
		Accounts: accounts,
		Hasher:   hasher,
		JWT:      jwt,
		Logger:   logger,
	}
}

type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Register creates a user. The email pre-check gives the common case a clean
// message; the unique index still decides concurrent registrations.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	const op = "users.Register"
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := check(op, in); err != nil {
		return nil, err
	}

	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Field(apperror.KindConflict, op, "email", msgEmailExists)
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, apperror.Wrap(apperror.KindInternal, op, err)
	}

	digest, err := s.Hasher.Hash(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return nil, apperror.Field(apperror.KindValidation, op, "password", "Password is too long")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, op, err)
	}
	u := &entity.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  digest,
		AvatarURL: helpers.GravatarURL(in.Email),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, op, err)
	}

	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"op": op, "user_id": u.ID})
	s.publishWelcome(ctx, u)
	return u, nil
}

func (s *UserService) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Jobs == nil {
		return
	}
	c, cancel := detached(ctx)
	defer cancel()
	job := mailer.Welcome(s.AppName, s.SiteURL, u.Name, u.Email)
	if err := s.Jobs.PublishJSON(c, job); err != nil {
		helpers.LogWarn(s.Logger, "publish welcome email failed", err, logrus.Fields{"user_id": u.ID})
	}
}

// Login reveals whether an email is registered, matching Register which must
// reveal it anyway.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	const op = "users.Login"
	in.Email = strings.TrimSpace(in.Email)
	if err := check(op, in); err != nil {
		return nil, err
	}

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, notFoundAs(apperror.Wrap(apperror.KindInternal, op, err), op, "email", msgUserNotFound)
	}
	if !s.Hasher.Verify(in.Password, u.Password) {
		return nil, apperror.Field(apperror.KindInvalidCredential, op, "password", msgPasswordWrong)
	}

	tok, _, err := s.JWT.Issue(helpers.Identity{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, op, err)
	}
	return &LoginResult{Success: true, Token: "Bearer " + tok}, nil
}

// Current returns the identity carried by the verified token.
func (s *UserService) Current(id *helpers.Identity) (*helpers.Identity, error) {
	if id == nil {
		return nil, apperror.New(apperror.KindUnauthenticated, "users.Current", nil)
	}
	cp := *id
	return &cp, nil
}

// DeleteAccount removes the user and their profile atomically. Posts are kept.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	const op = "users.DeleteAccount"
	if err := s.Accounts.DeleteAccount(ctx, userID); err != nil {
		return notFoundAs(apperror.Wrap(apperror.KindInternal, op, err), op, "nouser", msgUserNotFound)
	}
	helpers.LogInfo(s.Logger, "account deleted", logrus.Fields{"op": op, "user_id": userID})

	if s.Index != nil {
		c, cancel := detached(ctx)
		defer cancel()
		if err := s.Index.Remove(c, userID); err != nil {
			helpers.LogWarn(s.Logger, "search index remove failed", err, logrus.Fields{"user_id": userID})
		}
	}
	return nil
}
