package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/apperror"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

type ProfileService struct {
	Profiles repo.ProfileRepository
	Index    repo.ProfileIndex // optional
	Logger   logrus.FieldLogger
}

func NewProfileService(profiles repo.ProfileRepository, logger logrus.FieldLogger) *ProfileService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &ProfileService{Profiles: profiles, Logger: logger}
}

func (s *ProfileService) GetOwn(ctx context.Context, userID string) (*entity.Profile, error) {
	const op = "profile.GetOwn"
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(apperror.Wrap(apperror.KindInternal, op, err), op, "noprofile", msgNoProfile)
	}
	return p, nil
}

// List returns every profile, newest first. An empty store yields an empty list.
func (s *ProfileService) List(ctx context.Context) ([]entity.Profile, error) {
	out, err := s.Profiles.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "profile.List", err)
	}
	return out, nil
}

func (s *ProfileService) ByHandle(ctx context.Context, handle string) (*entity.Profile, error) {
	const op = "profile.ByHandle"
	p, err := s.Profiles.GetByHandle(ctx, strings.TrimSpace(handle))
	if err != nil {
		return nil, notFoundAs(apperror.Wrap(apperror.KindInternal, op, err), op, "noprofile", msgNoProfile)
	}
	return p, nil
}

func (s *ProfileService) ByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	const op = "profile.ByUserID"
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(apperror.Wrap(apperror.KindInternal, op, err), op, "noprofile", msgNoProfile)
	}
	return p, nil
}

// SplitSkills turns "go, sql,,docker" into ["go" "sql" "docker"].
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Upsert creates the caller's profile or overwrites its scalar fields.
// Experience, education and createdAt survive an update.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*entity.Profile, error) {
	const op = "profile.Upsert"
	in.Handle = strings.TrimSpace(in.Handle)
	if err := check(op, in); err != nil {
		return nil, err
	}
	skills := SplitSkills(in.Skills)
	if len(skills) == 0 {
		return nil, apperror.Validation(op, map[string]string{"skills": "Skills field is required"})
	}

	if other, err := s.Profiles.GetByHandle(ctx, in.Handle); err == nil && other.UserID != userID {
		return nil, apperror.Field(apperror.KindConflict, op, "handle", msgHandleTaken)
	} else if err != nil && apperror.KindOf(err) != apperror.KindNotFound {
		return nil, apperror.Wrap(apperror.KindInternal, op, err)
	}

	p, err := s.Profiles.Upsert(ctx, &entity.Profile{
		UserID:         userID,
		Handle:         in.Handle,
		Company:        strings.TrimSpace(in.Company),
		Website:        strings.TrimSpace(in.Website),
		Location:       strings.TrimSpace(in.Location),
		Status:         strings.TrimSpace(in.Status),
		Skills:         skills,
		Bio:            strings.TrimSpace(in.Bio),
		GithubUsername: strings.TrimSpace(in.GithubUsername),
		Social: entity.Social{
			YouTube:   in.YouTube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			LinkedIn:  in.LinkedIn,
			Instagram: in.Instagram,
		},
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, op, err)
	}
	s.reindex(ctx, p)
	return p, nil
}

func (s *ProfileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*entity.Profile, error) {
	const op = "profile.AddExperience"
	if err := check(op, in); err != nil {
		return nil, err
	}
	from, err := parseDate(in.From)
	if err != nil || from == nil {
		return nil, apperror.Validation(op, map[string]string{"from": "From must be a date formatted as YYYY-MM-DD"})
	}
	to, err := parseDate(in.To)
	if err != nil {
		return nil, apperror.Validation(op, map[string]string{"to": "To must be a date formatted as YYYY-MM-DD"})
	}
	if to != nil && to.Before(*from) {
		return nil, apperror.Validation(op, map[string]string{"to": msgToBeforeFrom})
	}
	p, err := s.Profiles.PrependExperience(ctx, userID, entity.Experience{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        *from,
		To:          to,
		Current:     in.Current,
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		return nil, notFoundAs(apperror.Wrap(apperror.KindInternal, op, err), op, "noprofile", msgNoProfile)
	}
	s.reindex(ctx, p)
	return p, nil
}

// RemoveExperience drops the entry with id. An unknown id leaves the profile unchanged.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*entity.Profile, error) {
	const op = "profile.RemoveExperience"
	p, err := s.Profiles.RemoveExperience(ctx, userID, expID)
	if err != nil {
		return nil, notFoundAs(apperror.Wrap(apperror.KindInternal, op, err), op, "noprofile", msgNoProfile)
	}
	s.reindex(ctx, p)
	return p, nil
}

func (s *ProfileService) AddEducation(ctx context.Context, userID string, in EducationInput) (*entity.Profile, error) {
	const op = "profile.AddEducation"
	if err := check(op, in); err != nil {
		return nil, err
	}
	from, err := parseDate(in.From)
	if err != nil || from == nil {
		return nil, apperror.Validation(op, map[string]string{"from": "From must be a date formatted as YYYY-MM-DD"})
	}
	to, err := parseDate(in.To)
	if err != nil {
		return nil, apperror.Validation(op, map[string]string{"to": "To must be a date formatted as YYYY-MM-DD"})
	}
	if to != nil && to.Before(*from) {
		return nil, apperror.Validation(op, map[string]string{"to": msgToBeforeFrom})
	}
	p, err := s.Profiles.PrependEducation(ctx, userID, entity.Education{
		ID:           uuid.NewString(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         *from,
		To:           to,
		Current:      in.Current,
		Description:  strings.TrimSpace(in.Description),
	})
	if err != nil {
		return nil, notFoundAs(apperror.Wrap(apperror.KindInternal, op, err), op, "noprofile", msgNoProfile)
	}
	s.reindex(ctx, p)
	return p, nil
}

// RemoveEducation drops the entry with id. An unknown id leaves the profile unchanged.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*entity.Profile, error) {
	const op = "profile.RemoveEducation"
	p, err := s.Profiles.RemoveEducation(ctx, userID, eduID)
	if err != nil {
		return nil, notFoundAs(apperror.Wrap(apperror.KindInternal, op, err), op, "noprofile", msgNoProfile)
	}
	s.reindex(ctx, p)
	return p, nil
}

// Search queries the profile index. Without an index it returns no results.
func (s *ProfileService) Search(ctx context.Context, q string, size int) ([]entity.Profile, error) {
	const op = "profile.Search"
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.Validation(op, map[string]string{"q": "Search text is required"})
	}
	if s.Index == nil {
		return []entity.Profile{}, nil
	}
	out, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStoreUnavailable, op, err)
	}
	return out, nil
}

func (s *ProfileService) reindex(ctx context.Context, p *entity.Profile) {
	if s.Index == nil {
		return
	}
	c, cancel := detached(ctx)
	defer cancel()
	if err := s.Index.Index(c, p); err != nil {
		helpers.LogWarn(s.Logger, "search index update failed", err, logrus.Fields{"user_id": p.UserID})
	}
}
