package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

// profileSelect projects a profile joined with the public fields of its owner.
// The password hash is never part of this projection.
const profileSelect = `
	SELECT p.user_id::text, p.handle, p.company, p.website, p.location, p.status,
	       p.skills, p.bio, p.github_username, p.social, p.experience, p.education, p.created_at, p.version,
	       u.id IS NOT NULL, COALESCE(u.name, ''), COALESCE(u.avatar_url, '')
	FROM %s p
	LEFT JOIN users u ON u.id = p.user_id`

func profileFrom(src string) string {
	return fmt.Sprintf(profileSelect, src)
}

// populated wraps a write so the updated document comes back already joined
// with its owner.
func populated(write string) string {
	return `WITH w AS (` + write + ` RETURNING *)` + profileFrom("w")
}

// removeByID rebuilds a jsonb array without the element whose "id" is $2,
// preserving order.
const removeByID = `COALESCE((
		SELECT jsonb_agg(t.e ORDER BY t.ord)
		FROM jsonb_array_elements(%s) WITH ORDINALITY AS t(e, ord)
		WHERE t.e->>'id' <> $2
	), '[]'::jsonb)`

type ProfileRepository struct {
	base
}

func NewProfileRepository(pool *pgxpool.Pool, timeout time.Duration) *ProfileRepository {
	return &ProfileRepository{base: newBase(pool, timeout)}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.pool.QueryRow(ctx, profileFrom("profiles")+` WHERE p.user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return nil, mapErr("postgres.Profiles.GetByUserID", err)
	}
	return p, nil
}

func (r *ProfileRepository) GetByHandle(ctx context.Context, handle string) (*entity.Profile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.pool.QueryRow(ctx, profileFrom("profiles")+` WHERE p.handle = $1`, handle)
	p, err := scanProfile(row)
	if err != nil {
		return nil, mapErr("postgres.Profiles.GetByHandle", err)
	}
	return p, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]entity.Profile, error) {
	const op = "postgres.Profiles.List"
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.pool.Query(ctx, profileFrom("profiles")+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, mapErr(op, err)
	}
	defer rows.Close()
	out := []entity.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, mapErr(op, err)
		}
		out = append(out, *p)
	}
	return out, mapErr(op, rows.Err())
}

// Upsert writes every scalar field keyed by user_id. experience, education and
// created_at are untouched on update. profiles_handle_key turns a handle race
// into Conflict.
func (r *ProfileRepository) Upsert(ctx context.Context, p *entity.Profile) (*entity.Profile, error) {
	skills, err := json.Marshal(nonNil(p.Skills))
	if err != nil {
		return nil, err
	}
	social, err := json.Marshal(p.Social)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.pool.QueryRow(ctx, populated(`
		INSERT INTO profiles (user_id, handle, company, website, location, status, skills, bio, github_username, social)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10::jsonb)
		ON CONFLICT (user_id) DO UPDATE SET
			handle = EXCLUDED.handle,
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			status = EXCLUDED.status,
			skills = EXCLUDED.skills,
			bio = EXCLUDED.bio,
			github_username = EXCLUDED.github_username,
			social = EXCLUDED.social,
			version = profiles.version + 1`),
		p.UserID, p.Handle, p.Company, p.Website, p.Location, p.Status, string(skills), p.Bio, p.GithubUsername, string(social))
	out, err := scanProfile(row)
	if err != nil {
		return nil, mapErr("postgres.Profiles.Upsert", err)
	}
	return out, nil
}

func (r *ProfileRepository) prepend(ctx context.Context, op, column, userID string, entry any) (*entity.Profile, error) {
	doc, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.pool.QueryRow(ctx, populated(`
		UPDATE profiles SET `+column+` = jsonb_build_array($2::jsonb) || `+column+`, version = version + 1
		WHERE user_id = $1`), userID, string(doc))
	p, err := scanProfile(row)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return p, nil
}

func (r *ProfileRepository) remove(ctx context.Context, op, column, userID, entryID string) (*entity.Profile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.pool.QueryRow(ctx, populated(`
		UPDATE profiles SET `+column+` = `+fmt.Sprintf(removeByID, column)+`, version = version + 1
		WHERE user_id = $1`), userID, entryID)
	p, err := scanProfile(row)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return p, nil
}

func (r *ProfileRepository) PrependExperience(ctx context.Context, userID string, e entity.Experience) (*entity.Profile, error) {
	return r.prepend(ctx, "postgres.Profiles.PrependExperience", "experience", userID, e)
}

func (r *ProfileRepository) RemoveExperience(ctx context.Context, userID, expID string) (*entity.Profile, error) {
	return r.remove(ctx, "postgres.Profiles.RemoveExperience", "experience", userID, expID)
}

func (r *ProfileRepository) PrependEducation(ctx context.Context, userID string, e entity.Education) (*entity.Profile, error) {
	return r.prepend(ctx, "postgres.Profiles.PrependEducation", "education", userID, e)
}

func (r *ProfileRepository) RemoveEducation(ctx context.Context, userID, eduID string) (*entity.Profile, error) {
	return r.remove(ctx, "postgres.Profiles.RemoveEducation", "education", userID, eduID)
}

func scanProfile(row rowScanner) (*entity.Profile, error) {
	p := &entity.Profile{}
	var (
		hasUser bool
		user    entity.UserSummary
	)
	if err := row.Scan(
		&p.UserID, &p.Handle, &p.Company, &p.Website, &p.Location, &p.Status,
		&p.Skills, &p.Bio, &p.GithubUsername, &p.Social, &p.Experience, &p.Education, &p.CreatedAt, &p.Version,
		&hasUser, &user.Name, &user.AvatarURL,
	); err != nil {
		return nil, err
	}
	if hasUser {
		user.ID = p.UserID
		p.User = &user
	}
	p.Skills = nonNil(p.Skills)
	if p.Experience == nil {
		p.Experience = []entity.Experience{}
	}
	if p.Education == nil {
		p.Education = []entity.Education{}
	}
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var (
	_ repository.ProfileRepository = (*ProfileRepository)(nil)
	_ rowScanner                   = (pgx.Row)(nil)
)
