package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"agroskills-platform/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

// Get returns the profile joined with the owning user. A user without a
// profile row yields empty sections.
func (r *profileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT u.id, u.name, u.email, COALESCE(u.profile_image_url, ''),
		       COALESCE(p.about, ''),
		       COALESCE(p.experiences, '[]'::jsonb),
		       COALESCE(p.education, '[]'::jsonb),
		       COALESCE(p.skills, '[]'::jsonb),
		       COALESCE(p.updated_at, u.updated_at)
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1`

	var (
		p                         domain.Profile
		expRaw, eduRaw, skillsRaw []byte
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Name, &p.Email, &p.ProfileImageURL, &p.About,
		&expRaw, &eduRaw, &skillsRaw, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	if err := json.Unmarshal(expRaw, &p.Experiences); err != nil {
		return nil, fmt.Errorf("decode experiences: %w", err)
	}
	if err := json.Unmarshal(eduRaw, &p.Education); err != nil {
		return nil, fmt.Errorf("decode education: %w", err)
	}
	if err := json.Unmarshal(skillsRaw, &p.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return &p, nil
}

func (r *profileRepo) UpdateAbout(ctx context.Context, userID, about string) error {
	query := `
		INSERT INTO profiles (user_id, about, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET about = EXCLUDED.about, updated_at = NOW()`
	_, err := r.db.Exec(ctx, query, userID, about)
	return mapError(err)
}

func (r *profileRepo) UpdateExperiences(ctx context.Context, userID string, items []domain.Experience) error {
	return r.upsertSection(ctx, userID, "experiences", items)
}

func (r *profileRepo) UpdateEducation(ctx context.Context, userID string, items []domain.Education) error {
	return r.upsertSection(ctx, userID, "education", items)
}

// UpdateSkills also maintains skill_names, the text[] column used for
// recruiter search.
func (r *profileRepo) UpdateSkills(ctx context.Context, userID string, items []domain.Skill) error {
	if items == nil {
		items = []domain.Skill{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	names := make([]string, 0, len(items))
	for _, s := range items {
		names = append(names, s.Name)
	}

	query := `
		INSERT INTO profiles (user_id, skills, skill_names, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET skills = EXCLUDED.skills, skill_names = EXCLUDED.skill_names, updated_at = NOW()`
	_, err = r.db.Exec(ctx, query, userID, raw, pq.Array(names))
	return mapError(err)
}

func (r *profileRepo) UpdateImage(ctx context.Context, userID, url string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET profile_image_url = NULLIF($2, ''), updated_at = NOW() WHERE id = $1`, userID, url)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// upsertSection writes one JSONB column. column is always a literal from
// this file.
func (r *profileRepo) upsertSection(ctx context.Context, userID, column string, items any) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", column, err)
	}
	if string(raw) == "null" {
		raw = []byte("[]")
	}
	query := fmt.Sprintf(`
		INSERT INTO profiles (user_id, %[1]s, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET %[1]s = EXCLUDED.%[1]s, updated_at = NOW()`, column)
	_, err = r.db.Exec(ctx, query, userID, raw)
	return mapError(err)
}
