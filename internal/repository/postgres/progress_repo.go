package postgres

import (
	"context"

	"agroskills-platform/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type progressRepo struct {
	db *pgxpool.Pool
}

func NewProgressRepository(db *pgxpool.Pool) domain.ProgressRepository {
	return &progressRepo{db: db}
}

// MarkLesson is idempotent; the first completion time wins.
func (r *progressRepo) MarkLesson(ctx context.Context, c *domain.LessonCompletion) error {
	query := `INSERT INTO lesson_progress (user_id, lesson_id, trilha_id, completed_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (user_id, lesson_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, c.UserID, c.LessonID, c.TrilhaID, c.CompletedAt)
	return mapError(err)
}

func (r *progressRepo) CompletedLessons(ctx context.Context, userID, trilhaID string) ([]string, error) {
	var lessons []string
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(array_agg(lesson_id ORDER BY completed_at), '{}')
		FROM lesson_progress WHERE user_id = $1 AND trilha_id = $2`, userID, trilhaID,
	).Scan(pq.Array(&lessons))
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []string{}
	}
	return lessons, nil
}

func (r *progressRepo) IsLessonCompleted(ctx context.Context, userID, lessonID string) (bool, error) {
	var done bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM lesson_progress WHERE user_id = $1 AND lesson_id = $2)`,
		userID, lessonID,
	).Scan(&done)
	return done, err
}

func (r *progressRepo) TrackLessonCount(ctx context.Context, trilhaID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trilha_lessons WHERE trilha_id = $1`, trilhaID).Scan(&n)
	return n, err
}
