package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"agroskills-platform/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type mockInterviewRepo struct {
	db *pgxpool.Pool
}

func NewMockInterviewRepository(db *pgxpool.Pool) domain.MockInterviewRepository {
	return &mockInterviewRepo{db: db}
}

// ---- practice jobs ----

const vagaTesteColumns = `id, nome, empresa, COALESCE(area, ''), COALESCE(cidade, ''),
	COALESCE(uf, ''), COALESCE(descricao, ''), created_at`

func scanVagaTeste(row interface{ Scan(...any) error }) (*domain.VagaTeste, error) {
	var v domain.VagaTeste
	if err := row.Scan(&v.ID, &v.Nome, &v.Empresa, &v.Area, &v.Cidade, &v.UF, &v.Descricao, &v.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &v, nil
}

func (r *mockInterviewRepo) ListVagasTeste(ctx context.Context) ([]domain.VagaTeste, error) {
	rows, err := r.db.Query(ctx, `SELECT `+vagaTesteColumns+` FROM vagas_teste WHERE ativa ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.VagaTeste{}
	for rows.Next() {
		v, err := scanVagaTeste(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *mockInterviewRepo) GetVagaTeste(ctx context.Context, id int64) (*domain.VagaTeste, error) {
	return scanVagaTeste(r.db.QueryRow(ctx, `SELECT `+vagaTesteColumns+` FROM vagas_teste WHERE id = $1`, id))
}

// ---- mock candidacies ----

const mockCandidacySelect = `
	SELECT mc.id, mc.usuario_id, mc.vaga_teste_id, COALESCE(mc.mensagem, ''), mc.status,
	       mc.created_at, i.id, COALESCE(i.status, ''),
	       v.id, v.nome, v.empresa, COALESCE(v.area, ''), COALESCE(v.cidade, ''),
	       COALESCE(v.uf, ''), COALESCE(v.descricao, ''), v.created_at
	FROM mock_candidaturas mc
	JOIN vagas_teste v ON v.id = mc.vaga_teste_id
	LEFT JOIN interviews i ON i.candidatura_id = mc.id`

func scanMockCandidacy(row interface{ Scan(...any) error }) (*domain.MockCandidacy, error) {
	var (
		c               domain.MockCandidacy
		v               domain.VagaTeste
		interviewStatus string
	)
	err := row.Scan(&c.ID, &c.UsuarioID, &c.VagaTesteID, &c.Mensagem, &c.Status,
		&c.CreatedAt, &c.InterviewID, &interviewStatus,
		&v.ID, &v.Nome, &v.Empresa, &v.Area, &v.Cidade, &v.UF, &v.Descricao, &v.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	c.VagaTeste = &v
	c.HasInterview = c.InterviewID != nil
	c.InterviewCompleted = interviewStatus == domain.InterviewCompleted
	return &c, nil
}

func (r *mockInterviewRepo) CreateCandidacy(ctx context.Context, c *domain.MockCandidacy) error {
	query := `INSERT INTO mock_candidaturas (usuario_id, vaga_teste_id, mensagem, status, created_at)
              VALUES ($1, $2, NULLIF($3, ''), $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, query, c.UsuarioID, c.VagaTesteID, c.Mensagem, c.Status, c.CreatedAt).Scan(&c.ID)
	return mapError(err)
}

func (r *mockInterviewRepo) GetCandidacy(ctx context.Context, id int64) (*domain.MockCandidacy, error) {
	return scanMockCandidacy(r.db.QueryRow(ctx, mockCandidacySelect+` WHERE mc.id = $1`, id))
}

func (r *mockInterviewRepo) ListCandidaciesByUser(ctx context.Context, userID string) ([]domain.MockCandidacy, error) {
	rows, err := r.db.Query(ctx, mockCandidacySelect+` WHERE mc.usuario_id = $1 ORDER BY mc.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.MockCandidacy{}
	for rows.Next() {
		c, err := scanMockCandidacy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *mockInterviewRepo) CandidacyExists(ctx context.Context, userID string, vagaTesteID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM mock_candidaturas
		              WHERE usuario_id = $1 AND vaga_teste_id = $2 AND status <> $3)`,
		userID, vagaTesteID, domain.MockStatusCancelled,
	).Scan(&exists)
	return exists, err
}

func (r *mockInterviewRepo) UpdateCandidacyStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE mock_candidaturas SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mockInterviewRepo) DeleteCandidacy(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM mock_candidaturas WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- interviews ----

func (r *mockInterviewRepo) CreateInterview(ctx context.Context, iv *domain.Interview) error {
	questions, err := json.Marshal(iv.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO interviews (candidatura_id, user_id, candidate_name, status, questions,
              questions_count, answered_questions, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8) RETURNING id`
	err = tx.QueryRow(ctx, query, iv.CandidaturaID, iv.UserID, iv.CandidateName, iv.Status,
		questions, iv.QuestionsCount, iv.CreatedAt, iv.UpdatedAt).Scan(&iv.ID)
	if err != nil {
		return mapError(err)
	}

	if _, err := tx.Exec(ctx, `UPDATE mock_candidaturas SET status = $2 WHERE id = $1`,
		iv.CandidaturaID, domain.MockStatusInInterview); err != nil {
		return mapError(err)
	}
	return tx.Commit(ctx)
}

func (r *mockInterviewRepo) GetInterview(ctx context.Context, id int64) (*domain.Interview, error) {
	query := `
		SELECT id, candidatura_id, user_id, candidate_name, status, questions, total_score,
		       emotion_summary, COALESCE(ai_feedback, ''), questions_count, answered_questions,
		       started_at, completed_at, created_at, updated_at
		FROM interviews WHERE id = $1`

	var (
		iv                  domain.Interview
		questions, emotions []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&iv.ID, &iv.CandidaturaID, &iv.UserID,
		&iv.CandidateName, &iv.Status, &questions, &iv.TotalScore, &emotions, &iv.AIFeedback,
		&iv.QuestionsCount, &iv.AnsweredQuestions, &iv.StartedAt, &iv.CompletedAt,
		&iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &iv.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
	}
	if len(emotions) > 0 {
		if err := json.Unmarshal(emotions, &iv.EmotionSummary); err != nil {
			return nil, fmt.Errorf("decode emotion summary: %w", err)
		}
	}
	return &iv, nil
}

// UpdateInterview persists status and aggregate fields and mirrors the
// interview status onto the owning candidacy.
func (r *mockInterviewRepo) UpdateInterview(ctx context.Context, iv *domain.Interview) error {
	var emotions []byte
	if iv.EmotionSummary != nil {
		raw, err := json.Marshal(iv.EmotionSummary)
		if err != nil {
			return fmt.Errorf("encode emotion summary: %w", err)
		}
		emotions = raw
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `UPDATE interviews SET status = $2, total_score = $3, emotion_summary = $4,
              ai_feedback = NULLIF($5, ''), answered_questions = $6, started_at = $7,
              completed_at = $8, updated_at = $9
              WHERE id = $1`
	tag, err := tx.Exec(ctx, query, iv.ID, iv.Status, iv.TotalScore, emotions, iv.AIFeedback,
		iv.AnsweredQuestions, iv.StartedAt, iv.CompletedAt, iv.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	var candidacyStatus string
	switch iv.Status {
	case domain.InterviewInProgress:
		candidacyStatus = domain.MockStatusInProgress
	case domain.InterviewCompleted:
		candidacyStatus = domain.MockStatusInterviewed
	}
	if candidacyStatus != "" {
		if _, err := tx.Exec(ctx, `UPDATE mock_candidaturas SET status = $2 WHERE id = $1`,
			iv.CandidaturaID, candidacyStatus); err != nil {
			return mapError(err)
		}
	}
	return tx.Commit(ctx)
}

// ---- responses ----

const responseColumns = `id, interview_id, question_number, question_text, question_type,
	video_key, COALESCE(video_url, ''), COALESCE(content_type, ''), processing_status,
	COALESCE(transcription, ''), score, COALESCE(ai_analysis, ''), face_analysis,
	face_data_points, COALESCE(emotion_detected, ''), confidence_level, duration_seconds,
	COALESCE(error_message, ''), created_at, updated_at`

func scanResponse(row interface{ Scan(...any) error }) (*domain.InterviewResponse, error) {
	var (
		resp domain.InterviewResponse
		face []byte
	)
	err := row.Scan(&resp.ID, &resp.InterviewID, &resp.QuestionNumber, &resp.QuestionText,
		&resp.QuestionType, &resp.VideoKey, &resp.VideoURL, &resp.ContentType,
		&resp.ProcessingStatus, &resp.Transcription, &resp.Score, &resp.AIAnalysis, &face,
		&resp.FaceDataPoints, &resp.EmotionDetected, &resp.ConfidenceLevel,
		&resp.DurationSeconds, &resp.ErrorMessage, &resp.CreatedAt, &resp.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if len(face) > 0 {
		if err := json.Unmarshal(face, &resp.FaceAnalysis); err != nil {
			return nil, fmt.Errorf("decode face analysis: %w", err)
		}
	}
	return &resp, nil
}

// UpsertResponse stores the answer to a question. Re-recording a question
// replaces the previous answer and resets its analysis.
func (r *mockInterviewRepo) UpsertResponse(ctx context.Context, resp *domain.InterviewResponse) error {
	face, err := json.Marshal(resp.FaceAnalysis)
	if err != nil {
		return fmt.Errorf("encode face analysis: %w", err)
	}

	query := `
		INSERT INTO interview_responses (interview_id, question_number, question_text, question_type,
		       video_key, video_url, content_type, processing_status, face_analysis, face_data_points,
		       duration_seconds, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (interview_id, question_number) DO UPDATE SET
		       video_key = EXCLUDED.video_key,
		       video_url = EXCLUDED.video_url,
		       content_type = EXCLUDED.content_type,
		       processing_status = EXCLUDED.processing_status,
		       face_analysis = EXCLUDED.face_analysis,
		       face_data_points = EXCLUDED.face_data_points,
		       duration_seconds = EXCLUDED.duration_seconds,
		       transcription = NULL, score = NULL, ai_analysis = NULL,
		       emotion_detected = NULL, confidence_level = NULL, error_message = NULL,
		       updated_at = EXCLUDED.updated_at
		RETURNING id`
	err = r.db.QueryRow(ctx, query, resp.InterviewID, resp.QuestionNumber, resp.QuestionText,
		resp.QuestionType, resp.VideoKey, resp.VideoURL, resp.ContentType, resp.ProcessingStatus,
		face, resp.FaceDataPoints, resp.DurationSeconds, resp.CreatedAt).Scan(&resp.ID)
	return mapError(err)
}

func (r *mockInterviewRepo) GetResponse(ctx context.Context, interviewID, responseID int64) (*domain.InterviewResponse, error) {
	return scanResponse(r.db.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM interview_responses WHERE interview_id = $1 AND id = $2`,
		interviewID, responseID))
}

func (r *mockInterviewRepo) ListResponses(ctx context.Context, interviewID int64) ([]domain.InterviewResponse, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+responseColumns+` FROM interview_responses WHERE interview_id = $1 ORDER BY question_number`,
		interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.InterviewResponse{}
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, rows.Err()
}

func (r *mockInterviewRepo) UpdateResponseAnalysis(ctx context.Context, resp *domain.InterviewResponse) error {
	query := `UPDATE interview_responses SET processing_status = $2, transcription = NULLIF($3, ''),
              score = $4, ai_analysis = NULLIF($5, ''), emotion_detected = NULLIF($6, ''),
              confidence_level = $7, error_message = NULLIF($8, ''), updated_at = NOW()
              WHERE id = $1 AND video_key = $9`
	tag, err := r.db.Exec(ctx, query, resp.ID, resp.ProcessingStatus, resp.Transcription,
		resp.Score, resp.AIAnalysis, resp.EmotionDetected, resp.ConfidenceLevel, resp.ErrorMessage,
		resp.VideoKey)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM interview_responses WHERE id = $1)`, resp.ID).Scan(&exists); err != nil {
			return mapError(err)
		}
		if exists {
			return domain.ErrSuperseded
		}
		return domain.ErrNotFound
	}
	return nil
}
