package domain

import (
	"context"
	"io"
	"time"
)

// Mock candidacy lifecycle.
const (
	MockStatusPending     = "pendente"
	MockStatusApproved    = "aprovada"
	MockStatusReview      = "em_analise"
	MockStatusInInterview = "em_entrevista"
	MockStatusInProgress  = "entrevista_em_andamento"
	MockStatusInterviewed = "entrevista_concluida"
	MockStatusCancelled   = "cancelada"
)

// Interview lifecycle.
const (
	InterviewScheduled  = "agendada"
	InterviewInProgress = "em_andamento"
	InterviewCompleted  = "concluida"
	InterviewCancelled  = "cancelada"
)

// Per-response analysis state.
const (
	ProcessingPending    = "pending"
	ProcessingProcessing = "processing"
	ProcessingCompleted  = "completed"
	ProcessingFailed     = "failed"
)

// Hiring recommendations shown on the report.
const (
	RecommendationHire     = "contratar"
	RecommendationEvaluate = "avaliar"
	RecommendationNoHire   = "não contratar"
)

// MaxAnswerDuration bounds a single recorded answer.
const MaxAnswerDuration = 120 * time.Second

// VagaTeste is a practice job offered for mock interviews.
type VagaTeste struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Empresa   string    `json:"empresa"`
	Area      string    `json:"area"`
	Cidade    string    `json:"cidade,omitempty"`
	UF        string    `json:"uf,omitempty"`
	Descricao string    `json:"descricao"`
	CreatedAt time.Time `json:"created_at"`
}

type MockCandidacy struct {
	ID                 int64      `json:"id"`
	UsuarioID          string     `json:"usuario_id"`
	VagaTesteID        int64      `json:"vaga_teste_id"`
	Mensagem           string     `json:"mensagem,omitempty"`
	Status             string     `json:"status"`
	InterviewID        *int64     `json:"interview_id"`
	VagaTeste          *VagaTeste `json:"vaga_teste,omitempty"`
	HasInterview       bool       `json:"temEntrevista"`
	InterviewCompleted bool       `json:"entrevistaCompleta"`
	CreatedAt          time.Time  `json:"created_at"`
}

type CreateMockCandidacyRequest struct {
	UsuarioID   string `json:"usuarioId"`
	VagaTesteID int64  `json:"vagaTesteId" validate:"required,gt=0"`
	Mensagem    string `json:"mensagem" validate:"max=2000"`
}

// MockCandidacyCheck tells the client whether an interview can be started.
type MockCandidacyCheck struct {
	CanStartInterview bool   `json:"canStartInterview"`
	HasInterview      bool   `json:"hasInterview"`
	InterviewID       *int64 `json:"interviewId,omitempty"`
	Status            string `json:"status"`
}

type Question struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	Type   string `json:"type"`
}

type Interview struct {
	ID                int64               `json:"id"`
	CandidaturaID     int64               `json:"candidatura_id"`
	UserID            string              `json:"user_id"`
	CandidateName     string              `json:"candidate_name"`
	Status            string              `json:"status"`
	Questions         []Question          `json:"questions"`
	Responses         []InterviewResponse `json:"responses,omitempty"`
	TotalScore        *float64            `json:"total_score"`
	EmotionSummary    map[string]float64  `json:"emotion_summary,omitempty"`
	AIFeedback        string              `json:"ai_feedback,omitempty"`
	QuestionsCount    int                 `json:"questions_count"`
	AnsweredQuestions int                 `json:"answered_questions"`
	Vaga              *VagaTeste          `json:"vaga,omitempty"`
	StartedAt         *time.Time          `json:"started_at"`
	CompletedAt       *time.Time          `json:"completed_at"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// FaceSample is one face-analysis reading taken while an answer is recorded.
type FaceSample struct {
	Timestamp         int64              `json:"timestamp"`
	Age               float64            `json:"age"`
	Gender            string             `json:"gender"`
	GenderProbability float64            `json:"genderProbability"`
	Expression        string             `json:"expression"`
	Confidence        float64            `json:"confidence"`
	Expressions       map[string]float64 `json:"expressions"`
}

type InterviewResponse struct {
	ID               int64        `json:"id"`
	InterviewID      int64        `json:"interview_id"`
	QuestionNumber   int          `json:"question_number"`
	QuestionText     string       `json:"question_text"`
	QuestionType     string       `json:"question_type"`
	VideoKey         string       `json:"-"`
	VideoURL         string       `json:"video_url"`
	ContentType      string       `json:"-"`
	ProcessingStatus string       `json:"processing_status"`
	Transcription    string       `json:"transcription,omitempty"`
	Score            *float64     `json:"score"`
	AIAnalysis       string       `json:"ai_analysis,omitempty"`
	FaceAnalysis     []FaceSample `json:"face_analysis,omitempty"`
	FaceDataPoints   int          `json:"face_data_points"`
	EmotionDetected  string       `json:"emotion_detected,omitempty"`
	ConfidenceLevel  *float64     `json:"confidence_level"`
	DurationSeconds  int          `json:"duration"`
	ErrorMessage     string       `json:"error_message,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// VideoUpload is a single recorded answer as received from the client.
type VideoUpload struct {
	QuestionNumber  int
	Filename        string
	Data            []byte
	FaceSamples     []FaceSample
	DurationSeconds int
	IP              string
	RequestID       string
}

type UploadResult struct {
	ResponseID       int64  `json:"responseId"`
	VideoURL         string `json:"videoUrl"`
	StreamURL        string `json:"streamUrl"`
	ThumbnailURL     string `json:"thumbnailUrl,omitempty"`
	ProcessingStatus string `json:"processingStatus"`
	FaceDataPoints   int    `json:"faceDataPoints"`
}

type ResponseStatus struct {
	QuestionNumber int      `json:"questionNumber,omitempty"`
	Status         string   `json:"status"`
	Transcription  string   `json:"transcription,omitempty"`
	AnalysisScore  *float64 `json:"analysisScore"`
	AIAnalysis     string   `json:"aiAnalysis,omitempty"`
	ErrorMessage   string   `json:"error,omitempty"`
}

type ReportSections struct {
	PontosFortes          []string `json:"pontosFortesEspecificos"`
	AreasDesenvolvimento  []string `json:"areasDesenvolvimento"`
	RecomendacoesCarreira []string `json:"recomendacoesCarreira"`
	PlanoDesenvolvimento  []string `json:"planoDesenvolvimento"`
}

type Report struct {
	CandidateName      string             `json:"candidateName"`
	CompletedQuestions int                `json:"completedQuestions"`
	TotalQuestions     int                `json:"totalQuestions"`
	OverallScore       float64            `json:"overallScore"`
	Recommendation     string             `json:"recommendation"`
	Summary            string             `json:"summary"`
	DetailedAnalysis   string             `json:"detailedAnalysis"`
	Sections           ReportSections     `json:"sections"`
	EmotionSummary     map[string]float64 `json:"emotionSummary,omitempty"`
	Responses          []ResponseStatus   `json:"responses"`
	Timestamp          time.Time          `json:"timestamp"`
}

// InterviewReport is the payload of the report endpoint.
type InterviewReport struct {
	Report Report     `json:"report"`
	Vaga   *VagaTeste `json:"vaga"`
}

// AnalysisJob is queued after a video upload.
type AnalysisJob struct {
	ResponseID  int64
	InterviewID int64
}

// AnalysisInput is what an analyzer sees for one answer.
type AnalysisInput struct {
	Question        Question
	Vaga            *VagaTeste
	Video           io.Reader
	ContentType     string
	FaceSamples     []FaceSample
	DurationSeconds int
}

type AnalysisResult struct {
	Transcription   string
	Score           float64
	Feedback        string
	Strengths       []string
	Improvements    []string
	EmotionDetected string
	ConfidenceLevel float64
}

type MockInterviewRepository interface {
	ListVagasTeste(ctx context.Context) ([]VagaTeste, error)
	GetVagaTeste(ctx context.Context, id int64) (*VagaTeste, error)

	CreateCandidacy(ctx context.Context, c *MockCandidacy) error
	GetCandidacy(ctx context.Context, id int64) (*MockCandidacy, error)
	ListCandidaciesByUser(ctx context.Context, userID string) ([]MockCandidacy, error)
	CandidacyExists(ctx context.Context, userID string, vagaTesteID int64) (bool, error)
	UpdateCandidacyStatus(ctx context.Context, id int64, status string) error
	DeleteCandidacy(ctx context.Context, id int64) error

	CreateInterview(ctx context.Context, iv *Interview) error
	GetInterview(ctx context.Context, id int64) (*Interview, error)
	UpdateInterview(ctx context.Context, iv *Interview) error

	UpsertResponse(ctx context.Context, r *InterviewResponse) error
	GetResponse(ctx context.Context, interviewID, responseID int64) (*InterviewResponse, error)
	ListResponses(ctx context.Context, interviewID int64) ([]InterviewResponse, error)
	// UpdateResponseAnalysis only applies while the row still holds
	// r.VideoKey; a re-recorded answer yields ErrSuperseded.
	UpdateResponseAnalysis(ctx context.Context, r *InterviewResponse) error
}

type MockInterviewUsecase interface {
	ListVagasTeste(ctx context.Context) ([]VagaTeste, error)
	ListUserCandidacies(ctx context.Context, requesterID, role, userID string) ([]MockCandidacy, error)
	Apply(ctx context.Context, userID string, req CreateMockCandidacyRequest) (*MockCandidacy, error)
	CheckCandidacy(ctx context.Context, userID string, candidaturaID int64) (*MockCandidacyCheck, error)
	CancelCandidacy(ctx context.Context, userID string, candidaturaID int64) error
	CreateInterview(ctx context.Context, userID string, candidaturaID int64, candidateName string) (*Interview, error)
	StartInterview(ctx context.Context, userID string, interviewID int64) (*Interview, error)
	UploadResponse(ctx context.Context, userID string, interviewID int64, up VideoUpload) (*UploadResult, error)
	ResponseStatus(ctx context.Context, userID string, interviewID, responseID int64) (*ResponseStatus, error)
	CompleteInterview(ctx context.Context, userID string, interviewID int64) (*Interview, error)
	Report(ctx context.Context, userID string, interviewID int64) (*InterviewReport, error)
}
