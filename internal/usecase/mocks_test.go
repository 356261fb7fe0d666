package usecase_test

import (
	"context"
	"time"

	"agroskills-platform/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
func (m *MockUserRepo) SavePasswordReset(ctx context.Context, reset *domain.PasswordReset) error {
	return m.Called(ctx, reset).Error(0)
}
func (m *MockUserRepo) GetPasswordReset(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordReset), args.Error(1)
}
func (m *MockUserRepo) MarkPasswordResetUsed(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) List(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.Company)
	return list, args.Error(1)
}
func (m *MockCompanyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}
func (m *MockCompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCompanyRepo) Update(ctx context.Context, c *domain.Company) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCompanyRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCompanyRepo) Options(ctx context.Context) ([]domain.CompanyOption, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.CompanyOption)
	return list, args.Error(1)
}
func (m *MockCompanyRepo) Count(ctx context.Context) (*domain.CompanyCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyCount), args.Error(1)
}
func (m *MockCompanyRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) Fetch(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.Job)
	return list, args.Get(1).(int64), args.Error(2)
}
func (m *MockJobRepo) FetchByCompanyID(ctx context.Context, companyID int64) ([]domain.Job, error) {
	args := m.Called(ctx, companyID)
	list, _ := args.Get(0).([]domain.Job)
	return list, args.Error(1)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockCandidacyRepo struct {
	mock.Mock
}

func (m *MockCandidacyRepo) Create(ctx context.Context, c *domain.Candidacy) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCandidacyRepo) GetByID(ctx context.Context, id int64) (*domain.Candidacy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidacy), args.Error(1)
}
func (m *MockCandidacyRepo) Exists(ctx context.Context, userID string, jobID int64) (bool, error) {
	args := m.Called(ctx, userID, jobID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCandidacyRepo) ListByUser(ctx context.Context, userID string) ([]domain.Candidacy, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.Candidacy)
	return list, args.Error(1)
}
func (m *MockCandidacyRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Candidacy, error) {
	args := m.Called(ctx, jobID)
	list, _ := args.Get(0).([]domain.Candidacy)
	return list, args.Error(1)
}
func (m *MockCandidacyRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockInterestRepo struct {
	mock.Mock
}

func (m *MockInterestRepo) Create(ctx context.Context, i *domain.Interest) error {
	return m.Called(ctx, i).Error(0)
}
func (m *MockInterestRepo) Delete(ctx context.Context, userID string, jobID int64) error {
	return m.Called(ctx, userID, jobID).Error(0)
}
func (m *MockInterestRepo) Exists(ctx context.Context, userID string, jobID int64) (bool, error) {
	args := m.Called(ctx, userID, jobID)
	return args.Bool(0), args.Error(1)
}
func (m *MockInterestRepo) ListByUser(ctx context.Context, userID string) ([]domain.Interest, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.Interest)
	return list, args.Error(1)
}

type MockFeedRepo struct {
	mock.Mock
}

func (m *MockFeedRepo) ListNews(ctx context.Context, limit, offset int) ([]domain.News, int64, error) {
	args := m.Called(ctx, limit, offset)
	list, _ := args.Get(0).([]domain.News)
	return list, args.Get(1).(int64), args.Error(2)
}
func (m *MockFeedRepo) CreateNews(ctx context.Context, n *domain.News) error {
	return m.Called(ctx, n).Error(0)
}
func (m *MockFeedRepo) ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, int64, error) {
	args := m.Called(ctx, limit, offset)
	list, _ := args.Get(0).([]domain.Event)
	return list, args.Get(1).(int64), args.Error(2)
}
func (m *MockFeedRepo) CreateEvent(ctx context.Context, e *domain.Event) error {
	return m.Called(ctx, e).Error(0)
}

type MockProgressRepo struct {
	mock.Mock
}

func (m *MockProgressRepo) MarkLesson(ctx context.Context, c *domain.LessonCompletion) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockProgressRepo) CompletedLessons(ctx context.Context, userID, trilhaID string) ([]string, error) {
	args := m.Called(ctx, userID, trilhaID)
	list, _ := args.Get(0).([]string)
	return list, args.Error(1)
}
func (m *MockProgressRepo) IsLessonCompleted(ctx context.Context, userID, lessonID string) (bool, error) {
	args := m.Called(ctx, userID, lessonID)
	return args.Bool(0), args.Error(1)
}
func (m *MockProgressRepo) TrackLessonCount(ctx context.Context, trilhaID string) (int, error) {
	args := m.Called(ctx, trilhaID)
	return args.Int(0), args.Error(1)
}

type MockInterviewRepo struct {
	mock.Mock
}

func (m *MockInterviewRepo) ListVagasTeste(ctx context.Context) ([]domain.VagaTeste, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.VagaTeste)
	return list, args.Error(1)
}
func (m *MockInterviewRepo) GetVagaTeste(ctx context.Context, id int64) (*domain.VagaTeste, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VagaTeste), args.Error(1)
}
func (m *MockInterviewRepo) CreateCandidacy(ctx context.Context, c *domain.MockCandidacy) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockInterviewRepo) GetCandidacy(ctx context.Context, id int64) (*domain.MockCandidacy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MockCandidacy), args.Error(1)
}
func (m *MockInterviewRepo) ListCandidaciesByUser(ctx context.Context, userID string) ([]domain.MockCandidacy, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.MockCandidacy)
	return list, args.Error(1)
}
func (m *MockInterviewRepo) CandidacyExists(ctx context.Context, userID string, vagaTesteID int64) (bool, error) {
	args := m.Called(ctx, userID, vagaTesteID)
	return args.Bool(0), args.Error(1)
}
func (m *MockInterviewRepo) UpdateCandidacyStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *MockInterviewRepo) DeleteCandidacy(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockInterviewRepo) CreateInterview(ctx context.Context, iv *domain.Interview) error {
	return m.Called(ctx, iv).Error(0)
}
func (m *MockInterviewRepo) GetInterview(ctx context.Context, id int64) (*domain.Interview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}
func (m *MockInterviewRepo) UpdateInterview(ctx context.Context, iv *domain.Interview) error {
	return m.Called(ctx, iv).Error(0)
}
func (m *MockInterviewRepo) UpsertResponse(ctx context.Context, r *domain.InterviewResponse) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockInterviewRepo) GetResponse(ctx context.Context, interviewID, responseID int64) (*domain.InterviewResponse, error) {
	args := m.Called(ctx, interviewID, responseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewResponse), args.Error(1)
}
func (m *MockInterviewRepo) ListResponses(ctx context.Context, interviewID int64) ([]domain.InterviewResponse, error) {
	args := m.Called(ctx, interviewID)
	list, _ := args.Get(0).([]domain.InterviewResponse)
	return list, args.Error(1)
}
func (m *MockInterviewRepo) UpdateResponseAnalysis(ctx context.Context, r *domain.InterviewResponse) error {
	return m.Called(ctx, r).Error(0)
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(job domain.AnalysisJob) error {
	return m.Called(job).Error(0)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) AllowUpload(ctx context.Context, ip, userID string) (bool, time.Duration, error) {
	args := m.Called(ctx, ip, userID)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(to, name, resetURL string) error {
	return m.Called(to, name, resetURL).Error(0)
}
func (m *MockMailer) IsConfigured() bool {
	return m.Called().Bool(0)
}

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
