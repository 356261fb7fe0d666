package v1_test

import (
	"context"

	"agroskills-platform/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAuthUsecase struct{ mock.Mock }

func (m *MockAuthUsecase) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*domain.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, req domain.LoginRequest, meta domain.LoginMeta) (*domain.AuthResult, error) {
	args := m.Called(ctx, req, meta)
	res, _ := args.Get(0).(*domain.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthUsecase) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	args := m.Called(ctx, refreshToken)
	res, _ := args.Get(0).(*domain.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*domain.User)
	return res, args.Error(1)
}

func (m *MockAuthUsecase) UpdateUser(ctx context.Context, id string, req domain.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, id, req)
	res, _ := args.Get(0).(*domain.User)
	return res, args.Error(1)
}

func (m *MockAuthUsecase) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthUsecase) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

type MockJobUsecase struct{ mock.Mock }

func (m *MockJobUsecase) CreateJob(ctx context.Context, userID, role string, in domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, userID, role, in)
	res, _ := args.Get(0).(*domain.Job)
	return res, args.Error(1)
}

func (m *MockJobUsecase) GetJobDetails(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*domain.Job)
	return res, args.Error(1)
}

func (m *MockJobUsecase) ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).([]domain.Job)
	return res, args.Get(1).(int64), args.Error(2)
}

func (m *MockJobUsecase) ListJobsByCompany(ctx context.Context, companyID int64) ([]domain.Job, error) {
	args := m.Called(ctx, companyID)
	res, _ := args.Get(0).([]domain.Job)
	return res, args.Error(1)
}

func (m *MockJobUsecase) UpdateJob(ctx context.Context, role string, id int64, in domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, role, id, in)
	res, _ := args.Get(0).(*domain.Job)
	return res, args.Error(1)
}

func (m *MockJobUsecase) DeleteJob(ctx context.Context, role string, id int64) error {
	return m.Called(ctx, role, id).Error(0)
}

type MockCompanyUsecase struct{ mock.Mock }

func (m *MockCompanyUsecase) List(ctx context.Context, filter domain.CompanyFilter) ([]domain.Company, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).([]domain.Company)
	return res, args.Error(1)
}

func (m *MockCompanyUsecase) Get(ctx context.Context, id int64) (*domain.Company, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*domain.Company)
	return res, args.Error(1)
}

func (m *MockCompanyUsecase) Create(ctx context.Context, role string, in domain.CompanyInput) (*domain.Company, error) {
	args := m.Called(ctx, role, in)
	res, _ := args.Get(0).(*domain.Company)
	return res, args.Error(1)
}

func (m *MockCompanyUsecase) Update(ctx context.Context, role string, id int64, in domain.CompanyInput) (*domain.Company, error) {
	args := m.Called(ctx, role, id, in)
	res, _ := args.Get(0).(*domain.Company)
	return res, args.Error(1)
}

func (m *MockCompanyUsecase) Delete(ctx context.Context, role string, id int64) error {
	return m.Called(ctx, role, id).Error(0)
}

func (m *MockCompanyUsecase) Options(ctx context.Context) ([]domain.CompanyOption, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.CompanyOption)
	return res, args.Error(1)
}

func (m *MockCompanyUsecase) Count(ctx context.Context) (*domain.CompanyCount, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*domain.CompanyCount)
	return res, args.Error(1)
}

func (m *MockCompanyUsecase) ExportXLSX(ctx context.Context, role string, filter domain.CompanyFilter) ([]byte, error) {
	args := m.Called(ctx, role, filter)
	res, _ := args.Get(0).([]byte)
	return res, args.Error(1)
}

type MockProgressUsecase struct{ mock.Mock }

func (m *MockProgressUsecase) MarkLesson(ctx context.Context, requesterID string, c domain.LessonCompletion) error {
	return m.Called(ctx, requesterID, c).Error(0)
}

func (m *MockProgressUsecase) TrackProgress(ctx context.Context, userID, trilhaID string) (*domain.TrackProgress, error) {
	args := m.Called(ctx, userID, trilhaID)
	res, _ := args.Get(0).(*domain.TrackProgress)
	return res, args.Error(1)
}

func (m *MockProgressUsecase) LessonStatus(ctx context.Context, userID, lessonID string) (*domain.LessonStatus, error) {
	args := m.Called(ctx, userID, lessonID)
	res, _ := args.Get(0).(*domain.LessonStatus)
	return res, args.Error(1)
}

type MockInterviewUsecase struct{ mock.Mock }

func (m *MockInterviewUsecase) ListVagasTeste(ctx context.Context) ([]domain.VagaTeste, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.VagaTeste)
	return res, args.Error(1)
}

func (m *MockInterviewUsecase) ListUserCandidacies(ctx context.Context, requesterID, role, userID string) ([]domain.MockCandidacy, error) {
	args := m.Called(ctx, requesterID, role, userID)
	res, _ := args.Get(0).([]domain.MockCandidacy)
	return res, args.Error(1)
}

func (m *MockInterviewUsecase) Apply(ctx context.Context, userID string, req domain.CreateMockCandidacyRequest) (*domain.MockCandidacy, error) {
	args := m.Called(ctx, userID, req)
	res, _ := args.Get(0).(*domain.MockCandidacy)
	return res, args.Error(1)
}

func (m *MockInterviewUsecase) CheckCandidacy(ctx context.Context, userID string, candidaturaID int64) (*domain.MockCandidacyCheck, error) {
	args := m.Called(ctx, userID, candidaturaID)
	res, _ := args.Get(0).(*domain.MockCandidacyCheck)
	return res, args.Error(1)
}

func (m *MockInterviewUsecase) CancelCandidacy(ctx context.Context, userID string, candidaturaID int64) error {
	return m.Called(ctx, userID, candidaturaID).Error(0)
}

func (m *MockInterviewUsecase) CreateInterview(ctx context.Context, userID string, candidaturaID int64, candidateName string) (*domain.Interview, error) {
	args := m.Called(ctx, userID, candidaturaID, candidateName)
	res, _ := args.Get(0).(*domain.Interview)
	return res, args.Error(1)
}

func (m *MockInterviewUsecase) StartInterview(ctx context.Context, userID string, interviewID int64) (*domain.Interview, error) {
	args := m.Called(ctx, userID, interviewID)
	res, _ := args.Get(0).(*domain.Interview)
	return res, args.Error(1)
}

func (m *MockInterviewUsecase) UploadResponse(ctx context.Context, userID string, interviewID int64, up domain.VideoUpload) (*domain.UploadResult, error) {
	args := m.Called(ctx, userID, interviewID, up)
	res, _ := args.Get(0).(*domain.UploadResult)
	return res, args.Error(1)
}

func (m *MockInterviewUsecase) ResponseStatus(ctx context.Context, userID string, interviewID, responseID int64) (*domain.ResponseStatus, error) {
	args := m.Called(ctx, userID, interviewID, responseID)
	res, _ := args.Get(0).(*domain.ResponseStatus)
	return res, args.Error(1)
}

func (m *MockInterviewUsecase) CompleteInterview(ctx context.Context, userID string, interviewID int64) (*domain.Interview, error) {
	args := m.Called(ctx, userID, interviewID)
	res, _ := args.Get(0).(*domain.Interview)
	return res, args.Error(1)
}

func (m *MockInterviewUsecase) Report(ctx context.Context, userID string, interviewID int64) (*domain.InterviewReport, error) {
	args := m.Called(ctx, userID, interviewID)
	res, _ := args.Get(0).(*domain.InterviewReport)
	return res, args.Error(1)
}
