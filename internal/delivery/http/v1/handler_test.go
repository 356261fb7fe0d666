package v1_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agroskills-platform/config"
	"agroskills-platform/internal/delivery/http/response"
	v1 "agroskills-platform/internal/delivery/http/v1"
	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/apperror"
	"agroskills-platform/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router    *gin.Engine
	tokens    *auth.TokenManager
	auth      *MockAuthUsecase
	jobs      *MockJobUsecase
	companies *MockCompanyUsecase
	progress  *MockProgressUsecase
	interview *MockInterviewUsecase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		tokens:    auth.NewTokenManager("handler-test-secret", time.Hour),
		auth:      new(MockAuthUsecase),
		jobs:      new(MockJobUsecase),
		companies: new(MockCompanyUsecase),
		progress:  new(MockProgressUsecase),
		interview: new(MockInterviewUsecase),
	}
	cfg := &config.Config{
		AppEnv:                   "test",
		FrontendURL:              "http://localhost:5173",
		RateLimitWindowSeconds:   60,
		RateLimitGlobalThreshold: 1000,
		RateLimitLoginThreshold:  1000,
		MaxVideoSizeMB:           1,
	}
	s.router = v1.NewRouter(v1.RouterDeps{
		AuthUC:          s.auth,
		JobUC:           s.jobs,
		CompanyUC:       s.companies,
		ProgressUC:      s.progress,
		MockInterviewUC: s.interview,
		Tokens:          s.tokens,
		Config:          cfg,
	})
	return s
}

func (s *testServer) token(t *testing.T, userID, role string) string {
	t.Helper()
	pair, err := s.tokens.Issue(userID, userID+"@example.com", role)
	require.NoError(t, err)
	return pair.AccessToken
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) response.Response {
	t.Helper()
	var raw struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Response
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("Should answer 401 with the invalid credentials message", func(t *testing.T) {
		s.auth.On("Login", mock.Anything, domain.LoginRequest{Email: "ana@example.com", Password: "wrong"}, mock.AnythingOfType("domain.LoginMeta")).
			Return(nil, apperror.Unauthorized(domain.MsgInvalidCredentials)).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		w := s.do(req, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeEnvelope(t, w, nil)
		assert.False(t, body.Success)
		assert.Equal(t, domain.MsgInvalidCredentials, body.Message)
	})

	t.Run("Should reject malformed JSON without calling the usecase", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":`))
		w := s.do(req, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	s.auth.AssertExpectations(t)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListJobs(t *testing.T) {
	s := newTestServer(t)

	s.jobs.On("ListJobs", mock.Anything, mock.MatchedBy(func(f domain.JobFilter) bool {
		return f.Page == 2 && f.Limit == 15 && f.Modalidade == "remoto" && f.EmpresaID == 7 && f.OnlyActive
	})).Return([]domain.Job{{ID: 16, Nome: "Agrônomo"}}, int64(31), nil).Once()

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/recruitment/jobs?page=2&limit=15&modalidade=remoto&empresa_id=7", nil), "")

	require.Equal(t, http.StatusOK, w.Code)
	var page domain.Page[domain.Job]
	decodeEnvelope(t, w, &page)
	assert.Equal(t, int64(31), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Agrônomo", page.Data[0].Nome)
	s.jobs.AssertExpectations(t)
}

func TestGetJob_InvalidID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/recruitment/jobs/abc", nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.jobs.AssertNotCalled(t, "GetJobDetails", mock.Anything, mock.Anything)
}

func TestExportCompanies(t *testing.T) {
	s := newTestServer(t)
	s.companies.On("ExportXLSX", mock.Anything, domain.RoleAdmin, mock.MatchedBy(func(f domain.CompanyFilter) bool {
		return f.Search == "agro" && f.Active != nil && *f.Active
	})).Return([]byte("PK\x03\x04"), nil).Once()

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/companies/export?search=agro&active=true", nil), s.token(t, "admin-1", domain.RoleAdmin))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "empresas-")
	assert.Equal(t, "PK\x03\x04", w.Body.String())
}

func TestTrackProgress_Ownership(t *testing.T) {
	s := newTestServer(t)

	t.Run("Should forbid reading another user's progress", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/progress/trilha/t1/user/user-2", nil), s.token(t, "user-1", domain.RoleCandidate))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Should let admins read any user", func(t *testing.T) {
		s.progress.On("TrackProgress", mock.Anything, "user-2", "t1").
			Return(&domain.TrackProgress{CompletedLessons: []string{"l1"}, Progress: 33}, nil).Once()

		w := s.do(httptest.NewRequest(http.MethodGet, "/api/progress/trilha/t1/user/user-2", nil), s.token(t, "admin-1", domain.RoleAdmin))

		require.Equal(t, http.StatusOK, w.Code)
		var progress domain.TrackProgress
		decodeEnvelope(t, w, &progress)
		assert.Equal(t, 33, progress.Progress)
	})
}

func multipartUpload(t *testing.T, fields map[string]string, video []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if video != nil {
		part, err := mw.CreateFormFile("video", "interview_9_q2.webm")
		require.NoError(t, err)
		_, err = part.Write(video)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadVideo(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "user-1", domain.RoleCandidate)
	video := []byte{0x1A, 0x45, 0xDF, 0xA3, 0x01, 0x02}

	t.Run("Should pass the parsed form to the usecase", func(t *testing.T) {
		s.interview.On("UploadResponse", mock.Anything, "user-1", int64(9), mock.MatchedBy(func(up domain.VideoUpload) bool {
			return up.QuestionNumber == 2 &&
				up.DurationSeconds == 35 &&
				bytes.Equal(up.Data, video) &&
				up.Filename == "interview_9_q2.webm" &&
				len(up.FaceSamples) == 2 &&
				up.FaceSamples[1].Expression == "happy"
		})).Return(&domain.UploadResult{
			ResponseID:       41,
			VideoURL:         "/uploads/interviews/9/q2.webm",
			ProcessingStatus: domain.ProcessingPending,
			FaceDataPoints:   2,
		}, nil).Once()

		body, contentType := multipartUpload(t, map[string]string{
			"questionNumber":   "2",
			"duration":         "35",
			"faceAnalysisData": `[{"timestamp":1,"expression":"neutral","confidence":0.9},{"timestamp":2,"expression":"happy","confidence":0.8}]`,
		}, video)
		req := httptest.NewRequest(http.MethodPost, "/api/mock-interviews/9/responses/upload-video", body)
		req.Header.Set("Content-Type", contentType)
		w := s.do(req, token)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var result domain.UploadResult
		decodeEnvelope(t, w, &result)
		assert.Equal(t, int64(41), result.ResponseID)
		assert.Equal(t, 2, result.FaceDataPoints)
	})

	t.Run("Should reject a non-numeric question number", func(t *testing.T) {
		body, contentType := multipartUpload(t, map[string]string{"questionNumber": "two"}, video)
		req := httptest.NewRequest(http.MethodPost, "/api/mock-interviews/9/responses/upload-video", body)
		req.Header.Set("Content-Type", contentType)

		assert.Equal(t, http.StatusBadRequest, s.do(req, token).Code)
	})

	t.Run("Should reject malformed face data", func(t *testing.T) {
		body, contentType := multipartUpload(t, map[string]string{"questionNumber": "1", "faceAnalysisData": "{"}, video)
		req := httptest.NewRequest(http.MethodPost, "/api/mock-interviews/9/responses/upload-video", body)
		req.Header.Set("Content-Type", contentType)

		assert.Equal(t, http.StatusBadRequest, s.do(req, token).Code)
	})

	t.Run("Should require the video part", func(t *testing.T) {
		body, contentType := multipartUpload(t, map[string]string{"questionNumber": "1"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/mock-interviews/9/responses/upload-video", body)
		req.Header.Set("Content-Type", contentType)

		assert.Equal(t, http.StatusBadRequest, s.do(req, token).Code)
	})

	t.Run("Should answer 413 when the body exceeds the limit", func(t *testing.T) {
		big := make([]byte, 3<<20)
		copy(big, video)
		body, contentType := multipartUpload(t, map[string]string{"questionNumber": "1"}, big)
		req := httptest.NewRequest(http.MethodPost, "/api/mock-interviews/9/responses/upload-video", body)
		req.Header.Set("Content-Type", contentType)

		assert.Equal(t, http.StatusRequestEntityTooLarge, s.do(req, token).Code)
	})

	s.interview.AssertExpectations(t)
}

func TestCreateInterview_RejectsForeignUser(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/mock-interviews/candidatura/3", strings.NewReader(`{"candidate_name":"Ana","user_id":"someone-else"}`))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req, s.token(t, "user-1", domain.RoleCandidate))

	assert.Equal(t, http.StatusForbidden, w.Code)
	s.interview.AssertNotCalled(t, "CreateInterview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/health", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
}
