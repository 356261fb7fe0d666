package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"agroskills-platform/internal/domain"
)

// VideoAnswer is one recorded answer ready for upload.
type VideoAnswer struct {
	QuestionNumber int
	Video          []byte
	Filename       string
	ContentType    string
	FaceSamples    []domain.FaceSample
	Duration       int
}

func (c *Client) VagasTeste(ctx context.Context) Result[[]domain.VagaTeste] {
	return doJSON[[]domain.VagaTeste](ctx, c, http.MethodGet, "/api/mock-interviews/vagas-teste", nil, authRequired)
}

func (c *Client) MockCandidacies(ctx context.Context, userID string) Result[[]domain.MockCandidacy] {
	return doJSON[[]domain.MockCandidacy](ctx, c, http.MethodGet, "/api/mock-interviews/user/"+url.PathEscape(userID), nil, authRequired)
}

func (c *Client) ApplyMock(ctx context.Context, vagaTesteID int64, message string) Result[*domain.MockCandidacy] {
	return doJSON[*domain.MockCandidacy](ctx, c, http.MethodPost, "/api/mock-interviews/candidatura",
		domain.CreateMockCandidacyRequest{VagaTesteID: vagaTesteID, Mensagem: message}, authRequired)
}

func (c *Client) CheckMockCandidacy(ctx context.Context, candidaturaID int64) Result[*domain.MockCandidacyCheck] {
	return doJSON[*domain.MockCandidacyCheck](ctx, c, http.MethodGet,
		fmt.Sprintf("/api/mock-interviews/candidatura/%d/check", candidaturaID), nil, authRequired)
}

func (c *Client) CancelMockCandidacy(ctx context.Context, candidaturaID int64) Result[struct{}] {
	return doJSON[struct{}](ctx, c, http.MethodDelete,
		fmt.Sprintf("/api/mock-interviews/candidatura/%d", candidaturaID), nil, authRequired)
}

// CreateInterview creates the interview of a candidacy, or returns the one
// already in progress.
func (c *Client) CreateInterview(ctx context.Context, candidaturaID int64, candidateName string) Result[*domain.Interview] {
	body := map[string]string{"candidate_name": candidateName}
	return doJSON[*domain.Interview](ctx, c, http.MethodPost,
		fmt.Sprintf("/api/mock-interviews/candidatura/%d", candidaturaID), body, authRequired)
}

func (c *Client) StartInterview(ctx context.Context, interviewID int64) Result[*domain.Interview] {
	return doJSON[*domain.Interview](ctx, c, http.MethodPost,
		fmt.Sprintf("/api/mock-interviews/%d/start", interviewID), nil, authRequired)
}

// UploadResponse sends one answer as multipart form data. Empty videos and
// question numbers below one are refused before any request is made.
func (c *Client) UploadResponse(ctx context.Context, interviewID int64, a VideoAnswer) Result[*domain.UploadResult] {
	if len(a.Video) == 0 {
		return failed[*domain.UploadResult](ErrEmptyVideo)
	}
	if a.QuestionNumber < 1 {
		return failed[*domain.UploadResult](ErrInvalidQuestion)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	filename := a.Filename
	if filename == "" {
		filename = fmt.Sprintf("resposta_%d.webm", a.QuestionNumber)
	}
	contentType := a.ContentType
	if contentType == "" {
		contentType = "video/webm"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return failed[*domain.UploadResult](fmt.Errorf("create video part: %w", err))
	}
	if _, err := part.Write(a.Video); err != nil {
		return failed[*domain.UploadResult](fmt.Errorf("write video part: %w", err))
	}

	samples := a.FaceSamples
	if samples == nil {
		samples = []domain.FaceSample{}
	}
	faceJSON, err := json.Marshal(samples)
	if err != nil {
		return failed[*domain.UploadResult](fmt.Errorf("encode face samples: %w", err))
	}
	fields := map[string]string{
		"questionNumber":   strconv.Itoa(a.QuestionNumber),
		"faceAnalysisData": string(faceJSON),
	}
	if a.Duration > 0 {
		fields["duration"] = strconv.Itoa(a.Duration)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return failed[*domain.UploadResult](fmt.Errorf("write field %s: %w", k, err))
		}
	}
	if err := mw.Close(); err != nil {
		return failed[*domain.UploadResult](fmt.Errorf("close multipart: %w", err))
	}

	req, err := c.newRequest(ctx, http.MethodPost,
		fmt.Sprintf("/api/mock-interviews/%d/responses/upload-video", interviewID), &buf)
	if err != nil {
		return failed[*domain.UploadResult](err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	raw, err := c.send(req, authRequired)
	if err != nil {
		return failed[*domain.UploadResult](err)
	}
	return decodeData[*domain.UploadResult](raw)
}

func (c *Client) ResponseStatus(ctx context.Context, interviewID, responseID int64) Result[*domain.ResponseStatus] {
	return doJSON[*domain.ResponseStatus](ctx, c, http.MethodGet,
		fmt.Sprintf("/api/mock-interviews/%d/responses/%d/status", interviewID, responseID), nil, authRequired)
}

func (c *Client) CompleteInterview(ctx context.Context, interviewID int64) Result[*domain.Interview] {
	return doJSON[*domain.Interview](ctx, c, http.MethodPost,
		fmt.Sprintf("/api/mock-interviews/%d/complete", interviewID), nil, authRequired)
}

func (c *Client) Report(ctx context.Context, interviewID int64) Result[*domain.InterviewReport] {
	return doJSON[*domain.InterviewReport](ctx, c, http.MethodGet,
		fmt.Sprintf("/api/mock-interviews/%d/report", interviewID), nil, authRequired)
}
