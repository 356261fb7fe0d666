package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/client"
	"agroskills-platform/pkg/clock"
)

const (
	DefaultMaxDuration = domain.MaxAnswerDuration
	DefaultTimeslice   = time.Second
)

var (
	ErrCameraDenied       = errors.New("recorder: camera unavailable")
	ErrSkipNotConfirmed   = errors.New("recorder: question has no uploaded answer; confirm to skip")
	ErrLastQuestion       = errors.New("recorder: already on the last question")
	ErrQuestionsRemaining = errors.New("recorder: questions remaining")
	ErrNoQuestions        = errors.New("recorder: interview has no questions")
)

// API is the slice of the client the session talks to.
type API interface {
	StatusAPI
	UploadResponse(ctx context.Context, interviewID int64, a client.VideoAnswer) client.Result[*domain.UploadResult]
	CompleteInterview(ctx context.Context, interviewID int64) client.Result[*domain.Interview]
	Report(ctx context.Context, interviewID int64) client.Result[*domain.InterviewReport]
}

// FaceSource provides face samples gathered while a segment was recorded.
type FaceSource interface {
	Since(t time.Time) []domain.FaceSample
}

type Config struct {
	InterviewID int64
	Questions   []domain.Question
	MaxDuration time.Duration
	Timeslice   time.Duration
	Poll        PollConfig
}

// Answer is what the session knows locally about one question.
type Answer struct {
	QuestionNumber int
	QuestionText   string
	ResponseID     int64
	Uploaded       bool
	Skipped        bool
	UploadError    error
	Duration       time.Duration
	AutoStopped    bool
	Size           int
	FaceSamples    int
	Outcome        Outcome
	Analysis       *domain.ResponseStatus
}

type Session struct {
	api     API
	devices Devices
	cfg     Config
	clock   clock.Clock
	log     *slog.Logger
	faces   FaceSource
	poller  *Poller
	machine *Machine

	ctx    context.Context
	cancel context.CancelFunc
	polls  sync.WaitGroup

	mu       sync.Mutex
	stream   Stream
	current  int
	answers  []Answer
	rec      *activeRecording
	report   *FinalReport
	closed   bool
	notifier Notifier
}

type activeRecording struct {
	media    MediaRecorder
	started  time.Time
	chunks   [][]byte
	ticker   clock.Ticker
	maxTimer clock.Timer
	quit     chan struct{}
	done     chan struct{}
	auto     bool
}

type Option func(*Session)

func WithClock(c clock.Clock) Option { return func(s *Session) { s.clock = c } }

func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.log = l } }

func WithFaceSource(f FaceSource) Option { return func(s *Session) { s.faces = f } }

// WithNotifier enables push based completion of answer analysis.
func WithNotifier(n Notifier) Option { return func(s *Session) { s.notifier = n } }

// WithObserver is told about every state change. It may run while the
// session holds its lock, so it must not call back into the session.
func WithObserver(fn func(from, to State, ev Event)) Option {
	return func(s *Session) { s.machine = NewMachine(fn) }
}

func New(api API, devices Devices, cfg Config, opts ...Option) (*Session, error) {
	if len(cfg.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = DefaultMaxDuration
	}
	if cfg.Timeslice <= 0 {
		cfg.Timeslice = DefaultTimeslice
	}
	s := &Session{
		api:     api,
		devices: devices,
		cfg:     cfg,
		clock:   clock.Real{},
		log:     slog.Default(),
		machine: NewMachine(nil),
		answers: make([]Answer, len(cfg.Questions)),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i, q := range cfg.Questions {
		n := q.Number
		if n == 0 {
			n = i + 1
		}
		s.answers[i] = Answer{QuestionNumber: n, QuestionText: q.Text}
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.poller = NewPoller(api, s.clock, cfg.Poll, s.notifier, s.log)
	return s, nil
}

func (s *Session) State() State { return s.machine.State() }

// Question returns the current question and its 0-based index.
func (s *Session) Question() (domain.Question, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Questions[s.current], s.current
}

func (s *Session) Answers() []Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Answer(nil), s.answers...)
}

// RequestCamera acquires the camera. From camera-denied it is the retry.
// Denial leaves the session in camera-denied and returns ErrCameraDenied.
func (s *Session) RequestCamera(ctx context.Context) error {
	ev := EventRequestCamera
	if s.machine.State() == StateCameraDenied {
		ev = EventRetry
	}
	if _, err := s.machine.Fire(ev); err != nil {
		return err
	}

	stream, err := s.devices.Open(ctx)
	if err != nil {
		s.log.Warn("camera acquisition failed", "interview_id", s.cfg.InterviewID, "error", err)
		if _, ferr := s.machine.Fire(EventCameraDenied); ferr != nil {
			return ferr
		}
		return fmt.Errorf("%w: %w", ErrCameraDenied, err)
	}

	s.mu.Lock()
	s.stream = stream
	s.mu.Unlock()
	_, err = s.machine.Fire(EventCameraGranted)
	return err
}

// StartRecording begins capturing the current question. Data is flushed
// every timeslice and the recording stops by itself at MaxDuration.
func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.machine.Can(EventStartRecording) {
		return &TransitionError{From: s.machine.State(), Event: EventStartRecording}
	}

	media, err := s.stream.NewRecorder()
	if err != nil {
		return fmt.Errorf("create recorder: %w", err)
	}
	if err := media.Start(); err != nil {
		return fmt.Errorf("start recorder: %w", err)
	}
	if _, err := s.machine.Fire(EventStartRecording); err != nil {
		_, _ = media.Stop()
		return err
	}

	rec := &activeRecording{
		media:   media,
		started: s.clock.Now(),
		ticker:  s.clock.NewTicker(s.cfg.Timeslice),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.collect(rec)
	rec.maxTimer = s.clock.AfterFunc(s.cfg.MaxDuration, func() { s.autoStop(rec) })
	s.rec = rec
	return nil
}

func (s *Session) collect(rec *activeRecording) {
	defer close(rec.done)
	for {
		select {
		case <-rec.quit:
			return
		case <-rec.ticker.C():
			chunk, err := rec.media.Flush()
			if err != nil {
				s.log.Debug("recorder flush failed", "error", err)
				continue
			}
			if len(chunk) > 0 {
				s.mu.Lock()
				rec.chunks = append(rec.chunks, chunk)
				s.mu.Unlock()
			}
		}
	}
}

func (s *Session) autoStop(rec *activeRecording) {
	s.mu.Lock()
	if s.rec != rec {
		s.mu.Unlock()
		return
	}
	rec.auto = true
	s.mu.Unlock()

	s.log.Info("recording reached the maximum duration", "interview_id", s.cfg.InterviewID, "max", s.cfg.MaxDuration)
	if _, err := s.StopRecording(s.ctx); err != nil {
		s.log.Warn("automatic stop failed", "error", err)
	}
}

// finishRecording stops capture and returns the assembled segment.
func (s *Session) finishRecording() (*activeRecording, []byte, time.Duration, error) {
	s.mu.Lock()
	rec := s.rec
	if rec == nil || s.machine.State() != StateRecording {
		state := s.machine.State()
		s.mu.Unlock()
		return nil, nil, 0, &TransitionError{From: state, Event: EventStopRecording}
	}
	s.rec = nil
	s.mu.Unlock()

	rec.maxTimer.Stop()
	rec.ticker.Stop()
	close(rec.quit)
	<-rec.done

	tail, err := rec.media.Stop()
	if err != nil {
		s.log.Warn("recorder stop failed", "error", err)
	}
	if _, ferr := s.machine.Fire(EventStopRecording); ferr != nil {
		return nil, nil, 0, ferr
	}

	s.mu.Lock()
	chunks := rec.chunks
	s.mu.Unlock()
	if len(tail) > 0 {
		chunks = append(chunks, tail)
	}

	elapsed := s.clock.Now().Sub(rec.started)
	if elapsed > s.cfg.MaxDuration {
		elapsed = s.cfg.MaxDuration
	}
	return rec, bytes.Join(chunks, nil), elapsed, nil
}

// StopRecording stops the current segment and uploads it with the face
// samples taken during it. On success the analysis is polled in the
// background. Upload failures are returned and recorded on the answer; the
// session goes back to camera-ready so the question can be re-recorded or
// skipped.
func (s *Session) StopRecording(ctx context.Context) (*Answer, error) {
	rec, video, elapsed, err := s.finishRecording()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	idx := s.current
	answer := s.answers[idx]
	s.mu.Unlock()

	var samples []domain.FaceSample
	if s.faces != nil {
		samples = s.faces.Since(rec.started)
	}
	answer.Duration = elapsed
	answer.AutoStopped = rec.auto
	answer.Size = len(video)
	answer.FaceSamples = len(samples)
	answer.Skipped = false

	var up *domain.UploadResult
	if len(video) == 0 {
		err = client.ErrEmptyVideo
	} else {
		up, err = s.api.UploadResponse(ctx, s.cfg.InterviewID, client.VideoAnswer{
			QuestionNumber: answer.QuestionNumber,
			Video:          video,
			ContentType:    rec.media.MimeType(),
			FaceSamples:    samples,
			Duration:       int(elapsed.Round(time.Second) / time.Second),
		}).Unwrap()
		if err == nil && up == nil {
			err = errors.New("recorder: upload returned no response")
		}
	}

	if err != nil {
		answer.Uploaded = false
		answer.UploadError = err
		answer.ResponseID = 0
		answer.Outcome = ""
		answer.Analysis = nil
		s.storeAnswer(idx, answer)
		if _, ferr := s.machine.Fire(EventUploadFailed); ferr != nil {
			return &answer, ferr
		}
		s.log.Warn("answer upload failed", "interview_id", s.cfg.InterviewID, "question", answer.QuestionNumber, "error", err)
		return &answer, err
	}

	answer.Uploaded = true
	answer.UploadError = nil
	answer.ResponseID = up.ResponseID
	answer.Outcome = OutcomePending
	answer.Analysis = &domain.ResponseStatus{QuestionNumber: answer.QuestionNumber, Status: up.ProcessingStatus}
	s.storeAnswer(idx, answer)
	if _, err := s.machine.Fire(EventUploadSucceeded); err != nil {
		return &answer, err
	}
	s.startPolling(idx, up.ResponseID)
	return &answer, nil
}

func (s *Session) storeAnswer(idx int, a Answer) {
	s.mu.Lock()
	s.answers[idx] = a
	s.mu.Unlock()
}

func (s *Session) startPolling(idx int, responseID int64) {
	s.polls.Add(1)
	go func() {
		defer s.polls.Done()
		res := s.poller.Wait(s.ctx, s.cfg.InterviewID, responseID)
		s.mu.Lock()
		defer s.mu.Unlock()
		// a re-recorded answer has a newer response id
		if s.answers[idx].ResponseID != responseID {
			return
		}
		s.answers[idx].Outcome = res.Outcome
		if res.Status != nil {
			st := *res.Status
			if st.QuestionNumber == 0 {
				st.QuestionNumber = s.answers[idx].QuestionNumber
			}
			s.answers[idx].Analysis = &st
		}
	}()
}

// WaitAnalyses blocks until every background poll has ended or ctx is done.
func (s *Session) WaitAnalyses(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.polls.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// confirmCurrent marks the current question as skipped when it has no
// uploaded answer, which requires confirmSkip.
func (s *Session) confirmCurrent(confirmSkip bool) error {
	if s.answers[s.current].Uploaded {
		return nil
	}
	if !confirmSkip {
		return ErrSkipNotConfirmed
	}
	s.answers[s.current].Skipped = true
	return nil
}

// Next moves to the following question.
func (s *Session) Next(confirmSkip bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.machine.Can(EventNextQuestion) {
		return &TransitionError{From: s.machine.State(), Event: EventNextQuestion}
	}
	if s.current >= len(s.cfg.Questions)-1 {
		return ErrLastQuestion
	}
	if err := s.confirmCurrent(confirmSkip); err != nil {
		return err
	}
	if _, err := s.machine.Fire(EventNextQuestion); err != nil {
		return err
	}
	s.current++
	return nil
}

// Finish closes the interview on the server from the last question, then
// loads the report. The camera is released once the interview is complete.
func (s *Session) Finish(ctx context.Context, confirmSkip bool) (*FinalReport, error) {
	s.mu.Lock()
	if !s.machine.Can(EventFinish) {
		state := s.machine.State()
		s.mu.Unlock()
		return nil, &TransitionError{From: state, Event: EventFinish}
	}
	if s.current < len(s.cfg.Questions)-1 {
		s.mu.Unlock()
		return nil, ErrQuestionsRemaining
	}
	if err := s.confirmCurrent(confirmSkip); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	if err := s.api.CompleteInterview(ctx, s.cfg.InterviewID).Error; err != nil {
		return nil, fmt.Errorf("complete interview: %w", err)
	}
	if _, err := s.machine.Fire(EventFinish); err != nil {
		return nil, err
	}
	s.releaseStream()
	return s.LoadReport(ctx)
}

// LoadReport fetches the consolidated report once the interview is
// complete. It can be called again after a failed fetch.
func (s *Session) LoadReport(ctx context.Context) (*FinalReport, error) {
	state := s.machine.State()
	if state == StateReportReady {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.report, nil
	}
	if state != StateCompleted {
		return nil, &TransitionError{From: state, Event: EventReportLoaded}
	}

	server, err := s.api.Report(ctx, s.cfg.InterviewID).Unwrap()
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	report := Merge(server, s.Answers())
	s.mu.Lock()
	s.report = report
	s.mu.Unlock()
	if _, err := s.machine.Fire(EventReportLoaded); err != nil {
		return nil, err
	}
	return report, nil
}

// PartialReport builds a report from local knowledge only, for when the
// server report cannot be fetched.
func (s *Session) PartialReport() *FinalReport {
	return Merge(nil, s.Answers())
}

// StopCamera releases the media stream and returns to idle.
func (s *Session) StopCamera() error {
	if _, err := s.machine.Fire(EventStopCamera); err != nil {
		return err
	}
	s.releaseStream()
	return nil
}

func (s *Session) releaseStream() {
	s.mu.Lock()
	stream := s.stream
	s.stream = nil
	s.mu.Unlock()
	if stream == nil {
		return
	}
	if err := stream.Close(); err != nil {
		s.log.Warn("failed to release media stream", "error", err)
	}
}

// Close discards any recording in progress, stops polling and releases the
// stream. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	rec := s.rec
	s.rec = nil
	s.mu.Unlock()

	if rec != nil {
		rec.maxTimer.Stop()
		rec.ticker.Stop()
		close(rec.quit)
		<-rec.done
		_, _ = rec.media.Stop()
	}
	s.cancel()
	s.polls.Wait()
	s.releaseStream()
	if st := s.machine.State(); st != StateCompleted && st != StateReportReady {
		s.machine.reset()
	}
	return nil
}
