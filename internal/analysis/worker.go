package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agroskills-platform/internal/domain"
	"agroskills-platform/pkg/logger"
	"agroskills-platform/pkg/storage"

	"golang.org/x/sync/errgroup"
)

var ErrQueueFull = errors.New("analysis: queue is full")

// PoolConfig configures the background analysis workers.
type PoolConfig struct {
	Repo      domain.MockInterviewRepository
	Store     storage.Store
	Analyzer  Analyzer
	Fallback  Analyzer // used when Analyzer fails; optional
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Pool runs queued answer analyses on a fixed number of workers.
type Pool struct {
	repo     domain.MockInterviewRepository
	store    storage.Store
	analyzer Analyzer
	fallback Analyzer
	workers  int
	timeout  time.Duration
	jobs     chan domain.AnalysisJob
	now      func() time.Time
}

func NewPool(cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Minute
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = HeuristicAnalyzer{}
	}
	return &Pool{
		repo:     cfg.Repo,
		store:    cfg.Store,
		analyzer: cfg.Analyzer,
		fallback: cfg.Fallback,
		workers:  cfg.Workers,
		timeout:  cfg.Timeout,
		jobs:     make(chan domain.AnalysisJob, cfg.QueueSize),
		now:      time.Now,
	}
}

// Enqueue never blocks; a full queue is reported to the caller.
func (p *Pool) Enqueue(job domain.AnalysisJob) error {
	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run processes jobs until ctx is cancelled. Jobs already picked up are
// allowed to finish.
func (p *Pool) Run(ctx context.Context) error {
	var g errgroup.Group
	for i := 0; i < p.workers; i++ {
		worker := i
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case job := <-p.jobs:
					jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
					if err := p.Process(jobCtx, job); err != nil {
						logger.Log.Error("answer analysis failed",
							"worker", worker, "response_id", job.ResponseID, "interview_id", job.InterviewID, "error", err)
					}
					cancel()
				}
			}
		})
	}
	return g.Wait()
}

// Process analyses one answer and records the outcome on the response row.
func (p *Pool) Process(ctx context.Context, job domain.AnalysisJob) error {
	resp, err := p.repo.GetResponse(ctx, job.InterviewID, job.ResponseID)
	if err != nil {
		return fmt.Errorf("load response: %w", err)
	}

	resp.ProcessingStatus = domain.ProcessingProcessing
	resp.ErrorMessage = ""
	resp.UpdatedAt = p.now()
	if err := p.repo.UpdateResponseAnalysis(ctx, resp); err != nil {
		if errors.Is(err, domain.ErrSuperseded) {
			p.dropStale(resp)
			return nil
		}
		return fmt.Errorf("mark processing: %w", err)
	}

	result, err := p.analyze(ctx, resp)
	if err != nil {
		resp.ProcessingStatus = domain.ProcessingFailed
		resp.ErrorMessage = "não foi possível analisar a resposta"
		resp.UpdatedAt = p.now()
		if uerr := p.repo.UpdateResponseAnalysis(ctx, resp); uerr != nil {
			if errors.Is(uerr, domain.ErrSuperseded) {
				p.dropStale(resp)
				return nil
			}
			return errors.Join(err, fmt.Errorf("mark failed: %w", uerr))
		}
		return err
	}

	score := result.Score
	confidence := result.ConfidenceLevel
	resp.ProcessingStatus = domain.ProcessingCompleted
	resp.Transcription = result.Transcription
	resp.Score = &score
	resp.AIAnalysis = FormatFeedback(result)
	resp.EmotionDetected = result.EmotionDetected
	resp.ConfidenceLevel = &confidence
	resp.UpdatedAt = p.now()
	if err := p.repo.UpdateResponseAnalysis(ctx, resp); err != nil {
		if errors.Is(err, domain.ErrSuperseded) {
			p.dropStale(resp)
			return nil
		}
		return fmt.Errorf("save analysis: %w", err)
	}
	logger.Log.Info("answer analysed", "response_id", resp.ID, "score", score)
	return nil
}

// dropStale discards work for a video that has since been re-recorded; the
// new upload carries its own job.
func (p *Pool) dropStale(resp *domain.InterviewResponse) {
	logger.Log.Info("answer re-recorded, dropping stale analysis",
		"response_id", resp.ID, "video_key", resp.VideoKey)
}

func (p *Pool) analyze(ctx context.Context, resp *domain.InterviewResponse) (*domain.AnalysisResult, error) {
	in := domain.AnalysisInput{
		Question: domain.Question{
			Number: resp.QuestionNumber,
			Text:   resp.QuestionText,
			Type:   resp.QuestionType,
		},
		ContentType:     resp.ContentType,
		FaceSamples:     resp.FaceAnalysis,
		DurationSeconds: resp.DurationSeconds,
	}
	if iv, err := p.repo.GetInterview(ctx, resp.InterviewID); err == nil {
		if c, err := p.repo.GetCandidacy(ctx, iv.CandidaturaID); err == nil {
			in.Vaga = c.VagaTeste
		}
	}

	video, err := p.store.Get(ctx, resp.VideoKey)
	if err != nil {
		return p.useFallback(ctx, in, fmt.Errorf("open video: %w", err))
	}
	defer video.Close()
	in.Video = video

	result, err := p.analyzer.Analyze(ctx, in)
	if err != nil {
		return p.useFallback(ctx, in, err)
	}
	return result, nil
}

func (p *Pool) useFallback(ctx context.Context, in domain.AnalysisInput, cause error) (*domain.AnalysisResult, error) {
	if p.fallback == nil {
		return nil, cause
	}
	logger.Log.Warn("primary analyzer failed, using fallback", "error", cause)
	in.Video = nil
	return p.fallback.Analyze(ctx, in)
}
